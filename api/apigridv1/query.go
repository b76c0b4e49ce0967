package apigridv1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/gridview/service"
)

// query runs one pass of the grid pipeline over a dataset: filter, sort,
// optional grouping, page window.
func query(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	s := GetServicer(ctx)
	datasetName := box.GetUrlParameter(ctx, "datasetName")

	req := service.QueryRequest{}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil && err != io.EOF {
		box.GetResponse(ctx).WriteHeader(http.StatusBadRequest)
		return err
	}

	result, err := s.Query(datasetName, req)
	if err == service.ErrorDatasetNotFound {
		box.GetResponse(ctx).WriteHeader(http.StatusNotFound)
		return err
	}
	if err != nil {
		box.GetResponse(ctx).WriteHeader(http.StatusBadRequest)
		return err
	}

	return json.NewEncoder(w).Encode(result)
}

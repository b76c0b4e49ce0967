package apigridv1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/gridview/grid"
	"github.com/fulldump/gridview/service"
)

// export produces a downloadable artifact of the filtered set.
func export(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	s := GetServicer(ctx)
	datasetName := box.GetUrlParameter(ctx, "datasetName")

	req := service.ExportRequest{Format: grid.FormatCSV}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil && err != io.EOF {
		box.GetResponse(ctx).WriteHeader(http.StatusBadRequest)
		return err
	}

	buffer := &bytes.Buffer{}
	filename, err := s.Export(buffer, datasetName, req)
	if err == service.ErrorDatasetNotFound {
		box.GetResponse(ctx).WriteHeader(http.StatusNotFound)
		return err
	}
	if err != nil {
		box.GetResponse(ctx).WriteHeader(http.StatusBadRequest)
		return err
	}

	contentType := "text/csv"
	if req.Format == grid.FormatNDJSON {
		contentType = "application/x-ndjson"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	_, err = io.Copy(w, buffer)
	return err
}

package apigridv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/gridview/service"
)

func getDataset(ctx context.Context) (*service.DatasetInfo, error) {

	s := GetServicer(ctx)

	datasetName := box.GetUrlParameter(ctx, "datasetName")

	info, err := s.GetDataset(datasetName)
	if err == service.ErrorDatasetNotFound {
		box.GetResponse(ctx).WriteHeader(http.StatusNotFound)
		return nil, err
	}

	return info, err
}

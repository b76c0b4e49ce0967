package apigridv1

import (
	"context"

	"github.com/fulldump/gridview/service"
)

func listDatasets(ctx context.Context) ([]*service.DatasetInfo, error) {
	s := GetServicer(ctx)
	return s.ListDatasets(), nil
}

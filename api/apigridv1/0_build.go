package apigridv1

import (
	"github.com/fulldump/box"

	"github.com/fulldump/gridview/service"
)

func BuildV1Grid(v1 *box.R, s service.Servicer) *box.R {

	datasets := v1.Resource("/datasets").
		WithActions(
			box.Get(listDatasets),
		)

	v1.Resource("/datasets/{datasetName}").
		WithActions(
			box.Get(getDataset),
			box.ActionPost(query),
			box.ActionPost(export),
		)

	v1.Resource("/configs/{userId}/{gridId}").
		WithActions(
			box.Get(getConfig),
			box.Put(saveConfig),
			box.Delete(resetConfig),
		)

	return datasets
}

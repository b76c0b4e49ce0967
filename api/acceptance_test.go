package api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"

	"github.com/fulldump/gridview/colconf"
	"github.com/fulldump/gridview/dataset"
	"github.com/fulldump/gridview/service"
)

const peopleDataset = `{
	"columns": [
		{"key": "name", "label": "Name", "type": "text", "sortable": true, "filterable": true, "editable": true},
		{"key": "age", "label": "Age", "type": "number", "sortable": true, "filterable": true},
		{"key": "city", "label": "City", "type": "select", "filterable": true}
	],
	"rows": [
		{"name": "Alice", "age": 30, "city": "madrid"},
		{"name": "Bob", "age": 25, "city": "paris"},
		{"name": "Carol", "age": 35, "city": "madrid"},
		{"name": "Dave", "age": 28, "city": "berlin"},
		{"name": "Eve", "age": 32, "city": "paris"}
	]
}`

func TestAcceptance(t *testing.T) {

	biff.Alternative("Setup", func(a *biff.A) {

		dir := t.TempDir()
		err := os.WriteFile(filepath.Join(dir, "people.json"), []byte(peopleDataset), 0666)
		biff.AssertNil(err)

		datasets := dataset.NewStore(&dataset.Config{
			Dir: dir,
		})

		biff.AssertNil(datasets.Load())
		biff.AssertEqual(datasets.GetStatus(), dataset.StatusOperating)

		configs, err := colconf.OpenStore(filepath.Join(dir, "colconf.journal"))
		biff.AssertNil(err)
		defer configs.Close()

		s := service.NewService(datasets, configs)

		b := Build(s, "test")
		b.WithInterceptors(
			InterceptorUnavailable(datasets),
			RecoverFromPanic,
			PrettyErrorInterceptor,
		)

		api := apitest.NewWithHandler(b)

		service.Acceptance(a, func(method, path string) *apitest.Request {
			return api.Request(method, "/v1"+path)
		})

	})
}

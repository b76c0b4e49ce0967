package service

import (
	"net/http"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

// Acceptance traverses the public API surface. It expects a dataset called
// 'people' with columns name/age/city and five rows (Alice 30 madrid, Bob 25
// paris, Carol 35 madrid, Dave 28 berlin, Eve 32 paris).
func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("List datasets", func(a *biff.A) {
		resp := apiRequest("GET", "/datasets").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(resp.BodyJson(), []JSON{
			{"name": "people", "total": 5, "columns": 3},
		})
	})

	a.Alternative("Retrieve dataset", func(a *biff.A) {
		resp := apiRequest("GET", "/datasets/people").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(resp.BodyJson(), JSON{
			"name": "people", "total": 5, "columns": 3,
		})
	})

	a.Alternative("Retrieve dataset - not found", func(a *biff.A) {
		resp := apiRequest("GET", "/datasets/nope").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
	})

	a.Alternative("Query first page", func(a *biff.A) {
		resp := apiRequest("POST", "/datasets/people:query").
			WithBodyJson(JSON{
				"pageSize": 2,
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		body := resp.BodyJsonMap()
		biff.AssertEqualJson(body["total"], 5)
		biff.AssertEqualJson(body["from"], 0)
		biff.AssertEqual(len(body["rows"].([]interface{})), 2)
	})

	a.Alternative("Query second page", func(a *biff.A) {
		resp := apiRequest("POST", "/datasets/people:query").
			WithBodyJson(JSON{
				"page":     2,
				"pageSize": 2,
			}).Do()

		body := resp.BodyJsonMap()
		biff.AssertEqualJson(body["from"], 2)
		rows := body["rows"].([]interface{})
		biff.AssertEqualJson(rows[0].(map[string]interface{})["name"], "Carol")
	})

	a.Alternative("Query filtered and sorted", func(a *biff.A) {
		resp := apiRequest("POST", "/datasets/people:query").
			WithBodyJson(JSON{
				"filters": JSON{
					"age": JSON{"operator": "greaterThan", "value": "29"},
				},
				"sort": []JSON{
					{"column": "age", "direction": "desc"},
				},
			}).Do()

		body := resp.BodyJsonMap()
		biff.AssertEqualJson(body["total"], 3)
		rows := body["rows"].([]interface{})
		biff.AssertEqualJson(rows[0].(map[string]interface{})["name"], "Carol")
		biff.AssertEqualJson(rows[1].(map[string]interface{})["name"], "Eve")
		biff.AssertEqualJson(rows[2].(map[string]interface{})["name"], "Alice")
	})

	a.Alternative("Query grouped", func(a *biff.A) {
		resp := apiRequest("POST", "/datasets/people:query").
			WithBodyJson(JSON{
				"groupBy": "city",
			}).Do()

		body := resp.BodyJsonMap()
		biff.AssertEqualJson(body["groups"], []JSON{
			{"value": "berlin", "total": 1},
			{"value": "madrid", "total": 2},
			{"value": "paris", "total": 2},
		})
	})

	a.Alternative("Query unknown dataset", func(a *biff.A) {
		resp := apiRequest("POST", "/datasets/nope:query").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
	})

	a.Alternative("Export csv", func(a *biff.A) {
		resp := apiRequest("POST", "/datasets/people:export").
			WithBodyJson(JSON{
				"format":  "csv",
				"columns": []string{"name"},
				"query": JSON{
					"filters": JSON{
						"age": JSON{"operator": "greaterThan", "value": "29"},
					},
					"sort": []JSON{
						{"column": "age", "direction": "desc"},
					},
				},
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqual(resp.Header.Get("Content-Type"), "text/csv")
		biff.AssertEqual(resp.Header.Get("Content-Disposition"), `attachment; filename="people.csv"`)
		biff.AssertEqual(resp.BodyString(), "Name\nCarol\nEve\nAlice\n")
	})

	a.Alternative("Export ndjson", func(a *biff.A) {
		resp := apiRequest("POST", "/datasets/people:export").
			WithBodyJson(JSON{
				"format":   "ndjson",
				"columns":  []string{"name"},
				"filename": "who",
				"query": JSON{
					"contains": JSON{"city": "berlin"},
				},
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqual(resp.Header.Get("Content-Type"), "application/x-ndjson")
		biff.AssertEqual(resp.Header.Get("Content-Disposition"), `attachment; filename="who.ndjson"`)
		biff.AssertEqual(resp.BodyString(), "{\"name\":\"Dave\"}\n")
	})

	a.Alternative("Get config before saving", func(a *biff.A) {
		resp := apiRequest("GET", "/configs/alice/people").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		body := resp.BodyJsonMap()
		biff.AssertEqualJson(body["userId"], "alice")
		biff.AssertEqualJson(body["gridId"], "people")
		biff.AssertEqual(len(body["columns"].([]interface{})), 3)
	})

	a.Alternative("Save config", func(a *biff.A) {
		resp := apiRequest("PUT", "/configs/alice/people").
			WithBodyJson(JSON{
				"columns": []JSON{
					{"key": "age", "visible": true, "order": 0},
					{"key": "name", "visible": false, "order": 1},
				},
				"pageSize": 50,
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		body := resp.BodyJsonMap()
		biff.AssertEqualJson(body["userId"], "alice")
		biff.AssertEqualJson(body["pageSize"], 50)

		a.Alternative("Get saved config", func(a *biff.A) {
			resp := apiRequest("GET", "/configs/alice/people").Do()

			body := resp.BodyJsonMap()
			columns := body["columns"].([]interface{})
			biff.AssertEqual(len(columns), 2)
			biff.AssertEqualJson(columns[0].(map[string]interface{})["key"], "age")
		})

		a.Alternative("Reset config", func(a *biff.A) {
			resp := apiRequest("DELETE", "/configs/alice/people").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			body := resp.BodyJsonMap()
			biff.AssertEqual(len(body["columns"].([]interface{})), 3)

			a.Alternative("Get config after reset", func(a *biff.A) {
				resp := apiRequest("GET", "/configs/alice/people").Do()

				body := resp.BodyJsonMap()
				biff.AssertEqual(len(body["columns"].([]interface{})), 3)
			})
		})
	})
}

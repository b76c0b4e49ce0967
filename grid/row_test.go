package grid

import (
	"testing"

	"github.com/fulldump/biff"
)

func Test_Row_JSONRoundTrip(t *testing.T) {

	row, err := RowFromJSON([]byte(`{"name": "Ana", "age": 30, "owner": {"name": "Bo"}}`))
	biff.AssertNil(err)
	biff.AssertEqual(row["name"], "Ana")

	payload, err := row.JSON()
	biff.AssertNil(err)
	biff.AssertEqual(RawCell(payload, "owner.name").String(), "Bo")
}

func Test_Row_CellDottedPath(t *testing.T) {

	row := Row{
		"name":  "ticket-1",
		"owner": map[string]any{"name": "Ana", "email": "ana@example.com"},
	}

	biff.AssertEqual(row.Cell("name"), "ticket-1")
	biff.AssertEqual(row.Cell("owner.name"), "Ana")
	biff.AssertNil(row.Cell("owner.missing"))
	biff.AssertNil(row.Cell("missing.deep"))
}

func Test_Row_SetCellDottedPath(t *testing.T) {

	row := Row{
		"name":  "ticket-1",
		"owner": map[string]any{"name": "Ana"},
	}

	biff.AssertNil(row.SetCell("owner.name", "Bo"))
	biff.AssertEqual(row.Cell("owner.name"), "Bo")
	biff.AssertEqual(row.Cell("name"), "ticket-1")

	// intermediate documents are created on demand
	biff.AssertNil(row.SetCell("assignee.name", "Cy"))
	biff.AssertEqual(row.Cell("assignee.name"), "Cy")

	biff.AssertNil(row.SetCell("name", "ticket-2"))
	biff.AssertEqual(row["name"], "ticket-2")
}

func Test_Row_CellString(t *testing.T) {

	biff.AssertEqual(CellString(nil), "")
	biff.AssertEqual(CellString("x"), "x")
	biff.AssertEqual(CellString(true), "true")
	biff.AssertEqual(CellString(25.0), "25")
	biff.AssertEqual(CellString(2.5), "2.5")
}

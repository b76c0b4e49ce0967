package grid

import (
	"testing"

	"github.com/fulldump/biff"
)

func names(rows []Row) []string {
	result := []string{}
	for _, row := range rows {
		result = append(result, CellString(row["name"]))
	}
	return result
}

func Test_Sort_ToggleDirection(t *testing.T) {

	rows := []Row{
		{"id": 1.0, "name": "B"},
		{"id": 2.0, "name": "A"},
	}

	state := &SortState{}
	state.Toggle("name")
	biff.AssertEqual(names(SortRows(rows, state.Keys())), []string{"A", "B"})

	state.Toggle("name")
	biff.AssertEqual(names(SortRows(rows, state.Keys())), []string{"B", "A"})
}

func Test_Sort_Stability(t *testing.T) {

	rows := []Row{
		{"group": "x", "name": "first"},
		{"group": "x", "name": "second"},
		{"group": "x", "name": "third"},
	}

	keys := []SortKey{{Column: "group", Direction: Ascending}}
	sorted := SortRows(rows, keys)
	biff.AssertEqual(names(sorted), []string{"first", "second", "third"})

	// sorting an already sorted collection again yields the same order
	biff.AssertEqual(names(SortRows(sorted, keys)), names(sorted))
}

func Test_Sort_NullsAfterDefinedAscending(t *testing.T) {

	rows := []Row{
		{"name": nil},
		{"name": "Z"},
		{"name": "A"},
	}

	asc := SortRows(rows, []SortKey{{Column: "name", Direction: Ascending}})
	biff.AssertEqual(names(asc), []string{"A", "Z", ""})

	desc := SortRows(rows, []SortKey{{Column: "name", Direction: Descending}})
	biff.AssertEqual(names(desc), []string{"", "Z", "A"})
}

func Test_Sort_NumbersAndDates(t *testing.T) {

	rows := []Row{
		{"n": 10.0, "d": "2024-02-01"},
		{"n": 2.0, "d": "2024-01-15"},
	}

	byNumber := SortRows(rows, []SortKey{{Column: "n", Direction: Ascending}})
	biff.AssertEqual(byNumber[0]["n"], 2.0)

	byDate := SortRows(rows, []SortKey{{Column: "d", Direction: Ascending}})
	biff.AssertEqual(byDate[0]["d"], "2024-01-15")
}

func Test_Sort_MultiKeyTieFallthrough(t *testing.T) {

	rows := []Row{
		{"group": "a", "name": "B"},
		{"group": "a", "name": "A"},
		{"group": "b", "name": "C"},
	}

	sorted := SortRows(rows, []SortKey{
		{Column: "group", Direction: Ascending},
		{Column: "name", Direction: Ascending},
	})
	biff.AssertEqual(names(sorted), []string{"A", "B", "C"})
}

func Test_SortState_UniqueColumns(t *testing.T) {

	state := &SortState{}
	state.Set(
		SortKey{Column: "a", Direction: Ascending},
		SortKey{Column: "a", Direction: Descending},
		SortKey{Column: "b", Direction: Descending},
	)

	keys := state.Keys()
	biff.AssertEqual(len(keys), 2)
	biff.AssertEqual(keys[0], SortKey{Column: "a", Direction: Ascending})
}

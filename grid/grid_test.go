package grid

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/fulldump/biff"
)

func testGrid(rows []Row, cb Callbacks, opts Options) *Grid {
	columns := []Column{
		{Key: "id", Label: "Id", Type: TypeNumber, Sortable: true},
		{Key: "name", Label: "Name", Type: TypeText, Sortable: true, Filterable: true, Editable: true},
		{Key: "status", Label: "Status", Type: TypeSelect, Filterable: true},
	}
	g := New(columns, cb, opts)
	g.SetRows(rows)
	return g
}

func makeRows(n int) []Row {
	rows := []Row{}
	for i := 0; i < n; i++ {
		status := "open"
		if i%2 == 0 {
			status = "closed"
		}
		rows = append(rows, Row{
			"id":     float64(i),
			"name":   fmt.Sprintf("row-%03d", i),
			"status": status,
		})
	}
	return rows
}

func Test_Grid_SortToggleEndToEnd(t *testing.T) {

	g := testGrid([]Row{
		{"id": 1.0, "name": "B"},
		{"id": 2.0, "name": "A"},
	}, Callbacks{}, Options{})

	g.ToggleSort("name")
	biff.AssertEqual(names(g.Rows()), []string{"A", "B"})

	g.ToggleSort("name")
	biff.AssertEqual(names(g.Rows()), []string{"B", "A"})
}

func Test_Grid_FilterChangeClearsSelection(t *testing.T) {

	g := testGrid(makeRows(10), Callbacks{}, Options{})

	g.SelectRow(3, true, false)
	biff.AssertEqual(g.Selection().Count(), 1)

	// membership changed: positional selection is no longer meaningful
	g.SetSearch("row-00")
	biff.AssertEqual(g.Selection().Count(), 0)
	biff.AssertEqual(g.Total(), 10) // row-000..row-009 all contain "row-00"

	g.SetSearch("row-003")
	biff.AssertEqual(g.Total(), 1)
}

func Test_Grid_SortKeepsSelection(t *testing.T) {

	g := testGrid(makeRows(10), Callbacks{}, Options{})

	g.SelectRow(3, true, false)
	g.ToggleSort("name")
	biff.AssertEqual(g.Selection().Count(), 1)
}

func Test_Grid_RefetchResetsSelectionAndPage(t *testing.T) {

	g := testGrid(makeRows(100), Callbacks{}, Options{PageSize: 10})

	g.SetPage(5)
	g.SelectAll(true)
	biff.AssertEqual(g.Selection().Count(), 10)

	g.SetRows(makeRows(50))
	biff.AssertEqual(g.Selection().Count(), 0)
	_, from := g.Window()
	biff.AssertEqual(from, 0)
}

func Test_Grid_InfiniteScrollRevealsEverything(t *testing.T) {

	g := testGrid(makeRows(250), Callbacks{}, Options{Mode: InfiniteMode, PageSize: 25})

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		rows, _ := g.Window()
		for _, row := range rows {
			seen[CellString(row["name"])] = true
		}
		if len(rows) == 250 {
			break
		}
		g.Extend()
	}

	biff.AssertEqual(len(seen), 250)
}

func Test_Grid_GroupingLifecycle(t *testing.T) {

	g := testGrid(makeRows(6), Callbacks{}, Options{})

	g.GroupBy("status")
	grouping := g.Grouping()
	biff.AssertNotNil(grouping)
	biff.AssertEqual(len(grouping.Groups()), 2)

	// collapse survives a refilter for groups that keep existing
	g.ToggleGroup("open")
	g.SetSearch("row")
	grouping = g.Grouping()
	biff.AssertEqual(grouping.Groups()[1].Value, "open")
	biff.AssertEqual(grouping.Groups()[1].Expanded, false)

	// clearing grouping restores flat windows
	g.ClearGrouping()
	biff.AssertNil(g.Grouping())
	entries := g.Flattened()
	biff.AssertEqual(entries[0].Header, false)
}

func Test_Grid_VirtualWindowCoversFlattenedEntries(t *testing.T) {

	g := testGrid(makeRows(6), Callbacks{}, Options{})

	// flat: the virtual window spans the page window
	window := g.VirtualWindow(0, 40)
	biff.AssertEqual(len(window.Rows), 6)

	// grouped: headers join the rendered surface
	g.GroupBy("status")
	window = g.VirtualWindow(0, 40)
	biff.AssertEqual(len(window.Rows), len(g.Flattened()))
	biff.AssertEqual(len(window.Rows), 8) // 2 headers + 6 rows

	// collapsing a group shrinks the surface the window is computed over
	g.ToggleGroup("open")
	window = g.VirtualWindow(0, 40)
	biff.AssertEqual(len(window.Rows), 5)
}

func Test_Grid_CommitEditNotifiesOnFailure(t *testing.T) {

	notifications := []string{}
	g := testGrid(makeRows(3), Callbacks{
		OnUpdate: func(row Row, column string, value any) error {
			return fmt.Errorf("boom")
		},
		Notify: func(level, message string) {
			notifications = append(notifications, level+": "+message)
		},
	}, Options{})

	g.StartEdit(1, "name")
	undo := g.CommitEdit("changed")
	biff.AssertNil(undo)
	biff.AssertEqual(len(notifications), 1)
	biff.AssertEqual(strings.Contains(notifications[0], "error"), true)

	// displayed value unchanged
	biff.AssertEqual(CellString(g.Rows()[1]["name"]), "row-001")
}

func Test_Grid_DeleteSelected(t *testing.T) {

	deleted := []Row{}
	g := testGrid(makeRows(10), Callbacks{
		OnBatchDelete: func(rows []Row) error {
			deleted = rows
			return nil
		},
	}, Options{})

	g.SelectRow(2, true, false)
	g.SelectRow(4, true, true) // shift range 2..4

	err := g.DeleteSelected()
	biff.AssertNil(err)
	biff.AssertEqual(len(deleted), 3)
	biff.AssertEqual(g.Total(), 7)
	biff.AssertEqual(g.Selection().Count(), 0)
}

func Test_Grid_ExportOnlyFilteredSet(t *testing.T) {

	g := testGrid(makeRows(10), Callbacks{}, Options{})
	g.SetContains("status", "open")

	buffer := &bytes.Buffer{}
	err := g.ExportTo(buffer, FormatCSV, []string{"name", "status"})
	biff.AssertNil(err)

	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	biff.AssertEqual(lines[0], "Name,Status")
	biff.AssertEqual(len(lines), 6) // header + 5 open rows
}

func Test_Grid_HideAndReorderColumns(t *testing.T) {

	hidden := ""
	g := testGrid(makeRows(3), Callbacks{
		OnHideColumn: func(column string) { hidden = column },
	}, Options{})

	g.HideColumn("status")
	biff.AssertEqual(hidden, "status")
	biff.AssertEqual(len(g.Columns()), 2)

	g.ReorderColumn(0, 1)
	biff.AssertEqual(g.Columns()[0].Key, "name")
	biff.AssertEqual(g.Columns()[1].Key, "id")
}

func Test_Grid_CreateRowValidatesBeforeCall(t *testing.T) {

	created := 0
	columns := []Column{
		{Key: "name", Label: "Name", Type: TypeText, Required: true},
		{Key: "amount", Label: "Amount", Type: TypeNumber},
	}
	g := New(columns, Callbacks{
		OnCreate: func(row Row) error {
			created++
			return nil
		},
	}, Options{})
	g.SetRows([]Row{})

	err := g.CreateRow()
	biff.AssertNotNil(err)
	biff.AssertEqual(created, 0)

	g.Editor().SetField("name", "hello")
	err = g.CreateRow()
	biff.AssertNil(err)
	biff.AssertEqual(created, 1)
	biff.AssertEqual(g.Total(), 1)
}

package colconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fulldump/biff"

	"github.com/fulldump/gridview/grid"
)

func baseColumns() []grid.Column {
	return []grid.Column{
		{Key: "name", Label: "Name", Type: grid.TypeText},
		{Key: "email", Label: "Email", Type: grid.TypeEmail},
		{Key: "age", Label: "Age", Type: grid.TypeNumber, Width: 8},
	}
}

func Test_Store_SaveLoadAcrossReopen(t *testing.T) {

	filename := filepath.Join(t.TempDir(), "colconf.journal")

	store, err := OpenStore(filename)
	biff.AssertNil(err)

	err = store.Save(&Config{
		UserID: "alice",
		GridID: "people",
		Columns: []ColumnSetting{
			{Key: "email", Visible: true, Order: 0},
			{Key: "name", Visible: false, Order: 1},
		},
		PageSize: 50,
	})
	biff.AssertNil(err)
	biff.AssertNil(store.Close())

	store, err = OpenStore(filename)
	biff.AssertNil(err)
	defer store.Close()

	config := store.Load("alice", "people")
	biff.AssertNotNil(config)
	biff.AssertEqual(config.PageSize, 50)
	biff.AssertEqual(config.Columns[0].Key, "email")
	biff.AssertEqual(config.Columns[1].Visible, false)
}

func Test_Store_LoadAbsentIsNil(t *testing.T) {

	filename := filepath.Join(t.TempDir(), "colconf.journal")

	store, err := OpenStore(filename)
	biff.AssertNil(err)
	defer store.Close()

	biff.AssertNil(store.Load("nobody", "nothing"))
}

func Test_Store_SaveRequiresIdentity(t *testing.T) {

	filename := filepath.Join(t.TempDir(), "colconf.journal")

	store, err := OpenStore(filename)
	biff.AssertNil(err)
	defer store.Close()

	err = store.Save(&Config{GridID: "people"})
	biff.AssertNotNil(err)
}

func Test_Store_ResetSurvivesReopen(t *testing.T) {

	filename := filepath.Join(t.TempDir(), "colconf.journal")

	store, err := OpenStore(filename)
	biff.AssertNil(err)

	err = store.Save(&Config{
		UserID:  "alice",
		GridID:  "people",
		Columns: []ColumnSetting{{Key: "name", Visible: false, Order: 0}},
	})
	biff.AssertNil(err)

	config, err := store.Reset("alice", "people", baseColumns())
	biff.AssertNil(err)
	biff.AssertEqual(len(config.Columns), 3)
	biff.AssertEqual(config.Columns[0].Visible, true)
	biff.AssertNil(store.Close())

	// the reset command must replay too, not just the save
	store, err = OpenStore(filename)
	biff.AssertNil(err)
	defer store.Close()
	biff.AssertNil(store.Load("alice", "people"))
}

func Test_Store_CorruptEntryIsSkipped(t *testing.T) {

	filename := filepath.Join(t.TempDir(), "colconf.journal")

	err := os.WriteFile(filename, []byte(
		`{"name":"save","payload":{"userId":"a","gridId":"g","columns":[]}}`+"\n"+
			`{"name":"save","payload":"not an object"}`+"\n",
	), 0666)
	biff.AssertNil(err)

	store, err := OpenStore(filename)
	biff.AssertNil(err)
	defer store.Close()

	biff.AssertNotNil(store.Load("a", "g"))
}

func Test_Store_TruncatedJournalFallsBack(t *testing.T) {

	filename := filepath.Join(t.TempDir(), "colconf.journal")

	// one good command followed by a line cut short by a crash
	err := os.WriteFile(filename, []byte(
		`{"name":"save","uuid":"a","timestamp":1,"payload":{"userId":"a","gridId":"g","columns":[]}}`+"\n"+
			`{"name":"save","uuid":"b","pay`,
	), 0666)
	biff.AssertNil(err)

	store, err := OpenStore(filename)
	biff.AssertNil(err)
	biff.AssertNotNil(store.Load("a", "g"))

	// the journal is usable again: appends after the cut survive a reopen
	err = store.Save(&Config{
		UserID:  "b",
		GridID:  "g",
		Columns: []ColumnSetting{{Key: "name", Visible: true, Order: 0}},
	})
	biff.AssertNil(err)
	biff.AssertNil(store.Close())

	store, err = OpenStore(filename)
	biff.AssertNil(err)
	defer store.Close()
	biff.AssertNotNil(store.Load("a", "g"))
	biff.AssertNotNil(store.Load("b", "g"))
}

func Test_Merge_DropsUnknownAndAppendsMissing(t *testing.T) {

	config := &Config{
		UserID: "alice",
		GridID: "people",
		Columns: []ColumnSetting{
			{Key: "legacy", Visible: true, Order: 0}, // column removed from schema
			{Key: "age", Visible: true, Order: 1},
			{Key: "name", Visible: false, Order: 2},
		},
	}

	settings := Merge(config, baseColumns())
	biff.AssertEqual(len(settings), 3)
	biff.AssertEqual(settings[0].Key, "age")
	biff.AssertEqual(settings[1].Key, "name")
	biff.AssertEqual(settings[1].Visible, false)

	// email was never configured: appended at the end, visible
	biff.AssertEqual(settings[2].Key, "email")
	biff.AssertEqual(settings[2].Visible, true)
	biff.AssertEqual(settings[2].Order, 2)
}

func Test_Merge_NilConfigIsDefault(t *testing.T) {

	settings := Merge(nil, baseColumns())
	biff.AssertEqual(len(settings), 3)
	biff.AssertEqual(settings[0].Key, "name")
	biff.AssertEqual(settings[0].Visible, true)
}

func Test_Apply_ProjectsVisibleColumnsWithWidths(t *testing.T) {

	config := &Config{
		UserID: "alice",
		GridID: "people",
		Columns: []ColumnSetting{
			{Key: "age", Visible: true, Order: 0, Width: 12},
			{Key: "name", Visible: false, Order: 1},
			{Key: "email", Visible: true, Order: 2},
		},
	}

	columns := Apply(config, baseColumns())
	biff.AssertEqual(len(columns), 2)
	biff.AssertEqual(columns[0].Key, "age")
	biff.AssertEqual(columns[0].Width, 12)
	biff.AssertEqual(columns[1].Key, "email")
}

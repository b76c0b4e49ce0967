package grid

import (
	"testing"

	"github.com/fulldump/biff"
)

var filterColumns = []Column{
	{Key: "name", Label: "Name", Type: TypeText, Filterable: true},
	{Key: "age", Label: "Age", Type: TypeNumber, Filterable: true},
	{Key: "email", Label: "Email", Type: TypeEmail, Filterable: true},
}

var filterRows = []Row{
	{"name": "B", "age": 30.0, "email": "b@example.com"},
	{"name": "A", "age": 25.0, "email": "a@example.com"},
}

func Test_Filter_FreeTextSearch(t *testing.T) {

	f := NewFilterState()
	f.SetSearch("zz")

	out, err := f.Apply(filterRows, filterColumns)
	biff.AssertNil(err)
	biff.AssertEqual(len(out), 0)

	// clearing the query restores both rows in input order
	f.SetSearch("")
	out, err = f.Apply(filterRows, filterColumns)
	biff.AssertNil(err)
	biff.AssertEqual(names(out), []string{"B", "A"})
}

func Test_Filter_SearchAndColumnFilterAreAnd(t *testing.T) {

	f := NewFilterState()
	f.SetCondition("name", Condition{Value: "A", Operator: OpEquals})
	f.SetSearch("B")

	out, err := f.Apply(filterRows, filterColumns)
	biff.AssertNil(err)
	biff.AssertEqual(len(out), 0)
}

func Test_Filter_SubsetAndIdempotent(t *testing.T) {

	f := NewFilterState()
	f.SetContains("email", "example")

	once, err := f.Apply(filterRows, filterColumns)
	biff.AssertNil(err)
	biff.AssertEqual(len(once) <= len(filterRows), true)

	twice, err := f.Apply(once, filterColumns)
	biff.AssertNil(err)
	biff.AssertEqual(twice, once)
}

func Test_Filter_AdvancedSupersedesLegacy(t *testing.T) {

	f := NewFilterState()
	f.SetContains("name", "A")
	f.SetCondition("name", Condition{Value: "B", Operator: OpEquals})

	out, err := f.Apply(filterRows, filterColumns)
	biff.AssertNil(err)
	biff.AssertEqual(names(out), []string{"B"})

	// and setting legacy back clears the advanced one
	f.SetContains("name", "a")
	out, err = f.Apply(filterRows, filterColumns)
	biff.AssertNil(err)
	biff.AssertEqual(names(out), []string{"A"})
}

func Test_Filter_Operators(t *testing.T) {

	match := func(cell string, op Operator, value string) bool {
		return matchCondition(cell, Condition{Value: value, Operator: op})
	}

	biff.AssertEqual(match("hello world", OpContains, "WORLD"), true)
	biff.AssertEqual(match("hello", OpEquals, "HELLO"), true)
	biff.AssertEqual(match("hello", OpStartsWith, "he"), true)
	biff.AssertEqual(match("hello", OpEndsWith, "lo"), true)

	// numeric comparison wins over lexicographic when both sides parse
	biff.AssertEqual(match("9", OpGreater, "10"), false)
	biff.AssertEqual(match("11", OpGreater, "10"), true)

	// date comparison when not numeric
	biff.AssertEqual(match("2024-02-01", OpGreater, "2024-01-15"), true)
	biff.AssertEqual(match("2024-01-01", OpLess, "2024-01-15"), true)

	// lexicographic fallback
	biff.AssertEqual(match("b", OpGreater, "a"), true)

	biff.AssertEqual(match("", OpIsEmpty, ""), true)
	biff.AssertEqual(match("null", OpIsEmpty, ""), true)
	biff.AssertEqual(match("undefined", OpIsEmpty, ""), true)
	biff.AssertEqual(match("x", OpIsNotEmpty, ""), true)
	biff.AssertEqual(match("null", OpIsNotEmpty, ""), false)
}

func Test_Filter_ConnorQuery(t *testing.T) {

	f := NewFilterState()
	f.SetQuery(map[string]any{"age": map[string]any{"$gt": 26.0}})

	out, err := f.Apply(filterRows, filterColumns)
	biff.AssertNil(err)
	biff.AssertEqual(names(out), []string{"B"})
}

func Test_Filter_RelationColumns(t *testing.T) {

	columns := []Column{
		{Key: "name", Label: "Name", Type: TypeText, Filterable: true},
		{Key: "owner.name", Label: "Owner", Type: TypeText, Filterable: true, Sortable: true, Relation: "owner"},
	}
	rows := []Row{
		{"name": "t1", "owner": map[string]any{"name": "Zoe"}},
		{"name": "t2", "owner": map[string]any{"name": "Ana"}},
		{"name": "t3"},
	}

	f := NewFilterState()
	f.SetContains("owner.name", "ana")
	out, err := f.Apply(rows, columns)
	biff.AssertNil(err)
	biff.AssertEqual(names(out), []string{"t2"})

	// free-text search reaches through the relation too
	f.Clear()
	f.SetSearch("zoe")
	out, err = f.Apply(rows, columns)
	biff.AssertNil(err)
	biff.AssertEqual(names(out), []string{"t1"})

	// sorting and grouping resolve the same dotted path, nulls last
	sorted := SortRows(rows, []SortKey{{Column: "owner.name", Direction: Ascending}})
	biff.AssertEqual(names(sorted), []string{"t2", "t1", "t3"})

	grouping := GroupRows(rows, "owner.name")
	biff.AssertEqual(grouping.Groups()[0].Value, "")
	biff.AssertEqual(grouping.Groups()[1].Value, "Ana")
	biff.AssertEqual(grouping.Groups()[2].Value, "Zoe")
}

func Test_Filter_CustomSearchText(t *testing.T) {

	columns := []Column{
		{Key: "name", Label: "Name", Type: TypeText, SearchText: func(row Row) string {
			return "token-" + CellString(row["name"])
		}},
	}

	f := NewFilterState()
	f.SetSearch("token-a")

	out, err := f.Apply(filterRows, columns)
	biff.AssertNil(err)
	biff.AssertEqual(names(out), []string{"A"})
}

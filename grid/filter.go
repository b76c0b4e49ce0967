package grid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SierraSoftworks/connor"
)

type Operator string

const (
	OpContains   Operator = "contains"
	OpEquals     Operator = "equals"
	OpStartsWith Operator = "startsWith"
	OpEndsWith   Operator = "endsWith"
	OpGreater    Operator = "greaterThan"
	OpLess       Operator = "lessThan"
	OpIsEmpty    Operator = "isEmpty"
	OpIsNotEmpty Operator = "isNotEmpty"
)

// Condition is an advanced per-column filter.
type Condition struct {
	Value    string   `json:"value"`
	Operator Operator `json:"operator"`
}

// FilterState holds the free-text query, the legacy contains-filters, the
// advanced conditions and an optional connor query document. All active
// criteria combine as AND.
type FilterState struct {
	search   string
	contains map[string]string
	advanced map[string]Condition
	query    map[string]any
}

func NewFilterState() *FilterState {
	return &FilterState{
		contains: map[string]string{},
		advanced: map[string]Condition{},
	}
}

func (f *FilterState) SetSearch(query string) {
	f.search = strings.TrimSpace(query)
}

func (f *FilterState) Search() string {
	return f.search
}

// SetContains sets the legacy substring filter for a column, superseding any
// advanced condition on the same column. Empty text clears the filter.
func (f *FilterState) SetContains(column, text string) {
	delete(f.advanced, column)
	if text == "" {
		delete(f.contains, column)
		return
	}
	f.contains[column] = text
}

// SetCondition sets the advanced filter for a column, superseding the legacy
// contains filter on the same column.
func (f *FilterState) SetCondition(column string, cond Condition) {
	delete(f.contains, column)
	f.advanced[column] = cond
}

func (f *FilterState) ClearColumn(column string) {
	delete(f.contains, column)
	delete(f.advanced, column)
}

// SetQuery installs a connor match document applied to whole rows, for
// callers that outgrow the per-column conditions.
func (f *FilterState) SetQuery(expr map[string]any) {
	f.query = expr
}

func (f *FilterState) Clear() {
	f.search = ""
	f.contains = map[string]string{}
	f.advanced = map[string]Condition{}
	f.query = nil
}

func (f *FilterState) Active() bool {
	return f.search != "" || len(f.contains) > 0 || len(f.advanced) > 0 || len(f.query) > 0
}

// Apply returns the rows matching every active criterion, in input order,
// without mutating the input.
func (f *FilterState) Apply(rows []Row, columns []Column) ([]Row, error) {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		match, err := f.matches(row, columns)
		if err != nil {
			return nil, err
		}
		if match {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *FilterState) matches(row Row, columns []Column) (bool, error) {
	if f.search != "" && !matchSearch(row, columns, f.search) {
		return false, nil
	}
	for column, text := range f.contains {
		cell := CellString(row.Cell(column))
		if !strings.Contains(strings.ToLower(cell), strings.ToLower(text)) {
			return false, nil
		}
	}
	for column, cond := range f.advanced {
		if !matchCondition(CellString(row.Cell(column)), cond) {
			return false, nil
		}
	}
	if len(f.query) > 0 {
		match, err := connor.Match(f.query, map[string]any(row))
		if err != nil {
			return false, fmt.Errorf("match query: %w", err)
		}
		if !match {
			return false, nil
		}
	}
	return true, nil
}

func matchSearch(row Row, columns []Column, query string) bool {
	query = strings.ToLower(query)
	for _, col := range columns {
		if strings.Contains(strings.ToLower(searchText(row, col)), query) {
			return true
		}
	}
	return false
}

func matchCondition(cell string, cond Condition) bool {
	switch cond.Operator {
	case OpEquals:
		return strings.EqualFold(cell, cond.Value)
	case OpStartsWith:
		return strings.HasPrefix(strings.ToLower(cell), strings.ToLower(cond.Value))
	case OpEndsWith:
		return strings.HasSuffix(strings.ToLower(cell), strings.ToLower(cond.Value))
	case OpGreater:
		return compareLoose(cell, cond.Value) > 0
	case OpLess:
		return compareLoose(cell, cond.Value) < 0
	case OpIsEmpty:
		return emptyCell(cell)
	case OpIsNotEmpty:
		return !emptyCell(cell)
	case OpContains:
		fallthrough
	default:
		return strings.Contains(strings.ToLower(cell), strings.ToLower(cond.Value))
	}
}

// compareLoose orders two cell strings for greaterThan/lessThan: numeric if
// both parse as numbers, then by date, then lexicographic. The branch is
// chosen per compared pair, not per column.
func compareLoose(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}

	da, aok := parseDate(a)
	db, bok := parseDate(b)
	if aok && bok {
		return da.Compare(db)
	}

	return strings.Compare(a, b)
}

package grid

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Row is an opaque keyed record. Identity within the engine is positional:
// an index into the current filtered set, not a stable id.
type Row map[string]any

func RowFromJSON(payload []byte) (Row, error) {
	row := Row{}
	err := json.Unmarshal(payload, &row)
	if err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	return row, nil
}

func (r Row) JSON() ([]byte, error) {
	return json.Marshal(r)
}

func (r Row) Clone() Row {
	clone := make(Row, len(r))
	for k, v := range r {
		clone[k] = v
	}
	return clone
}

// RawCell reads one cell straight from a raw JSON payload, supporting dotted
// paths for relation columns.
func RawCell(payload []byte, key string) gjson.Result {
	return gjson.GetBytes(payload, key)
}

func SetRawCell(payload []byte, key string, value any) ([]byte, error) {
	return sjson.SetBytes(payload, key, value)
}

// Cell resolves one cell value. Dotted keys ("owner.name", the shape relation
// columns use) are read through the row's JSON form; plain keys read the map
// directly.
func (r Row) Cell(key string) any {
	if !strings.Contains(key, ".") {
		return r[key]
	}
	payload, err := r.JSON()
	if err != nil {
		return nil
	}
	result := RawCell(payload, key)
	if !result.Exists() {
		return nil
	}
	return result.Value()
}

// SetCell writes one cell, routing dotted keys through the row's JSON form so
// intermediate relation documents are created as needed.
func (r Row) SetCell(key string, value any) error {
	if !strings.Contains(key, ".") {
		r[key] = value
		return nil
	}
	payload, err := r.JSON()
	if err != nil {
		return err
	}
	updated, err := SetRawCell(payload, key, value)
	if err != nil {
		return fmt.Errorf("set cell %s: %w", key, err)
	}
	restored, err := RowFromJSON(updated)
	if err != nil {
		return err
	}
	r.replaceWith(restored)
	return nil
}

func (r Row) replaceWith(other Row) {
	for k := range r {
		delete(r, k)
	}
	for k, v := range other {
		r[k] = v
	}
}

// CellString renders a cell value the way the grid displays it. nil renders
// as the empty string.
func CellString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case json.Number:
		return value.String()
	default:
		return fmt.Sprint(value)
	}
}

func searchText(row Row, col Column) string {
	if col.SearchText != nil {
		return col.SearchText(row)
	}
	return CellString(row.Cell(col.Key))
}

// emptyCell treats the literal strings "null" and "undefined" as empty,
// matching what arrives from sloppy upstream serializers.
func emptyCell(s string) bool {
	return s == "" || s == "null" || s == "undefined"
}

func asFloat(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case json.Number:
		f, err := value.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

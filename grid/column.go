package grid

// ColumnType drives all coercion and comparison logic. Types are never
// inferred from cell values at runtime.
type ColumnType string

const (
	TypeText    ColumnType = "text"
	TypeNumber  ColumnType = "number"
	TypeEmail   ColumnType = "email"
	TypeURL     ColumnType = "url"
	TypeDate    ColumnType = "date"
	TypeBoolean ColumnType = "boolean"
	TypeSelect  ColumnType = "select"
	TypeCreated ColumnType = "created"
)

type Column struct {
	Key        string     `json:"key"`
	Label      string     `json:"label"`
	Type       ColumnType `json:"type"`
	Sortable   bool       `json:"sortable"`
	Filterable bool       `json:"filterable"`
	Editable   bool       `json:"editable"`
	Required   bool       `json:"required"`
	Frozen     bool       `json:"frozen"`
	Multiline  bool       `json:"multiline"`
	Width      int        `json:"width,omitempty"`
	Options    []string   `json:"options,omitempty"`
	Relation   string     `json:"relation,omitempty"`

	// SearchText overrides the default stringification for free-text search.
	SearchText func(row Row) string `json:"-"`
}

func ColumnByKey(columns []Column, key string) (Column, bool) {
	for _, c := range columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

package colconf

import (
	"sort"

	"github.com/fulldump/gridview/grid"
)

// Merge resolves a saved configuration against the live column schema:
// entries for columns no longer in the schema are dropped, schema columns
// missing from the configuration default to visible and are appended after
// all configured columns.
func Merge(config *Config, base []grid.Column) []ColumnSetting {
	if config == nil {
		return Default("", "", base).Columns
	}

	known := map[string]bool{}
	for _, col := range base {
		known[col.Key] = true
	}

	settings := []ColumnSetting{}
	configured := map[string]bool{}
	for _, s := range config.Columns {
		if !known[s.Key] || configured[s.Key] {
			continue
		}
		configured[s.Key] = true
		settings = append(settings, s)
	}
	sort.SliceStable(settings, func(i, j int) bool {
		return settings[i].Order < settings[j].Order
	})

	order := len(settings)
	for _, col := range base {
		if configured[col.Key] {
			continue
		}
		settings = append(settings, ColumnSetting{
			Key:     col.Key,
			Visible: true,
			Order:   order,
			Width:   col.Width,
		})
		order++
	}

	for i := range settings {
		settings[i].Order = i
	}
	return settings
}

// Apply returns the visible columns in configured order, widths applied.
func Apply(config *Config, base []grid.Column) []grid.Column {
	columns := []grid.Column{}
	for _, s := range Merge(config, base) {
		if !s.Visible {
			continue
		}
		col, ok := grid.ColumnByKey(base, s.Key)
		if !ok {
			continue
		}
		if s.Width > 0 {
			col.Width = s.Width
		}
		columns = append(columns, col)
	}
	return columns
}

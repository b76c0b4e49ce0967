package grid

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	json2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

type Format string

const (
	FormatCSV    Format = "csv"
	FormatNDJSON Format = "ndjson"
)

// Export writes the given rows restricted to the given columns. Callers pass
// the filtered working set, never the unfiltered source.
func Export(w io.Writer, format Format, rows []Row, columns []Column) error {
	switch format {
	case FormatCSV:
		return ExportCSV(w, rows, columns)
	case FormatNDJSON:
		return ExportNDJSON(w, rows, columns)
	}
	return fmt.Errorf("unknown export format '%s'", format)
}

func ExportCSV(w io.Writer, rows []Row, columns []Column) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Label
	}
	err := cw.Write(header)
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = CellString(row.Cell(col.Key))
		}
		err = cw.Write(record)
		if err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportNDJSON streams one JSON object per row, projected to the column
// subset.
func ExportNDJSON(w io.Writer, rows []Row, columns []Column) error {
	encoder := jsontext.NewEncoder(w)
	for _, row := range rows {
		projected := make(map[string]any, len(columns))
		for _, col := range columns {
			projected[col.Key] = row.Cell(col.Key)
		}
		err := json2.MarshalEncode(encoder, projected, json2.Deterministic(true))
		if err != nil {
			return fmt.Errorf("encode row: %w", err)
		}
	}
	return nil
}

// Filename derives the artifact name from a caller-supplied base, defaulting
// to "export".
func Filename(base string, format Format) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "export"
	}
	base = strings.TrimSuffix(base, "."+string(format))
	return base + "." + string(format)
}

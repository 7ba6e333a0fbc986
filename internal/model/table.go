package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// Canonical field names shared by the loaders and the output file.
const (
	FieldPrice          = "price_eur_mwh"
	FieldForecastLoadMW = "forecast_load_mw"
	FieldActualLoadMW   = "actual_load_mw"
	FieldTTFPrice       = "ttf_price"

	// IndexColumn is the header of the timestamp column in exported tables.
	IndexColumn = "datetime"
)

// Table is the merged, hourly training table.
// Rows[i] holds one value per column for Times[i].
type Table struct {
	Columns []string
	Times   []time.Time
	Rows    [][]null.Float
}

// Shape returns (rows, columns); the datetime index is not a column.
func (t *Table) Shape() (int, int) {
	if t == nil {
		return 0, 0
	}
	return len(t.Times), len(t.Columns)
}

// ColumnIndex returns the position of a column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column copies out one column's values.
func (t *Table) Column(i int) []null.Float {
	out := make([]null.Float, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// MissingCount counts invalid cells.
func (t *Table) MissingCount() int {
	n := 0
	for _, row := range t.Rows {
		for _, v := range row {
			if !v.Valid {
				n++
			}
		}
	}
	return n
}

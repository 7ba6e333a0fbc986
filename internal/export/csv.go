package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"electricity-dataset/internal/model"

	"github.com/guregu/null/v6"
)

// TimeLayout is the timestamp format of the exported datetime column.
const TimeLayout = "2006-01-02 15:04:05-07:00"

// WriteCSV writes the table to path: a "datetime" column followed by the
// table's columns. The file is replaced atomically.
func WriteCSV(path string, t *model.Table) error {
	return writeAtomic(path, func(w io.Writer) error {
		return EncodeCSV(w, t)
	})
}

// EncodeCSV writes the table as CSV to w. Output is deterministic for a given
// table.
func EncodeCSV(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(t.Columns)+1)
	header = append(header, model.IndexColumn)
	header = append(header, t.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}

	rec := make([]string, len(header))
	for r, row := range t.Rows {
		rec[0] = fmtTime(t.Times[r])
		for c, v := range row {
			rec[c+1] = fmtFloat(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func fmtFloat(v null.Float) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

package export

import (
	"fmt"
	"io"

	"electricity-dataset/internal/model"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "training_data"

// WriteXLSX writes the table to a single-sheet workbook at path.
func WriteXLSX(path string, t *model.Table) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(xlsxSheet)
	if err != nil {
		return err
	}

	header := make([]interface{}, 0, len(t.Columns)+1)
	header = append(header, model.IndexColumn)
	for _, c := range t.Columns {
		header = append(header, c)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for r, row := range t.Rows {
		vals := make([]interface{}, 0, len(row)+1)
		vals = append(vals, fmtTime(t.Times[r]))
		for _, v := range row {
			if v.Valid {
				vals = append(vals, v.Float64)
			} else {
				vals = append(vals, nil)
			}
		}
		cellName, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cellName, vals); err != nil {
			return fmt.Errorf("xlsx row %d: %w", r+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	return writeAtomic(path, func(w io.Writer) error {
		return f.Write(w)
	})
}

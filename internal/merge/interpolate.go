package merge

import (
	"electricity-dataset/internal/model"

	"github.com/guregu/null/v6"
)

// InterpolateTime fills interior runs of missing values column by column,
// weighting by elapsed time between the bounding observations. Leading and
// trailing runs have no two-sided bound and are left missing, as are runs
// longer than maxGap when maxGap > 0. It returns the number of cells filled.
func InterpolateTime(t *model.Table, maxGap int) int {
	filled := 0
	for c := range t.Columns {
		prev := -1
		for r := range t.Rows {
			if !t.Rows[r][c].Valid {
				continue
			}
			if prev >= 0 && r-prev > 1 {
				gap := r - prev - 1
				if maxGap <= 0 || gap <= maxGap {
					fillRun(t, c, prev, r)
					filled += gap
				}
			}
			prev = r
		}
	}
	return filled
}

// fillRun interpolates rows (lo, hi) of column c from the values at lo and hi.
func fillRun(t *model.Table, c, lo, hi int) {
	t0, t1 := t.Times[lo], t.Times[hi]
	v0, v1 := t.Rows[lo][c].Float64, t.Rows[hi][c].Float64
	span := t1.Sub(t0).Seconds()
	for r := lo + 1; r < hi; r++ {
		frac := t.Times[r].Sub(t0).Seconds() / span
		t.Rows[r][c] = null.FloatFrom(v0 + (v1-v0)*frac)
	}
}

// DropIncomplete removes rows with any missing value, in place, and returns
// how many were removed.
func DropIncomplete(t *model.Table) int {
	kept := 0
	for r, row := range t.Rows {
		if !complete(row) {
			continue
		}
		t.Rows[kept] = row
		t.Times[kept] = t.Times[r]
		kept++
	}
	dropped := len(t.Rows) - kept
	t.Rows = t.Rows[:kept]
	t.Times = t.Times[:kept]
	return dropped
}

func complete(row []null.Float) bool {
	for _, v := range row {
		if !v.Valid {
			return false
		}
	}
	return true
}

package analysis

import (
	"math"
	"sort"
	"time"

	"electricity-dataset/internal/model"
)

// ColumnSummary describes the distribution of one merged column.
type ColumnSummary struct {
	Column  string
	Count   int
	Missing int

	Min  float64
	Max  float64
	Mean float64
	P05  float64
	P95  float64
}

// TableSummary is a quick profile of a merged table.
type TableSummary struct {
	Rows     int
	StartUTC time.Time
	EndUTC   time.Time
	Columns  []ColumnSummary
}

func Summarize(t *model.Table) TableSummary {
	s := TableSummary{}
	if t == nil {
		return s
	}
	s.Rows = len(t.Times)
	if s.Rows > 0 {
		s.StartUTC = t.Times[0].UTC()
		s.EndUTC = t.Times[s.Rows-1].UTC()
	}
	s.Columns = make([]ColumnSummary, 0, len(t.Columns))
	for i, name := range t.Columns {
		s.Columns = append(s.Columns, summarizeColumn(name, t, i))
	}
	return s
}

func summarizeColumn(name string, t *model.Table, col int) ColumnSummary {
	c := ColumnSummary{Column: name}
	vals := make([]float64, 0, len(t.Rows))
	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	for _, v := range t.Column(col) {
		if !v.Valid {
			c.Missing++
			continue
		}
		vals = append(vals, v.Float64)
		sum += v.Float64
		if v.Float64 < minv {
			minv = v.Float64
		}
		if v.Float64 > maxv {
			maxv = v.Float64
		}
	}
	c.Count = len(vals)
	if c.Count == 0 {
		return c
	}
	sort.Float64s(vals)
	c.Min = minv
	c.Max = maxv
	c.Mean = sum / float64(c.Count)
	c.P05 = percentileSorted(vals, 0.05)
	c.P95 = percentileSorted(vals, 0.95)
	return c
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

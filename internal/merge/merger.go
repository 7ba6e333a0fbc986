package merge

import (
	"fmt"
	"log"
	"time"

	"electricity-dataset/internal/data"
	"electricity-dataset/internal/model"

	"github.com/guregu/null/v6"
)

// Stats describes what a merge did to the base index.
type Stats struct {
	BaseRows          int
	InterpolatedCells int
	DroppedRows       int
	OutputRows        int
}

// Merger aligns source series on the base series' hourly index.
type Merger struct {
	// MaxGap caps how many consecutive missing values interpolation fills in
	// one column. 0 means no cap.
	MaxGap int
}

func New(maxGap int) *Merger { return &Merger{MaxGap: maxGap} }

// Merge left-joins each of joins onto base by exact timestamp, interpolates
// interior gaps in time and drops rows that still have a missing value.
// base defines the output's temporal domain.
func (m *Merger) Merge(base *model.TimeSeries, joins ...*model.TimeSeries) (*model.Table, Stats, error) {
	if base == nil {
		return nil, Stats{}, fmt.Errorf("base series is nil")
	}
	all := append([]*model.TimeSeries{base}, joins...)

	columns, err := unionFields(all)
	if err != nil {
		return nil, Stats{}, err
	}

	base.SortByTime()
	if !base.StrictlyAscending() {
		return nil, Stats{}, &data.FormatError{Source: base.Source, Err: fmt.Errorf("base index has duplicate timestamps")}
	}

	table := &model.Table{
		Columns: columns,
		Times:   make([]time.Time, 0, base.Len()),
		Rows:    make([][]null.Float, 0, base.Len()),
	}
	for _, p := range base.Points {
		row := make([]null.Float, len(columns))
		copy(row, p.Values)
		table.Times = append(table.Times, p.Time)
		table.Rows = append(table.Rows, row)
	}

	offset := len(base.Fields)
	for _, s := range joins {
		s.SortByTime()
		leftJoin(table, s, offset)
		offset += len(s.Fields)
	}

	stats := Stats{BaseRows: len(table.Rows)}
	stats.InterpolatedCells = InterpolateTime(table, m.MaxGap)
	stats.DroppedRows = DropIncomplete(table)
	stats.OutputRows = len(table.Rows)

	log.Printf("[Merger] base=%d rows, interpolated=%d cells, dropped=%d rows, output=%d x %d",
		stats.BaseRows, stats.InterpolatedCells, stats.DroppedRows, stats.OutputRows, len(table.Columns))
	return table, stats, nil
}

// leftJoin copies s's values into table columns [offset, offset+len(s.Fields))
// for every table timestamp that s has. Unmatched rows stay missing.
func leftJoin(table *model.Table, s *model.TimeSeries, offset int) {
	idx := s.Lookup()
	for r, t := range table.Times {
		i, ok := idx[t.Unix()]
		if !ok {
			continue
		}
		copy(table.Rows[r][offset:], s.Points[i].Values)
	}
}

func unionFields(series []*model.TimeSeries) ([]string, error) {
	var out []string
	owner := map[string]string{}
	for _, s := range series {
		if s == nil {
			return nil, fmt.Errorf("series is nil")
		}
		for _, f := range s.Fields {
			if prev, ok := owner[f]; ok {
				return nil, &data.FormatError{
					Source: s.Source,
					Column: f,
					Err:    fmt.Errorf("column already provided by %s", prev),
				}
			}
			owner[f] = s.Source
			out = append(out, f)
		}
	}
	return out, nil
}

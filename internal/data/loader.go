package data

import (
	"time"

	"electricity-dataset/internal/model"

	"github.com/guregu/null/v6"
)

// Loader produces one source's TimeSeries. Loaders only read their own files
// and can run in any order.
type Loader interface {
	Name() string
	Load() (*model.TimeSeries, error)
}

// valueColumn maps a canonical field onto a CSV column.
type valueColumn struct {
	Field  string
	Index  int
	Header string
}

// rowParser turns the rows of a csvFile into a TimeSeries.
type rowParser struct {
	Source    string
	TimeIndex int
	Times     TimeParser
	Columns   []valueColumn

	// TimeText rewrites the raw timestamp cell before parsing (may be nil).
	TimeText func(string) string
}

func (p rowParser) parse(f *csvFile) (*model.TimeSeries, error) {
	fields := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		fields[i] = c.Field
	}
	s := model.NewTimeSeries(p.Source, fields...)
	s.Points = make([]model.Point, 0, len(f.Rows))
	timeHeader := ""
	if p.TimeIndex < len(f.Header) {
		timeHeader = f.Header[p.TimeIndex]
	}

	for i, row := range f.Rows {
		raw := cell(row, p.TimeIndex)
		text := raw
		if p.TimeText != nil {
			text = p.TimeText(raw)
		}
		ts, err := p.Times.Parse(text)
		if err != nil {
			return nil, &FormatError{Source: p.Source, File: f.Path, Line: f.Lines[i], Column: timeHeader, Value: raw, Err: err}
		}
		vals := make([]null.Float, len(p.Columns))
		for j, c := range p.Columns {
			v, err := ParseValue(cell(row, c.Index))
			if err != nil {
				return nil, &FormatError{Source: p.Source, File: f.Path, Line: f.Lines[i], Column: c.Header, Value: cell(row, c.Index), Err: err}
			}
			vals[j] = v
		}
		if err := s.Append(ts, vals...); err != nil {
			return nil, &FormatError{Source: p.Source, File: f.Path, Line: f.Lines[i], Err: err}
		}
	}
	s.SortByTime()
	return s, nil
}

func formatRange(s *model.TimeSeries) (string, string) {
	if s.Len() == 0 {
		return "-", "-"
	}
	return s.Start().Format(time.RFC3339), s.End().Format(time.RFC3339)
}

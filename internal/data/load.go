package data

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"electricity-dataset/internal/model"
)

// OverlapPolicy decides what happens when two load files cover the same hour.
type OverlapPolicy string

const (
	// OverlapKeepLast lets the later file (in sorted path order) win.
	OverlapKeepLast OverlapPolicy = "keep_last"
	// OverlapFail fails the load.
	OverlapFail     OverlapPolicy = "error"
)

func (p OverlapPolicy) Valid() bool {
	return p == OverlapKeepLast || p == OverlapFail
}

var loadRules = []ColumnRule{
	{Field: timeField, Patterns: []Pattern{Equals("datetime"), Contains("time")}},
	{Field: model.FieldForecastLoadMW, Patterns: []Pattern{Contains("forecast")}},
	{Field: model.FieldActualLoadMW, Patterns: []Pattern{Contains("actual total load"), Contains("actual")}},
}

// LoadLoader reads one or more grid-load files (e.g. yearly ENTSO-E exports
// "Total Load - Day Ahead _Actual_2015.csv") and concatenates them.
type LoadLoader struct {
	// Paths, when set, is used as-is. Otherwise Pattern is globbed inside Dir.
	Paths   []string
	Dir     string
	Pattern string
	Overlap OverlapPolicy

	// Location applies to zone-less timestamps. nil means UTC.
	Location *time.Location
}

func (l *LoadLoader) Name() string { return "load" }

// Files returns the input files in the order they are concatenated.
func (l *LoadLoader) Files() ([]string, error) {
	if len(l.Paths) > 0 {
		return l.Paths, nil
	}
	pattern := filepath.Join(l.Dir, l.Pattern)
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("%s: bad file pattern %q: %w", l.Name(), pattern, err)
	}
	if len(files) == 0 {
		return nil, &SourceNotFoundError{Source: l.Name(), Pattern: pattern}
	}
	return files, nil
}

func (l *LoadLoader) Load() (*model.TimeSeries, error) {
	files, err := l.Files()
	if err != nil {
		return nil, err
	}
	policy := l.Overlap
	if policy == "" {
		policy = OverlapKeepLast
	}

	out := model.NewTimeSeries(l.Name(), model.FieldForecastLoadMW, model.FieldActualLoadMW)
	seen := map[int64]int{}
	for _, path := range files {
		s, err := l.loadFile(path)
		if err != nil {
			return nil, err
		}

		overlaps := 0
		var first time.Time
		for _, p := range s.Points {
			if _, ok := seen[p.Time.Unix()]; ok {
				if overlaps == 0 {
					first = p.Time
				}
				overlaps++
			}
		}
		if overlaps > 0 && policy == OverlapFail {
			return nil, &OverlapError{Source: l.Name(), File: path, Hour: first, Count: overlaps}
		}
		if overlaps > 0 {
			log.Printf("[LoadLoader] %s: %d hours overlap earlier files, keeping this file's values", path, overlaps)
		}

		for _, p := range s.Points {
			key := p.Time.Unix()
			if i, ok := seen[key]; ok {
				out.Points[i].Values = p.Values
				continue
			}
			seen[key] = len(out.Points)
			out.Points = append(out.Points, p)
		}
	}
	out.SortByTime()

	from, to := formatRange(out)
	log.Printf("[LoadLoader] %d files -> %d hours (%s .. %s)", len(files), out.Len(), from, to)
	return out, nil
}

// loadFile reads one file and resamples it to an hourly mean.
func (l *LoadLoader) loadFile(path string) (*model.TimeSeries, error) {
	f, err := readCSV(l.Name(), path)
	if err != nil {
		return nil, err
	}
	cols, err := resolveOrFail(l.Name(), path, f.Header, loadRules)
	if err != nil {
		return nil, err
	}
	p := rowParser{
		Source:    l.Name(),
		TimeIndex: cols[timeField],
		Times:     TimeParser{DayFirst: true, Location: l.Location},
		TimeText:  IntervalStart,
		Columns: []valueColumn{
			{Field: model.FieldForecastLoadMW, Index: cols[model.FieldForecastLoadMW], Header: f.Header[cols[model.FieldForecastLoadMW]]},
			{Field: model.FieldActualLoadMW, Index: cols[model.FieldActualLoadMW], Header: f.Header[cols[model.FieldActualLoadMW]]},
		},
	}
	raw, err := p.parse(f)
	if err != nil {
		return nil, err
	}
	s := model.ResampleHourlyMean(raw)
	log.Printf("[LoadLoader] %s: %d rows -> %d hours", path, raw.Len(), s.Len())
	return s, nil
}

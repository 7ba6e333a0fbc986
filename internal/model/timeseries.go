package model

import (
	"fmt"
	"sort"
	"time"

	"github.com/guregu/null/v6"
)

// Point is one timestamped value record. Values are positionally aligned with
// the owning series' Fields.
type Point struct {
	Time   time.Time
	Values []null.Float
}

// TimeSeries is an ordered, timestamp-keyed table from one data source.
type TimeSeries struct {
	Source string
	Fields []string
	Points []Point
}

func NewTimeSeries(source string, fields ...string) *TimeSeries {
	return &TimeSeries{
		Source: source,
		Fields: append([]string(nil), fields...),
	}
}

func (s *TimeSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// Append adds a point. values must have one entry per field.
func (s *TimeSeries) Append(t time.Time, values ...null.Float) error {
	if len(values) != len(s.Fields) {
		return fmt.Errorf("%s: got %d values for %d fields", s.Source, len(values), len(s.Fields))
	}
	s.Points = append(s.Points, Point{Time: t.UTC(), Values: values})
	return nil
}

// SortByTime orders points ascending. The sort is stable so that rows sharing
// a timestamp keep their input order.
func (s *TimeSeries) SortByTime() {
	sort.SliceStable(s.Points, func(i, j int) bool {
		return s.Points[i].Time.Before(s.Points[j].Time)
	})
}

// StrictlyAscending reports whether timestamps increase with no duplicates.
func (s *TimeSeries) StrictlyAscending() bool {
	for i := 1; i < len(s.Points); i++ {
		if !s.Points[i].Time.After(s.Points[i-1].Time) {
			return false
		}
	}
	return true
}

// Start and End return the first and last timestamps (zero when empty).
func (s *TimeSeries) Start() time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.Points[0].Time
}

func (s *TimeSeries) End() time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.Points[len(s.Points)-1].Time
}

// Lookup indexes points by unix second. When timestamps repeat, the last
// point wins.
func (s *TimeSeries) Lookup() map[int64]int {
	out := make(map[int64]int, len(s.Points))
	for i, p := range s.Points {
		out[p.Time.Unix()] = i
	}
	return out
}

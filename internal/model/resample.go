package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// ResampleHourlyMean floors every timestamp to the hour and averages the
// values that land in the same hour. Missing values are ignored; an hour whose
// values are all missing stays missing. Already-hourly, duplicate-free input
// comes back unchanged. The input must be sorted.
func ResampleHourlyMean(s *TimeSeries) *TimeSeries {
	out := NewTimeSeries(s.Source, s.Fields...)
	n := len(s.Fields)

	var (
		bucket time.Time
		sums   []float64
		counts []int
		open   bool
	)
	flush := func() {
		if !open {
			return
		}
		vals := make([]null.Float, n)
		for i := 0; i < n; i++ {
			if counts[i] > 0 {
				vals[i] = null.FloatFrom(sums[i] / float64(counts[i]))
			}
		}
		out.Points = append(out.Points, Point{Time: bucket, Values: vals})
	}

	for _, p := range s.Points {
		h := p.Time.UTC().Truncate(time.Hour)
		if !open || !h.Equal(bucket) {
			flush()
			bucket = h
			sums = make([]float64, n)
			counts = make([]int, n)
			open = true
		}
		for i, v := range p.Values {
			if v.Valid {
				sums[i] += v.Float64
				counts[i]++
			}
		}
	}
	flush()
	return out
}

// ForwardFillHourly upsamples a daily series onto an hourly index. Days are
// calendar days in loc (nil means UTC). Every hour from local midnight of the
// first day up to local midnight after the last day takes the value of the
// most recent day at or before it, so DST days get 23 or 25 hours. Days with
// a missing value are skipped so the previous value keeps carrying. The input
// must be sorted.
func ForwardFillHourly(s *TimeSeries, loc *time.Location) *TimeSeries {
	out := NewTimeSeries(s.Source, s.Fields...)
	if loc == nil {
		loc = time.UTC
	}

	days := make([]Point, 0, len(s.Points))
	for _, p := range s.Points {
		if !allValid(p.Values) {
			continue
		}
		day := truncateDay(p.Time, loc)
		if len(days) > 0 && days[len(days)-1].Time.Equal(day) {
			days[len(days)-1].Values = p.Values
			continue
		}
		days = append(days, Point{Time: day, Values: p.Values})
	}
	if len(days) == 0 {
		return out
	}

	end := days[len(days)-1].Time.AddDate(0, 0, 1)
	out.Points = make([]Point, 0, int(end.Sub(days[0].Time)/time.Hour))
	cur := 0
	for h := days[0].Time; h.Before(end); h = h.Add(time.Hour) {
		for cur+1 < len(days) && !days[cur+1].Time.After(h) {
			cur++
		}
		vals := make([]null.Float, len(days[cur].Values))
		copy(vals, days[cur].Values)
		out.Points = append(out.Points, Point{Time: h.UTC(), Values: vals})
	}
	return out
}

// truncateDay returns local midnight of t's calendar day in loc.
func truncateDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func allValid(vals []null.Float) bool {
	for _, v := range vals {
		if !v.Valid {
			return false
		}
	}
	return true
}

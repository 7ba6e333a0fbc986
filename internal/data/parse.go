package data

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"
)

// Layouts carrying their own zone.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006-01-02T15:04Z07:00",
}

// Zone-less ISO layouts, parsed in the caller's location.
var isoLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Dotted dates are always day-first.
var dottedLayouts = []string{
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"02.01.2006",
}

var slashDayFirst = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02-01-2006",
}

var slashMonthFirst = []string{
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"01-02-2006 15:04:05",
	"01-02-2006 15:04",
	"01-02-2006",
}

// TimeParser parses the timestamp formats found in the source files. DayFirst
// selects DD/MM over MM/DD for slash dates; Location applies to timestamps
// that carry no zone (nil means UTC). Results are always UTC.
type TimeParser struct {
	DayFirst bool
	Location *time.Location
}

func (p TimeParser) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	layouts := make([]string, 0, len(isoLayouts)+len(dottedLayouts)+2*len(slashDayFirst))
	layouts = append(layouts, isoLayouts...)
	layouts = append(layouts, dottedLayouts...)
	if p.DayFirst {
		layouts = append(layouts, slashDayFirst...)
		layouts = append(layouts, slashMonthFirst...)
	} else {
		layouts = append(layouts, slashMonthFirst...)
		layouts = append(layouts, slashDayFirst...)
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// IntervalStart returns the start of an interval-range value such as
// "01.01.2015 00:00 - 01.01.2015 01:00". A trailing zone label in
// parentheses, e.g. "(CET)", is dropped. Plain timestamps come back as-is.
func IntervalStart(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "("); i > 0 && strings.HasSuffix(s, ")") {
		s = strings.TrimSpace(s[:i])
	}
	if i := strings.Index(s, " - "); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

var missingTokens = map[string]bool{
	"":     true,
	"-":    true,
	"na":   true,
	"n/a":  true,
	"n/e":  true,
	"nan":  true,
	"null": true,
	"none": true,
	"#n/a": true,
	"-nan": true,
	"<na>": true,
}

// ParseValue parses a numeric cell. Missing markers ("", "N/A", "n/e", "-",
// ...) yield an invalid null.Float. A value with both "," and "." treats ","
// as a thousands separator; a lone "," is a decimal separator.
func ParseValue(s string) (null.Float, error) {
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
	if missingTokens[strings.ToLower(s)] {
		return null.Float{}, nil
	}
	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	}
	s = strings.ReplaceAll(s, " ", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return null.Float{}, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) {
		return null.Float{}, nil
	}
	return null.FloatFrom(v), nil
}

package data

import (
	"fmt"
	"strings"
	"time"
)

// SourceNotFoundError is returned when a source has no input files.
type SourceNotFoundError struct {
	Source  string
	Pattern string
	Err     error
}

func (e *SourceNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: no input files for %q: %v", e.Source, e.Pattern, e.Err)
	}
	return fmt.Sprintf("%s: no input files for %q", e.Source, e.Pattern)
}

func (e *SourceNotFoundError) Unwrap() error { return e.Err }

// ColumnNotFoundError is returned when header discovery cannot resolve a field.
type ColumnNotFoundError struct {
	Source  string
	File    string
	Field   string
	Headers []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("%s: no column for %q in %s (headers: %s)",
		e.Source, e.Field, e.File, strings.Join(e.Headers, ", "))
}

// FormatError is returned when a cell cannot be parsed as a timestamp or number.
// Line is 1-based and counts the header row.
type FormatError struct {
	Source string
	File   string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Source, e.File)
	if e.Line > 0 {
		msg += fmt.Sprintf(" line %d", e.Line)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(" column %q", e.Column)
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" value %q", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// OverlapError is returned when two load files cover the same hour and the
// overlap policy is OverlapFail.
type OverlapError struct {
	Source string
	File   string
	Hour   time.Time
	Count  int
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s: %s overlaps earlier files at %d hours (first %s)",
		e.Source, e.File, e.Count, e.Hour.Format(time.RFC3339))
}

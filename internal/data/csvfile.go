package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// csvFile is a fully read CSV file. Header is the raw header row; Rows are the
// data rows after it and Lines their 1-based line numbers in the file.
type csvFile struct {
	Path   string
	Header []string
	Rows   [][]string
	Lines  []int
}

// readCSV opens, reads and closes path. The first non-blank row is the header.
func readCSV(source, path string) (*csvFile, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &SourceNotFoundError{Source: source, Pattern: path, Err: err}
		}
		return nil, fmt.Errorf("%s: open %s: %w", source, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	out := &csvFile{Path: path}
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, &FormatError{Source: source, File: path, Line: line, Err: err}
		}
		line, _ := r.FieldPos(0)
		if first && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
			first = false
		}
		if isBlank(rec) {
			continue
		}
		if out.Header == nil {
			out.Header = rec
			continue
		}
		out.Rows = append(out.Rows, rec)
		out.Lines = append(out.Lines, line)
	}
	if out.Header == nil {
		return nil, &FormatError{Source: source, File: path, Err: errors.New("no header row")}
	}
	return out, nil
}

// promoteHeader makes the first row accepted by isHeader the header and drops
// everything above it. It reports false, leaving f unchanged, when no row
// qualifies.
func (f *csvFile) promoteHeader(isHeader func([]string) bool) bool {
	if isHeader(f.Header) {
		return true
	}
	for i, row := range f.Rows {
		if isHeader(row) {
			f.Header = row
			f.Rows = f.Rows[i+1:]
			f.Lines = f.Lines[i+1:]
			return true
		}
	}
	return false
}

// cell returns row[i] trimmed, or "" when the row is short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

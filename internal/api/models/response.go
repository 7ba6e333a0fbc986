package models

import "time"

// MergeResponse represents the result of a merge run
type MergeResponse struct {
	ID      string       `json:"id"`
	Status  string       `json:"status"`
	Summary MergeSummary `json:"summary"`
	Rows    []Row        `json:"rows,omitempty"`
}

// MergeSummary contains the shape and counters of a merge run
type MergeSummary struct {
	Rows              int             `json:"rows"`
	Columns           []string        `json:"columns"`
	Window            TimeWindow      `json:"window"`
	SourceRows        map[string]int  `json:"source_rows"`
	InterpolatedCells int             `json:"interpolated_cells"`
	DroppedRows       int             `json:"dropped_rows"`
	Outputs           []string        `json:"outputs"`
	DurationMS        int64           `json:"duration_ms"`
	CreatedAt         time.Time       `json:"created_at"`
	ColumnStats       []ColumnSummary `json:"column_stats,omitempty"`
}

// TimeWindow represents a time range
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ColumnSummary describes one merged column
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	P05    float64 `json:"p05"`
	P95    float64 `json:"p95"`
}

// Row is one merged hourly record
type Row struct {
	Datetime time.Time          `json:"datetime"`
	Values   map[string]float64 `json:"values"`
}

// RowsResponse is one page of merged rows
type RowsResponse struct {
	ID     string `json:"id"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
	Total  int    `json:"total"`
	Rows   []Row  `json:"rows"`
}

// SourceInfo describes one configured input source
type SourceInfo struct {
	Name   string   `json:"name"`
	Path   string   `json:"path"`
	Files  []string `json:"files"`
	Exists bool     `json:"exists"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

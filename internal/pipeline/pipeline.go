package pipeline

import (
	"fmt"
	"log"
	"time"

	"electricity-dataset/internal/config"
	"electricity-dataset/internal/export"
	"electricity-dataset/internal/merge"
	"electricity-dataset/internal/metrics"
	"electricity-dataset/internal/model"
)

// Result is the outcome of one merge run.
type Result struct {
	Table      *model.Table
	Stats      merge.Stats
	SourceRows map[string]int
	Outputs    []string
	Duration   time.Duration
}

// OutputPath is the CSV file written by the run.
func (r *Result) OutputPath() string {
	if r == nil || len(r.Outputs) == 0 {
		return ""
	}
	return r.Outputs[0]
}

// Run loads every source, merges them on the price index and writes the
// configured outputs. Nothing is written unless loading and merging succeed.
// rec may be nil.
func Run(cfg *config.Config, rec *metrics.Recorder) (res *Result, err error) {
	started := time.Now()
	defer func() { rec.ObserveRun(started, err) }()

	table, stats, rows, err := Build(cfg, rec)
	if err != nil {
		return nil, err
	}

	res = &Result{
		Table:      table,
		Stats:      stats,
		SourceRows: rows,
	}
	if res.Outputs, err = writeOutputs(cfg.Output, table); err != nil {
		return nil, err
	}
	res.Duration = time.Since(started)
	log.Printf("[Pipeline] wrote %d x %d to %v in %s", stats.OutputRows, len(table.Columns), res.Outputs, res.Duration.Round(time.Millisecond))
	return res, nil
}

// Build loads and merges the sources without writing anything.
func Build(cfg *config.Config, rec *metrics.Recorder) (*model.Table, merge.Stats, map[string]int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, merge.Stats{}, nil, fmt.Errorf("invalid config: %w", err)
	}
	loaders, err := cfg.Loaders()
	if err != nil {
		return nil, merge.Stats{}, nil, err
	}

	series := make([]*model.TimeSeries, 0, len(loaders))
	rows := make(map[string]int, len(loaders))
	for _, l := range loaders {
		s, err := l.Load()
		if err != nil {
			log.Printf("[Pipeline] %s failed: %v", l.Name(), err)
			return nil, merge.Stats{}, nil, err
		}
		rows[l.Name()] = s.Len()
		rec.ObserveSource(l.Name(), s.Len())
		series = append(series, s)
	}

	table, stats, err := merge.New(cfg.Merge.MaxGap).Merge(series[0], series[1:]...)
	if err != nil {
		return nil, merge.Stats{}, nil, err
	}
	rec.ObserveMerge(stats.OutputRows, len(table.Columns), stats.InterpolatedCells, stats.DroppedRows)
	return table, stats, rows, nil
}

// writeOutputs writes the optional exports before the CSV, so a failed
// export leaves the previous CSV in place.
func writeOutputs(out config.OutputConfig, table *model.Table) ([]string, error) {
	written := []string{out.CSVPath}
	if out.XLSXPath != "" {
		if err := export.WriteXLSX(out.XLSXPath, table); err != nil {
			return nil, fmt.Errorf("write xlsx: %w", err)
		}
		written = append(written, out.XLSXPath)
	}
	if out.SQLitePath != "" {
		if err := export.WriteSQLite(out.SQLitePath, table); err != nil {
			return nil, fmt.Errorf("write sqlite: %w", err)
		}
		written = append(written, out.SQLitePath)
	}
	if err := export.WriteCSV(out.CSVPath, table); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return written, nil
}

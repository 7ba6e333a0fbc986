package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"electricity-dataset/internal/config"
	"electricity-dataset/internal/data"
	"electricity-dataset/internal/metrics"
)

// writeFixtures lays out one day of inputs in dir. The load file skips 12:00.
func writeFixtures(t *testing.T, dir string) {
	t.Helper()
	day := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	var price, load, weather strings.Builder
	price.WriteString("Datetime (UTC),Price (EUR/MWhe)\n")
	load.WriteString("Time (CET/CEST),Day-ahead Total Load Forecast [MW] - BZN|DE-LU,Actual Total Load [MW] - BZN|DE-LU\n")
	weather.WriteString("time,temperature_2m (°C),cloud_cover (%)\n")
	for h := 0; h < 24; h++ {
		ts := day.Add(time.Duration(h) * time.Hour)
		fmt.Fprintf(&price, "%s,%d\n", ts.Format("2006-01-02 15:04:05"), 40+h)
		if h != 12 {
			fmt.Fprintf(&load, "%s - %s,%d,%d\n",
				ts.Format("02.01.2006 15:04"), ts.Add(time.Hour).Format("02.01.2006 15:04"), 1000+10*h, 1005+10*h)
		}
		fmt.Fprintf(&weather, "%s,%.1f,%d\n", ts.Format("2006-01-02T15:04"), 5+0.5*float64(h), h)
	}

	files := map[string]string{
		"electricity_prices_2015_2025.csv":       price.String(),
		"Total Load - Day Ahead _Actual_2024.csv": load.String(),
		"weather_history_2015_2025.csv":          weather.String(),
		"TTF_price_netherlands.csv":              "Date,Price\n03/10/2024,27.5\n03/09/2024,26.0\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	writeFixtures(t, dir)
	cfg := config.Default()
	cfg.DataDir = dir
	cfg.Output.CSVPath = filepath.Join(dir, "processed", "electricity_training_data.csv")
	return cfg
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	rec := metrics.NewRecorder()

	res, err := Run(cfg, rec)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	rows, cols := res.Table.Shape()
	if rows != 24 || cols != 6 {
		t.Fatalf("shape (%d, %d), want (24, 6)", rows, cols)
	}
	if res.Table.MissingCount() != 0 {
		t.Fatal("merged table has missing values")
	}
	if res.Stats.InterpolatedCells != 2 {
		t.Errorf("interpolated %d cells, want 2", res.Stats.InterpolatedCells)
	}
	if res.SourceRows["load"] != 23 || res.SourceRows["gas"] != 48 {
		t.Errorf("source rows %v", res.SourceRows)
	}
	if res.OutputPath() != cfg.Output.CSVPath {
		t.Errorf("output path %q", res.OutputPath())
	}

	fc := res.Table.ColumnIndex("forecast_load_mw")
	if got := res.Table.Rows[12][fc].Float64; got != 1120 {
		t.Errorf("forecast at 12:00: got %v, want 1120", got)
	}
	tc := res.Table.ColumnIndex("ttf_price")
	if got := res.Table.Rows[0][tc].Float64; got != 27.5 {
		t.Errorf("ttf at 00:00: got %v, want 27.5", got)
	}

	out, err := os.ReadFile(cfg.Output.CSVPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 25 {
		t.Fatalf("csv has %d lines, want 25", len(lines))
	}
	wantHeader := "datetime,price_eur_mwh,forecast_load_mw,actual_load_mw,temperature_c,cloud_cover_percent,ttf_price"
	if lines[0] != wantHeader {
		t.Errorf("header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2024-03-10 00:00:00+00:00,40,1000,1005,5,0,27.5") {
		t.Errorf("first row %q", lines[1])
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	if _, err := Run(cfg, nil); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(cfg.Output.CSVPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Run(cfg, nil); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(cfg.Output.CSVPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("re-run output differs")
	}
}

func TestRunWritesOptionalOutputs(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.XLSXPath = filepath.Join(cfg.DataDir, "processed", "training.xlsx")
	cfg.Output.SQLitePath = filepath.Join(cfg.DataDir, "processed", "training.db")

	res, err := Run(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Outputs) != 3 {
		t.Fatalf("outputs %v", res.Outputs)
	}
	for _, p := range res.Outputs {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing output %s: %v", p, err)
		}
	}
}

func TestRunFailureLeavesOutputUntouched(t *testing.T) {
	cfg := testConfig(t)
	if err := os.MkdirAll(filepath.Dir(cfg.Output.CSVPath), 0o755); err != nil {
		t.Fatal(err)
	}
	prior := []byte("previous run\n")
	if err := os.WriteFile(cfg.Output.CSVPath, prior, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(cfg.DataDir, "TTF_price_netherlands.csv")); err != nil {
		t.Fatal(err)
	}

	rec := metrics.NewRecorder()
	_, err := Run(cfg, rec)
	var nf *data.SourceNotFoundError
	if !errors.As(err, &nf) || nf.Source != "gas" {
		t.Fatalf("expected gas SourceNotFoundError, got %v", err)
	}
	got, err := os.ReadFile(cfg.Output.CSVPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, prior) {
		t.Error("failed run modified the previous output")
	}
}

func TestRunFailedExportLeavesCSVUntouched(t *testing.T) {
	cfg := testConfig(t)
	if err := os.MkdirAll(filepath.Dir(cfg.Output.CSVPath), 0o755); err != nil {
		t.Fatal(err)
	}
	prior := []byte("previous run\n")
	if err := os.WriteFile(cfg.Output.CSVPath, prior, 0o644); err != nil {
		t.Fatal(err)
	}
	// The xlsx parent is a regular file, so the export cannot be created.
	blocker := filepath.Join(cfg.DataDir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Output.XLSXPath = filepath.Join(blocker, "training.xlsx")

	if _, err := Run(cfg, nil); err == nil || !strings.Contains(err.Error(), "write xlsx") {
		t.Fatalf("expected xlsx error, got %v", err)
	}
	got, err := os.ReadFile(cfg.Output.CSVPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, prior) {
		t.Error("failed export replaced the previous csv")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Merge.MaxGap = -2
	if _, err := Run(cfg, nil); err == nil || !strings.Contains(err.Error(), "max_gap") {
		t.Fatalf("expected config error, got %v", err)
	}
}

package merge

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"electricity-dataset/internal/data"
	"electricity-dataset/internal/model"

	"github.com/guregu/null/v6"
)

var day = time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

func at(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }

// series builds a series with one point per hour in hours, using value(h) for
// every field.
func series(source string, fields []string, hours []int, value func(h int) float64) *model.TimeSeries {
	s := model.NewTimeSeries(source, fields...)
	for _, h := range hours {
		vals := make([]null.Float, len(fields))
		for i := range vals {
			vals[i] = null.FloatFrom(value(h) + float64(i))
		}
		_ = s.Append(at(h), vals...)
	}
	return s
}

func hoursRange(from, to int, skip ...int) []int {
	skipped := map[int]bool{}
	for _, h := range skip {
		skipped[h] = true
	}
	var out []int
	for h := from; h < to; h++ {
		if !skipped[h] {
			out = append(out, h)
		}
	}
	return out
}

func linear(h int) float64 { return 100 + 10*float64(h) }

func TestMergeFillsMissingLoadHour(t *testing.T) {
	price := series("price", []string{"price_eur_mwh"}, hoursRange(0, 24), linear)
	load := series("load", []string{"forecast_load_mw", "actual_load_mw"}, hoursRange(0, 24, 12), linear)
	weather := series("weather", []string{"temperature_c", "humidity_percent"}, hoursRange(0, 24), linear)
	gas := series("gas", []string{"ttf_price"}, hoursRange(0, 24), func(int) float64 { return 30 })

	table, stats, err := New(0).Merge(price, load, weather, gas)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if rows, cols := table.Shape(); rows != 24 || cols != 6 {
		t.Fatalf("shape (%d, %d), want (24, 6)", rows, cols)
	}
	if n := table.MissingCount(); n != 0 {
		t.Fatalf("expected no missing values, got %d", n)
	}
	if stats.InterpolatedCells != 2 || stats.DroppedRows != 0 {
		t.Errorf("stats %+v", stats)
	}

	fc := table.ColumnIndex("forecast_load_mw")
	ac := table.ColumnIndex("actual_load_mw")
	if got := table.Rows[12][fc].Float64; got != linear(12) {
		t.Errorf("forecast at 12:00: got %v, want %v", got, linear(12))
	}
	if got := table.Rows[12][ac].Float64; got != linear(12)+1 {
		t.Errorf("actual at 12:00: got %v, want %v", got, linear(12)+1)
	}
}

func TestMergeColumnOrder(t *testing.T) {
	price := series("price", []string{"price_eur_mwh"}, hoursRange(0, 2), linear)
	load := series("load", []string{"forecast_load_mw", "actual_load_mw"}, hoursRange(0, 2), linear)
	weather := series("weather", []string{"temperature_c"}, hoursRange(0, 2), linear)
	gas := series("gas", []string{"ttf_price"}, hoursRange(0, 2), linear)

	table, _, err := New(0).Merge(price, load, weather, gas)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"price_eur_mwh", "forecast_load_mw", "actual_load_mw", "temperature_c", "ttf_price"}
	for i, c := range want {
		if table.Columns[i] != c {
			t.Fatalf("columns %v, want %v", table.Columns, want)
		}
	}
}

func TestMergeDomainIsSubsetOfPrice(t *testing.T) {
	// Price has hours 2..9 with 5 missing; the other sources cover a wider range.
	price := series("price", []string{"price_eur_mwh"}, hoursRange(2, 10, 5), linear)
	load := series("load", []string{"forecast_load_mw", "actual_load_mw"}, hoursRange(0, 24), linear)
	gas := series("gas", []string{"ttf_price"}, hoursRange(0, 24), linear)

	table, _, err := New(0).Merge(price, load, gas)
	if err != nil {
		t.Fatal(err)
	}
	priceHours := map[int64]bool{}
	for _, p := range price.Points {
		priceHours[p.Time.Unix()] = true
	}
	for _, ts := range table.Times {
		if !priceHours[ts.Unix()] {
			t.Errorf("output hour %s not in price index", ts)
		}
	}
	for i := 1; i < len(table.Times); i++ {
		if !table.Times[i].After(table.Times[i-1]) {
			t.Fatalf("times not strictly ascending at %d", i)
		}
	}
	if len(table.Times) != 7 {
		t.Errorf("expected 7 rows, got %d", len(table.Times))
	}
}

func TestMergeDropsUnfillableRows(t *testing.T) {
	// Gas starts at hour 3: hours 0..2 have no left bound and are dropped.
	price := series("price", []string{"price_eur_mwh"}, hoursRange(0, 8), linear)
	gas := series("gas", []string{"ttf_price"}, hoursRange(3, 8), linear)

	table, stats, err := New(0).Merge(price, gas)
	if err != nil {
		t.Fatal(err)
	}
	if stats.DroppedRows != 3 || stats.OutputRows != 5 || len(table.Rows) != 5 {
		t.Fatalf("stats %+v rows %d", stats, len(table.Rows))
	}
	if !table.Times[0].Equal(at(3)) {
		t.Errorf("first row %s, want %s", table.Times[0], at(3))
	}
}

func TestMergeInterpolatesMissingBasePrice(t *testing.T) {
	// An N/A price keeps its row in the base index.
	price := series("price", []string{"price_eur_mwh"}, hoursRange(0, 5), linear)
	price.Points[2].Values[0] = null.Float{}
	gas := series("gas", []string{"ttf_price"}, hoursRange(0, 5), linear)

	table, stats, err := New(0).Merge(price, gas)
	if err != nil {
		t.Fatal(err)
	}
	if stats.OutputRows != 5 || stats.InterpolatedCells != 1 {
		t.Fatalf("stats %+v", stats)
	}
	if got := table.Rows[2][0]; !got.Valid || got.Float64 != linear(2) {
		t.Errorf("price at hour 2: got %v, want %v", got, linear(2))
	}
}

func TestMergeSortsUnsortedBase(t *testing.T) {
	price := series("price", []string{"price_eur_mwh"}, []int{3, 1, 2, 0}, linear)
	table, _, err := New(0).Merge(price)
	if err != nil {
		t.Fatal(err)
	}
	for i, ts := range table.Times {
		if !ts.Equal(at(i)) {
			t.Fatalf("row %d at %s", i, ts)
		}
	}
}

func TestMergeRejectsDuplicateBaseTimestamps(t *testing.T) {
	price := series("price", []string{"price_eur_mwh"}, []int{0, 1, 1}, linear)
	_, _, err := New(0).Merge(price)
	var fe *data.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}

func TestMergeRejectsDuplicateColumns(t *testing.T) {
	price := series("price", []string{"price_eur_mwh"}, hoursRange(0, 2), linear)
	other := series("other", []string{"price_eur_mwh"}, hoursRange(0, 2), linear)
	_, _, err := New(0).Merge(price, other)
	var fe *data.FormatError
	if !errors.As(err, &fe) || fe.Column != "price_eur_mwh" {
		t.Fatalf("expected FormatError on price_eur_mwh, got %v", err)
	}
}

func TestInterpolateTimeWeightsByElapsedTime(t *testing.T) {
	// Rows at 0h, 1h and 4h: the 1h row sits a quarter of the way through.
	table := &model.Table{
		Columns: []string{"v"},
		Times:   []time.Time{at(0), at(1), at(4)},
		Rows:    [][]null.Float{{null.FloatFrom(0)}, {null.Float{}}, {null.FloatFrom(40)}},
	}
	if n := InterpolateTime(table, 0); n != 1 {
		t.Fatalf("filled %d cells, want 1", n)
	}
	if got := table.Rows[1][0].Float64; math.Abs(got-10) > 1e-9 {
		t.Errorf("got %v, want 10", got)
	}
}

func TestInterpolateTimeMaxGap(t *testing.T) {
	build := func() *model.Table {
		tbl := &model.Table{Columns: []string{"v"}}
		for h := 0; h < 6; h++ {
			tbl.Times = append(tbl.Times, at(h))
			v := null.Float{}
			if h == 0 || h == 5 {
				v = null.FloatFrom(float64(h))
			}
			tbl.Rows = append(tbl.Rows, []null.Float{v})
		}
		return tbl
	}

	capped := build()
	if n := InterpolateTime(capped, 3); n != 0 {
		t.Errorf("gap of 4 with max 3: filled %d", n)
	}
	if dropped := DropIncomplete(capped); dropped != 4 {
		t.Errorf("dropped %d, want 4", dropped)
	}

	open := build()
	if n := InterpolateTime(open, 4); n != 4 {
		t.Errorf("gap of 4 with max 4: filled %d", n)
	}
	for h := 0; h < 6; h++ {
		if got := open.Rows[h][0].Float64; math.Abs(got-float64(h)) > 1e-9 {
			t.Errorf("row %d: got %v", h, got)
		}
	}
}

func TestMergeBerlinLoadAcrossDST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	header := "Time (CET/CEST),Day-ahead Total Load Forecast [MW] - BZN|DE-LU,Actual Total Load [MW] - BZN|DE-LU\n"

	tests := []struct {
		name      string
		rows      string
		start     time.Time
		baseHours int
		loadHours int
	}{
		{
			// 02:00 local does not exist; the UTC hours stay contiguous.
			name: "spring forward",
			rows: "31.03.2024 00:00 - 31.03.2024 01:00,300,310\n" +
				"31.03.2024 01:00 - 31.03.2024 03:00,300,310\n" +
				"31.03.2024 03:00 - 31.03.2024 04:00,300,310\n",
			start:     time.Date(2024, time.March, 30, 23, 0, 0, 0, time.UTC),
			baseHours: 3,
			loadHours: 3,
		},
		{
			// 02:00 local repeats. Both rows resolve to one UTC hour and are
			// averaged; the other UTC hour is interpolated.
			name: "fall back",
			rows: "27.10.2024 01:00 - 27.10.2024 02:00,300,310\n" +
				"27.10.2024 02:00 - 27.10.2024 02:00,200,210\n" +
				"27.10.2024 02:00 - 27.10.2024 03:00,400,410\n" +
				"27.10.2024 03:00 - 27.10.2024 04:00,300,310\n",
			start:     time.Date(2024, time.October, 26, 23, 0, 0, 0, time.UTC),
			baseHours: 4,
			loadHours: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "load.csv")
			if err := os.WriteFile(path, []byte(header+tt.rows), 0o644); err != nil {
				t.Fatal(err)
			}
			load, err := (&data.LoadLoader{Paths: []string{path}, Location: berlin}).Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if load.Len() != tt.loadHours {
				t.Fatalf("load has %d hours, want %d", load.Len(), tt.loadHours)
			}
			if !load.Start().Equal(tt.start) {
				t.Fatalf("load starts %s, want %s", load.Start(), tt.start)
			}

			price := model.NewTimeSeries("price", model.FieldPrice)
			for h := 0; h < tt.baseHours; h++ {
				_ = price.Append(tt.start.Add(time.Duration(h)*time.Hour), null.FloatFrom(50))
			}
			table, stats, err := New(0).Merge(price, load)
			if err != nil {
				t.Fatalf("Merge: %v", err)
			}
			if rows, _ := table.Shape(); rows != tt.baseHours || stats.DroppedRows != 0 {
				t.Fatalf("rows=%d dropped=%d, want %d rows", rows, stats.DroppedRows, tt.baseHours)
			}
			if want := 2 * (tt.baseHours - tt.loadHours); stats.InterpolatedCells != want {
				t.Errorf("interpolated %d cells, want %d", stats.InterpolatedCells, want)
			}
			fc := table.ColumnIndex(model.FieldForecastLoadMW)
			ac := table.ColumnIndex(model.FieldActualLoadMW)
			for r, row := range table.Rows {
				if row[fc].Float64 != 300 || row[ac].Float64 != 310 {
					t.Errorf("%s: got %v/%v, want 300/310", table.Times[r], row[fc].Float64, row[ac].Float64)
				}
			}
		})
	}
}

package data

import (
	"log"
	"time"

	"electricity-dataset/internal/model"
)

const timeField = "datetime"

var priceRules = []ColumnRule{
	{Field: timeField, Patterns: []Pattern{Equals("datetime"), Contains("datetime"), Equals("time"), Contains("date"), Contains("time")}},
	{Field: model.FieldPrice, Patterns: []Pattern{Equals("price_eur_mwh"), Contains("price")}},
}

// PriceLoader reads the hourly electricity price file, e.g. columns
// "datetime,price_eur_mwh" or "Datetime (UTC),Price (EUR/MWhe)".
type PriceLoader struct {
	Path string

	// Location applies to zone-less timestamps. nil means UTC.
	Location *time.Location
}

func (l *PriceLoader) Name() string { return "price" }

func (l *PriceLoader) Load() (*model.TimeSeries, error) {
	f, err := readCSV(l.Name(), l.Path)
	if err != nil {
		return nil, err
	}
	cols, err := resolveOrFail(l.Name(), l.Path, f.Header, priceRules)
	if err != nil {
		// A price file without its two columns is malformed rather than
		// merely differently named.
		return nil, &FormatError{Source: l.Name(), File: l.Path, Err: err}
	}

	p := rowParser{
		Source:    l.Name(),
		TimeIndex: cols[timeField],
		Times:     TimeParser{Location: l.Location},
		Columns: []valueColumn{
			{Field: model.FieldPrice, Index: cols[model.FieldPrice], Header: f.Header[cols[model.FieldPrice]]},
		},
	}
	raw, err := p.parse(f)
	if err != nil {
		return nil, err
	}
	s := model.ResampleHourlyMean(raw)

	from, to := formatRange(s)
	log.Printf("[PriceLoader] %s: %d rows -> %d hours (%s .. %s)", l.Path, raw.Len(), s.Len(), from, to)
	return s, nil
}

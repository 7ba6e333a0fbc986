package data

import (
	"log"
	"time"

	"electricity-dataset/internal/model"
)

var gasRules = []ColumnRule{
	{Field: timeField, Patterns: []Pattern{Contains("date")}},
	{Field: model.FieldTTFPrice, Patterns: []Pattern{Contains("price")}},
}

// GasPriceLoader reads a daily TTF gas price file and forward-fills it onto
// an hourly index.
type GasPriceLoader struct {
	Path string

	// Location applies to zone-less timestamps. nil means UTC.
	Location *time.Location
}

func (l *GasPriceLoader) Name() string { return "gas" }

func (l *GasPriceLoader) Load() (*model.TimeSeries, error) {
	f, err := readCSV(l.Name(), l.Path)
	if err != nil {
		return nil, err
	}
	cols, err := resolveOrFail(l.Name(), l.Path, f.Header, gasRules)
	if err != nil {
		return nil, err
	}
	p := rowParser{
		Source:    l.Name(),
		TimeIndex: cols[timeField],
		Times:     TimeParser{Location: l.Location},
		Columns: []valueColumn{
			{Field: model.FieldTTFPrice, Index: cols[model.FieldTTFPrice], Header: f.Header[cols[model.FieldTTFPrice]]},
		},
	}
	daily, err := p.parse(f)
	if err != nil {
		return nil, err
	}
	s := model.ForwardFillHourly(daily, l.Location)

	from, to := formatRange(s)
	log.Printf("[GasPriceLoader] %s: %d days -> %d hours (%s .. %s)", l.Path, daily.Len(), s.Len(), from, to)
	return s, nil
}

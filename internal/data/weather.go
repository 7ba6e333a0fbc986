package data

import (
	"fmt"
	"log"
	"strings"
	"time"

	"electricity-dataset/internal/model"
)

// WeatherFields maps Open-Meteo style headers to canonical field names.
var WeatherFields = map[string]string{
	"temperature_2m (°C)":                     "temperature_c",
	"relative_humidity_2m (%)":                "humidity_percent",
	"rain (mm)":                               "rain_mm",
	"snowfall (cm)":                           "snowfall_cm",
	"wind_speed_10m (km/h)":                   "wind_speed_10m_kmh",
	"wind_speed_100m (km/h)":                  "wind_speed_100m_kmh",
	"wind_direction_10m (°)":                  "wind_dir_10m_deg",
	"wind_direction_100m (°)":                 "wind_dir_100m_deg",
	"shortwave_radiation (W/m²)":              "shortwave_radiation_wm2",
	"direct_radiation (W/m²)":                 "direct_radiation_wm2",
	"diffuse_radiation (W/m²)":                "diffuse_radiation_wm2",
	"direct_normal_irradiance (W/m²)":         "direct_normal_irradiance_wm2",
	"global_tilted_irradiance (W/m²)":         "global_tilted_irradiance_wm2",
	"terrestrial_radiation (W/m²)":            "terrestrial_radiation_wm2",
	"shortwave_radiation_instant (W/m²)":      "shortwave_radiation_instant_wm2",
	"direct_radiation_instant (W/m²)":         "direct_radiation_instant_wm2",
	"diffuse_radiation_instant (W/m²)":        "diffuse_radiation_instant_wm2",
	"direct_normal_irradiance_instant (W/m²)": "direct_normal_irradiance_instant_wm2",
	"global_tilted_irradiance_instant (W/m²)": "global_tilted_irradiance_instant_wm2",
	"terrestrial_radiation_instant (W/m²)":    "terrestrial_radiation_instant_wm2",
	"cloud_cover (%)":                         "cloud_cover_percent",
	"cloud_cover_low (%)":                     "cloud_cover_low_percent",
	"cloud_cover_mid (%)":                     "cloud_cover_mid_percent",
	"cloud_cover_high (%)":                    "cloud_cover_high_percent",
}

// weatherBase indexes WeatherFields by the header without its unit suffix.
var weatherBase = func() map[string]string {
	out := make(map[string]string, len(WeatherFields))
	for verbose, canonical := range WeatherFields {
		out[stripUnit(verbose)] = canonical
	}
	return out
}()

var weatherTimeRule = []ColumnRule{
	{Field: timeField, Patterns: []Pattern{Equals("datetime"), Equals("time"), Contains("datetime"), Contains("time"), Contains("date")}},
}

var weatherHeaderRule = []ColumnRule{
	{Field: timeField, Patterns: []Pattern{Equals("datetime"), Equals("time")}},
}

// WeatherField returns the canonical name for a weather header. Unmapped
// headers come back trimmed but otherwise unchanged.
func WeatherField(header string) string {
	h := strings.TrimSpace(header)
	if c, ok := WeatherFields[h]; ok {
		return c
	}
	if c, ok := weatherBase[stripUnit(h)]; ok {
		return c
	}
	return h
}

func stripUnit(h string) string {
	h = strings.TrimSpace(h)
	if i := strings.LastIndex(h, " ("); i > 0 && strings.HasSuffix(h, ")") {
		h = h[:i]
	}
	return strings.ToLower(strings.TrimSpace(h))
}

// WeatherLoader reads an hourly weather export and renames its columns.
type WeatherLoader struct {
	Path string

	// Location applies to zone-less timestamps. nil means UTC.
	Location *time.Location
}

func (l *WeatherLoader) Name() string { return "weather" }

func (l *WeatherLoader) Load() (*model.TimeSeries, error) {
	f, err := readCSV(l.Name(), l.Path)
	if err != nil {
		return nil, err
	}
	// Open-Meteo exports open with a location metadata block; the data header
	// is the first row with a plain "time" column.
	f.promoteHeader(func(row []string) bool {
		_, _, ok := ResolveColumns(row, weatherHeaderRule)
		return ok
	})
	cols, err := resolveOrFail(l.Name(), l.Path, f.Header, weatherTimeRule)
	if err != nil {
		return nil, err
	}
	timeIdx := cols[timeField]

	var columns []valueColumn
	used := map[string]string{}
	for i, h := range f.Header {
		if i == timeIdx || strings.TrimSpace(h) == "" {
			continue
		}
		field := WeatherField(h)
		if prev, ok := used[field]; ok {
			return nil, &FormatError{
				Source: l.Name(),
				File:   l.Path,
				Column: h,
				Err:    fmt.Errorf("maps to %q, already taken by %q", field, prev),
			}
		}
		used[field] = h
		columns = append(columns, valueColumn{Field: field, Index: i, Header: h})
	}

	p := rowParser{
		Source:    l.Name(),
		TimeIndex: timeIdx,
		Times:     TimeParser{Location: l.Location},
		Columns:   columns,
	}
	raw, err := p.parse(f)
	if err != nil {
		return nil, err
	}
	s := model.ResampleHourlyMean(raw)

	from, to := formatRange(s)
	log.Printf("[WeatherLoader] %s: %d rows, %d fields -> %d hours (%s .. %s)", l.Path, raw.Len(), len(columns), s.Len(), from, to)
	return s, nil
}

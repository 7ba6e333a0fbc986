package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"electricity-dataset/internal/data"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// DataDir is where relative source paths are resolved.
	DataDir string        `yaml:"data_dir"`
	Sources SourcesConfig `yaml:"sources"`
	Output  OutputConfig  `yaml:"output"`
	Merge   MergeConfig   `yaml:"merge"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type SourcesConfig struct {
	PriceFile   string `yaml:"price_file"`
	LoadPattern string `yaml:"load_pattern"`
	WeatherFile string `yaml:"weather_file"`
	GasFile     string `yaml:"gas_file"`

	// Timezones for zone-less timestamps, IANA names. Empty means UTC.
	PriceTimezone   string `yaml:"price_timezone"`
	LoadTimezone    string `yaml:"load_timezone"`
	WeatherTimezone string `yaml:"weather_timezone"`
	GasTimezone     string `yaml:"gas_timezone"`
}

type OutputConfig struct {
	// CSVPath is always written. XLSXPath and SQLitePath are optional.
	CSVPath    string `yaml:"csv_path"`
	XLSXPath   string `yaml:"xlsx_path"`
	SQLitePath string `yaml:"sqlite_path"`
}

type MergeConfig struct {
	LoadOverlap data.OverlapPolicy `yaml:"load_overlap"`

	// MaxGap caps consecutive missing values filled by interpolation (0 = no cap).
	MaxGap int `yaml:"max_gap"`
}

type MetricsConfig struct {
	// TextfilePath, when set, receives a Prometheus text dump after each CLI run.
	TextfilePath string `yaml:"textfile_path"`
}

// Default returns the stock data directory layout and file names.
func Default() *Config {
	return &Config{
		DataDir: "data",
		Sources: SourcesConfig{
			PriceFile:   "electricity_prices_2015_2025.csv",
			LoadPattern: "Total Load - Day Ahead _Actual_*.csv",
			WeatherFile: "weather_history_2015_2025.csv",
			GasFile:     "TTF_price_netherlands.csv",
		},
		Output: OutputConfig{
			CSVPath: filepath.Join("data", "processed", "electricity_training_data.csv"),
		},
		Merge: MergeConfig{
			LoadOverlap: data.OverlapKeepLast,
		},
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked overlays the YAML file onto Default() without validating.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// Resolve returns the config file to use: the MERGE_CONFIG environment
// variable, else ./config.yaml when it exists, else "" for defaults.
func Resolve() string {
	if path := os.Getenv("MERGE_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	return ""
}

// LoadOrDefault loads path, or validated defaults when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		c := Default()
		return c, c.Validate()
	}
	return Load(path)
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Sources.PriceFile == "" {
		return errors.New("sources.price_file is required")
	}
	if c.Sources.LoadPattern == "" {
		return errors.New("sources.load_pattern is required")
	}
	if c.Sources.WeatherFile == "" {
		return errors.New("sources.weather_file is required")
	}
	if c.Sources.GasFile == "" {
		return errors.New("sources.gas_file is required")
	}
	if c.Output.CSVPath == "" {
		return errors.New("output.csv_path is required")
	}
	if c.Merge.LoadOverlap == "" {
		c.Merge.LoadOverlap = data.OverlapKeepLast
	}
	if !c.Merge.LoadOverlap.Valid() {
		return fmt.Errorf("merge.load_overlap must be %q or %q, got %q",
			data.OverlapKeepLast, data.OverlapFail, c.Merge.LoadOverlap)
	}
	if c.Merge.MaxGap < 0 {
		return errors.New("merge.max_gap must be >= 0")
	}
	for key, tz := range map[string]string{
		"price_timezone":   c.Sources.PriceTimezone,
		"load_timezone":    c.Sources.LoadTimezone,
		"weather_timezone": c.Sources.WeatherTimezone,
		"gas_timezone":     c.Sources.GasTimezone,
	} {
		if _, err := location(tz); err != nil {
			return fmt.Errorf("sources.%s: %w", key, err)
		}
	}
	return nil
}

// SourcePath resolves a source file name against DataDir.
func (c *Config) SourcePath(name string) string {
	if filepath.IsAbs(name) || c.DataDir == "" {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// Loaders builds the four source loaders in merge order: price (the base
// index), load, weather, gas.
func (c *Config) Loaders() ([]data.Loader, error) {
	priceLoc, err := location(c.Sources.PriceTimezone)
	if err != nil {
		return nil, err
	}
	loadLoc, err := location(c.Sources.LoadTimezone)
	if err != nil {
		return nil, err
	}
	weatherLoc, err := location(c.Sources.WeatherTimezone)
	if err != nil {
		return nil, err
	}
	gasLoc, err := location(c.Sources.GasTimezone)
	if err != nil {
		return nil, err
	}
	return []data.Loader{
		&data.PriceLoader{Path: c.SourcePath(c.Sources.PriceFile), Location: priceLoc},
		&data.LoadLoader{Dir: c.DataDir, Pattern: c.Sources.LoadPattern, Overlap: c.Merge.LoadOverlap, Location: loadLoc},
		&data.WeatherLoader{Path: c.SourcePath(c.Sources.WeatherFile), Location: weatherLoc},
		&data.GasPriceLoader{Path: c.SourcePath(c.Sources.GasFile), Location: gasLoc},
	}, nil
}

func location(name string) (*time.Location, error) {
	if name == "" || name == "UTC" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

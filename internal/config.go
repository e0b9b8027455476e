package internal

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Storage drivers.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Store     StoreConfig       `yaml:"store"`
	Reference ReferenceConfig   `yaml:"reference"`
	Report    ReportConfig      `yaml:"report"`

	// Placeholder is the category marking records that still need a real one.
	Placeholder string `yaml:"placeholder"`
	DryRun      bool   `yaml:"dry_run"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Report.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Placeholder, validation.Required),
	)
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatJSON
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatJSON, LogFormatText)),
	)
}

// StoreConfig selects where word records are read from and written to.
type StoreConfig struct {
	Driver string          `yaml:"driver"`
	JSON   JSONStoreConfig `yaml:"json"`
	SQLite SQLiteConfig    `yaml:"sqlite"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverJSON, DriverSQLite)),
	); err != nil {
		return err
	}
	if c.Driver == DriverSQLite {
		return c.SQLite.Validate()
	}
	return c.JSON.Validate()
}

// JSONStoreConfig holds the path of the JSON word file.
type JSONStoreConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the JSON store configuration.
func (c *JSONStoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ReferenceConfig controls where the curated word table comes from.
//
// An empty Path selects the table compiled into the binary.
type ReferenceConfig struct {
	Path           string `yaml:"path"`
	SkipEmptyWords bool   `yaml:"skip_empty_words"`
}

// ReportConfig controls console output.
type ReportConfig struct {
	SampleSize int  `yaml:"sample_size"`
	Verbose    bool `yaml:"verbose"`
}

// Validate validates the report configuration.
func (c *ReportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SampleSize, validation.Min(0)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatJSON,
		},
		Store: StoreConfig{
			Driver: DriverJSON,
			JSON: JSONStoreConfig{
				Path: "wsad/words.json",
			},
			SQLite: SQLiteConfig{
				Path: "./vocabfix.db",
			},
		},
		Report: ReportConfig{
			SampleSize: 20,
		},
		Placeholder: "General",
	}
}

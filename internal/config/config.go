// =============================================================================
// Business Data Validation Toolkit - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Every setting has a
// default, so the toolkit runs without any configuration file at all.
//
// CONFIGURATION SOURCES (later sources win):
//   1. Built-in defaults (Default())
//   2. The YAML configuration file (config.yaml unless --config is given)
//   3. A .env file in the working directory, if present
//   4. Environment variables prefixed with BDV_ (e.g. BDV_OUTPUT_DIR)
//   5. Command-line flags (applied by the cmd package)
//
// The resulting configuration is validated before it is returned.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file used when --config is not given.
const DefaultConfigFile = "config.yaml"

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "BDV"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the complete application configuration.
type Config struct {
	// Input controls how the transactions and product master files are read.
	Input InputConfig `yaml:"input"`

	// Output controls where and how reports are written.
	Output OutputConfig `yaml:"output"`

	// Validation holds the settings of the validate command.
	Validation ValidationConfig `yaml:"validation"`

	// Report holds the settings of the value report command.
	Report ReportConfig `yaml:"report"`

	// Logging controls the structured logger.
	Logging LoggingConfig `yaml:"logging"`

	// Kaggle holds the settings of the dataset download command.
	Kaggle KaggleConfig `yaml:"kaggle"`
}

// InputConfig contains settings for reading input files.
type InputConfig struct {
	// Delimiter is the field separator of CSV inputs.
	// Common values: "," (comma), ";" (semicolon), "|" (pipe), "\t" (tab)
	// Default: ","
	Delimiter string `yaml:"delimiter" validate:"required"`

	// DateLayouts are the Go time layouts tried, in order, when parsing
	// InvoiceDate. The first layout that parses wins.
	DateLayouts []string `yaml:"date_layouts" split_words:"true" validate:"required,min=1,dive,required"`

	// Sheet is the worksheet read from .xlsx inputs. Empty means the first sheet.
	Sheet string `yaml:"sheet"`
}

// OutputConfig contains settings for output files.
type OutputConfig struct {
	// Dir is the directory where all reports are written.
	// It is created if it does not exist.
	// Default: "outputs"
	Dir string `yaml:"dir" validate:"required"`

	// XLSXReport additionally writes data_quality_report.xlsx.
	// Default: false
	XLSXReport bool `yaml:"xlsx_report" split_words:"true"`

	// BOMPrefix writes a UTF-8 byte order mark at the start of every CSV so
	// that spreadsheet tools detect the encoding.
	// Default: false
	BOMPrefix bool `yaml:"bom_prefix" split_words:"true"`
}

// ValidationConfig contains settings for the validation run.
type ValidationConfig struct {
	// SampleSize is the maximum number of sample rows kept per rule.
	// Default: 50
	SampleSize int `yaml:"sample_size" split_words:"true" validate:"gt=0"`
}

// ReportConfig contains settings for the value report.
type ReportConfig struct {
	// TopProducts is the number of products kept in the top products report.
	// Default: 25
	TopProducts int `yaml:"top_products" split_words:"true" validate:"gt=0"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum level written: "debug", "info", "warn" or "error".
	// Default: "info"
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// Format is the encoder: "console" or "json".
	// Default: "console"
	Format string `yaml:"format" validate:"oneof=console json"`

	// File is an optional log file written in addition to stderr.
	File string `yaml:"file"`
}

// KaggleConfig contains settings for the dataset download command.
type KaggleConfig struct {
	// Dataset is the dataset reference in "owner/name" form.
	// Default: "rupakroy/online-retail"
	Dataset string `yaml:"dataset" validate:"required,contains=/"`

	// RawDir is the directory the archive is extracted into.
	// Default: "data/raw"
	RawDir string `yaml:"raw_dir" split_words:"true" validate:"required"`

	// BaseURL is the root of the Kaggle public API.
	// Default: "https://www.kaggle.com/api/v1"
	BaseURL string `yaml:"base_url" split_words:"true" validate:"required,url"`

	// Username and Key are the API credentials. They are normally supplied
	// through KAGGLE_USERNAME / KAGGLE_KEY or the kaggle.json token file,
	// never committed to config.yaml.
	Username string `yaml:"-" envconfig:"KAGGLE_USERNAME"`
	Key      string `yaml:"-" envconfig:"KAGGLE_KEY"`

	// CredentialsFile is the kaggle.json token file.
	// Default: ~/.kaggle/kaggle.json
	CredentialsFile string `yaml:"credentials_file" split_words:"true"`

	// Timeout bounds the whole download.
	// Default: 10m
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultDateLayouts covers the formats seen in retail exports: the US
// "month/day/year hour:minute" form of the Online Retail dataset, ISO dates
// with and without time, and RFC 3339.
var DefaultDateLayouts = []string{
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// Default returns the configuration used when nothing else is specified.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Input.Delimiter == "" {
		cfg.Input.Delimiter = ","
	}
	if len(cfg.Input.DateLayouts) == 0 {
		cfg.Input.DateLayouts = append([]string(nil), DefaultDateLayouts...)
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "outputs"
	}
	if cfg.Validation.SampleSize == 0 {
		cfg.Validation.SampleSize = 50
	}
	if cfg.Report.TopProducts == 0 {
		cfg.Report.TopProducts = 25
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Kaggle.Dataset == "" {
		cfg.Kaggle.Dataset = "rupakroy/online-retail"
	}
	if cfg.Kaggle.RawDir == "" {
		cfg.Kaggle.RawDir = filepath.Join("data", "raw")
	}
	if cfg.Kaggle.BaseURL == "" {
		cfg.Kaggle.BaseURL = "https://www.kaggle.com/api/v1"
	}
	if cfg.Kaggle.CredentialsFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Kaggle.CredentialsFile = filepath.Join(home, ".kaggle", "kaggle.json")
		}
	}
	if cfg.Kaggle.Timeout == 0 {
		cfg.Kaggle.Timeout = 10 * time.Minute
	}
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Load builds the configuration from the YAML file, .env and the environment.
//
// PARAMETERS:
//   - configPath: The path to the YAML configuration file.
//   - mustExist:  When false a missing file is not an error and defaults are
//     used instead. The cmd package passes true when --config was given.
//
// RETURNS:
//   - A pointer to the validated Config.
//   - An error if the file cannot be parsed or the result is invalid.
func Load(configPath string, mustExist bool) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	case errors.Is(err, os.ErrNotExist) && !mustExist:
		// No configuration file: defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(cfg)

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads a .env file into the process environment. Variables that
// are already set are not overwritten. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration against its struct tags.
// All violations are reported together.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// formatFieldError turns a validator error into a readable message using the
// YAML-facing field path (e.g. "Validation.SampleSize must be > 0").
func formatFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be > %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s element(s)", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "contains":
		return fmt.Sprintf("%s must contain %q", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// =============================================================================
// Sales Tax Receipts - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration used
// by the batch and file commands.
//
// SOURCES (later wins):
//   1. Built-in defaults
//   2. The YAML configuration file (optional, default config.yaml)
//   3. Environment variables prefixed with RECEIPTS_ (e.g. RECEIPTS_LOG_LEVEL),
//      including those loaded from a .env file
//
// The tax schedule itself is fixed and is deliberately not configurable.
//
// =============================================================================

package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	ierr "github.com/ginjaninja78/sales-tax-receipts/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "RECEIPTS"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is the directory scanned for basket files by 'process'.
	// Default: "./input"
	InputDir string `mapstructure:"input_dir" validate:"required"`

	// OutputDir is the directory where rendered receipts are written.
	// Default: "./output"
	OutputDir string `mapstructure:"output_dir" validate:"required"`

	// InputArchiveDir receives basket files after successful processing.
	// Default: "./input_archive"
	InputArchiveDir string `mapstructure:"input_archive_dir" validate:"required"`

	// OutputArchiveDir receives a copy of every written receipt.
	// Default: "./output_archive"
	OutputArchiveDir string `mapstructure:"output_archive_dir" validate:"required"`

	// =========================================================================
	// INPUT / OUTPUT SETTINGS
	// =========================================================================

	// InputPattern is the glob matched against file names in InputDir.
	// Default: "*.txt"
	InputPattern string `mapstructure:"input_pattern" validate:"required"`

	// OutputFormat is the receipt document format.
	// Valid values: "text", "xml", "yaml", "xlsx"
	// Default: "text"
	OutputFormat string `mapstructure:"output_format" validate:"oneof=text xml yaml xlsx"`

	// OutputFileFormat names the output files. The extension of the output
	// format is appended.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {time}      - Current time (HHMMSS)
	//   {original}  - Input file name without extension
	// Default: "{original}_{uuid}"
	OutputFileFormat string `mapstructure:"output_file_format" validate:"required"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	// LogFile is the path of the log file. Empty logs to stderr.
	LogFile string `mapstructure:"log_file"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files processed concurrently.
	// Default: 4
	MaxConcurrency int `mapstructure:"max_concurrency" validate:"min=1"`

	// ContinueOnError keeps processing other files when one fails.
	// Default: true
	ContinueOnError bool `mapstructure:"continue_on_error"`

	// ArchiveOnSuccess moves processed inputs and copies outputs to the
	// archive directories.
	// Default: true
	ArchiveOnSuccess bool `mapstructure:"archive_on_success"`

	// UseTimestampSubdirs archives into YYYY/MM/DD subdirectories.
	// Default: false
	UseTimestampSubdirs bool `mapstructure:"use_timestamp_subdirs"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration.
//
// PARAMETERS:
//   - configPath: The path to the YAML configuration file. A missing file is
//                 not an error; defaults and environment are used instead.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error marked ErrInvalidConfig if the file cannot be parsed or the
//     result does not validate.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	// Values from .env become regular environment variables.
	_ = godotenv.Load()

	v := viper.New()
	applyMainConfigDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Mark(errors.Wrapf(err, "failed to read config file %s", configPath), ierr.ErrInvalidConfig)
			}
		}
	}

	var config MainConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to parse config"), ierr.ErrInvalidConfig)
	}

	config.OutputFormat = strings.ToLower(config.OutputFormat)
	config.LogLevel = strings.ToLower(config.LogLevel)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *MainConfig {
	return &MainConfig{
		InputDir:         "./input",
		OutputDir:        "./output",
		InputArchiveDir:  "./input_archive",
		OutputArchiveDir: "./output_archive",
		InputPattern:     "*.txt",
		OutputFormat:     "text",
		OutputFileFormat: "{original}_{uuid}",
		LogLevel:         "info",
		MaxConcurrency:   4,
		ContinueOnError:  true,
		ArchiveOnSuccess: true,
	}
}

// applyMainConfigDefaults registers the default of every key so environment
// overrides work even without a config file.
func applyMainConfigDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("input_dir", defaults.InputDir)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("input_archive_dir", defaults.InputArchiveDir)
	v.SetDefault("output_archive_dir", defaults.OutputArchiveDir)
	v.SetDefault("input_pattern", defaults.InputPattern)
	v.SetDefault("output_format", defaults.OutputFormat)
	v.SetDefault("output_file_format", defaults.OutputFileFormat)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_file", defaults.LogFile)
	v.SetDefault("max_concurrency", defaults.MaxConcurrency)
	v.SetDefault("continue_on_error", defaults.ContinueOnError)
	v.SetDefault("archive_on_success", defaults.ArchiveOnSuccess)
	v.SetDefault("use_timestamp_subdirs", defaults.UseTimestampSubdirs)
}

// Validate checks the configuration values.
func (c *MainConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Mark(errors.Wrap(err, "invalid configuration"), ierr.ErrInvalidConfig)
	}
	return nil
}

// Package config provides configuration loading and validation for the
// spantree tools.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidWindowSize = errors.New("window size must be positive")
	ErrInvalidLogLevel   = errors.New("unknown log level")
	ErrInvalidLogFormat  = errors.New("unknown log format")
	ErrInvalidTheme      = errors.New("unknown plot theme")
	ErrInvalidMaxRows    = errors.New("report max rows must be positive")
)

// Default configuration values.
const (
	defaultWindowSize = 2
	defaultMaxRows    = 50
	defaultTheme      = "dark"
	defaultLogLevel   = "info"
	defaultLogFormat  = "text"
)

// Accepted enumeration values.
var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
	themes     = []string{"dark", "light"}
)

// Config holds all configuration for the spantree CLI.
type Config struct {
	Window  WindowConfig  `mapstructure:"window"`
	Report  ReportConfig  `mapstructure:"report"`
	Plot    PlotConfig    `mapstructure:"plot"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// WindowConfig controls sliding-window iteration.
type WindowConfig struct {
	Size   int  `mapstructure:"size"`
	PadEnd bool `mapstructure:"pad_end"`
}

// ReportConfig controls tabular output.
type ReportConfig struct {
	MaxRows    int  `mapstructure:"max_rows"`
	ShowValues bool `mapstructure:"show_values"`
}

// PlotConfig controls HTML chart rendering.
type PlotConfig struct {
	Theme string `mapstructure:"theme"`
	Title string `mapstructure:"title"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional file and SPANTREE_* environment
// variables, applying defaults and validating the result.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("spantree")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/spantree")
	}

	viperCfg.SetEnvPrefix("SPANTREE")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validate(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("window.size", defaultWindowSize)
	viperCfg.SetDefault("window.pad_end", false)

	viperCfg.SetDefault("report.max_rows", defaultMaxRows)
	viperCfg.SetDefault("report.show_values", true)

	viperCfg.SetDefault("plot.theme", defaultTheme)
	viperCfg.SetDefault("plot.title", "spantree")

	viperCfg.SetDefault("logging.level", defaultLogLevel)
	viperCfg.SetDefault("logging.format", defaultLogFormat)
}

func validate(config *Config) error {
	if config.Window.Size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWindowSize, config.Window.Size)
	}

	if config.Report.MaxRows <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxRows, config.Report.MaxRows)
	}

	if !slices.Contains(logLevels, config.Logging.Level) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	if !slices.Contains(logFormats, config.Logging.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if !slices.Contains(themes, config.Plot.Theme) {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, config.Plot.Theme)
	}

	return nil
}

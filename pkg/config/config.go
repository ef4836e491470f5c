// Package config loads codemend settings from defaults, an optional YAML
// file and CODEMEND_ environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/codemend/pkg/observability"
	"github.com/Sumatoshi-tech/codemend/pkg/rewrite"
)

// Sentinel validation errors.
var (
	ErrInvalidIndent      = errors.New("format indent size out of range")
	ErrInvalidConcurrency = errors.New("engine max concurrency must be positive")
	ErrInvalidCacheSize   = errors.New("engine oracle cache size must not be negative")
	ErrInvalidSize        = errors.New("invalid document size limit")
	ErrInvalidLogLevel    = errors.New("unknown log level")
	ErrInvalidLogFormat   = errors.New("unknown log format")
	ErrInvalidSampleRatio = errors.New("telemetry sample ratio must be within [0, 1]")
)

const (
	envPrefix      = "CODEMEND"
	configName     = ".codemend"
	minIndent      = 1
	maxIndent      = 16
	logFormatJSON  = "json"
	logFormatText  = "text"
	maxSampleRatio = 1.0
)

// Config holds every codemend setting.
type Config struct {
	Rules     RulesConfig     `mapstructure:"rules"`
	Format    FormatConfig    `mapstructure:"format"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Limits    LimitsConfig    `mapstructure:"limits"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// FormatConfig controls the re-indentation pass applied to rewritten code.
type FormatConfig struct {
	IndentSize int  `mapstructure:"indent_size"`
	UseTabs    bool `mapstructure:"use_tabs"`
}

// EngineConfig tunes rule dispatch.
type EngineConfig struct {
	MaxConcurrency  int `mapstructure:"max_concurrency"`
	OracleCacheSize int `mapstructure:"oracle_cache_size"`
}

// LimitsConfig bounds the inputs codemend accepts.
type LimitsConfig struct {
	// MaxDocumentSize is a humanize size string such as "4MB".
	MaxDocumentSize string `mapstructure:"max_document_size"`

	// MaxDocumentBytes is MaxDocumentSize parsed at load time.
	MaxDocumentBytes uint64 `mapstructure:"-"`
}

// LoggingConfig selects log severity and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig configures trace and metric export.
type TelemetryConfig struct {
	Environment  string  `mapstructure:"environment"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	MetricsAddr  string  `mapstructure:"metrics_addr"`
}

// LoadConfig loads configuration from configPath, or from .codemend.yaml in
// the working or home directory when configPath is empty.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	if used := viperCfg.ConfigFileUsed(); used != "" {
		if err := validateFile(used); err != nil {
			return nil, err
		}
	}

	var config Config

	if err := viperCfg.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	viperCfg := viper.New()
	setDefaults(viperCfg)

	var config Config

	// Defaults always decode and validate.
	_ = viperCfg.Unmarshal(&config)
	_ = validateConfig(&config)

	return &config
}

func setDefaults(viperCfg *viper.Viper) {
	for key, enabled := range defaultRules() {
		viperCfg.SetDefault("rules."+key, enabled)
	}

	viperCfg.SetDefault("format.indent_size", DefaultIndentSize)
	viperCfg.SetDefault("format.use_tabs", false)

	viperCfg.SetDefault("engine.max_concurrency", DefaultMaxConcurrency)
	viperCfg.SetDefault("engine.oracle_cache_size", DefaultOracleCacheSize)

	viperCfg.SetDefault("limits.max_document_size", DefaultMaxDocumentSize)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", logFormatText)

	viperCfg.SetDefault("telemetry.environment", "")
	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
	viperCfg.SetDefault("telemetry.metrics_addr", "")
}

// validateFile checks the raw file against the embedded schema before
// viper merges it, so unknown keys are reported rather than ignored.
func validateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var doc map[string]any

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if doc == nil {
		return nil
	}

	return ValidateDocument(doc)
}

func validateConfig(config *Config) error {
	if config.Format.IndentSize < minIndent || config.Format.IndentSize > maxIndent {
		return fmt.Errorf("%w: %d", ErrInvalidIndent, config.Format.IndentSize)
	}

	if config.Engine.MaxConcurrency < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidConcurrency, config.Engine.MaxConcurrency)
	}

	if config.Engine.OracleCacheSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheSize, config.Engine.OracleCacheSize)
	}

	size, err := humanize.ParseBytes(config.Limits.MaxDocumentSize)
	if err != nil || size == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidSize, config.Limits.MaxDocumentSize)
	}

	config.Limits.MaxDocumentBytes = size

	if _, err := config.Logging.SlogLevel(); err != nil {
		return err
	}

	switch config.Logging.Format {
	case logFormatJSON, logFormatText:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Telemetry.SampleRatio < 0 || config.Telemetry.SampleRatio > maxSampleRatio {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, config.Telemetry.SampleRatio)
	}

	return nil
}

// SlogLevel parses Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}

	return level, nil
}

// RewriteOptions returns the formatter options.
func (f FormatConfig) RewriteOptions() rewrite.Options {
	if f.UseTabs {
		return rewrite.Options{IndentUnit: "\t"}
	}

	return rewrite.Options{IndentUnit: strings.Repeat(" ", f.IndentSize)}
}

// Observability builds the telemetry configuration for a run mode.
func (c *Config) Observability(mode observability.AppMode, version string) observability.Config {
	obs := observability.DefaultConfig()
	obs.ServiceVersion = version
	obs.Environment = c.Telemetry.Environment
	obs.Mode = mode
	obs.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	obs.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	obs.OTLPInsecure = c.Telemetry.OTLPInsecure
	obs.SampleRatio = c.Telemetry.SampleRatio
	obs.Prometheus = c.Telemetry.MetricsAddr != ""
	obs.LogJSON = c.Logging.Format == logFormatJSON

	if level, err := c.Logging.SlogLevel(); err == nil {
		obs.LogLevel = level
	}

	return obs
}

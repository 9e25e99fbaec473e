// Package config loads and validates observability configuration from
// YAML files, with optional hot reload through a file watcher.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/avagraphql/observability"
)

// Config is the root observability configuration.
type Config struct {
	Service ServiceConfig `yaml:"service" json:"service"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Tracing TracingConfig `yaml:"tracing" json:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// ServiceConfig identifies the service emitting telemetry.
type ServiceConfig struct {
	Name        string `yaml:"name" json:"name"`
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`
	Environment string `yaml:"environment,omitempty" json:"environment,omitempty"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level,omitempty" json:"level,omitempty"`

	// Format is the log output format (json, console).
	Format string `yaml:"format,omitempty" json:"format,omitempty"`

	// Output is the log destination (stdout, stderr).
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	// Enabled enables span export.
	Enabled bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// OTLPEndpoint is the OTLP gRPC collector endpoint.
	OTLPEndpoint string `yaml:"otlpEndpoint,omitempty" json:"otlpEndpoint,omitempty"`

	// SamplingRate is the trace sampling rate in [0, 1].
	SamplingRate float64 `yaml:"samplingRate,omitempty" json:"samplingRate,omitempty"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled enables observation metrics.
	Enabled bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        "avagraphql",
			Version:     "1.0.0",
			Environment: "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			OTLPEndpoint: "localhost:4317",
			SamplingRate: 1.0,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file, applying defaults
// for unset fields and validating the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Service.Name == "" {
		return fmt.Errorf("service.name must not be empty")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is invalid (expected debug, info, warn or error)", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q is invalid (expected json or console)", c.Logging.Format)
	}

	switch c.Logging.Output {
	case "stdout", "stderr":
	default:
		return fmt.Errorf("logging.output %q is invalid (expected stdout or stderr)", c.Logging.Output)
	}

	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		return fmt.Errorf("tracing.samplingRate %v is out of range [0, 1]", c.Tracing.SamplingRate)
	}

	if c.Tracing.Enabled && c.Tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlpEndpoint must be set when tracing is enabled")
	}

	return nil
}

// Observability maps the configuration to an observability config.
func (c *Config) Observability() *observability.Config {
	return &observability.Config{
		ServiceName:       c.Service.Name,
		ServiceVersion:    c.Service.Version,
		Environment:       c.Service.Environment,
		LogLevel:          c.Logging.Level,
		LogFormat:         c.Logging.Format,
		LogOutput:         c.Logging.Output,
		TracingEnabled:    c.Tracing.Enabled,
		OTLPEndpoint:      c.Tracing.OTLPEndpoint,
		TracingSampleRate: c.Tracing.SamplingRate,
		MetricsEnabled:    c.Metrics.Enabled,
	}
}

// Package observability provides logging, tracing and metrics for
// GraphQL server support, built around an observation registry: a
// handler chain that turns observation lifecycles into OpenTelemetry
// spans, Prometheus metrics and structured logs.
package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Config holds configuration for observability.
type Config struct {
	// Service information
	ServiceName    string
	ServiceVersion string
	Environment    string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// Tracing configuration
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64

	// Metrics configuration
	MetricsEnabled bool

	// MetricsRegisterer receives observation metrics. If nil, the
	// default Prometheus registerer is used.
	MetricsRegisterer prometheus.Registerer
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		ServiceName:       "avagraphql",
		ServiceVersion:    "1.0.0",
		Environment:       "development",
		LogLevel:          "info",
		LogFormat:         "json",
		LogOutput:         "stdout",
		TracingEnabled:    false,
		OTLPEndpoint:      "localhost:4317",
		TracingSampleRate: 1.0,
		MetricsEnabled:    true,
	}
}

// Observability bundles the logger, tracer and observation registry.
type Observability struct {
	config   *Config
	logger   Logger
	tracer   *Tracer
	registry *ObservationRegistry
}

// New creates a new Observability instance.
func New(config *Config) (*Observability, error) {
	if config == nil {
		config = DefaultConfig()
	}

	return &Observability{
		config: config,
	}, nil
}

// Start initializes all observability components and assembles the
// observation registry handler chain.
func (o *Observability) Start(ctx context.Context) error {
	logger, err := NewLogger(LogConfig{
		Level:  o.config.LogLevel,
		Format: o.config.LogFormat,
		Output: o.config.LogOutput,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	o.logger = logger.With(
		String("service", o.config.ServiceName),
		String("version", o.config.ServiceVersion),
		String("environment", o.config.Environment),
	)
	SetGlobalLogger(o.logger)

	tracer, err := NewTracer(TracerConfig{
		ServiceName:  o.config.ServiceName,
		OTLPEndpoint: o.config.OTLPEndpoint,
		SamplingRate: o.config.TracingSampleRate,
		Enabled:      o.config.TracingEnabled,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	o.tracer = tracer

	handlers := []Handler{NewLoggingHandler(o.logger)}
	if o.config.TracingEnabled {
		handlers = append(handlers, NewTracingHandler(tracer.Tracer()))
	}
	if o.config.MetricsEnabled {
		handlers = append(handlers, NewMetricsHandler(o.config.MetricsRegisterer))
	}
	o.registry = NewObservationRegistry(handlers...)

	o.logger.Info("observability initialized",
		Bool("tracing_enabled", o.config.TracingEnabled),
		Bool("metrics_enabled", o.config.MetricsEnabled),
	)
	return nil
}

// Stop shuts down all observability components.
func (o *Observability) Stop(ctx context.Context) error {
	var errs []error

	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shut down tracer: %w", err))
		}
	}

	if o.logger != nil {
		if err := o.logger.Sync(); err != nil {
			// Ignore sync errors for stdout/stderr
			if o.config.LogOutput != "stdout" && o.config.LogOutput != "stderr" {
				errs = append(errs, fmt.Errorf("failed to sync logger: %w", err))
			}
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Logger returns the logger.
func (o *Observability) Logger() Logger {
	return o.logger
}

// Tracer returns the tracer.
func (o *Observability) Tracer() *Tracer {
	return o.tracer
}

// Registry returns the observation registry.
func (o *Observability) Registry() *ObservationRegistry {
	return o.registry
}

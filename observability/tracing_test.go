package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewTracer_Disabled(t *testing.T) {
	t.Parallel()

	tracer, err := NewTracer(TracerConfig{
		ServiceName: "test",
		Enabled:     false,
	})
	require.NoError(t, err)
	require.NotNil(t, tracer)

	// Disabled tracer still hands out usable spans.
	_, span := tracer.StartSpan(t.Context(), "test-span")
	span.End()

	assert.NoError(t, tracer.Shutdown(t.Context()))
}

func TestNewTracerWithProvider(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() {
		_ = provider.Shutdown(t.Context())
	})

	tracer := NewTracerWithProvider(provider, "test")
	_, span := tracer.StartSpan(t.Context(), "test-span")
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "test-span", spans[0].Name)
}

func TestCreateSampler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rate float64
		want string
	}{
		{name: "always sample at 1.0", rate: 1.0, want: sdktrace.AlwaysSample().Description()},
		{name: "always sample above 1.0", rate: 2.0, want: sdktrace.AlwaysSample().Description()},
		{name: "never sample at 0", rate: 0, want: sdktrace.NeverSample().Description()},
		{name: "never sample below 0", rate: -0.5, want: sdktrace.NeverSample().Description()},
		{name: "ratio based between 0 and 1", rate: 0.25, want: sdktrace.TraceIDRatioBased(0.25).Description()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sampler := createSampler(tt.rate)
			assert.Equal(t, tt.want, sampler.Description())
		})
	}
}

func TestBuildRetryConfig(t *testing.T) {
	t.Parallel()

	t.Run("nil config uses defaults", func(t *testing.T) {
		t.Parallel()

		got := buildRetryConfig(nil)
		assert.True(t, got.Enabled)
		assert.Equal(t, DefaultOTLPRetryInitialInterval, got.InitialInterval)
		assert.Equal(t, DefaultOTLPRetryMaxInterval, got.MaxInterval)
		assert.Equal(t, DefaultOTLPRetryMaxElapsedTime, got.MaxElapsedTime)
	})

	t.Run("custom values preserved", func(t *testing.T) {
		t.Parallel()

		got := buildRetryConfig(&OTLPRetryConfig{
			Enabled:         true,
			InitialInterval: 2 * time.Second,
			MaxInterval:     10 * time.Second,
			MaxElapsedTime:  30 * time.Second,
		})
		assert.Equal(t, 2*time.Second, got.InitialInterval)
		assert.Equal(t, 10*time.Second, got.MaxInterval)
		assert.Equal(t, 30*time.Second, got.MaxElapsedTime)
	})

	t.Run("zero values replaced by defaults", func(t *testing.T) {
		t.Parallel()

		got := buildRetryConfig(&OTLPRetryConfig{Enabled: false})
		assert.False(t, got.Enabled)
		assert.Equal(t, DefaultOTLPRetryInitialInterval, got.InitialInterval)
		assert.Equal(t, DefaultOTLPRetryMaxInterval, got.MaxInterval)
		assert.Equal(t, DefaultOTLPRetryMaxElapsedTime, got.MaxElapsedTime)
	})
}

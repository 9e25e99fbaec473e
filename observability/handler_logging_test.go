package observability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewLoggerWithCore(core), logs
}

func TestLoggingHandler_LogsLifecycle(t *testing.T) {
	t.Parallel()

	logger, logs := newObservedLogger()
	registry := NewObservationRegistry(NewLoggingHandler(logger))

	obs := registry.Observation(nil, testConvention{
		name:           "test.observation",
		contextualName: "test run",
		keyValues:      []KeyValue{KV("outcome", "success")},
	}, &testContext{})

	obs.Start()
	obs.Stop()

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "observation started", entries[0].Message)
	assert.Equal(t, "observation stopped", entries[1].Message)

	stopFields := entries[1].ContextMap()
	assert.Equal(t, "test.observation", stopFields["observation"])
	assert.Equal(t, "success", stopFields["outcome"])
	assert.Contains(t, stopFields, "duration")
}

func TestLoggingHandler_LogsError(t *testing.T) {
	t.Parallel()

	logger, logs := newObservedLogger()
	registry := NewObservationRegistry(NewLoggingHandler(logger))

	obs := registry.Observation(nil, testConvention{name: "test"}, &testContext{})
	obs.Start()
	obs.Error(errors.New("boom"))
	obs.Stop()

	entries := logs.FilterMessage("observation error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
}

func TestNewLoggingHandler_NilLogger(t *testing.T) {
	t.Parallel()

	handler := NewLoggingHandler(nil)
	require.NotNil(t, handler)

	// Must not panic with the nop fallback.
	registry := NewObservationRegistry(handler)
	obs := registry.Observation(nil, testConvention{name: "test"}, &testContext{})
	obs.Start()
	obs.Stop()
}

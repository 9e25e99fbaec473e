package observability

import "time"

// LoggingHandler emits a debug log line for each observation lifecycle
// event. Intended for development; keep disabled at info level in
// production.
type LoggingHandler struct {
	logger Logger
}

// NewLoggingHandler creates a logging handler. A nil logger falls back
// to the nop logger.
func NewLoggingHandler(logger Logger) *LoggingHandler {
	if logger == nil {
		logger = NopLogger()
	}
	return &LoggingHandler{logger: logger}
}

// OnStart logs the observation start.
func (h *LoggingHandler) OnStart(octx ObservationContext) {
	base := octx.Base()
	h.logger.Debug("observation started",
		String("observation", base.Name()),
		String("contextual_name", base.ContextualName()),
	)
}

// OnError logs the recorded error.
func (h *LoggingHandler) OnError(octx ObservationContext) {
	base := octx.Base()
	h.logger.Debug("observation error",
		String("observation", base.Name()),
		Error(base.Err()),
	)
}

// OnStop logs the observation stop with its duration and final tags.
func (h *LoggingHandler) OnStop(octx ObservationContext) {
	base := octx.Base()
	fields := []Field{
		String("observation", base.Name()),
		String("contextual_name", base.ContextualName()),
		Duration("duration", time.Since(base.StartTime())),
	}
	for _, kv := range base.KeyValues() {
		fields = append(fields, String(kv.Key, kv.Value))
	}
	h.logger.Debug("observation stopped", fields...)
}

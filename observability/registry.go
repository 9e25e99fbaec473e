package observability

// Convention maps an observation context to a stable name, contextual
// name and a set of low-cardinality key-values. Implementations must be
// pure: no I/O, no side effects, and identical output for identical
// context contents.
type Convention interface {
	// Name returns the stable observation name shared by all
	// observations of this kind.
	Name() string

	// ContextualName returns the human-readable name of this single
	// observation.
	ContextualName(octx ObservationContext) string

	// KeyValues returns the low-cardinality tags for the context.
	KeyValues(octx ObservationContext) []KeyValue
}

// Handler receives observation lifecycle callbacks. OnStart and OnError
// run in registration order, OnStop in reverse registration order.
type Handler interface {
	OnStart(octx ObservationContext)
	OnError(octx ObservationContext)
	OnStop(octx ObservationContext)
}

// ObservationRegistry creates observations and dispatches their
// lifecycle to a fixed chain of handlers.
type ObservationRegistry struct {
	handlers []Handler
}

// NewObservationRegistry creates a registry with the given handlers.
func NewObservationRegistry(handlers ...Handler) *ObservationRegistry {
	return &ObservationRegistry{handlers: handlers}
}

// NopObservationRegistry returns a registry with no handlers. Observations
// created against it track their lifecycle state but record nothing.
func NopObservationRegistry() *ObservationRegistry {
	return &ObservationRegistry{}
}

// Observation creates an unstarted observation for the given context.
// The custom convention is used when non-nil, the fallback convention
// otherwise; the choice is resolved once, at creation time.
func (r *ObservationRegistry) Observation(custom, fallback Convention, octx ObservationContext) *Observation {
	convention := custom
	if convention == nil {
		convention = fallback
	}
	return &Observation{
		registry:   r,
		convention: convention,
		octx:       octx,
	}
}

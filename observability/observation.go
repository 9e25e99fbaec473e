package observability

import (
	"sync"
	"time"
)

// KeyValue is a low-cardinality observation tag.
type KeyValue struct {
	Key   string
	Value string
}

// KV creates a KeyValue.
func KV(key, value string) KeyValue {
	return KeyValue{Key: key, Value: value}
}

// ObservationContext is implemented by typed observation contexts.
// Typed contexts embed ContextBase to satisfy this interface.
type ObservationContext interface {
	Base() *ContextBase
}

// ContextBase carries the common state of an observation context: name,
// contextual name, low-cardinality key-values, the recorded error, the
// explicit parent observation and per-handler scratch storage.
// It must not be copied after first use.
type ContextBase struct {
	mu             sync.Mutex
	name           string
	contextualName string
	keyValues      []KeyValue
	err            error
	parent         *Observation
	startTime      time.Time
	scratch        map[any]any
}

// Base returns the context base itself, satisfying ObservationContext.
func (c *ContextBase) Base() *ContextBase {
	return c
}

// Name returns the observation name.
func (c *ContextBase) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

// ContextualName returns the human-readable name of this single observation.
func (c *ContextBase) ContextualName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contextualName
}

// KeyValues returns a copy of the low-cardinality key-values.
func (c *ContextBase) KeyValues() []KeyValue {
	c.mu.Lock()
	defer c.mu.Unlock()
	kvs := make([]KeyValue, len(c.keyValues))
	copy(kvs, c.keyValues)
	return kvs
}

// Err returns the error recorded on this observation, if any.
func (c *ContextBase) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Parent returns the explicit parent observation, or nil.
func (c *ContextBase) Parent() *Observation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parent
}

// StartTime returns the time the observation was started.
func (c *ContextBase) StartTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startTime
}

// PutScratch stores per-handler state on the context.
func (c *ContextBase) PutScratch(key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scratch == nil {
		c.scratch = make(map[any]any)
	}
	c.scratch[key] = value
}

// Scratch returns per-handler state previously stored with PutScratch.
func (c *ContextBase) Scratch(key any) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scratch[key]
}

func (c *ContextBase) setName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

func (c *ContextBase) setContextualName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contextualName = name
}

func (c *ContextBase) setKeyValues(kvs []KeyValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keyValues = kvs
}

func (c *ContextBase) setError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *ContextBase) setParent(parent *Observation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parent = parent
}

func (c *ContextBase) markStart(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = t
}

// Observation is a single unit of measurement. Its lifecycle is
// created, started, optionally errored, then stopped. Start and Stop
// are effective at most once; Error is only recorded between Start
// and Stop. Parent linkage is an explicit field write via SetParent,
// never inferred from ambient state.
type Observation struct {
	registry   *ObservationRegistry
	convention Convention
	octx       ObservationContext

	mu      sync.Mutex
	started bool
	stopped bool
}

// Context returns the observation context.
func (o *Observation) Context() ObservationContext {
	return o.octx
}

// SetParent sets the explicit parent observation. Passing nil clears it.
func (o *Observation) SetParent(parent *Observation) {
	o.octx.Base().setParent(parent)
}

// Parent returns the explicit parent observation, or nil.
func (o *Observation) Parent() *Observation {
	return o.octx.Base().Parent()
}

// Start starts the observation and notifies handlers. Calling Start on
// an already started or stopped observation has no effect.
func (o *Observation) Start() *Observation {
	o.mu.Lock()
	if o.started || o.stopped {
		o.mu.Unlock()
		return o
	}
	o.started = true
	o.mu.Unlock()

	base := o.octx.Base()
	base.setName(o.convention.Name())
	base.setContextualName(o.convention.ContextualName(o.octx))
	base.markStart(time.Now())

	for _, h := range o.registry.handlers {
		h.OnStart(o.octx)
	}
	return o
}

// Error records an error on the observation and notifies handlers.
// It has no effect before Start or after Stop.
func (o *Observation) Error(err error) {
	o.mu.Lock()
	if !o.started || o.stopped {
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()

	o.octx.Base().setError(err)
	for _, h := range o.registry.handlers {
		h.OnError(o.octx)
	}
}

// Stop stops the observation, re-evaluates the convention against the
// completed context and notifies handlers in reverse registration order.
// Calling Stop on a never-started or already stopped observation has no
// effect.
func (o *Observation) Stop() {
	o.mu.Lock()
	if !o.started || o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	o.mu.Unlock()

	base := o.octx.Base()
	base.setContextualName(o.convention.ContextualName(o.octx))
	base.setKeyValues(o.convention.KeyValues(o.octx))

	for i := len(o.registry.handlers) - 1; i >= 0; i-- {
		o.registry.handlers[i].OnStop(o.octx)
	}
}

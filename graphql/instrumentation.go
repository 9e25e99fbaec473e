package graphql

// InstrumentationState is per-execution scratch state created by an
// instrumentation and handed back to it on every hook of that
// execution. One instance per top-level execution; never shared across
// executions.
type InstrumentationState interface{}

// CreateStateParameters carries the inputs for creating instrumentation
// state.
type CreateStateParameters struct {
	Input *ExecutionInput
}

// ExecutionParameters carries the inputs of the request lifecycle hook.
type ExecutionParameters struct {
	Input *ExecutionInput
}

// FieldFetchParameters carries the inputs of the data-fetch hook.
type FieldFetchParameters struct {
	// Environment is the field fetch environment.
	Environment *FieldEnvironment

	// Trivial marks fetchers that are pure property access with no
	// meaningful cost; instrumentations should skip those.
	Trivial bool
}

// ExecutionCallback is invoked exactly once when a whole execution
// finishes, with the result and the top-level error, if any.
type ExecutionCallback func(response *Response, err error)

// Instrumentation is the engine extension point contract. A host engine
// creates state once per execution, invokes BeginExecution before any
// field is resolved, wraps every data fetcher through
// InstrumentDataFetcher, and invokes the returned callback once the
// execution completes.
type Instrumentation interface {
	// CreateState creates per-execution state, handed back on every
	// subsequent hook of the same execution.
	CreateState(params *CreateStateParameters) InstrumentationState

	// BeginExecution runs before any field of the execution is
	// resolved and returns the completion callback for the execution.
	BeginExecution(params *ExecutionParameters, state InstrumentationState) ExecutionCallback

	// InstrumentDataFetcher wraps a field's data fetcher. Returning
	// the fetcher unchanged opts out for that field.
	InstrumentDataFetcher(fetcher DataFetcher, params *FieldFetchParameters, state InstrumentationState) DataFetcher
}

// NoopInstrumentation implements Instrumentation with no behavior.
// Embed it to implement only some hooks.
type NoopInstrumentation struct{}

// CreateState returns nil state.
func (NoopInstrumentation) CreateState(_ *CreateStateParameters) InstrumentationState {
	return nil
}

// BeginExecution returns a callback that does nothing.
func (NoopInstrumentation) BeginExecution(_ *ExecutionParameters, _ InstrumentationState) ExecutionCallback {
	return func(_ *Response, _ error) {}
}

// InstrumentDataFetcher returns the fetcher unchanged.
func (NoopInstrumentation) InstrumentDataFetcher(fetcher DataFetcher, _ *FieldFetchParameters, _ InstrumentationState) DataFetcher {
	return fetcher
}

// ChainedInstrumentation composes several instrumentations. Hooks run
// in registration order; data fetchers are wrapped so that the first
// instrumentation observes the outermost invocation.
type ChainedInstrumentation struct {
	instrumentations []Instrumentation
}

// NewChainedInstrumentation creates a chain over the given
// instrumentations.
func NewChainedInstrumentation(instrumentations ...Instrumentation) *ChainedInstrumentation {
	return &ChainedInstrumentation{instrumentations: instrumentations}
}

// chainedState pairs each chained instrumentation with its own state.
type chainedState struct {
	states []InstrumentationState
}

// CreateState creates state for every chained instrumentation.
func (c *ChainedInstrumentation) CreateState(params *CreateStateParameters) InstrumentationState {
	states := make([]InstrumentationState, len(c.instrumentations))
	for i, instr := range c.instrumentations {
		states[i] = instr.CreateState(params)
	}
	return &chainedState{states: states}
}

// BeginExecution invokes every chained hook and returns a callback
// dispatching completion to each of them.
func (c *ChainedInstrumentation) BeginExecution(params *ExecutionParameters, state InstrumentationState) ExecutionCallback {
	st, ok := state.(*chainedState)
	if !ok {
		return func(_ *Response, _ error) {}
	}
	callbacks := make([]ExecutionCallback, len(c.instrumentations))
	for i, instr := range c.instrumentations {
		callbacks[i] = instr.BeginExecution(params, st.states[i])
	}
	return func(response *Response, err error) {
		for _, cb := range callbacks {
			if cb != nil {
				cb(response, err)
			}
		}
	}
}

// InstrumentDataFetcher folds the fetcher through every chained
// instrumentation, last registered innermost.
func (c *ChainedInstrumentation) InstrumentDataFetcher(fetcher DataFetcher, params *FieldFetchParameters, state InstrumentationState) DataFetcher {
	st, ok := state.(*chainedState)
	if !ok {
		return fetcher
	}
	for i := len(c.instrumentations) - 1; i >= 0; i-- {
		fetcher = c.instrumentations[i].InstrumentDataFetcher(fetcher, params, st.states[i])
	}
	return fetcher
}

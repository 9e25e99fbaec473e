package observation

import (
	"fmt"

	"github.com/vyrodovalexey/avagraphql/graphql"
	"github.com/vyrodovalexey/avagraphql/observability"
)

// observationBagKey is the fixed key the currently active observation
// is stored under in the execution's context bag.
type observationBagKey struct{}

// Default conventions, shared by all instrumentation instances.
var (
	defaultRequestConvention     RequestObservationConvention     = DefaultRequestObservationConvention{}
	defaultDataFetcherConvention DataFetcherObservationConvention = DefaultDataFetcherObservationConvention{}
)

// CurrentObservation returns the observation currently active in the
// execution's context bag, or nil. Hosts that embed an execution inside
// an outer traced operation put their own observation in the bag before
// starting the execution; the request observation then parents under it.
func CurrentObservation(gctx *graphql.Context) *observability.Observation {
	obs, _ := gctx.Get(observationBagKey{}).(*observability.Observation)
	return obs
}

// SetCurrentObservation stores an observation in the execution's
// context bag, making it the parent of the request observation.
func SetCurrentObservation(gctx *graphql.Context, obs *observability.Observation) {
	gctx.Put(observationBagKey{}, obs)
}

// instrumentationState is the per-execution scratch holder: a factory
// for request- and fetch-level observations and the owner of the
// restore-parent logic. One instance per top-level execution.
type instrumentationState struct{}

// createRequestObservation asks the registry for a request observation,
// falling back to the default request convention when convention is
// nil. The returned observation is unstarted.
func (s *instrumentationState) createRequestObservation(
	convention RequestObservationConvention,
	octx *ExecutionRequestObservationContext,
	registry *observability.ObservationRegistry,
) *observability.Observation {
	return registry.Observation(
		adaptRequestConvention(convention),
		adaptRequestConvention(defaultRequestConvention),
		octx,
	)
}

// createDataFetcherObservation asks the registry for a data-fetcher
// observation, falling back to the default data-fetcher convention
// when convention is nil. The returned observation is unstarted.
func (s *instrumentationState) createDataFetcherObservation(
	convention DataFetcherObservationConvention,
	octx *DataFetcherObservationContext,
	registry *observability.ObservationRegistry,
) *observability.Observation {
	return registry.Observation(
		adaptDataFetcherConvention(convention),
		adaptDataFetcherConvention(defaultDataFetcherConvention),
		octx,
	)
}

// restoreParentObservation puts the parent observation back in the bag,
// or removes the key when there was no parent. This must be the last
// action on every exit path of any request or fetch observation, so the
// bag never retains a stale observation.
func (s *instrumentationState) restoreParentObservation(gctx *graphql.Context, parent *observability.Observation) {
	if parent != nil {
		gctx.Put(observationBagKey{}, parent)
	} else {
		gctx.Delete(observationBagKey{})
	}
}

// Instrumentation creates observations for GraphQL requests and data
// fetcher operations.
//
// The request observation measures the whole execution and collects the
// ExecutionRequestObservationContext; a request can perform many data
// fetching operations, each measured by a data-fetcher observation
// parented under the observation active when the fetch began.
//
// Parent linkage is always an explicit field write, never inferred from
// the calling goroutine, so nesting stays correct when the engine
// resolves sibling fields concurrently or resumes deferred fetchers on
// other goroutines.
//
// A deferred fetch whose handle never completes (engine-level
// cancellation) leaves its observation un-stopped; detecting such
// orphans is left to the registry's handlers.
type Instrumentation struct {
	registry              *observability.ObservationRegistry
	requestConvention     RequestObservationConvention
	dataFetcherConvention DataFetcherObservationConvention
}

var _ graphql.Instrumentation = (*Instrumentation)(nil)

// New creates an instrumentation recording observations against the
// given registry with the default conventions.
func New(registry *observability.ObservationRegistry) *Instrumentation {
	return &Instrumentation{registry: registry}
}

// NewWithConventions creates an instrumentation recording observations
// against the given registry with custom conventions. A nil convention
// keeps the corresponding default.
func NewWithConventions(
	registry *observability.ObservationRegistry,
	requestConvention RequestObservationConvention,
	dataFetcherConvention DataFetcherObservationConvention,
) *Instrumentation {
	return &Instrumentation{
		registry:              registry,
		requestConvention:     requestConvention,
		dataFetcherConvention: dataFetcherConvention,
	}
}

// CreateState creates the per-execution state holder.
func (i *Instrumentation) CreateState(_ *graphql.CreateStateParameters) graphql.InstrumentationState {
	return &instrumentationState{}
}

// BeginExecution starts the request observation, makes it the current
// observation in the context bag, and returns the completion callback
// that records the result, stops the observation and restores the bag
// to its prior value.
func (i *Instrumentation) BeginExecution(params *graphql.ExecutionParameters, state graphql.InstrumentationState) graphql.ExecutionCallback {
	st, ok := state.(*instrumentationState)
	if !ok {
		return func(_ *graphql.Response, _ error) {}
	}

	gctx := params.Input.GraphQLContext()
	octx := NewExecutionRequestObservationContext(params.Input)
	parent := CurrentObservation(gctx)

	requestObservation := st.createRequestObservation(i.requestConvention, octx, i.registry)
	requestObservation.SetParent(parent)
	gctx.Put(observationBagKey{}, requestObservation)
	requestObservation.Start()

	return func(response *graphql.Response, err error) {
		octx.SetResponse(response)
		if err != nil {
			requestObservation.Error(err)
		}
		requestObservation.Stop()
		st.restoreParentObservation(gctx, parent)
	}
}

// InstrumentDataFetcher wraps the fetcher with a data-fetcher
// observation. Trivial fetchers are returned unchanged.
func (i *Instrumentation) InstrumentDataFetcher(fetcher graphql.DataFetcher, params *graphql.FieldFetchParameters, state graphql.InstrumentationState) graphql.DataFetcher {
	st, ok := state.(*instrumentationState)
	if params.Trivial || !ok {
		return fetcher
	}

	return func(env *graphql.FieldEnvironment) (result graphql.FetchResult, err error) {
		gctx := env.GraphQLContext
		parent := CurrentObservation(gctx)
		octx := NewDataFetcherObservationContext(env)

		fetchObservation := st.createDataFetcherObservation(i.dataFetcherConvention, octx, i.registry)
		fetchObservation.SetParent(parent)
		gctx.Put(observationBagKey{}, fetchObservation)
		fetchObservation.Start()

		defer func() {
			if r := recover(); r != nil {
				fetchObservation.Error(fmt.Errorf("data fetcher panic: %v", r))
				fetchObservation.Stop()
				st.restoreParentObservation(gctx, parent)
				panic(r)
			}
		}()

		result, err = fetcher(env)
		if err != nil {
			fetchObservation.Error(err)
			fetchObservation.Stop()
			st.restoreParentObservation(gctx, parent)
			return result, err
		}

		if result.IsDeferred() {
			result.Deferred().WhenComplete(func(value any, derr error) {
				octx.SetValue(value)
				if derr != nil {
					fetchObservation.Error(derr)
				}
				fetchObservation.Stop()
				st.restoreParentObservation(gctx, parent)
			})
			return result, nil
		}

		octx.SetValue(result.Value())
		fetchObservation.Stop()
		st.restoreParentObservation(gctx, parent)
		return result, nil
	}
}

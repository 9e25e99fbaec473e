package graphql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingInstrumentation records hook invocations in a shared journal.
type recordingInstrumentation struct {
	label   string
	journal *[]string
}

func (r *recordingInstrumentation) CreateState(_ *CreateStateParameters) InstrumentationState {
	*r.journal = append(*r.journal, r.label+":state")
	return r.label
}

func (r *recordingInstrumentation) BeginExecution(_ *ExecutionParameters, state InstrumentationState) ExecutionCallback {
	*r.journal = append(*r.journal, r.label+":begin:"+state.(string))
	return func(_ *Response, _ error) {
		*r.journal = append(*r.journal, r.label+":complete")
	}
}

func (r *recordingInstrumentation) InstrumentDataFetcher(fetcher DataFetcher, _ *FieldFetchParameters, _ InstrumentationState) DataFetcher {
	return func(env *FieldEnvironment) (FetchResult, error) {
		*r.journal = append(*r.journal, r.label+":fetch")
		return fetcher(env)
	}
}

func TestNoopInstrumentation(t *testing.T) {
	t.Parallel()

	var instr NoopInstrumentation

	state := instr.CreateState(&CreateStateParameters{})
	assert.Nil(t, state)

	callback := instr.BeginExecution(&ExecutionParameters{}, state)
	require.NotNil(t, callback)
	callback(&Response{}, nil)

	fetcher := DataFetcher(func(_ *FieldEnvironment) (FetchResult, error) {
		return ImmediateResult("v"), nil
	})
	wrapped := instr.InstrumentDataFetcher(fetcher, &FieldFetchParameters{}, state)
	result, err := wrapped(&FieldEnvironment{})
	require.NoError(t, err)
	assert.Equal(t, "v", result.Value())
}

func TestChainedInstrumentation_HookOrder(t *testing.T) {
	t.Parallel()

	var journal []string
	first := &recordingInstrumentation{label: "first", journal: &journal}
	second := &recordingInstrumentation{label: "second", journal: &journal}
	chain := NewChainedInstrumentation(first, second)

	input := NewExecutionInput(`{ greeting }`)
	state := chain.CreateState(&CreateStateParameters{Input: input})
	callback := chain.BeginExecution(&ExecutionParameters{Input: input}, state)
	callback(&Response{}, nil)

	assert.Equal(t, []string{
		"first:state", "second:state",
		"first:begin:first", "second:begin:second",
		"first:complete", "second:complete",
	}, journal)
}

func TestChainedInstrumentation_FetcherWrapOrder(t *testing.T) {
	t.Parallel()

	var journal []string
	first := &recordingInstrumentation{label: "first", journal: &journal}
	second := &recordingInstrumentation{label: "second", journal: &journal}
	chain := NewChainedInstrumentation(first, second)

	input := NewExecutionInput(`{ greeting }`)
	state := chain.CreateState(&CreateStateParameters{Input: input})
	journal = journal[:0]

	fetcher := DataFetcher(func(_ *FieldEnvironment) (FetchResult, error) {
		journal = append(journal, "fetcher")
		return ImmediateResult("v"), nil
	})
	wrapped := chain.InstrumentDataFetcher(fetcher, &FieldFetchParameters{}, state)

	result, err := wrapped(&FieldEnvironment{})
	require.NoError(t, err)
	assert.Equal(t, "v", result.Value())

	// The first instrumentation observes the outermost invocation.
	assert.Equal(t, []string{"first:fetch", "second:fetch", "fetcher"}, journal)
}

func TestChainedInstrumentation_ForeignState(t *testing.T) {
	t.Parallel()

	chain := NewChainedInstrumentation()

	callback := chain.BeginExecution(&ExecutionParameters{}, "not-chained-state")
	require.NotNil(t, callback)
	callback(&Response{}, nil)

	fetcher := DataFetcher(func(_ *FieldEnvironment) (FetchResult, error) {
		return ImmediateResult(nil), nil
	})
	wrapped := chain.InstrumentDataFetcher(fetcher, &FieldFetchParameters{}, "not-chained-state")
	assert.NotNil(t, wrapped)
}

func TestNewExecutionInput(t *testing.T) {
	t.Parallel()

	input := NewExecutionInput(`query Greeting { greeting }`,
		WithOperationName("Greeting"),
		WithVariables(map[string]any{"name": "fr"}),
		WithLocale("fr"),
	)

	assert.NotEmpty(t, input.ExecutionID)
	assert.Equal(t, "Greeting", input.OperationName)
	assert.Equal(t, "fr", input.Locale)
	assert.Equal(t, map[string]any{"name": "fr"}, input.Variables)
	require.NotNil(t, input.GraphQLContext())

	other := NewExecutionInput(`{ greeting }`)
	assert.NotEqual(t, input.ExecutionID, other.ExecutionID)
	assert.NotSame(t, input.GraphQLContext(), other.GraphQLContext())
}

func TestNewExecutionInput_SharedContext(t *testing.T) {
	t.Parallel()

	gctx := NewContext()
	gctx.Put("outer", true)

	input := NewExecutionInput(`{ greeting }`, WithGraphQLContext(gctx))
	assert.Same(t, gctx, input.GraphQLContext())
	assert.Equal(t, true, input.GraphQLContext().Get("outer"))
}

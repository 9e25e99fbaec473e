// Package observation instruments GraphQL request execution and field
// data fetching with observations recorded against an observation
// registry. The instrumentation keeps the currently active observation
// in the execution's context bag so nested field fetches parent under
// it, and restores the bag to its prior state on every exit path of
// every observation.
package observation

import (
	"sync"

	"github.com/vyrodovalexey/avagraphql/graphql"
	"github.com/vyrodovalexey/avagraphql/observability"
)

// ExecutionRequestObservationContext is the observation context of one
// top-level GraphQL execution. It wraps the execution input and is
// filled once with the response when the execution completes.
type ExecutionRequestObservationContext struct {
	observability.ContextBase

	input *graphql.ExecutionInput

	mu       sync.Mutex
	response *graphql.Response
}

// NewExecutionRequestObservationContext creates a context for the given
// execution input.
func NewExecutionRequestObservationContext(input *graphql.ExecutionInput) *ExecutionRequestObservationContext {
	return &ExecutionRequestObservationContext{input: input}
}

// ExecutionInput returns the execution input.
func (c *ExecutionRequestObservationContext) ExecutionInput() *graphql.ExecutionInput {
	return c.input
}

// Response returns the execution response, nil until completion.
func (c *ExecutionRequestObservationContext) Response() *graphql.Response {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.response
}

// SetResponse records the execution response on completion.
func (c *ExecutionRequestObservationContext) SetResponse(response *graphql.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.response = response
}

// DataFetcherObservationContext is the observation context of one
// field fetch. It wraps the fetch environment and is filled once with
// the resolved value when the fetch completes.
type DataFetcherObservationContext struct {
	observability.ContextBase

	environment *graphql.FieldEnvironment

	mu    sync.Mutex
	value any
}

// NewDataFetcherObservationContext creates a context for the given
// fetch environment.
func NewDataFetcherObservationContext(environment *graphql.FieldEnvironment) *DataFetcherObservationContext {
	return &DataFetcherObservationContext{environment: environment}
}

// Environment returns the field fetch environment.
func (c *DataFetcherObservationContext) Environment() *graphql.FieldEnvironment {
	return c.environment
}

// Value returns the resolved value, nil until completion.
func (c *DataFetcherObservationContext) Value() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// SetValue records the resolved value on completion.
func (c *DataFetcherObservationContext) SetValue(value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
}

// Package graphql defines the execution engine contract consumed by
// instrumentations: per-request inputs and results, the per-execution
// context bag, data fetchers with immediate and deferred results, and
// the instrumentation extension points a host engine invokes around
// request execution and field fetches.
package graphql

import (
	"github.com/google/uuid"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// ExecutionInput carries everything a host engine knows about one
// top-level GraphQL execution.
type ExecutionInput struct {
	// ExecutionID uniquely identifies this execution run.
	ExecutionID string

	// Query is the raw GraphQL document.
	Query string

	// OperationName selects the operation when the document defines
	// several. May be empty.
	OperationName string

	// Variables holds the user-provided variables object.
	Variables map[string]any

	// Extensions holds protocol extensions sent with the request.
	Extensions map[string]any

	// Locale is the client locale, typically from Accept-Language.
	Locale string

	gctx *Context
}

// InputOption is a functional option for configuring an ExecutionInput.
type InputOption func(*ExecutionInput)

// WithOperationName sets the operation name.
func WithOperationName(name string) InputOption {
	return func(in *ExecutionInput) {
		in.OperationName = name
	}
}

// WithVariables sets the variables object.
func WithVariables(variables map[string]any) InputOption {
	return func(in *ExecutionInput) {
		in.Variables = variables
	}
}

// WithExtensions sets the request extensions.
func WithExtensions(extensions map[string]any) InputOption {
	return func(in *ExecutionInput) {
		in.Extensions = extensions
	}
}

// WithLocale sets the client locale.
func WithLocale(locale string) InputOption {
	return func(in *ExecutionInput) {
		in.Locale = locale
	}
}

// WithGraphQLContext attaches an existing context bag, for embedding
// the execution inside an outer traced operation.
func WithGraphQLContext(gctx *Context) InputOption {
	return func(in *ExecutionInput) {
		in.gctx = gctx
	}
}

// NewExecutionInput creates an execution input for the given query with
// a fresh execution ID and context bag.
func NewExecutionInput(query string, opts ...InputOption) *ExecutionInput {
	in := &ExecutionInput{
		ExecutionID: uuid.NewString(),
		Query:       query,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.gctx == nil {
		in.gctx = NewContext()
	}
	return in
}

// GraphQLContext returns the context bag attached to this execution.
func (in *ExecutionInput) GraphQLContext() *Context {
	return in.gctx
}

// Response is the result of one top-level execution.
type Response struct {
	// Data is the resolved data tree, or nil on total failure.
	Data any

	// Errors collects the GraphQL errors raised during execution.
	Errors gqlerror.List
}

package observation

import (
	"fmt"

	"github.com/vyrodovalexey/avagraphql/graphql"
	"github.com/vyrodovalexey/avagraphql/observability"
)

// Observation names.
const (
	requestObservationName     = "graphql.request"
	dataFetcherObservationName = "graphql.datafetcher"
)

// Tag keys.
const (
	tagOperation     = "graphql.operation"
	tagOperationType = "graphql.operation.type"
	tagOutcome       = "graphql.outcome"
	tagFieldName     = "graphql.field.name"
	tagErrorType     = "graphql.error.type"
)

// Outcome tag values.
const (
	outcomeSuccess       = "SUCCESS"
	outcomeRequestError  = "REQUEST_ERROR"
	outcomeInternalError = "INTERNAL_ERROR"
	outcomeError         = "ERROR"
)

const anonymousOperation = "anonymous"

// RequestObservationConvention names and tags request observations.
// Implementations must be pure functions of the context contents.
type RequestObservationConvention interface {
	Name() string
	ContextualName(octx *ExecutionRequestObservationContext) string
	KeyValues(octx *ExecutionRequestObservationContext) []observability.KeyValue
}

// DataFetcherObservationConvention names and tags data-fetcher
// observations. Implementations must be pure functions of the context
// contents.
type DataFetcherObservationConvention interface {
	Name() string
	ContextualName(octx *DataFetcherObservationContext) string
	KeyValues(octx *DataFetcherObservationContext) []observability.KeyValue
}

// DefaultRequestObservationConvention is the request convention used
// when no custom convention is supplied.
type DefaultRequestObservationConvention struct{}

// Name returns the request observation name.
func (DefaultRequestObservationConvention) Name() string {
	return requestObservationName
}

// ContextualName returns "graphql <operation name>".
func (DefaultRequestObservationConvention) ContextualName(octx *ExecutionRequestObservationContext) string {
	return "graphql " + operationName(octx.ExecutionInput())
}

// KeyValues returns the operation name and type plus the outcome.
func (DefaultRequestObservationConvention) KeyValues(octx *ExecutionRequestObservationContext) []observability.KeyValue {
	input := octx.ExecutionInput()
	opType, _ := graphql.DetectOperation(input.Query, input.OperationName)

	return []observability.KeyValue{
		observability.KV(tagOperation, operationName(input)),
		observability.KV(tagOperationType, string(opType)),
		observability.KV(tagOutcome, requestOutcome(octx)),
	}
}

// operationName returns the operation name of the input, falling back
// to the name declared in the document and then to "anonymous".
func operationName(input *graphql.ExecutionInput) string {
	if input.OperationName != "" {
		return input.OperationName
	}
	if _, name := graphql.DetectOperation(input.Query, ""); name != "" {
		return name
	}
	return anonymousOperation
}

// requestOutcome classifies the completed request: INTERNAL_ERROR when
// execution failed outright, REQUEST_ERROR when the response carries
// GraphQL errors, SUCCESS otherwise.
func requestOutcome(octx *ExecutionRequestObservationContext) string {
	if octx.Base().Err() != nil {
		return outcomeInternalError
	}
	response := octx.Response()
	if response == nil {
		return outcomeInternalError
	}
	if len(response.Errors) > 0 {
		return outcomeRequestError
	}
	return outcomeSuccess
}

// DefaultDataFetcherObservationConvention is the data-fetcher
// convention used when no custom convention is supplied.
type DefaultDataFetcherObservationConvention struct{}

// Name returns the data-fetcher observation name.
func (DefaultDataFetcherObservationConvention) Name() string {
	return dataFetcherObservationName
}

// ContextualName returns "graphql field <name>".
func (DefaultDataFetcherObservationConvention) ContextualName(octx *DataFetcherObservationContext) string {
	return "graphql field " + octx.Environment().FieldName
}

// KeyValues returns the field name, outcome and error type.
func (DefaultDataFetcherObservationConvention) KeyValues(octx *DataFetcherObservationContext) []observability.KeyValue {
	outcome := outcomeSuccess
	errorType := "none"
	if err := octx.Base().Err(); err != nil {
		outcome = outcomeError
		errorType = fmt.Sprintf("%T", err)
	}

	return []observability.KeyValue{
		observability.KV(tagFieldName, octx.Environment().FieldName),
		observability.KV(tagOutcome, outcome),
		observability.KV(tagErrorType, errorType),
	}
}

// requestConventionAdapter adapts a typed request convention to the
// registry's Convention interface.
type requestConventionAdapter struct {
	convention RequestObservationConvention
}

func adaptRequestConvention(convention RequestObservationConvention) observability.Convention {
	if convention == nil {
		return nil
	}
	return requestConventionAdapter{convention: convention}
}

func (a requestConventionAdapter) Name() string {
	return a.convention.Name()
}

func (a requestConventionAdapter) ContextualName(octx observability.ObservationContext) string {
	if rctx, ok := octx.(*ExecutionRequestObservationContext); ok {
		return a.convention.ContextualName(rctx)
	}
	return a.convention.Name()
}

func (a requestConventionAdapter) KeyValues(octx observability.ObservationContext) []observability.KeyValue {
	if rctx, ok := octx.(*ExecutionRequestObservationContext); ok {
		return a.convention.KeyValues(rctx)
	}
	return nil
}

// dataFetcherConventionAdapter adapts a typed data-fetcher convention
// to the registry's Convention interface.
type dataFetcherConventionAdapter struct {
	convention DataFetcherObservationConvention
}

func adaptDataFetcherConvention(convention DataFetcherObservationConvention) observability.Convention {
	if convention == nil {
		return nil
	}
	return dataFetcherConventionAdapter{convention: convention}
}

func (a dataFetcherConventionAdapter) Name() string {
	return a.convention.Name()
}

func (a dataFetcherConventionAdapter) ContextualName(octx observability.ObservationContext) string {
	if dctx, ok := octx.(*DataFetcherObservationContext); ok {
		return a.convention.ContextualName(dctx)
	}
	return a.convention.Name()
}

func (a dataFetcherConventionAdapter) KeyValues(octx observability.ObservationContext) []observability.KeyValue {
	if dctx, ok := octx.(*DataFetcherObservationContext); ok {
		return a.convention.KeyValues(dctx)
	}
	return nil
}

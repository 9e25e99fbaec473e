package graphql

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// OperationType is the GraphQL operation type of a document.
type OperationType string

// Operation types.
const (
	OperationQuery        OperationType = "query"
	OperationMutation     OperationType = "mutation"
	OperationSubscription OperationType = "subscription"
	OperationUnknown      OperationType = "unknown"
)

// DetectOperation parses the query document and returns the type and
// name of the operation that would be executed: the operation matching
// operationName when given, the first operation otherwise. It is
// best-effort; an unparsable document yields OperationUnknown and the
// supplied operation name unchanged.
func DetectOperation(query, operationName string) (OperationType, string) {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil || len(doc.Operations) == 0 {
		return OperationUnknown, operationName
	}

	op := doc.Operations[0]
	if operationName != "" {
		if named := doc.Operations.ForName(operationName); named != nil {
			op = named
		}
	}

	switch op.Operation {
	case ast.Query:
		return OperationQuery, op.Name
	case ast.Mutation:
		return OperationMutation, op.Name
	case ast.Subscription:
		return OperationSubscription, op.Name
	default:
		return OperationUnknown, op.Name
	}
}

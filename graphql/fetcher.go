package graphql

import (
	"context"
	"sync"

	"github.com/vektah/gqlparser/v2/ast"
)

// FieldEnvironment describes one field fetch: the field being resolved,
// where it sits in the response tree, its arguments, and the execution
// context it runs under.
type FieldEnvironment struct {
	// FieldName is the name of the field being fetched.
	FieldName string

	// ParentType is the name of the object type declaring the field.
	ParentType string

	// Path locates the field in the response tree.
	Path ast.Path

	// Arguments holds the coerced field arguments.
	Arguments map[string]any

	// Source is the parent object the field is resolved from.
	Source any

	// GraphQLContext is the execution's context bag.
	GraphQLContext *Context

	// Ctx is the Go context of the execution.
	Ctx context.Context
}

// DataFetcher resolves one field. A returned error is the fetch
// failing synchronously; a FetchResult may carry either an immediate
// value or a deferred handle completed later, possibly on another
// goroutine.
type DataFetcher func(env *FieldEnvironment) (FetchResult, error)

// FetchResult is the value produced by a data fetcher: either an
// immediate value or a deferred handle. The zero value is an immediate
// nil.
type FetchResult struct {
	value    any
	deferred *Deferred
}

// ImmediateResult wraps a synchronously resolved value.
func ImmediateResult(value any) FetchResult {
	return FetchResult{value: value}
}

// DeferredResult wraps a deferred handle completed later.
func DeferredResult(d *Deferred) FetchResult {
	return FetchResult{deferred: d}
}

// IsDeferred reports whether the result carries a deferred handle.
func (r FetchResult) IsDeferred() bool {
	return r.deferred != nil
}

// Value returns the immediate value. It is nil for deferred results.
func (r FetchResult) Value() any {
	return r.value
}

// Deferred returns the deferred handle, or nil for immediate results.
func (r FetchResult) Deferred() *Deferred {
	return r.deferred
}

// Deferred is a handle for a value produced asynchronously. It is
// completed exactly once, with either a value or an error; later
// completions are ignored. Completion callbacks registered with
// WhenComplete run exactly once, on the goroutine that completes the
// handle (or immediately on the caller when already complete).
type Deferred struct {
	mu        sync.Mutex
	completed bool
	value     any
	err       error
	callbacks []func(value any, err error)
	done      chan struct{}
}

// NewDeferred creates an incomplete deferred handle.
func NewDeferred() *Deferred {
	return &Deferred{done: make(chan struct{})}
}

// Complete resolves the handle with a value.
func (d *Deferred) Complete(value any) {
	d.complete(value, nil)
}

// CompleteError resolves the handle with an error.
func (d *Deferred) CompleteError(err error) {
	d.complete(nil, err)
}

func (d *Deferred) complete(value any, err error) {
	d.mu.Lock()
	if d.completed {
		d.mu.Unlock()
		return
	}
	d.completed = true
	d.value = value
	d.err = err
	callbacks := d.callbacks
	d.callbacks = nil
	close(d.done)
	d.mu.Unlock()

	for _, cb := range callbacks {
		cb(value, err)
	}
}

// WhenComplete registers a side-effecting continuation invoked with the
// outcome. The handle itself is unchanged; consumers still receive the
// original value or error through Get.
func (d *Deferred) WhenComplete(fn func(value any, err error)) {
	d.mu.Lock()
	if d.completed {
		value, err := d.value, d.err
		d.mu.Unlock()
		fn(value, err)
		return
	}
	d.callbacks = append(d.callbacks, fn)
	d.mu.Unlock()
}

// Done returns a channel closed when the handle completes.
func (d *Deferred) Done() <-chan struct{} {
	return d.done
}

// Get blocks until the handle completes or ctx is done, and returns
// the outcome.
func (d *Deferred) Get(ctx context.Context) (any, error) {
	select {
	case <-d.done:
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.value, d.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

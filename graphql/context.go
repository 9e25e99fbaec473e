package graphql

import "sync"

// Context is the mutable key/value bag attached to one execution run.
// It is reachable from every field fetch of that execution and is safe
// for concurrent use; sibling fields may be resolved on different
// goroutines and deferred resolvers may resume on arbitrary workers.
// Callers that need save/restore semantics must read the prior value
// before writing and write it back (or delete the key) when done.
type Context struct {
	mu     sync.RWMutex
	values map[any]any
}

// NewContext creates an empty execution context bag.
func NewContext() *Context {
	return &Context{values: make(map[any]any)}
}

// Get returns the value stored under key, or nil if absent.
func (c *Context) Get(key any) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

// Lookup returns the value stored under key and whether it was present.
func (c *Context) Lookup(key any) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// Put stores value under key, replacing any previous value.
func (c *Context) Put(key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

// Delete removes the value stored under key.
func (c *Context) Delete(key any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
}

// Len returns the number of stored entries.
func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.values)
}

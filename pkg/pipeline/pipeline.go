// Package pipeline implements the before/after hook chains that wrap every
// cache action. Hooks are registered at configuration time and run in
// registration order; each hook receives the mutable per-call Context and may
// rewrite the call arguments (before phase) or the result (after phase).
//
// A hook returning an error aborts the remaining hooks and the action; the
// error propagates to the caller unchanged. Hooks are trusted configuration
// code, not untrusted input handling: there is no retry and no recovery.
package pipeline

import (
	"sync"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/smartcache/internal/sentinel"
	"github.com/hyp3rd/smartcache/types"
)

// Context carries one cache call through its hook chains. It is created per
// call and discarded after the call returns.
type Context struct {
	action types.Action

	// Store is the cache name the call operates on.
	Store string
	// Key is the storage key. Before hooks may rewrite it.
	Key string
	// Value is the payload of a set or update call. Before hooks may mutate
	// or replace it.
	Value types.Document
	// Default is the fallback value of a get call.
	Default types.Document
	// Result holds the adapter's return value during the after phase. After
	// hooks may replace it.
	Result types.Document
	// Local is scratch space shared between the before and after hooks of a
	// single call.
	Local map[string]any
	// Cache references the facade that issued the call. Typed as any to keep
	// the package free of an import cycle; hooks assert the concrete type.
	Cache any
}

// NewContext builds a context for one invocation of the given action.
func NewContext(action types.Action, store, key string) *Context {
	return &Context{
		action: action,
		Store:  store,
		Key:    key,
		Local:  make(map[string]any),
	}
}

// Action returns the action this context was created for. Hooks cannot
// change it.
func (ctx *Context) Action() types.Action {
	return ctx.action
}

// Hook is a single pipeline step. It may mutate the context in place.
type Hook func(ctx *Context) error

// Chain is an ordered list of hooks for one (action, phase) pair.
type Chain struct {
	mu    sync.RWMutex
	hooks []Hook
}

// Add appends hooks to the chain in the order given.
func (c *Chain) Add(hooks ...Hook) *Chain {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hooks = append(c.hooks, hooks...)

	return c
}

// Len returns the number of registered hooks.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.hooks)
}

// run invokes every hook in registration order, stopping at the first error.
func (c *Chain) run(ctx *Context) error {
	c.mu.RLock()
	hooks := make([]Hook, len(c.hooks))
	copy(hooks, c.hooks)
	c.mu.RUnlock()

	for _, hook := range hooks {
		err := hook(ctx)
		if err != nil {
			return err
		}
	}

	return nil
}

// Pipeline holds the before and after chains for every action.
type Pipeline struct {
	before map[types.Action]*Chain
	after  map[types.Action]*Chain
}

// New creates a pipeline with empty chains for the four actions.
func New() *Pipeline {
	actions := []types.Action{types.ActionGet, types.ActionSet, types.ActionUpdate, types.ActionDelete}

	p := &Pipeline{
		before: make(map[types.Action]*Chain, len(actions)),
		after:  make(map[types.Action]*Chain, len(actions)),
	}
	for _, action := range actions {
		p.before[action] = &Chain{}
		p.after[action] = &Chain{}
	}

	return p
}

// Before returns the before chain of the given action. Unknown actions return
// a detached empty chain so the call site stays fluent; Register reports the
// error instead.
func (p *Pipeline) Before(action types.Action) *Chain {
	chain, ok := p.before[action]
	if !ok {
		return &Chain{}
	}

	return chain
}

// After returns the after chain of the given action.
func (p *Pipeline) After(action types.Action) *Chain {
	chain, ok := p.after[action]
	if !ok {
		return &Chain{}
	}

	return chain
}

// Register appends a hook to the chain for (action, phase), validating both.
func (p *Pipeline) Register(action types.Action, phase types.Phase, hook Hook) error {
	if !action.Valid() || !phase.Valid() {
		return ewrap.Wrap(sentinel.ErrInvalidAction, action.String()+"/"+phase.String())
	}

	if phase == types.PhaseBefore {
		p.before[action].Add(hook)
	} else {
		p.after[action].Add(hook)
	}

	return nil
}

// RunBefore executes the before chain for the context's action.
func (p *Pipeline) RunBefore(ctx *Context) error {
	return p.Before(ctx.Action()).run(ctx)
}

// RunAfter executes the after chain for the context's action.
func (p *Pipeline) RunAfter(ctx *Context) error {
	return p.After(ctx.Action()).run(ctx)
}

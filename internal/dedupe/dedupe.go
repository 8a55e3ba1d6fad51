// Package dedupe collapses concurrent identical read requests into a single
// underlying call. It is in-flight coalescing only: results are never cached
// past settlement, so a call issued after the previous one settles always
// runs its producer fresh.
package dedupe

import (
	"context"
	"sync"
)

// call tracks one in-flight producer invocation and its eventual outcome.
type call struct {
	done chan struct{} // closed on settlement
	val  any
	err  error
}

// Group is an injectable key→in-flight-call map. The zero value is not
// usable; construct with NewGroup. Independent Groups dedupe independently.
type Group struct {
	mu    sync.Mutex
	calls map[string]*call
}

// NewGroup returns an empty Group.
func NewGroup() *Group {
	return &Group{calls: make(map[string]*call)}
}

// Do executes fn under key with single-flight semantics. If an in-flight call
// already exists for key the caller waits on it and shares its outcome,
// value and error alike, and fn is not invoked. Otherwise fn runs with the
// caller's context, and the mapping is removed the moment fn settles so a
// failed call never blocks a retry.
//
// A joiner whose own context is cancelled stops waiting and gets ctx.Err();
// the in-flight producer is unaffected and other waiters still share its
// result.
func (g *Group) Do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	g.mu.Lock()
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		hitsTotal.Inc()
		select {
		case <-c.done:
			return c.val, c.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	c := &call{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()
	missesTotal.Inc()
	inflight.Inc()

	c.val, c.err = fn(ctx)

	// Remove the mapping before waking waiters so no caller can observe a
	// settled entry still occupying the key. Only remove our own entry:
	// Forget may have detached this call and a newer one may occupy the key.
	g.mu.Lock()
	if g.calls[key] == c {
		delete(g.calls, key)
	}
	g.mu.Unlock()
	inflight.Dec()
	close(c.done)

	return c.val, c.err
}

// Forget drops the in-flight mapping for key, if any. The producer keeps
// running and current waiters still receive its outcome, but subsequent Do
// calls for key start fresh. Used by mutation paths to stop late readers from
// piggybacking on a read that predates the write.
func (g *Group) Forget(key string) {
	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
}

// DoTyped is a typed convenience wrapper over g.Do for callers that know the
// producer's result type.
func DoTyped[T any](ctx context.Context, g *Group, key string, fn func(context.Context) (T, error)) (T, error) {
	v, err := g.Do(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil || v == nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

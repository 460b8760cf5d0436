// Package memo provides per-render-pass memoization.
//
// A Pass lives for one rendering pass (one inbound request) and guarantees
// at most one logical computation per unique key within that pass. There is
// no cross-request persistence and no global state: drop the Pass and the
// cache is gone.
package memo

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Pass is a memoization map keyed by operation and arguments.
// Safe for concurrent use.
type Pass struct {
	group   singleflight.Group
	mu      sync.Mutex
	results map[string]result

	// OnHit and OnMiss are optional counters, called outside the lock
	OnHit  func()
	OnMiss func()
}

type result struct {
	val any
	err error
}

func NewPass() *Pass {
	return &Pass{results: make(map[string]result)}
}

// Key builds a memoization key from an operation name and its arguments
func Key(op string, args ...string) string {
	var b strings.Builder
	b.WriteString(op)
	for _, a := range args {
		b.WriteByte(0)
		b.WriteString(a)
	}
	return b.String()
}

// do returns the cached result for key, computing it with fn at most once.
// Errors are cached too: a failed fetch is terminal for the pass, there are
// no retries.
func (p *Pass) do(key string, fn func() (any, error)) (any, error) {
	p.mu.Lock()
	if r, ok := p.results[key]; ok {
		p.mu.Unlock()
		if p.OnHit != nil {
			p.OnHit()
		}
		return r.val, r.err
	}
	p.mu.Unlock()

	v, err, shared := p.group.Do(key, func() (any, error) {
		v, err := fn()
		p.mu.Lock()
		p.results[key] = result{v, err}
		p.mu.Unlock()
		return v, err
	})
	if shared {
		// collapsed onto another in-flight call with the same key
		if p.OnHit != nil {
			p.OnHit()
		}
	} else if p.OnMiss != nil {
		p.OnMiss()
	}
	return v, err
}

type ctxKey struct{}

// WithContext attaches a Pass to ctx
func WithContext(ctx context.Context, p *Pass) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the Pass attached to ctx, if any
func FromContext(ctx context.Context) (*Pass, bool) {
	p, ok := ctx.Value(ctxKey{}).(*Pass)
	return p, ok
}

// Do memoizes fn under key in the Pass carried by ctx. Without a Pass the
// computation runs directly, callers never need to care whether memoization
// is active.
func Do[T any](ctx context.Context, key string, fn func() (T, error)) (T, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return fn()
	}
	v, err := p.do(key, func() (any, error) { return fn() })
	if v == nil {
		var zero T
		return zero, err
	}
	return v.(T), err
}

// Package bootstrap coalesces concurrent fetches of an authoritative resource
// (cart, wishlist) into one network round trip per token. A success stays
// memoized until Reset or until a different token shows up; callers sharing a
// flight that fails all see the same error, but the failed flight is dropped
// so the next read retries instead of pinning a transient outage. Auth-expiry
// failures stay memoized since a dead token cannot succeed on retry.
package bootstrap

import (
	"context"
	"sync"

	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
)

// FetchFunc loads the resource from the backend for the given token.
type FetchFunc[T any] func(ctx context.Context, token string) (T, error)

// Cache is a single-flight, token-keyed memo for one resource.
type Cache[T any] struct {
	mu     sync.Mutex
	fetch  FetchFunc[T]
	token  string
	flight *flight[T]
}

type flight[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// New builds a cache around the given fetch function.
func New[T any](fetch FetchFunc[T]) (*Cache[T], error) {
	if fetch == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fetch function is required")
	}
	return &Cache[T]{fetch: fetch}, nil
}

// Do returns the memoized result for token, starting a fetch if none is in
// flight. A token different from the memoized one discards the stale flight
// and starts fresh. All callers racing on the same token share one network
// call and observe the identical result or the identical failure; a flight
// that settles with a non-auth error is forgotten so the next Do retries. An
// empty token returns the zero value without touching the network.
func (c *Cache[T]) Do(ctx context.Context, token string) (T, error) {
	var zero T
	if token == "" {
		return zero, nil
	}

	c.mu.Lock()
	if c.flight != nil && c.token == token {
		f := c.flight
		c.mu.Unlock()
		return f.wait(ctx)
	}

	f := &flight[T]{done: make(chan struct{})}
	c.token = token
	c.flight = f
	c.mu.Unlock()

	go func() {
		// Detached from the first caller's context so one impatient caller
		// cannot fail the shared flight for everyone else.
		f.value, f.err = c.fetch(context.WithoutCancel(ctx), token)
		if f.err != nil && !pkgerrors.IsAuthExpired(f.err) {
			c.mu.Lock()
			if c.flight == f {
				c.flight = nil
				c.token = ""
			}
			c.mu.Unlock()
		}
		close(f.done)
	}()

	return f.wait(ctx)
}

// Reset drops the memoized flight and token. Call it after any mutation that
// changes server state so the next Do re-fetches reality.
func (c *Cache[T]) Reset() {
	c.mu.Lock()
	c.token = ""
	c.flight = nil
	c.mu.Unlock()
}

func (f *flight[T]) wait(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-f.done:
		return f.value, f.err
	}
}

package orchestrator

import (
	"sync"
	"time"
)

// debouncer coalesces rapid calls keyed by cart line: each new call for the
// same key replaces the pending one, so only the latest quantity reaches the
// backend once the window elapses.
type debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	pending map[string]*pendingCall
	closed  bool
	wg      sync.WaitGroup
}

type pendingCall struct {
	timer *time.Timer
	fn    func()
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{window: window, pending: map[string]*pendingCall{}}
}

// Schedule queues fn to run after the window. A later Schedule with the same
// key cancels the earlier fn.
func (d *debouncer) Schedule(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if prev, ok := d.pending[key]; ok {
		if prev.timer.Stop() {
			d.wg.Done()
		}
	}
	call := &pendingCall{fn: fn}
	d.wg.Add(1)
	call.timer = time.AfterFunc(d.window, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.pending[key] == call {
			delete(d.pending, key)
		}
		closed := d.closed
		d.mu.Unlock()
		if !closed {
			fn()
		}
	})
	d.pending[key] = call
}

// Flush runs every pending call immediately. Used before checkout so queued
// quantity changes are not lost.
func (d *debouncer) Flush() {
	d.mu.Lock()
	calls := make([]*pendingCall, 0, len(d.pending))
	for key, call := range d.pending {
		if call.timer.Stop() {
			calls = append(calls, call)
		}
		delete(d.pending, key)
	}
	d.mu.Unlock()

	for _, call := range calls {
		call.fn()
		d.wg.Done()
	}
}

// Close cancels pending calls and waits for in-flight ones.
func (d *debouncer) Close() {
	d.mu.Lock()
	d.closed = true
	for key, call := range d.pending {
		if call.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, key)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

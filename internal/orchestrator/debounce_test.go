package orchestrator

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCoalescesSameKey(t *testing.T) {
	t.Parallel()

	d := newDebouncer(20 * time.Millisecond)
	defer d.Close()

	var last atomic.Int64
	var calls atomic.Int64
	for i := 1; i <= 5; i++ {
		value := int64(i)
		d.Schedule("line-1", func() {
			calls.Add(1)
			last.Store(value)
		})
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(5), last.Load())
}

func TestDebouncerFlushRunsPendingNow(t *testing.T) {
	t.Parallel()

	d := newDebouncer(time.Hour)
	defer d.Close()

	var ran atomic.Bool
	d.Schedule("line-1", func() { ran.Store(true) })
	assert.False(t, ran.Load())

	d.Flush()
	assert.True(t, ran.Load())
}

func TestDebouncerCloseDropsPending(t *testing.T) {
	t.Parallel()

	d := newDebouncer(10 * time.Millisecond)

	var ran atomic.Bool
	d.Schedule("line-1", func() { ran.Store(true) })
	d.Close()

	time.Sleep(30 * time.Millisecond)
	assert.False(t, ran.Load())
}

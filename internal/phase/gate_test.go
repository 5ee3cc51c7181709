package phase

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGateHasLiveToken(t *testing.T) {
	gate := NewGate()

	tok := gate.Current()
	require.NotNil(t, tok)
	assert.False(t, tok.Released())
}

func TestAdvanceReleasesPrevious(t *testing.T) {
	gate := NewGate()

	prev := gate.Current()
	next := gate.Advance()

	assert.True(t, prev.Released())
	assert.False(t, next.Released())
	assert.NotSame(t, prev, next)
	assert.Same(t, next, gate.Current())
}

func TestTokensAreNeverReused(t *testing.T) {
	gate := NewGate()

	seen := make(map[*Token]bool)
	for i := 0; i < 100; i++ {
		tok := gate.Current()
		require.False(t, seen[tok], "released token returned again by Current")
		seen[tok] = true
		gate.Advance()
		assert.True(t, tok.Released())
	}
}

func TestAwaitReleasedTokenReturnsImmediately(t *testing.T) {
	gate := NewGate()
	tok := gate.Current()
	gate.Advance()

	start := time.Now()
	released, err := tok.Await(t.Context(), time.Minute)
	require.NoError(t, err)
	assert.True(t, released)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAwaitReleasedTokenWinsOverExpiredTimeout(t *testing.T) {
	gate := NewGate()
	tok := gate.Current()
	gate.Advance()

	released, err := tok.Await(t.Context(), -time.Second)
	require.NoError(t, err)
	assert.True(t, released)
}

func TestAwaitTimesOut(t *testing.T) {
	gate := NewGate()
	tok := gate.Current()

	released, err := tok.Await(t.Context(), 20*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, released)
}

func TestAwaitNonPositiveTimeoutDoesNotBlock(t *testing.T) {
	gate := NewGate()
	tok := gate.Current()

	released, err := tok.Await(t.Context(), 0)
	require.NoError(t, err)
	assert.False(t, released)
}

func TestAwaitContextCancellation(t *testing.T) {
	gate := NewGate()
	tok := gate.Current()

	ctx, cancel := context.WithCancel(t.Context())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	released, err := tok.Await(ctx, time.Minute)
	assert.False(t, released)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAdvanceWakesAllWaiters(t *testing.T) {
	gate := NewGate()
	tok := gate.Current()

	const waiters = 32

	var wg sync.WaitGroup
	var woken atomic.Int64
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			released, err := tok.Await(context.Background(), 5*time.Second)
			if released && err == nil {
				woken.Add(1)
			}
		}()
	}

	// Give the waiters a moment to block before releasing them.
	time.Sleep(50 * time.Millisecond)
	gate.Advance()
	wg.Wait()

	assert.Equal(t, int64(waiters), woken.Load())
}

// TestNoLostWakeupStress interleaves many capture-check-await readers with a
// background writer. A reader that captures the token before checking its
// predicate can never miss an update: either the predicate already reflects
// it, or the captured token is already released.
func TestNoLostWakeupStress(t *testing.T) {
	gate := NewGate()

	var published atomic.Int64
	stop := make(chan struct{})

	// Writer: bump the value and advance, as one logical publish.
	go func() {
		for i := 0; i < 500; i++ {
			published.Add(1)
			gate.Advance()
			time.Sleep(time.Millisecond)
		}
		close(stop)
	}()

	const readers = 16

	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var seen int64
			for {
				select {
				case <-stop:
					return
				default:
				}

				tok := gate.Current()
				cur := published.Load()
				if cur > seen {
					seen = cur
					continue
				}

				// Nothing new; wait for the next publish. With the writer
				// publishing every millisecond, a generous timeout here must
				// never be hit while the writer is running.
				released, err := tok.Await(context.Background(), 2*time.Second)
				if err != nil {
					t.Errorf("await failed: %v", err)
					return
				}
				if !released {
					select {
					case <-stop:
						return
					default:
						t.Error("reader timed out despite timely updates")
						return
					}
				}
			}
		}()
	}

	wg.Wait()
}

func TestConcurrentAdvanceIsSafe(t *testing.T) {
	gate := NewGate()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				gate.Advance()
			}
		}()
	}
	wg.Wait()

	assert.False(t, gate.Current().Released())
}

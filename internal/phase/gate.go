// Package phase provides the wait/notify primitive behind cluster topology
// updates.
//
// A Gate hands out an opaque Token representing the current "wait epoch".
// Any number of readers may block on a Token; a single Advance call installs
// a fresh live token and releases the previous one, waking every blocked
// reader at once.
//
// The token closes the classic lost-wakeup window of "check a flag, then
// wait on a condition": a reader captures the current token BEFORE checking
// its predicate and then waits on that specific token. Advance is the only
// operation that releases a token, and it always installs the replacement
// first, so an update happening between the reader's predicate check and its
// wait call has necessarily already released the captured token, and the
// wait returns immediately.
package phase

import (
	"context"
	"sync/atomic"
	"time"
)

// Token represents one wait epoch. A token is live until the gate advances
// past it, at which point it is released exactly once and never reused.
type Token struct {
	done chan struct{}
}

func newToken() *Token {
	return &Token{done: make(chan struct{})}
}

// Done returns a channel that is closed when the token is released.
//
// This is useful for composing the release signal into a select statement;
// most callers should use Await instead.
func (t *Token) Done() <-chan struct{} {
	return t.done
}

// Released reports whether the token has been released. Non-blocking.
func (t *Token) Released() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Await blocks until the token is released, the timeout elapses, or the
// context is cancelled.
//
// Calling Await on an already-released token returns immediately with
// released=true, regardless of the timeout. A non-positive timeout does not
// block: it only reports whether the token is already released.
//
// Parameters:
//   - ctx: Caller context; cancellation aborts the wait
//   - timeout: Maximum time to block
//
// Returns:
//   - released: true if the token was released, false if the wait timed out
//   - err: The context error if the wait was cancelled, nil otherwise
func (t *Token) Await(ctx context.Context, timeout time.Duration) (released bool, err error) {
	// Released tokens win over an expired timeout or cancelled context.
	select {
	case <-t.done:
		return true, nil
	default:
	}

	if timeout <= 0 {
		return false, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-t.done:
		return true, nil
	case <-timer.C:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Gate coordinates readers waiting for "the next change" with a writer
// publishing changes. Exactly one token is live at any time.
//
// All methods are safe for concurrent use. Concurrent Advance calls are
// permitted; each installed token is released exactly once.
type Gate struct {
	current atomic.Pointer[Token]
}

// NewGate creates a gate with a fresh live token.
func NewGate() *Gate {
	g := &Gate{}
	g.current.Store(newToken())

	return g
}

// Current returns the live token. Non-blocking.
//
// Readers must capture the token before checking the predicate they intend
// to wait on; see the package documentation for why the order matters.
func (g *Gate) Current() *Token {
	return g.current.Load()
}

// Advance atomically installs a brand-new live token and releases the
// previous one, waking all readers blocked on it.
//
// Returns:
//   - *Token: The new live token
func (g *Gate) Advance() *Token {
	next := newToken()
	prev := g.current.Swap(next)
	close(prev.done)

	return next
}

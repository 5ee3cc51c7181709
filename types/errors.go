package types

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the selection taxonomy. Wrapper structs below carry
// context and unwrap to these, so callers can classify with errors.Is and
// apply different retry policies per kind.
var (
	// ErrClusterClosed indicates an operation was attempted on a closed
	// cluster. Not retryable; the caller must obtain a new cluster.
	ErrClusterClosed = errors.New("sextant: cluster is closed")

	// ErrSelectionTimeout indicates the deadline elapsed while waiting for
	// a matching server or a settled description. Retryable with a fresh
	// deadline.
	ErrSelectionTimeout = errors.New("sextant: server selection timed out")

	// ErrNoMatchingServer indicates discovery has settled and the selector
	// still matches nothing. Not retryable without changing the selector
	// or the cluster itself.
	ErrNoMatchingServer = errors.New("sextant: no server satisfies the selector")

	// ErrSelectionCancelled indicates the caller's context was cancelled
	// while waiting. Distinct from a timeout so callers can tell an
	// aborted request apart from a slow cluster.
	ErrSelectionCancelled = errors.New("sextant: server selection cancelled")

	// ErrNilServerFactory indicates a cluster was constructed without a
	// server factory.
	ErrNilServerFactory = errors.New("sextant: server factory cannot be nil")

	// ErrNilSelector indicates SelectServer was called with a nil selector.
	ErrNilSelector = errors.New("sextant: selector cannot be nil")
)

// SelectionTimeoutError is returned when the selection deadline elapses.
//
// It carries the selector, the elapsed wait and the last observed snapshot
// so callers can log enough context to decide whether to retry.
type SelectionTimeoutError struct {
	// Selector describes what the call was waiting for: the selection
	// strategy's criteria, or "a settled cluster description" for Describe.
	Selector string

	// Elapsed is how long the call waited before giving up.
	Elapsed time.Duration

	// Last is the last cluster snapshot observed before timing out.
	Last ClusterDescription
}

// Error implements the error interface.
func (e *SelectionTimeoutError) Error() string {
	return fmt.Sprintf("sextant: timed out after %v waiting for %s; last description: %s",
		e.Elapsed, e.Selector, e.Last)
}

// Unwrap returns ErrSelectionTimeout for errors.Is compatibility.
func (e *SelectionTimeoutError) Unwrap() error {
	return ErrSelectionTimeout
}

// NoMatchingServerError is returned when discovery has settled and the
// selector matches no server. The controller fails fast in this case
// instead of waiting out the full timeout.
type NoMatchingServerError struct {
	// Selector describes the selection strategy that matched nothing.
	Selector string

	// Last is the settled snapshot the selector was evaluated against.
	Last ClusterDescription
}

// Error implements the error interface.
func (e *NoMatchingServerError) Error() string {
	return fmt.Sprintf("sextant: no server satisfies %s in settled description %s", e.Selector, e.Last)
}

// Unwrap returns ErrNoMatchingServer for errors.Is compatibility.
func (e *NoMatchingServerError) Unwrap() error {
	return ErrNoMatchingServer
}

// SelectionCancelledError is returned when the caller's context is
// cancelled while a selection call is blocked.
type SelectionCancelledError struct {
	// Selector describes what the call was waiting for.
	Selector string

	// Cause is the context error (context.Canceled or context.DeadlineExceeded
	// from the caller's own context).
	Cause error
}

// Error implements the error interface.
func (e *SelectionCancelledError) Error() string {
	return fmt.Sprintf("sextant: selection cancelled while waiting for %s: %v", e.Selector, e.Cause)
}

// Unwrap returns the wrapped errors for errors.Is/As compatibility.
func (e *SelectionCancelledError) Unwrap() []error {
	return []error{ErrSelectionCancelled, e.Cause}
}

// SelectorError wraps a failure raised by a selection strategy itself.
// Strategy failures are propagated to the caller unchanged, never retried.
type SelectorError struct {
	// Selector describes the strategy that failed.
	Selector string

	// Cause is the error the strategy returned.
	Cause error
}

// Error implements the error interface.
func (e *SelectorError) Error() string {
	return fmt.Sprintf("sextant: selector %s failed: %v", e.Selector, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *SelectorError) Unwrap() error {
	return e.Cause
}

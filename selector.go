package sextant

import "github.com/arloliu/sextant/types"

// ServerSelector is the selection strategy contract.
//
// A selector is a pure function from a cluster snapshot to the list of
// servers it considers eligible. An empty list means "no match right now";
// the cluster then waits for the next topology change (while discovery is
// still in progress) or fails fast (once discovery has settled).
//
// Implementations must be side-effect-free, must not block, and must be
// safe for concurrent use; the same selector may be evaluated from many
// selection calls at once. An error returned by a selector aborts the
// selection call and is propagated to the caller unchanged, never retried.
//
// The String method is used in log and error messages; it should describe
// the criteria, e.g. "primary" or "tagged(dc=east)".
type ServerSelector interface {
	// SelectServers returns the eligible servers from the snapshot.
	//
	// Parameters:
	//   - desc: The cluster snapshot to evaluate
	//
	// Returns:
	//   - []types.ServerDescription: Eligible servers; empty means no match
	//   - error: Strategy failure, propagated to the caller
	SelectServers(desc types.ClusterDescription) ([]types.ServerDescription, error)

	// String describes the selection criteria for logs and errors.
	String() string
}

// selectorFunc adapts a plain function into a ServerSelector.
type selectorFunc struct {
	desc string
	fn   func(types.ClusterDescription) ([]types.ServerDescription, error)
}

// SelectorFunc wraps a plain function as a ServerSelector.
//
// Parameters:
//   - desc: Human-readable description of the criteria, used in errors
//   - fn: The selection function
//
// Returns:
//   - ServerSelector: The adapted selector
//
// Example:
//
//	fast := sextant.SelectorFunc("rtt<50ms", func(d types.ClusterDescription) ([]types.ServerDescription, error) {
//	    var out []types.ServerDescription
//	    for _, s := range d.Servers() {
//	        if s.Known() && s.RTT < 50*time.Millisecond {
//	            out = append(out, s)
//	        }
//	    }
//	    return out, nil
//	})
func SelectorFunc(desc string, fn func(types.ClusterDescription) ([]types.ServerDescription, error)) ServerSelector {
	return &selectorFunc{desc: desc, fn: fn}
}

func (s *selectorFunc) SelectServers(desc types.ClusterDescription) ([]types.ServerDescription, error) {
	return s.fn(desc)
}

func (s *selectorFunc) String() string {
	return s.desc
}

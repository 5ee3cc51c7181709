// Package selector provides built-in server selection strategies for Sextant.
//
// A selection strategy is a pure function from a cluster snapshot to the
// list of servers it considers eligible (the [sextant.ServerSelector]
// contract). The cluster controller drives the strategy: it re-evaluates it
// on every topology change and picks uniformly at random among the result.
//
// # Role-based selection
//
//   - [Primary]: the writable server (replica set primary or standalone)
//   - [Secondary]: read-only members (standalone also matches)
//   - [PrimaryPreferred]: primary when known, secondaries otherwise
//   - [Readable]: any server with a known role
//
// # Refinement
//
//   - [Tagged]: restrict to servers carrying a tag pair (dc, rack, ...)
//   - [LatencyWindow]: restrict to candidates within a window of the
//     fastest one, so load spreads over the near-fastest group
//   - [Composite]: intersect several strategies
//
// Example, "a secondary in the east datacenter, close to the fastest":
//
//	sel := selector.LatencyWindow(
//	    selector.Composite(selector.Secondary(), selector.Tagged("dc", "east")),
//	    selector.DefaultLatencyWindow,
//	)
//	srv, err := cluster.SelectServer(ctx, sel)
//
// Custom one-off strategies are easiest with [sextant.SelectorFunc].
package selector

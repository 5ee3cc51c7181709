// Package types provides shared types and error definitions for the sextant library.
//
// This is a leaf package with zero sextant imports to prevent import cycles.
// All packages in sextant can safely import this package.
//
// # Types
//
// ServerDescription and ClusterDescription are immutable snapshots: a
// description is replaced wholesale whenever something changes, never
// mutated in place. Holders can read them freely without locking.
//
// ServerState identifies the role a server plays:
//
//	const (
//	    ServerUnknown ServerState = iota
//	    ServerStandalone
//	    ServerPrimary
//	    ServerSecondary
//	)
//
// ClusterType identifies what the deployment has settled into:
//
//	const (
//	    ClusterUnknown ClusterType = iota
//	    ClusterStandalone
//	    ClusterReplicaSet
//	    ClusterSharded
//	)
//
// A ClusterDescription with type ClusterUnknown, or containing a server in
// state ServerUnknown, is "connecting": discovery has not converged and a
// selector that matches nothing now may still match later.
//
// # Errors
//
// Selection failures form a closed taxonomy, each kind distinguishable with
// errors.Is so callers can apply different retry policies:
//
//   - ErrClusterClosed: the cluster was closed; obtain a new one
//   - ErrSelectionTimeout: the selection deadline elapsed; retryable
//   - ErrNoMatchingServer: discovery settled with no match; change the selector
//   - ErrSelectionCancelled: the caller's context was cancelled
//
// Wrapper structs (SelectionTimeoutError, NoMatchingServerError,
// SelectionCancelledError, SelectorError) carry the selector description,
// elapsed wait and last observed snapshot, and unwrap to the sentinels.
package types

package types

// MetricsCollector defines methods for collecting operational metrics.
//
// Implementations should be thread-safe as methods may be called concurrently
// from selection calls and the topology update path.
//
// Example usage with VictoriaMetrics (via contrib/metrics/vm):
//
//	import vmmetrics "github.com/arloliu/sextant/contrib/metrics/vm"
//
//	collector := vmmetrics.New(vmmetrics.WithPrefix("myapp"))
//	cluster, _ := sextant.NewCluster(factory,
//	    sextant.WithMetrics(collector),
//	)
//
//	// Expose metrics via HTTP
//	http.HandleFunc("/metrics", collector.Handler)
type MetricsCollector interface {
	// ----------------------
	// Server Selection
	// ----------------------

	// IncSelectionTotal increments the counter of selection attempts.
	IncSelectionTotal()

	// IncSelectionTimeout increments the counter of selections that hit
	// the selection deadline.
	IncSelectionTimeout()

	// IncSelectionNoMatch increments the counter of selections that failed
	// fast against a settled description.
	IncSelectionNoMatch()

	// IncSelectionCancelled increments the counter of selections aborted
	// by caller context cancellation.
	IncSelectionCancelled()

	// ObserveSelectionWait records how long a selection call waited for a
	// matching server, in seconds. Zero for immediate matches.
	ObserveSelectionWait(seconds float64)

	// ----------------------
	// Topology
	// ----------------------

	// IncTopologyUpdate increments the counter of published topology
	// snapshots.
	IncTopologyUpdate()

	// SetServerCount sets the gauge of servers in the given state present
	// in the current snapshot.
	SetServerCount(state ServerState, count int)

	// SetClusterSettled sets the gauge indicating whether discovery has
	// converged (1) or is still in progress (0).
	SetClusterSettled(settled bool)
}

package vm

import (
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"

	"github.com/arloliu/sextant/types"
)

// Option configures a Collector.
type Option func(*Collector)

// WithPrefix sets the metric name prefix.
//
// Default: "sextant"
//
// Parameters:
//   - prefix: The prefix to use for all metric names
//
// Returns:
//   - Option: A configuration option
func WithPrefix(prefix string) Option {
	return func(c *Collector) {
		c.prefix = prefix
	}
}

// WithMetricsSet sets the metrics set to use.
//
// If provided, the collector will register metrics with this set instead of
// creating a new one. The caller is responsible for exposing this set
// (e.g., via metrics.WritePrometheus or a custom handler).
//
// Parameters:
//   - set: The metrics set to use
//
// Returns:
//   - Option: A configuration option
func WithMetricsSet(set *metrics.Set) Option {
	return func(c *Collector) {
		c.set = set
	}
}

// Collector implements types.MetricsCollector using VictoriaMetrics.
//
// All metrics are pre-created at initialization time for optimal performance.
// Thread-safe for concurrent use.
type Collector struct {
	set    *metrics.Set
	prefix string

	// Selection metrics
	selectionTotal     *metrics.Counter
	selectionTimeout   *metrics.Counter
	selectionNoMatch   *metrics.Counter
	selectionCancelled *metrics.Counter
	selectionWait      *metrics.Histogram

	// Topology metrics
	topologyUpdates *metrics.Counter
	clusterSettled  atomic.Int64
	serverCounts    map[types.ServerState]*atomic.Int64
}

// Compile-time assertion that Collector implements types.MetricsCollector.
var _ types.MetricsCollector = (*Collector)(nil)

// New creates a new VictoriaMetrics-based metrics collector.
//
// The collector creates its own metrics.Set and registers it globally.
// All metrics are pre-created at initialization for optimal performance.
//
// Parameters:
//   - opts: Configuration options (e.g., WithPrefix)
//
// Returns:
//   - *Collector: A new metrics collector ready for use
//
// Example:
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//	cluster, _ := sextant.NewCluster(factory,
//	    sextant.WithMetrics(collector),
//	)
func New(opts ...Option) *Collector {
	c := &Collector{
		prefix: "sextant",
	}

	for _, opt := range opts {
		opt(c)
	}

	// If no set is provided, create a new one and register it globally.
	// If a set is provided, we assume the caller manages it.
	if c.set == nil {
		c.set = metrics.NewSet()
		metrics.RegisterSet(c.set)
	}

	c.initMetrics()

	return c
}

// initMetrics pre-creates all metrics with the configured prefix.
func (c *Collector) initMetrics() {
	p := c.prefix

	// Selection metrics
	c.selectionTotal = c.set.NewCounter(fmt.Sprintf(`%s_selection_total`, p))
	c.selectionTimeout = c.set.NewCounter(fmt.Sprintf(`%s_selection_timeouts_total`, p))
	c.selectionNoMatch = c.set.NewCounter(fmt.Sprintf(`%s_selection_no_match_total`, p))
	c.selectionCancelled = c.set.NewCounter(fmt.Sprintf(`%s_selection_cancelled_total`, p))
	c.selectionWait = c.set.NewHistogram(fmt.Sprintf(`%s_selection_wait_seconds`, p))

	// Topology metrics
	c.topologyUpdates = c.set.NewCounter(fmt.Sprintf(`%s_topology_updates_total`, p))
	c.set.NewGauge(fmt.Sprintf(`%s_cluster_settled`, p), func() float64 {
		return float64(c.clusterSettled.Load())
	})

	c.serverCounts = make(map[types.ServerState]*atomic.Int64)
	for _, state := range []types.ServerState{
		types.ServerUnknown,
		types.ServerStandalone,
		types.ServerPrimary,
		types.ServerSecondary,
	} {
		counter := &atomic.Int64{}
		c.serverCounts[state] = counter
		c.set.NewGauge(fmt.Sprintf(`%s_servers{state="%s"}`, p, state), func() float64 {
			return float64(counter.Load())
		})
	}
}

// Set returns the underlying metrics set.
func (c *Collector) Set() *metrics.Set {
	return c.set
}

// Handler returns an HTTP handler that exposes metrics in Prometheus format.
//
// Example:
//
//	http.HandleFunc("/metrics", collector.Handler)
func (c *Collector) Handler(w http.ResponseWriter, _ *http.Request) {
	c.set.WritePrometheus(w)
}

// WritePrometheus writes all metrics in Prometheus format to the given writer.
//
// Parameters:
//   - w: The writer to write metrics to
func (c *Collector) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
}

// ----------------------
// Server Selection
// ----------------------

// IncSelectionTotal increments the counter of selection attempts.
func (c *Collector) IncSelectionTotal() {
	c.selectionTotal.Inc()
}

// IncSelectionTimeout increments the counter of timed-out selections.
func (c *Collector) IncSelectionTimeout() {
	c.selectionTimeout.Inc()
}

// IncSelectionNoMatch increments the counter of fail-fast no-match selections.
func (c *Collector) IncSelectionNoMatch() {
	c.selectionNoMatch.Inc()
}

// IncSelectionCancelled increments the counter of cancelled selections.
func (c *Collector) IncSelectionCancelled() {
	c.selectionCancelled.Inc()
}

// ObserveSelectionWait records a selection wait duration in seconds.
func (c *Collector) ObserveSelectionWait(seconds float64) {
	c.selectionWait.Update(seconds)
}

// ----------------------
// Topology
// ----------------------

// IncTopologyUpdate increments the counter of published snapshots.
func (c *Collector) IncTopologyUpdate() {
	c.topologyUpdates.Inc()
}

// SetServerCount sets the gauge of servers in the given state.
func (c *Collector) SetServerCount(state types.ServerState, count int) {
	if counter, ok := c.serverCounts[state]; ok {
		counter.Store(int64(count))
	}
}

// SetClusterSettled sets the discovery convergence gauge.
func (c *Collector) SetClusterSettled(settled bool) {
	if settled {
		c.clusterSettled.Store(1)
	} else {
		c.clusterSettled.Store(0)
	}
}

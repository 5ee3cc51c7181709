// Package vm provides a VictoriaMetrics-based implementation of the MetricsCollector interface.
//
// This package uses github.com/VictoriaMetrics/metrics for lightweight,
// high-performance Prometheus-compatible metrics collection.
//
// # Basic Usage
//
// Create a collector with default prefix "sextant":
//
//	collector := vm.New()
//	cluster, _ := sextant.NewCluster(factory,
//	    sextant.WithMetrics(collector),
//	)
//
// # Custom Prefix
//
// Use WithPrefix to customize the metric name prefix:
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//
// This produces metrics like:
//   - myapp_selection_total
//   - myapp_servers{state="primary"}
//
// # Exposing Metrics
//
// Use the Handler method to expose metrics via HTTP:
//
//	http.HandleFunc("/metrics", collector.Handler)
//	http.ListenAndServe(":8080", nil)
//
// Or use WritePrometheus to write metrics to a custom writer:
//
//	collector.WritePrometheus(w)
//
// # Metrics Provided
//
// Server selection:
//   - {prefix}_selection_total - Counter of selection attempts
//   - {prefix}_selection_timeouts_total - Counter of timed-out selections
//   - {prefix}_selection_no_match_total - Counter of fail-fast no-match selections
//   - {prefix}_selection_cancelled_total - Counter of context-cancelled selections
//   - {prefix}_selection_wait_seconds - Histogram of selection wait times
//
// Topology:
//   - {prefix}_topology_updates_total - Counter of published snapshots
//   - {prefix}_cluster_settled - Gauge (1=discovery converged, 0=connecting)
//   - {prefix}_servers{state} - Gauge of servers per state
//
// # Performance Notes
//
// This implementation pre-creates all metrics at initialization time
// using the NewXXX pattern (instead of GetOrCreateXXX) for optimal
// performance in hot paths, as recommended by the VictoriaMetrics documentation.
//
// The metrics are registered with a dedicated Set that is registered
// globally, allowing standard Prometheus scraping.
package vm

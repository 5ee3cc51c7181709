// Package metrics provides internal metrics utilities for Sextant.
package metrics

import "github.com/arloliu/sextant/types"

// NopMetrics is a no-op metrics collector that discards all metrics.
//
// This is used as the default metrics collector when no collector is configured,
// avoiding nil checks throughout the codebase.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements types.MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNopMetrics creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A collector that discards all metrics
func NewNopMetrics() *NopMetrics {
	return &NopMetrics{}
}

// ----------------------
// Server Selection
// ----------------------

// IncSelectionTotal discards the metric.
func (m *NopMetrics) IncSelectionTotal() {}

// IncSelectionTimeout discards the metric.
func (m *NopMetrics) IncSelectionTimeout() {}

// IncSelectionNoMatch discards the metric.
func (m *NopMetrics) IncSelectionNoMatch() {}

// IncSelectionCancelled discards the metric.
func (m *NopMetrics) IncSelectionCancelled() {}

// ObserveSelectionWait discards the metric.
func (m *NopMetrics) ObserveSelectionWait(_ float64) {}

// ----------------------
// Topology
// ----------------------

// IncTopologyUpdate discards the metric.
func (m *NopMetrics) IncTopologyUpdate() {}

// SetServerCount discards the metric.
func (m *NopMetrics) SetServerCount(_ types.ServerState, _ int) {}

// SetClusterSettled discards the metric.
func (m *NopMetrics) SetClusterSettled(_ bool) {}

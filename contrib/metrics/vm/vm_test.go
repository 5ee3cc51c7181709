package vm

import (
	"bytes"
	"testing"

	"github.com/VictoriaMetrics/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/sextant/types"
)

func newTestCollector(opts ...Option) *Collector {
	// A private set avoids global registration collisions across tests.
	opts = append([]Option{WithMetricsSet(metrics.NewSet())}, opts...)

	return New(opts...)
}

func TestCollectorExposesSelectionMetrics(t *testing.T) {
	c := newTestCollector()

	c.IncSelectionTotal()
	c.IncSelectionTotal()
	c.IncSelectionTimeout()
	c.IncSelectionNoMatch()
	c.IncSelectionCancelled()
	c.ObserveSelectionWait(0.25)

	var buf bytes.Buffer
	c.WritePrometheus(&buf)
	out := buf.String()

	assert.Contains(t, out, "sextant_selection_total 2")
	assert.Contains(t, out, "sextant_selection_timeouts_total 1")
	assert.Contains(t, out, "sextant_selection_no_match_total 1")
	assert.Contains(t, out, "sextant_selection_cancelled_total 1")
	assert.Contains(t, out, "sextant_selection_wait_seconds")
}

func TestCollectorExposesTopologyMetrics(t *testing.T) {
	c := newTestCollector()

	c.IncTopologyUpdate()
	c.SetClusterSettled(true)
	c.SetServerCount(types.ServerPrimary, 1)
	c.SetServerCount(types.ServerSecondary, 2)

	var buf bytes.Buffer
	c.WritePrometheus(&buf)
	out := buf.String()

	assert.Contains(t, out, "sextant_topology_updates_total 1")
	assert.Contains(t, out, "sextant_cluster_settled 1")
	assert.Contains(t, out, `sextant_servers{state="primary"} 1`)
	assert.Contains(t, out, `sextant_servers{state="secondary"} 2`)
}

func TestCollectorCustomPrefix(t *testing.T) {
	c := newTestCollector(WithPrefix("myapp"))
	c.IncSelectionTotal()

	var buf bytes.Buffer
	c.WritePrometheus(&buf)
	assert.Contains(t, buf.String(), "myapp_selection_total 1")
}

func TestCollectorImplementsInterface(t *testing.T) {
	var collector types.MetricsCollector = newTestCollector(WithPrefix("iface"))
	require.NotNil(t, collector)
}

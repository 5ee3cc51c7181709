package topology_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/sextant"
	"github.com/arloliu/sextant/selector"
	"github.com/arloliu/sextant/test/testutil"
	"github.com/arloliu/sextant/topology"
	"github.com/arloliu/sextant/types"
)

func TestNewNATSValidatesArguments(t *testing.T) {
	js := testutil.StartEmbeddedNATS(t)
	kv := testutil.CreateTestKV(t, js, "topo-args")

	_, err := topology.NewNATS(nil, &recordingUpdater{})
	require.Error(t, err)

	_, err = topology.NewNATS(kv, nil)
	require.Error(t, err)

	watcher, err := topology.NewNATS(kv, &recordingUpdater{})
	require.NoError(t, err)
	require.NoError(t, watcher.Close())
}

func TestNATSConfigOptions(t *testing.T) {
	js := testutil.StartEmbeddedNATS(t)
	kv := testutil.CreateTestKV(t, js, "topo-config")

	watcher, err := topology.NewNATS(kv, &recordingUpdater{},
		topology.WithKey("mystore.topology"),
		topology.WithPollInterval(time.Second),
		topology.WithInitialFetchTimeout(2*time.Second),
	)
	require.NoError(t, err)
	defer watcher.Close()

	config := watcher.Config()
	assert.Equal(t, "mystore.topology", config.Key)
	assert.Equal(t, time.Second, config.PollInterval)
	assert.Equal(t, 2*time.Second, config.InitialFetchTimeout)
}

func TestNATSCloseIsIdempotent(t *testing.T) {
	js := testutil.StartEmbeddedNATS(t)
	kv := testutil.CreateTestKV(t, js, "topo-close")

	watcher, err := topology.NewNATS(kv, &recordingUpdater{})
	require.NoError(t, err)

	require.NoError(t, watcher.Close())
	require.NoError(t, watcher.Close())
}

func TestNATSPicksUpExistingSnapshot(t *testing.T) {
	js := testutil.StartEmbeddedNATS(t)
	kv := testutil.CreateTestKV(t, js, "topo-existing")

	desc := types.NewClusterDescription(types.ClusterStandalone,
		types.ServerDescription{Address: "db1:27017", State: types.ServerStandalone, LastUpdated: time.Now()},
	)
	require.NoError(t, topology.PublishDescription(t.Context(), kv, "sextant.topology", desc))

	rec := &recordingUpdater{}
	watcher, err := topology.NewNATS(kv, rec)
	require.NoError(t, err)
	defer watcher.Close()

	watcher.Watch(t.Context())

	require.Eventually(t, func() bool {
		last, ok := rec.last()
		return ok && last.Type() == types.ClusterStandalone
	}, 5*time.Second, 20*time.Millisecond, "initial fetch must deliver the existing snapshot")
}

// TestNATSDrivesCluster wires the full path: a snapshot published to the KV
// bucket flows through the watcher into a live cluster controller and
// releases a blocked selection.
func TestNATSDrivesCluster(t *testing.T) {
	js := testutil.StartEmbeddedNATS(t)
	kv := testutil.CreateTestKV(t, js, "topo-cluster")

	factory := testutil.NewMockFactory()
	cluster, err := sextant.NewCluster(factory,
		sextant.WithServerSelectionTimeout(10*time.Second),
	)
	require.NoError(t, err)
	defer cluster.Close()

	watcher, err := topology.NewNATS(kv, cluster)
	require.NoError(t, err)
	defer watcher.Close()
	watcher.Watch(t.Context())

	go func() {
		time.Sleep(200 * time.Millisecond)
		desc := types.NewClusterDescription(types.ClusterReplicaSet,
			types.ServerDescription{Address: "db1:27017", State: types.ServerPrimary, LastUpdated: time.Now()},
			types.ServerDescription{Address: "db2:27017", State: types.ServerSecondary, LastUpdated: time.Now()},
		)
		_ = topology.PublishDescription(t.Context(), kv, "sextant.topology", desc)
	}()

	srv, err := cluster.SelectServer(t.Context(), selector.Primary())
	require.NoError(t, err)
	assert.Equal(t, types.ServerAddress("db1:27017"), srv.Description().Address)

	settled, err := cluster.Describe(t.Context())
	require.NoError(t, err)
	assert.Equal(t, types.ClusterReplicaSet, settled.Type())
	assert.Equal(t, 2, settled.Len())
}

func TestNATSIgnoresDeletedKey(t *testing.T) {
	js := testutil.StartEmbeddedNATS(t)
	kv := testutil.CreateTestKV(t, js, "topo-delete")

	desc := types.NewClusterDescription(types.ClusterStandalone,
		types.ServerDescription{Address: "db1:27017", State: types.ServerStandalone, LastUpdated: time.Now()},
	)
	require.NoError(t, topology.PublishDescription(t.Context(), kv, "sextant.topology", desc))

	rec := &recordingUpdater{}
	watcher, err := topology.NewNATS(kv, rec)
	require.NoError(t, err)
	defer watcher.Close()
	watcher.Watch(t.Context())

	require.Eventually(t, func() bool {
		_, ok := rec.last()
		return ok
	}, 5*time.Second, 20*time.Millisecond)

	// The initial fetch and the watch's first delivery may both apply the
	// snapshot; let them settle before taking the baseline.
	time.Sleep(300 * time.Millisecond)
	seen := rec.count()

	// Deleting the key must not publish a bogus empty membership.
	require.NoError(t, kv.Delete(t.Context(), "sextant.topology"))
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, seen, rec.count(), "delete must keep the last known description")
	last, _ := rec.last()
	assert.Equal(t, types.ClusterStandalone, last.Type())
}

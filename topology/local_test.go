package topology_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/sextant/topology"
	"github.com/arloliu/sextant/types"
)

// recordingUpdater captures every published snapshot.
type recordingUpdater struct {
	mu        sync.Mutex
	snapshots []types.ClusterDescription
}

func (r *recordingUpdater) Update(desc types.ClusterDescription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, desc)
}

func (r *recordingUpdater) last() (types.ClusterDescription, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.snapshots) == 0 {
		return types.ClusterDescription{}, false
	}

	return r.snapshots[len(r.snapshots)-1], true
}

func (r *recordingUpdater) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.snapshots)
}

func TestLocalStartsEmptyAndSilent(t *testing.T) {
	rec := &recordingUpdater{}
	local := topology.NewLocal(rec)

	desc := local.Description()
	assert.Equal(t, types.ClusterUnknown, desc.Type())
	assert.Equal(t, 0, desc.Len())
	assert.Equal(t, 0, rec.count(), "nothing published before the first mutation")
}

func TestLocalSetServerPublishes(t *testing.T) {
	rec := &recordingUpdater{}
	local := topology.NewLocal(rec)

	local.SetServer(types.ServerDescription{Address: "db1:27017", State: types.ServerPrimary})

	last, ok := rec.last()
	require.True(t, ok)
	srv, ok := last.Server("db1:27017")
	require.True(t, ok)
	assert.Equal(t, types.ServerPrimary, srv.State)
	assert.False(t, srv.LastUpdated.IsZero(), "zero LastUpdated is stamped")
}

func TestLocalSetClusterTypePublishes(t *testing.T) {
	rec := &recordingUpdater{}
	local := topology.NewLocal(rec)

	local.SetClusterType(types.ClusterReplicaSet)

	last, ok := rec.last()
	require.True(t, ok)
	assert.Equal(t, types.ClusterReplicaSet, last.Type())
}

func TestLocalRemoveServer(t *testing.T) {
	rec := &recordingUpdater{}
	local := topology.NewLocal(rec)

	local.SetServer(types.ServerDescription{Address: "db1:27017", State: types.ServerPrimary})
	local.SetServer(types.ServerDescription{Address: "db2:27017", State: types.ServerSecondary})
	local.RemoveServer("db1:27017")

	last, ok := rec.last()
	require.True(t, ok)
	assert.Equal(t, 1, last.Len())
	_, ok = last.Server("db1:27017")
	assert.False(t, ok)

	// Removing an unknown address publishes nothing.
	before := rec.count()
	local.RemoveServer("db9:27017")
	assert.Equal(t, before, rec.count())
}

func TestLocalReplaceServerRole(t *testing.T) {
	rec := &recordingUpdater{}
	local := topology.NewLocal(rec)

	local.SetServer(types.ServerDescription{Address: "db1:27017", State: types.ServerSecondary})
	local.SetServer(types.ServerDescription{Address: "db1:27017", State: types.ServerPrimary})

	last, ok := rec.last()
	require.True(t, ok)
	require.Equal(t, 1, last.Len())
	srv, _ := last.Server("db1:27017")
	assert.Equal(t, types.ServerPrimary, srv.State)
}

package topology_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinylib/msgp/msgp"

	"github.com/arloliu/sextant/topology"
	"github.com/arloliu/sextant/types"
)

func TestCodecRoundTrip(t *testing.T) {
	updated := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	desc := types.NewClusterDescription(types.ClusterReplicaSet,
		types.ServerDescription{
			Address:     "db1:27017",
			State:       types.ServerPrimary,
			RTT:         3 * time.Millisecond,
			Tags:        map[string]string{"dc": "east", "rack": "r4"},
			LastUpdated: updated,
		},
		types.ServerDescription{
			Address:     "db2:27017",
			State:       types.ServerSecondary,
			LastUpdated: updated,
		},
	)

	decoded, err := topology.DecodeDescription(topology.EncodeDescription(desc))
	require.NoError(t, err)

	assert.Equal(t, types.ClusterReplicaSet, decoded.Type())
	require.Equal(t, 2, decoded.Len())

	primary, ok := decoded.Server("db1:27017")
	require.True(t, ok)
	assert.Equal(t, types.ServerPrimary, primary.State)
	assert.Equal(t, 3*time.Millisecond, primary.RTT)
	assert.Equal(t, map[string]string{"dc": "east", "rack": "r4"}, primary.Tags)
	assert.True(t, primary.LastUpdated.Equal(updated))

	secondary, ok := decoded.Server("db2:27017")
	require.True(t, ok)
	assert.Equal(t, types.ServerSecondary, secondary.State)
	assert.Nil(t, secondary.Tags)
}

func TestCodecEmptySnapshot(t *testing.T) {
	desc := types.NewClusterDescription(types.ClusterUnknown)

	decoded, err := topology.DecodeDescription(topology.EncodeDescription(desc))
	require.NoError(t, err)
	assert.Equal(t, types.ClusterUnknown, decoded.Type())
	assert.Equal(t, 0, decoded.Len())
}

func TestCodecRejectsGarbage(t *testing.T) {
	_, err := topology.DecodeDescription([]byte("not msgpack"))
	require.Error(t, err)

	_, err = topology.DecodeDescription(nil)
	require.Error(t, err)
}

// TestCodecSkipsUnknownFields verifies a newer publisher can add fields
// without breaking older watchers.
func TestCodecSkipsUnknownFields(t *testing.T) {
	b := msgp.AppendMapHeader(nil, 3)
	b = msgp.AppendString(b, "type")
	b = msgp.AppendInt(b, int(types.ClusterStandalone))
	b = msgp.AppendString(b, "epoch")
	b = msgp.AppendInt64(b, 42)
	b = msgp.AppendString(b, "servers")
	b = msgp.AppendArrayHeader(b, 1)
	b = msgp.AppendMapHeader(b, 3)
	b = msgp.AppendString(b, "address")
	b = msgp.AppendString(b, "db1:27017")
	b = msgp.AppendString(b, "zone")
	b = msgp.AppendString(b, "z1")
	b = msgp.AppendString(b, "state")
	b = msgp.AppendInt(b, int(types.ServerStandalone))

	decoded, err := topology.DecodeDescription(b)
	require.NoError(t, err)
	assert.Equal(t, types.ClusterStandalone, decoded.Type())

	srv, ok := decoded.Server("db1:27017")
	require.True(t, ok)
	assert.Equal(t, types.ServerStandalone, srv.State)
}

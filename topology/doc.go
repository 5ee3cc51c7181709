// Package topology provides feeders that drive a cluster controller's
// Update entry point.
//
// The controller itself never probes servers; it consumes snapshots. The
// feeders in this package are two ways of producing them:
//
// # NATS topology
//
// [NATS] watches a NATS JetStream KV key to which an out-of-process
// discovery service publishes MessagePack-encoded cluster snapshots:
//
//	nc, _ := nats.Connect("nats://localhost:4222")
//	js, _ := jetstream.New(nc)
//	kv, _ := js.KeyValue(ctx, "sextant-topology")
//
//	watcher, _ := topology.NewNATS(kv, cluster,
//	    topology.WithKey("mystore.cluster.topology"),
//	)
//	watcher.Watch(ctx)
//	defer watcher.Close()
//
// Every revision of the key becomes one Update call on the controller. If
// the watch cannot be established the watcher degrades to polling. Deleting
// the key does not clear the topology: the controller keeps its last known
// view rather than fabricating an empty membership.
//
// The wire format is produced by [EncodeDescription] and consumed by
// [DecodeDescription]; the discovery service can use [PublishDescription]
// directly.
//
// # Local topology
//
// [Local] provides an in-memory feeder for tests and demos, with
// programmatic control over membership:
//
//	local := topology.NewLocal(cluster)
//	local.SetServer(types.ServerDescription{Address: "db1:27017", State: types.ServerPrimary})
//	local.SetClusterType(types.ClusterReplicaSet)
//	local.RemoveServer("db1:27017")
package topology

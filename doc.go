// Package sextant is a client-side cluster topology controller for
// multi-server data stores.
//
// A [Cluster] maintains a continuously refreshed snapshot of which servers
// are reachable and in what role, while a background discovery subsystem
// publishes new snapshots through [Cluster.Update]. Callers request a
// server satisfying arbitrary criteria with [Cluster.SelectServer]; if no
// server matches yet, the call blocks until the topology changes, bounded
// by a configurable selection timeout.
//
// # Quick Start
//
//	factory := myDriverServerFactory(credentials, options)
//
//	cluster, err := sextant.NewCluster(factory,
//	    sextant.WithSeedServers("db1:27017", "db2:27017"),
//	    sextant.WithServerSelectionTimeout(10*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cluster.Close()
//
//	srv, err := cluster.SelectServer(ctx, selector.Primary())
//	if err != nil {
//	    // errors.Is(err, types.ErrSelectionTimeout), ErrNoMatchingServer, ...
//	}
//	conn, err := srv.Connection(ctx)
//
// # How waiting works
//
// The controller pairs the current snapshot with a phase token
// (internal/phase). A selection call captures the token, evaluates the
// selector against the snapshot, and if nothing matches waits on that
// specific token. Publishing a snapshot installs a fresh token and releases
// the old one, so a reader can never miss an update between its predicate
// check and its wait: either the snapshot it read already reflects the
// update, or its captured token is already released and the wait returns
// immediately.
//
// When the selector matches nothing and the snapshot shows discovery has
// settled, SelectServer fails fast with [types.ErrNoMatchingServer] rather
// than waiting out the timeout: no future update is coming that could
// change the answer.
//
// # Server handles
//
// SelectServer returns a [Server] handle, a thin indirection over the live
// server object. When an address leaves the topology and later returns, the
// controller recycles the underlying object and re-points the handle, so
// handles held across a disconnect/reconnect cycle keep working without
// being re-issued.
//
// # Feeding topology
//
// Anything can drive [Cluster.Update]; the topology package ships two
// feeders: topology.Local for programmatic control in tests and demos, and
// topology.NATS, which watches a NATS JetStream KV bucket for snapshots
// published by an out-of-process discovery service.
//
// Out of scope by design: the heartbeat protocol, the document wire format,
// and connection I/O. They reach the controller only through the narrow
// [ServerFactory], [ClusterableServer] and [Connection] interfaces.
package sextant

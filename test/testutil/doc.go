// Package testutil provides shared test helpers for Sextant.
//
// Helpers:
//   - MockServer / MockFactory: in-memory ClusterableServer and
//     ServerFactory implementations with creation tracking, for driving
//     the cluster controller without real servers
//   - StartEmbeddedNATS: starts an embedded NATS server with JetStream
//     enabled for topology watcher tests
//   - CreateTestKV: creates a KV bucket on an embedded server
package testutil

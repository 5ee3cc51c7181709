// Package types provides shared types and errors for the Sextant library.
//
// This is a "leaf" package with no imports from other sextant packages,
// allowing it to be imported by any package without causing import cycles.
package types

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ServerAddress identifies a server by host:port.
type ServerAddress string

// String returns the string representation of the address.
func (a ServerAddress) String() string {
	return string(a)
}

// ServerState describes the role a server currently plays in the cluster.
type ServerState int

// Server states, from "nothing known yet" to concrete roles.
const (
	// ServerUnknown means the server has been discovered but its role is
	// not yet determined, or it is currently unreachable.
	ServerUnknown ServerState = iota

	// ServerStandalone is a single server not participating in a replica set.
	ServerStandalone

	// ServerPrimary is the writable member of a replica set.
	ServerPrimary

	// ServerSecondary is a read-only member of a replica set.
	ServerSecondary
)

// String returns a human-readable name for the state.
func (s ServerState) String() string {
	switch s {
	case ServerStandalone:
		return "standalone"
	case ServerPrimary:
		return "primary"
	case ServerSecondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// ClusterType describes what kind of deployment the cluster has settled into.
type ClusterType int

// Cluster types. ClusterUnknown means discovery has not converged yet.
const (
	ClusterUnknown ClusterType = iota
	ClusterStandalone
	ClusterReplicaSet
	ClusterSharded
)

// String returns a human-readable name for the cluster type.
func (t ClusterType) String() string {
	switch t {
	case ClusterStandalone:
		return "standalone"
	case ClusterReplicaSet:
		return "replica_set"
	case ClusterSharded:
		return "sharded"
	default:
		return "unknown"
	}
}

// ServerDescription is an immutable point-in-time description of one server.
//
// Descriptions are replaced wholesale on every state transition, never
// mutated in place, so holders can read fields without synchronization.
type ServerDescription struct {
	// Address is the server's host:port.
	Address ServerAddress

	// State is the role the server currently plays.
	State ServerState

	// RTT is the most recent round-trip latency measurement.
	// Zero means no measurement is available yet.
	RTT time.Duration

	// Tags carries deployment metadata (datacenter, rack, ...) that
	// selection strategies may match on. May be nil.
	Tags map[string]string

	// LastUpdated records when this description was produced.
	LastUpdated time.Time
}

// Known reports whether the server's role has been determined.
func (d ServerDescription) Known() bool {
	return d.State != ServerUnknown
}

// HasTag reports whether the description carries the given tag pair.
func (d ServerDescription) HasTag(key, value string) bool {
	return d.Tags[key] == value
}

// String returns a compact representation for logs and error messages.
func (d ServerDescription) String() string {
	return fmt.Sprintf("%s(%s)", d.Address, d.State)
}

// ClusterDescription is an immutable snapshot of the cluster at a point in
// time: the set of known servers plus a cluster-level type flag.
//
// A snapshot is never mutated; topology changes are published by replacing
// the whole snapshot. Readers therefore always observe a complete,
// internally consistent view without locking.
type ClusterDescription struct {
	clusterType ClusterType
	servers     []ServerDescription
}

// NewClusterDescription creates an immutable snapshot from the given servers.
//
// The server list is copied and sorted by address so that two snapshots
// built from the same membership compare and print identically.
//
// Parameters:
//   - clusterType: The settled cluster type, or ClusterUnknown while
//     discovery is still in progress
//   - servers: Current server descriptions
//
// Returns:
//   - ClusterDescription: The snapshot
func NewClusterDescription(clusterType ClusterType, servers ...ServerDescription) ClusterDescription {
	copied := make([]ServerDescription, len(servers))
	copy(copied, servers)
	sort.Slice(copied, func(i, j int) bool {
		return copied[i].Address < copied[j].Address
	})

	return ClusterDescription{
		clusterType: clusterType,
		servers:     copied,
	}
}

// Type returns the cluster type. ClusterUnknown means discovery has not
// converged yet.
func (d ClusterDescription) Type() ClusterType {
	return d.clusterType
}

// Servers returns a copy of the server descriptions in address order.
func (d ClusterDescription) Servers() []ServerDescription {
	out := make([]ServerDescription, len(d.servers))
	copy(out, d.servers)

	return out
}

// Server returns the description for the given address.
//
// Returns:
//   - ServerDescription: The matching description (zero value if absent)
//   - bool: true if the address is part of the snapshot
func (d ClusterDescription) Server(addr ServerAddress) (ServerDescription, bool) {
	for _, s := range d.servers {
		if s.Address == addr {
			return s, true
		}
	}

	return ServerDescription{}, false
}

// Len returns the number of servers in the snapshot.
func (d ClusterDescription) Len() int {
	return len(d.servers)
}

// Connecting reports whether discovery is still in progress: either the
// cluster type is not yet known, or at least one server's role is still
// undetermined. A selector that matches nothing against a connecting
// snapshot may still match once discovery converges.
func (d ClusterDescription) Connecting() bool {
	if d.clusterType == ClusterUnknown {
		return true
	}
	for _, s := range d.servers {
		if !s.Known() {
			return true
		}
	}

	return false
}

// String returns a compact representation for logs and error messages.
func (d ClusterDescription) String() string {
	parts := make([]string, len(d.servers))
	for i, s := range d.servers {
		parts[i] = s.String()
	}

	return fmt.Sprintf("{type=%s servers=[%s]}", d.clusterType, strings.Join(parts, " "))
}

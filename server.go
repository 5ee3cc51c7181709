package sextant

import (
	"context"
	"sync/atomic"

	"github.com/arloliu/sextant/types"
)

// Connection is a live connection to one server.
//
// Wire-level request/response I/O is owned by the connection implementation;
// the cluster only hands connections out.
type Connection interface {
	// Address returns the address of the server this connection talks to.
	Address() types.ServerAddress

	// Close releases the connection.
	Close() error
}

// Server is the handle surface returned to callers by SelectServer.
//
// A Server obtained from a cluster remains valid for the lifetime of the
// cluster even if the underlying live server object is replaced after a
// disconnect/reconnect cycle: operations always forward to the currently
// installed object at call time, not at handle-creation time. Holders may
// therefore observe resource replacement mid-lifetime; this is documented
// behavior, not a bug.
type Server interface {
	// Description returns the server's current description.
	Description() types.ServerDescription

	// Connection returns a connection to the server.
	Connection(ctx context.Context) (Connection, error)
}

// DescriptionChange describes one server's transition between two
// description snapshots.
type DescriptionChange struct {
	// Previous is the description before the transition.
	Previous types.ServerDescription

	// Current is the description after the transition.
	Current types.ServerDescription
}

// DescriptionChangeListener receives server state transitions.
//
// Listeners registered by the cluster fold individual transitions into a
// fresh cluster snapshot. Implementations of ClusterableServer must invoke
// listeners from their own goroutine, never synchronously from
// AddChangeListener or Close; the cluster may be holding its own lock at
// those points.
type DescriptionChangeListener func(change DescriptionChange)

// ClusterableServer is the live per-server object managed by the cluster.
//
// Implementations own the monitoring of their server (heartbeats, RTT
// sampling) and publish state transitions through registered listeners.
type ClusterableServer interface {
	Server

	// AddChangeListener registers a listener for description transitions.
	AddChangeListener(listener DescriptionChangeListener)

	// Close shuts the server object down and releases its resources.
	Close() error
}

// ServerFactory creates live server objects for discovered addresses.
//
// Credentials, connection options and monitoring resources are captured by
// the factory at construction time; the cluster only supplies addresses.
type ServerFactory interface {
	// NewServer creates the live server object for the given address.
	NewServer(addr types.ServerAddress) (ClusterableServer, error)
}

// serverTarget wraps the interface value so atomic.Value always stores one
// concrete type.
type serverTarget struct {
	server ClusterableServer
}

// serverHandle is the indirection cell behind every Server handed to
// callers. The cluster re-points the cell when it replaces the underlying
// live object; existing holders transparently observe the new target.
type serverHandle struct {
	target atomic.Value // serverTarget
}

var _ Server = (*serverHandle)(nil)

func newServerHandle(server ClusterableServer) *serverHandle {
	h := &serverHandle{}
	h.target.Store(serverTarget{server: server})

	return h
}

// retarget installs a new underlying server object.
func (h *serverHandle) retarget(server ClusterableServer) {
	h.target.Store(serverTarget{server: server})
}

// current returns the currently installed underlying server.
func (h *serverHandle) current() ClusterableServer {
	return h.target.Load().(serverTarget).server
}

// Description forwards to the currently installed server.
func (h *serverHandle) Description() types.ServerDescription {
	return h.current().Description()
}

// Connection forwards to the currently installed server.
func (h *serverHandle) Connection(ctx context.Context) (Connection, error) {
	return h.current().Connection(ctx)
}

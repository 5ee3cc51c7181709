package topology

import (
	"sync"
	"time"

	"github.com/arloliu/sextant"
	"github.com/arloliu/sextant/types"
)

// Local is an in-memory topology feeder for testing and demos.
//
// Unlike NATS, this implementation allows programmatic control of the
// cluster membership: tests place servers, change their roles and remove
// them, and every change is published to the bound cluster controller as a
// fresh immutable snapshot.
type Local struct {
	updater sextant.Updater

	mu          sync.Mutex
	clusterType types.ClusterType
	servers     map[types.ServerAddress]types.ServerDescription
}

// NewLocal creates a new in-memory topology feeder bound to the given
// updater (usually a *sextant.Cluster).
//
// The feeder starts empty and connecting; nothing is published until the
// first mutation.
//
// Parameters:
//   - updater: Receiver of published snapshots
//
// Returns:
//   - *Local: A new local topology feeder
func NewLocal(updater sextant.Updater) *Local {
	return &Local{
		updater:     updater,
		clusterType: types.ClusterUnknown,
		servers:     make(map[types.ServerAddress]types.ServerDescription),
	}
}

// SetClusterType settles (or unsettles) the cluster type and publishes.
//
// Parameters:
//   - clusterType: The new cluster type
func (l *Local) SetClusterType(clusterType types.ClusterType) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.clusterType = clusterType
	l.publishLocked()
}

// SetServer places or replaces one server's description and publishes.
//
// A zero LastUpdated is stamped with the current time.
//
// Parameters:
//   - desc: The server description
func (l *Local) SetServer(desc types.ServerDescription) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if desc.LastUpdated.IsZero() {
		desc.LastUpdated = time.Now()
	}
	l.servers[desc.Address] = desc
	l.publishLocked()
}

// RemoveServer removes a server from the membership and publishes.
// Removing an unknown address is a no-op.
//
// Parameters:
//   - addr: The address to remove
func (l *Local) RemoveServer(addr types.ServerAddress) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.servers[addr]; !ok {
		return
	}
	delete(l.servers, addr)
	l.publishLocked()
}

// Description returns the snapshot the feeder would publish now.
//
// Returns:
//   - types.ClusterDescription: The current membership as a snapshot
func (l *Local) Description() types.ClusterDescription {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.descriptionLocked()
}

func (l *Local) descriptionLocked() types.ClusterDescription {
	servers := make([]types.ServerDescription, 0, len(l.servers))
	for _, s := range l.servers {
		servers = append(servers, s)
	}

	return types.NewClusterDescription(l.clusterType, servers...)
}

func (l *Local) publishLocked() {
	l.updater.Update(l.descriptionLocked())
}

package sextant

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/arloliu/sextant/internal/phase"
	"github.com/arloliu/sextant/types"
)

// Updater is the write-side entry point the discovery subsystem drives.
// *Cluster implements it; the topology package feeds it.
type Updater interface {
	// Update publishes a new cluster snapshot and wakes all waiters.
	Update(desc types.ClusterDescription)
}

// Cluster is the client-side topology controller for a multi-server data
// store. It holds the current cluster snapshot, lets callers select a
// server matching arbitrary criteria while discovery runs concurrently in
// the background, and hands out server handles that survive replacement of
// the underlying live server objects.
//
// # Thread Safety
//
// Cluster is safe for concurrent use. Any number of goroutines may call
// SelectServer and Describe concurrently with a single logical writer
// calling Update. The snapshot and the wait phase are only ever replaced by
// whole-reference swap under one mutex, so readers always observe the new
// snapshot paired with the newly advanced phase.
//
// # Lifecycle
//
// Create a cluster with NewCluster() and clean up resources with Close():
//
//	cluster, err := sextant.NewCluster(factory,
//	    sextant.WithSeedServers("db1:27017", "db2:27017"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cluster.Close()
//
// After Close() is called all blocked waiters unblock with ErrClusterClosed,
// managed server objects are closed, and every further operation fails fast
// with ErrClusterClosed. The transition is one-way.
type Cluster struct {
	id      string
	config  *Config
	factory ServerFactory

	gate   *phase.Gate
	desc   atomic.Pointer[types.ClusterDescription]
	closed atomic.Bool

	// mu guards the server map and serializes snapshot swap + phase
	// advance so the pair appears atomic to readers.
	mu      sync.Mutex
	servers map[types.ServerAddress]*serverEntry
}

// serverEntry tracks the handle cell for one address. The handle outlives
// membership: when an address leaves the topology the entry is deactivated
// and its underlying server closed, but handles already given out keep
// working again once the address returns and the cell is retargeted.
type serverEntry struct {
	handle *serverHandle
	active bool
}

var _ Updater = (*Cluster)(nil)

// NewCluster creates a new topology controller.
//
// The cluster starts with a connecting snapshot built from the configured
// seed addresses (empty if none) and materializes a live server object for
// each seed through the factory. The discovery subsystem then drives the
// topology via Update.
//
// Parameters:
//   - factory: Creates live server objects for discovered addresses (required)
//   - opts: Optional configuration options
//
// Returns:
//   - *Cluster: A new cluster controller
//   - error: ErrNilServerFactory if factory is nil
func NewCluster(factory ServerFactory, opts ...Option) (*Cluster, error) {
	if factory == nil {
		return nil, types.ErrNilServerFactory
	}

	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	if config.Logger == nil {
		config.Logger = DefaultConfig().Logger
	}
	if config.Metrics == nil {
		config.Metrics = DefaultConfig().Metrics
	}
	if config.ServerSelectionTimeout <= 0 {
		config.ServerSelectionTimeout = DefaultServerSelectionTimeout
	}

	c := &Cluster{
		id:      uuid.NewString(),
		config:  config,
		factory: factory,
		gate:    phase.NewGate(),
		servers: make(map[types.ServerAddress]*serverEntry),
	}

	now := time.Now()
	seeds := make([]types.ServerDescription, 0, len(config.Seeds))
	for _, addr := range config.Seeds {
		seeds = append(seeds, types.ServerDescription{
			Address:     addr,
			State:       types.ServerUnknown,
			LastUpdated: now,
		})
	}
	initial := types.NewClusterDescription(types.ClusterUnknown, seeds...)
	c.desc.Store(&initial)

	c.mu.Lock()
	for _, addr := range config.Seeds {
		c.materializeLocked(addr)
	}
	c.mu.Unlock()

	c.config.Logger.Info("cluster controller created",
		"cluster_id", c.id,
		"seeds", len(config.Seeds),
		"selection_timeout", config.ServerSelectionTimeout,
	)

	return c, nil
}

// ID returns the unique identifier of this cluster instance, used to
// correlate log lines when an application runs several controllers.
func (c *Cluster) ID() string {
	return c.id
}

// SelectServer returns a handle to a server satisfying the selector.
//
// If the current snapshot contains matching servers, one of them is chosen
// uniformly at random and returned immediately. If nothing matches while
// discovery is still in progress, the call blocks until the next topology
// update and re-evaluates, up to the selection timeout. If nothing matches
// and discovery has settled, the call fails fast with a
// NoMatchingServerError instead of waiting out the timeout.
//
// The wait is bounded by the configured ServerSelectionTimeout and by the
// caller's context, whichever ends first; context cancellation surfaces as
// ErrSelectionCancelled, distinct from ErrSelectionTimeout.
//
// Parameters:
//   - ctx: Caller context; cancellation aborts the wait
//   - selector: Selection strategy choosing eligible servers
//
// Returns:
//   - Server: Handle to the chosen server
//   - error: ErrClusterClosed, ErrNilSelector, ErrSelectionTimeout,
//     ErrNoMatchingServer, ErrSelectionCancelled, or the selector's own error
func (c *Cluster) SelectServer(ctx context.Context, selector ServerSelector) (Server, error) {
	if selector == nil {
		return nil, types.ErrNilSelector
	}

	c.config.Metrics.IncSelectionTotal()

	start := time.Now()
	deadline := start.Add(c.config.ServerSelectionTimeout)

	for {
		if c.closed.Load() {
			return nil, types.ErrClusterClosed
		}

		// The token must be captured before the snapshot is read: any
		// update published after this point releases the token, so the
		// wait below cannot miss it.
		token := c.gate.Current()
		desc := c.description()

		candidates, err := selector.SelectServers(desc)
		if err != nil {
			return nil, &types.SelectorError{Selector: selector.String(), Cause: err}
		}

		if len(candidates) > 0 {
			chosen := candidates[rand.IntN(len(candidates))]
			srv, err := c.serverFor(chosen.Address)
			if err != nil {
				return nil, err
			}
			c.config.Metrics.ObserveSelectionWait(time.Since(start).Seconds())

			return srv, nil
		}

		if !desc.Connecting() {
			c.config.Metrics.IncSelectionNoMatch()

			return nil, &types.NoMatchingServerError{Selector: selector.String(), Last: desc}
		}

		remaining := time.Until(deadline)
		c.config.Logger.Debug("no server chosen, waiting for topology change",
			"cluster_id", c.id,
			"selector", selector.String(),
			"description", desc.String(),
			"remaining", remaining,
		)

		released, err := token.Await(ctx, remaining)
		if err != nil {
			c.config.Metrics.IncSelectionCancelled()

			return nil, &types.SelectionCancelledError{Selector: selector.String(), Cause: err}
		}
		if !released {
			c.config.Metrics.IncSelectionTimeout()

			return nil, &types.SelectionTimeoutError{
				Selector: selector.String(),
				Elapsed:  time.Since(start),
				Last:     desc,
			}
		}
	}
}

// Describe returns the current cluster snapshot once discovery has settled
// on a cluster type.
//
// If the cluster type is still unknown, the call blocks until topology
// updates settle it, bounded by the selection timeout and the caller's
// context like SelectServer.
//
// Parameters:
//   - ctx: Caller context; cancellation aborts the wait
//
// Returns:
//   - types.ClusterDescription: The settled snapshot
//   - error: ErrClusterClosed, ErrSelectionTimeout or ErrSelectionCancelled
func (c *Cluster) Describe(ctx context.Context) (types.ClusterDescription, error) {
	const waitingFor = "a settled cluster description"

	start := time.Now()
	deadline := start.Add(c.config.ServerSelectionTimeout)

	for {
		if c.closed.Load() {
			return types.ClusterDescription{}, types.ErrClusterClosed
		}

		token := c.gate.Current()
		desc := c.description()

		if desc.Type() != types.ClusterUnknown {
			return desc, nil
		}

		remaining := time.Until(deadline)
		c.config.Logger.Debug("cluster description not yet settled, waiting",
			"cluster_id", c.id,
			"description", desc.String(),
			"remaining", remaining,
		)

		released, err := token.Await(ctx, remaining)
		if err != nil {
			return types.ClusterDescription{}, &types.SelectionCancelledError{Selector: waitingFor, Cause: err}
		}
		if !released {
			return types.ClusterDescription{}, &types.SelectionTimeoutError{
				Selector: waitingFor,
				Elapsed:  time.Since(start),
				Last:     desc,
			}
		}
	}
}

// Update publishes a new cluster snapshot and wakes all waiters.
//
// This is the writer-side entry point invoked by the discovery subsystem
// whenever it learns new topology. The server set is reconciled against the
// snapshot (new addresses materialized through the factory, departed ones
// closed, returning ones recycled onto their existing handles), then the
// snapshot reference and the wait phase are swapped as one step, so readers
// never observe the new snapshot paired with the old phase or vice versa.
//
// Calls after Close are ignored.
//
// Parameters:
//   - desc: The new cluster snapshot
func (c *Cluster) Update(desc types.ClusterDescription) {
	if c.closed.Load() {
		return
	}

	c.mu.Lock()
	if c.closed.Load() {
		c.mu.Unlock()
		return
	}
	c.reconcileLocked(desc)
	c.desc.Store(&desc)
	c.gate.Advance()
	c.mu.Unlock()

	c.config.Logger.Debug("updated cluster description, notifying all waiters",
		"cluster_id", c.id,
		"description", desc.String(),
	)
	c.publishTopologyMetrics(desc)
}

// Close shuts the cluster down.
//
// All managed server objects are closed, the wait phase is released one
// final time so blocked waiters unblock and observe the closed state, and
// every further operation fails fast with ErrClusterClosed. Close is
// idempotent; repeated calls return nil.
//
// Returns:
//   - error: Joined errors from closing managed servers, or nil
func (c *Cluster) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.mu.Lock()
	var errs []error
	for addr, entry := range c.servers {
		if !entry.active {
			continue
		}
		entry.active = false
		if err := entry.handle.current().Close(); err != nil {
			errs = append(errs, err)
			c.config.Logger.Warn("failed to close server",
				"cluster_id", c.id,
				"address", addr,
				"error", err,
			)
		}
	}
	c.mu.Unlock()

	// Final release unblocks any waiters, which then observe the closed
	// flag and fail with ErrClusterClosed.
	c.gate.Advance()

	c.config.Logger.Info("cluster controller closed", "cluster_id", c.id)

	return errors.Join(errs...)
}

// IsClosed reports whether Close has been called. Non-blocking.
func (c *Cluster) IsClosed() bool {
	return c.closed.Load()
}

// description returns the current snapshot. Non-blocking.
func (c *Cluster) description() types.ClusterDescription {
	return *c.desc.Load()
}

// serverFor returns the handle for the given address, materializing the
// live server on demand if the selector chose an address the reconciler has
// not seen yet.
func (c *Cluster) serverFor(addr types.ServerAddress) (Server, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil, types.ErrClusterClosed
	}

	entry := c.servers[addr]
	if entry != nil && entry.active {
		return entry.handle, nil
	}

	return c.materializeLocked(addr)
}

// materializeLocked creates the live server for addr through the factory
// and installs it, retargeting an existing handle cell if the address has
// been a member before. Callers must hold c.mu.
func (c *Cluster) materializeLocked(addr types.ServerAddress) (Server, error) {
	server, err := c.factory.NewServer(addr)
	if err != nil {
		c.config.Logger.Error("server factory failed",
			"cluster_id", c.id,
			"address", addr,
			"error", err,
		)

		return nil, err
	}
	server.AddChangeListener(c.onServerDescriptionChanged)

	entry := c.servers[addr]
	if entry == nil {
		entry = &serverEntry{handle: newServerHandle(server)}
		c.servers[addr] = entry
	} else {
		// The address is returning after a removal; re-point the existing
		// cell so handles issued earlier observe the replacement.
		entry.handle.retarget(server)
	}
	entry.active = true

	return entry.handle, nil
}

// reconcileLocked aligns the managed server set with the new snapshot.
// Callers must hold c.mu.
func (c *Cluster) reconcileLocked(desc types.ClusterDescription) {
	members := make(map[types.ServerAddress]bool, desc.Len())
	for _, s := range desc.Servers() {
		members[s.Address] = true
		entry := c.servers[s.Address]
		if entry == nil || !entry.active {
			// Errors are logged by materializeLocked; a selector choosing
			// the address later retries the factory through serverFor.
			_, _ = c.materializeLocked(s.Address)
		}
	}

	for addr, entry := range c.servers {
		if members[addr] || !entry.active {
			continue
		}
		entry.active = false
		if err := entry.handle.current().Close(); err != nil {
			c.config.Logger.Warn("failed to close removed server",
				"cluster_id", c.id,
				"address", addr,
				"error", err,
			)
		}
		c.config.Logger.Info("server removed from topology",
			"cluster_id", c.id,
			"address", addr,
		)
	}
}

// onServerDescriptionChanged folds one server's state transition into a
// fresh snapshot. Transitions for servers that are no longer members are
// dropped.
func (c *Cluster) onServerDescriptionChanged(change DescriptionChange) {
	if c.closed.Load() {
		return
	}

	c.mu.Lock()
	if c.closed.Load() {
		c.mu.Unlock()
		return
	}

	cur := c.description()
	if _, ok := cur.Server(change.Current.Address); !ok {
		c.mu.Unlock()
		return
	}

	servers := cur.Servers()
	for i := range servers {
		if servers[i].Address == change.Current.Address {
			servers[i] = change.Current
		}
	}
	next := types.NewClusterDescription(cur.Type(), servers...)
	c.desc.Store(&next)
	c.gate.Advance()
	c.mu.Unlock()

	c.config.Logger.Debug("folded server state transition into cluster description",
		"cluster_id", c.id,
		"address", change.Current.Address,
		"previous", change.Previous.State.String(),
		"current", change.Current.State.String(),
	)
	c.publishTopologyMetrics(next)
}

// publishTopologyMetrics refreshes topology gauges after a snapshot swap.
func (c *Cluster) publishTopologyMetrics(desc types.ClusterDescription) {
	m := c.config.Metrics
	m.IncTopologyUpdate()
	m.SetClusterSettled(!desc.Connecting())

	counts := make(map[types.ServerState]int)
	for _, s := range desc.Servers() {
		counts[s.State]++
	}
	for _, state := range []types.ServerState{
		types.ServerUnknown,
		types.ServerStandalone,
		types.ServerPrimary,
		types.ServerSecondary,
	} {
		m.SetServerCount(state, counts[state])
	}
}

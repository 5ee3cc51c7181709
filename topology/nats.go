package topology

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/sextant"
	"github.com/arloliu/sextant/internal/logging"
	"github.com/arloliu/sextant/types"
)

// NATS feeds a cluster controller from a NATS KV bucket.
//
// An out-of-process discovery service publishes MessagePack-encoded cluster
// snapshots (see EncodeDescription) to a configurable key; this watcher
// decodes each revision and pushes it to the bound updater. This keeps the
// client-side controller current without the client running its own
// heartbeat loop.
//
// Watch() should be called once per instance. The watch stops when Close()
// is called or the context is cancelled.
type NATS struct {
	kv      jetstream.KeyValue
	updater sextant.Updater
	config  WatcherConfig
	logger  types.Logger

	// Lifecycle
	mu           sync.Mutex
	done         chan struct{}
	closed       bool
	watchStarted bool
}

// NewNATS creates a new NATS KV topology watcher.
//
// The watcher begins monitoring the KV bucket when Watch() is called.
//
// Parameters:
//   - kv: A NATS JetStream KeyValue store
//   - updater: Receiver of decoded snapshots (usually a *sextant.Cluster)
//   - opts: Optional configuration options
//
// Returns:
//   - *NATS: A new watcher instance
//   - error: Error if kv or updater is nil
//
// Example:
//
//	nc, _ := nats.Connect("nats://localhost:4222")
//	js, _ := jetstream.New(nc)
//	kv, _ := js.KeyValue(ctx, "sextant-topology")
//
//	watcher, _ := topology.NewNATS(kv, cluster,
//	    topology.WithKey("mystore.cluster.topology"),
//	)
//	watcher.Watch(ctx)
func NewNATS(kv jetstream.KeyValue, updater sextant.Updater, opts ...WatcherOption) (*NATS, error) {
	if kv == nil {
		return nil, errors.New("sextant/topology: KeyValue store is nil")
	}
	if updater == nil {
		return nil, errors.New("sextant/topology: updater is nil")
	}

	config := DefaultWatcherConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &NATS{
		kv:      kv,
		updater: updater,
		config:  config,
		logger:  logging.NewNopLogger(),
		done:    make(chan struct{}),
	}, nil
}

// SetLogger replaces the watcher's logger. Must be called before Watch.
//
// Parameters:
//   - logger: The logger implementation
func (n *NATS) SetLogger(logger types.Logger) {
	if logger != nil {
		n.logger = logger
	}
}

// Watch starts monitoring the KV key in a background goroutine.
//
// Each revision of the key is decoded and published to the updater. If the
// KV watch cannot be established the watcher falls back to polling at the
// configured interval.
//
// Subsequent calls are no-ops; only the first call's context controls the
// watch lifecycle.
//
// Parameters:
//   - ctx: Context for cancellation (only used on first call)
func (n *NATS) Watch(ctx context.Context) {
	n.mu.Lock()
	if n.watchStarted {
		n.mu.Unlock()

		return
	}
	n.watchStarted = true
	n.mu.Unlock()

	go n.watchLoop(ctx)
}

// Config returns the watcher configuration.
//
// This method is primarily useful for testing to verify configuration options.
//
// Returns:
//   - WatcherConfig: The current watcher configuration
func (n *NATS) Config() WatcherConfig {
	return n.config
}

// Close stops the watcher and releases resources.
//
// This method is safe to call multiple times.
func (n *NATS) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}

	n.closed = true
	close(n.done)

	return nil
}

// watchLoop is the main watch loop that monitors the NATS KV key.
func (n *NATS) watchLoop(ctx context.Context) {
	// Initial fetch so the controller does not wait for the first change.
	n.fetchAndApply(ctx)

	watcher, err := n.kv.Watch(ctx, n.config.Key)
	if err != nil {
		// Fall back to polling if watch fails
		n.pollLoop(ctx)
		return
	}
	defer func() { _ = watcher.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return
		case <-n.done:
			return
		case entry, ok := <-watcher.Updates():
			if !ok {
				// Watcher channel closed, fall back to polling
				n.pollLoop(ctx)
				return
			}
			if entry == nil {
				// Initial nil entry, skip
				continue
			}
			n.applyEntry(entry)
		}
	}
}

// pollLoop is a fallback polling loop when watch fails.
func (n *NATS) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(n.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-n.done:
			return
		case <-ticker.C:
			n.fetchAndApply(ctx)
		}
	}
}

// fetchAndApply fetches the current KV value and applies it if present.
func (n *NATS) fetchAndApply(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, n.config.InitialFetchTimeout)
	defer cancel()

	entry, err := n.kv.Get(fetchCtx, n.config.Key)
	if err != nil {
		// Key doesn't exist yet; the controller keeps its current view.
		n.logger.Debug("topology key not available", "key", n.config.Key, "error", err)
		return
	}

	n.applyEntry(entry)
}

// applyEntry decodes a KV entry and pushes the snapshot to the updater.
func (n *NATS) applyEntry(entry jetstream.KeyValueEntry) {
	// A deleted key carries no snapshot; keep the last known view rather
	// than guessing membership.
	if entry.Operation() == jetstream.KeyValueDelete || entry.Operation() == jetstream.KeyValuePurge {
		n.logger.Warn("topology key deleted, keeping last known description", "key", n.config.Key)
		return
	}

	desc, err := DecodeDescription(entry.Value())
	if err != nil {
		n.logger.Error("failed to decode topology snapshot",
			"key", n.config.Key,
			"revision", entry.Revision(),
			"error", err,
		)
		return
	}

	n.updater.Update(desc)
}

// PublishDescription encodes a snapshot and puts it to the KV key. This is
// the publishing half of the watcher, used by the discovery service (and
// by tests).
//
// Parameters:
//   - ctx: Context for the KV put
//   - kv: The KeyValue store
//   - key: The key to publish under
//   - desc: The snapshot to publish
//
// Returns:
//   - error: Error from the KV put
func PublishDescription(ctx context.Context, kv jetstream.KeyValue, key string, desc types.ClusterDescription) error {
	_, err := kv.Put(ctx, key, EncodeDescription(desc))

	return err
}

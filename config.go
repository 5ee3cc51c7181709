package sextant

import (
	"time"

	"github.com/arloliu/sextant/internal/logging"
	"github.com/arloliu/sextant/internal/metrics"
	"github.com/arloliu/sextant/types"
)

// DefaultServerSelectionTimeout bounds how long SelectServer and Describe
// wait for the topology to produce a usable answer when the caller's
// context carries no earlier deadline.
const DefaultServerSelectionTimeout = 20 * time.Second

// Config holds configuration for a Cluster.
type Config struct {
	// ServerSelectionTimeout bounds every blocking selection call.
	ServerSelectionTimeout time.Duration

	// Seeds are the initial addresses the cluster starts from. Seed
	// servers are materialized eagerly and appear in the initial
	// connecting snapshot in state ServerUnknown.
	Seeds []types.ServerAddress

	// Logger receives structured log messages.
	Logger types.Logger

	// Metrics receives operational metrics.
	Metrics types.MetricsCollector
}

// DefaultConfig returns a Config with sensible defaults.
//
// Defaults:
//   - ServerSelectionTimeout: 20 seconds
//   - Logger: no-op
//   - Metrics: no-op
//
// Returns:
//   - *Config: Configuration with default settings
func DefaultConfig() *Config {
	return &Config{
		ServerSelectionTimeout: DefaultServerSelectionTimeout,
		Logger:                 logging.NewNopLogger(),
		Metrics:                metrics.NewNopMetrics(),
	}
}

// Option configures a Config.
type Option func(*Config)

// WithServerSelectionTimeout sets the bound on blocking selection calls.
//
// Parameters:
//   - d: Maximum time SelectServer and Describe wait for a usable topology
//
// Returns:
//   - Option: Configuration option
func WithServerSelectionTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.ServerSelectionTimeout = d
	}
}

// WithSeedServers sets the initial server addresses.
//
// The cluster starts with a connecting snapshot listing each seed in state
// ServerUnknown; the discovery subsystem replaces it via Update as it
// learns the real topology.
//
// Parameters:
//   - addrs: Seed addresses
//
// Returns:
//   - Option: Configuration option
func WithSeedServers(addrs ...types.ServerAddress) Option {
	return func(c *Config) {
		c.Seeds = append(c.Seeds, addrs...)
	}
}

// WithLogger sets the structured logger.
//
// If not set, a no-op logger is used that discards all messages.
// The logger interface is compatible with zap.SugaredLogger; see
// contrib/logging/zap for an adapter.
//
// Parameters:
//   - logger: The logger implementation
//
// Returns:
//   - Option: Configuration option
func WithLogger(logger types.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMetrics sets the metrics collector.
//
// If not set, a no-op collector is used that discards all metrics.
// Use contrib/metrics/vm.New() for VictoriaMetrics integration.
//
// Parameters:
//   - collector: The metrics collector implementation
//
// Returns:
//   - Option: Configuration option
func WithMetrics(collector types.MetricsCollector) Option {
	return func(c *Config) {
		c.Metrics = collector
	}
}

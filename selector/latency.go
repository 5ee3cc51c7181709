package selector

import (
	"fmt"
	"time"

	"github.com/arloliu/sextant"
	"github.com/arloliu/sextant/types"
)

// DefaultLatencyWindow is the default acceptable spread above the fastest
// candidate's round-trip time.
const DefaultLatencyWindow = 15 * time.Millisecond

// latencyWindow narrows an inner selector's candidates to those within a
// latency window of the fastest one.
type latencyWindow struct {
	inner  sextant.ServerSelector
	window time.Duration
}

var _ sextant.ServerSelector = (*latencyWindow)(nil)

func (s *latencyWindow) SelectServers(desc types.ClusterDescription) ([]types.ServerDescription, error) {
	candidates, err := s.inner.SelectServers(desc)
	if err != nil || len(candidates) <= 1 {
		return candidates, err
	}

	// Servers with no RTT sample yet (zero) cannot be judged; they stay
	// eligible and do not participate in the minimum.
	var fastest time.Duration
	for _, srv := range candidates {
		if srv.RTT <= 0 {
			continue
		}
		if fastest == 0 || srv.RTT < fastest {
			fastest = srv.RTT
		}
	}
	if fastest == 0 {
		return candidates, nil
	}

	var out []types.ServerDescription
	for _, srv := range candidates {
		if srv.RTT <= 0 || srv.RTT <= fastest+s.window {
			out = append(out, srv)
		}
	}

	return out, nil
}

func (s *latencyWindow) String() string {
	return fmt.Sprintf("latency_window(%s, %v)", s.inner, s.window)
}

// LatencyWindow wraps a selector so that only candidates whose round-trip
// time is within the window of the fastest candidate remain eligible. The
// cluster then spreads load uniformly across that near-fastest group
// instead of hammering the single fastest server.
//
// A non-positive window falls back to DefaultLatencyWindow.
//
// Parameters:
//   - inner: Selector providing the candidates
//   - window: Acceptable spread above the fastest candidate's RTT
//
// Returns:
//   - sextant.ServerSelector: The selector
//
// Example:
//
//	sel := selector.LatencyWindow(selector.Readable(), 15*time.Millisecond)
func LatencyWindow(inner sextant.ServerSelector, window time.Duration) sextant.ServerSelector {
	if window <= 0 {
		window = DefaultLatencyWindow
	}

	return &latencyWindow{inner: inner, window: window}
}

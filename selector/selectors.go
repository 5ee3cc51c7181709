// Package selector provides built-in server selection strategies.
package selector

import (
	"fmt"
	"strings"

	"github.com/arloliu/sextant"
	"github.com/arloliu/sextant/types"
)

// stateSelector matches servers whose state is in the allowed set.
type stateSelector struct {
	name    string
	allowed []types.ServerState
}

var _ sextant.ServerSelector = (*stateSelector)(nil)

func (s *stateSelector) SelectServers(desc types.ClusterDescription) ([]types.ServerDescription, error) {
	var out []types.ServerDescription
	for _, srv := range desc.Servers() {
		for _, state := range s.allowed {
			if srv.State == state {
				out = append(out, srv)
				break
			}
		}
	}

	return out, nil
}

func (s *stateSelector) String() string {
	return s.name
}

// Primary returns a selector matching the writable server: the replica set
// primary, or a standalone server.
//
// Returns:
//   - sextant.ServerSelector: The selector
func Primary() sextant.ServerSelector {
	return &stateSelector{
		name:    "primary",
		allowed: []types.ServerState{types.ServerPrimary, types.ServerStandalone},
	}
}

// Secondary returns a selector matching read-only replica set members.
// A standalone server also matches, since it serves every kind of read.
//
// Returns:
//   - sextant.ServerSelector: The selector
func Secondary() sextant.ServerSelector {
	return &stateSelector{
		name:    "secondary",
		allowed: []types.ServerState{types.ServerSecondary, types.ServerStandalone},
	}
}

// Readable returns a selector matching any server with a known role.
//
// Returns:
//   - sextant.ServerSelector: The selector
func Readable() sextant.ServerSelector {
	return &stateSelector{
		name: "readable",
		allowed: []types.ServerState{
			types.ServerPrimary,
			types.ServerSecondary,
			types.ServerStandalone,
		},
	}
}

// primaryPreferred prefers the primary and falls back to secondaries.
type primaryPreferred struct{}

var _ sextant.ServerSelector = (*primaryPreferred)(nil)

func (s *primaryPreferred) SelectServers(desc types.ClusterDescription) ([]types.ServerDescription, error) {
	primaries, err := Primary().SelectServers(desc)
	if err != nil || len(primaries) > 0 {
		return primaries, err
	}

	return Secondary().SelectServers(desc)
}

func (s *primaryPreferred) String() string {
	return "primary_preferred"
}

// PrimaryPreferred returns a selector that matches the primary when one is
// known and otherwise falls back to secondaries.
//
// Returns:
//   - sextant.ServerSelector: The selector
func PrimaryPreferred() sextant.ServerSelector {
	return &primaryPreferred{}
}

// tagged matches known servers carrying a tag pair.
type tagged struct {
	key   string
	value string
}

var _ sextant.ServerSelector = (*tagged)(nil)

func (s *tagged) SelectServers(desc types.ClusterDescription) ([]types.ServerDescription, error) {
	var out []types.ServerDescription
	for _, srv := range desc.Servers() {
		if srv.Known() && srv.HasTag(s.key, s.value) {
			out = append(out, srv)
		}
	}

	return out, nil
}

func (s *tagged) String() string {
	return fmt.Sprintf("tagged(%s=%s)", s.key, s.value)
}

// Tagged returns a selector matching known servers that carry the given
// tag pair (e.g. datacenter or rack labels).
//
// Parameters:
//   - key: Tag name
//   - value: Required tag value
//
// Returns:
//   - sextant.ServerSelector: The selector
func Tagged(key, value string) sextant.ServerSelector {
	return &tagged{key: key, value: value}
}

// composite intersects the results of several selectors.
type composite struct {
	selectors []sextant.ServerSelector
}

var _ sextant.ServerSelector = (*composite)(nil)

func (s *composite) SelectServers(desc types.ClusterDescription) ([]types.ServerDescription, error) {
	if len(s.selectors) == 0 {
		return desc.Servers(), nil
	}

	candidates, err := s.selectors[0].SelectServers(desc)
	if err != nil {
		return nil, err
	}

	for _, sel := range s.selectors[1:] {
		matched, err := sel.SelectServers(desc)
		if err != nil {
			return nil, err
		}
		keep := make(map[types.ServerAddress]bool, len(matched))
		for _, srv := range matched {
			keep[srv.Address] = true
		}

		filtered := candidates[:0]
		for _, srv := range candidates {
			if keep[srv.Address] {
				filtered = append(filtered, srv)
			}
		}
		candidates = filtered
		if len(candidates) == 0 {
			return nil, nil
		}
	}

	return candidates, nil
}

func (s *composite) String() string {
	parts := make([]string, len(s.selectors))
	for i, sel := range s.selectors {
		parts[i] = sel.String()
	}

	return "composite(" + strings.Join(parts, ", ") + ")"
}

// Composite returns a selector matching servers accepted by every given
// selector. Results keep the order of the first selector.
//
// Parameters:
//   - selectors: Selectors to intersect
//
// Returns:
//   - sextant.ServerSelector: The selector
//
// Example:
//
//	sel := selector.Composite(
//	    selector.Secondary(),
//	    selector.Tagged("dc", "east"),
//	)
func Composite(selectors ...sextant.ServerSelector) sextant.ServerSelector {
	return &composite{selectors: selectors}
}

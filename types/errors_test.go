package types

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionTimeoutError(t *testing.T) {
	err := &SelectionTimeoutError{
		Selector: "primary",
		Elapsed:  20 * time.Second,
		Last:     NewClusterDescription(ClusterUnknown),
	}

	require.ErrorIs(t, err, ErrSelectionTimeout)
	assert.NotErrorIs(t, err, ErrSelectionCancelled)
	assert.Contains(t, err.Error(), "20s")
	assert.Contains(t, err.Error(), "primary")

	var target *SelectionTimeoutError
	require.ErrorAs(t, error(err), &target)
	assert.Equal(t, 20*time.Second, target.Elapsed)
}

func TestNoMatchingServerError(t *testing.T) {
	err := &NoMatchingServerError{
		Selector: "tagged(dc=east)",
		Last: NewClusterDescription(ClusterReplicaSet,
			ServerDescription{Address: "db1:27017", State: ServerPrimary},
		),
	}

	require.ErrorIs(t, err, ErrNoMatchingServer)
	assert.Contains(t, err.Error(), "tagged(dc=east)")
	assert.Contains(t, err.Error(), "db1:27017")
}

func TestSelectionCancelledErrorUnwrapsBoth(t *testing.T) {
	err := &SelectionCancelledError{
		Selector: "primary",
		Cause:    context.Canceled,
	}

	// Classifiable as cancelled and as the caller's own context error.
	require.ErrorIs(t, err, ErrSelectionCancelled)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrSelectionTimeout)
}

func TestSelectorErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("bad criteria")
	err := &SelectorError{Selector: "broken", Cause: cause}

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "broken")
}

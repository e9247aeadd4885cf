package registry

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/depot/internal/memstore"
	"github.com/mesh-intelligence/depot/pkg/types"
)

func TestBreakerPassesThroughHealthyStore(t *testing.T) {
	ctx := context.Background()
	store := NewBreakerBlobStore(memstore.NewBlobStore())

	n, err := store.Put(ctx, "lib", "1.0.0", strings.NewReader("payload"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	rc, size, err := store.Get(ctx, "lib", "1.0.0")
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, int64(7), size)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	ok, err := store.Exists(ctx, "lib", "1.0.0")
	require.NoError(t, err)
	assert.True(t, ok)
}

// Behavioral sentinels must pass through unchanged and never count as
// faults, however often they occur.
func TestBreakerIgnoresBehavioralErrors(t *testing.T) {
	ctx := context.Background()
	store := NewBreakerBlobStore(memstore.NewBlobStore())

	for i := 0; i < 20; i++ {
		_, _, err := store.Get(ctx, "ghost", "1.0.0")
		assert.ErrorIs(t, err, types.ErrBlobNotFound)
	}

	_, err := store.Put(ctx, "lib", "1.0.0", strings.NewReader("x"))
	require.NoError(t, err)
	_, err = store.Put(ctx, "lib", "1.0.0", strings.NewReader("x"))
	assert.ErrorIs(t, err, types.ErrBlobExists)

	// Still closed: real operations keep flowing.
	ok, err := store.Exists(ctx, "lib", "1.0.0")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBreakerTripsOnConsecutiveFaults(t *testing.T) {
	ctx := context.Background()
	store := NewBreakerBlobStore(failingBlobStore{})

	for i := 0; i < 5; i++ {
		_, err := store.Put(ctx, "lib", "1.0.0", strings.NewReader("x"))
		assert.ErrorIs(t, err, errBlobWrite)
	}

	_, err := store.Put(ctx, "lib", "1.0.0", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrBlobStoreUnavailable)
}

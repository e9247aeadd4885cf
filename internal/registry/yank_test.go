package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/depot/pkg/types"
)

func TestYankAndUnyank(t *testing.T) {
	ctx := context.Background()
	reg, meta, _ := testRegistry(t)
	res := publishVersion(t, reg, "alice-token", "json-lib", "1.0.0", "payload")

	require.NoError(t, reg.SetYanked(ctx, "alice-token", "json-lib", "1.0.0", true))
	require.NoError(t, reg.SetYanked(ctx, "alice-token", "json-lib", "1.0.0", true)) // idempotent

	rec, err := meta.Get(ctx, "json-lib")
	require.NoError(t, err)
	assert.True(t, rec.Versions[0].Yanked)
	// Yanking keeps the rest of the record intact.
	assert.Equal(t, res.Checksum, rec.Versions[0].Checksum)
	assert.Equal(t, res.Size, rec.Versions[0].Size)

	require.NoError(t, reg.SetYanked(ctx, "alice-token", "json-lib", "1.0.0", false))
	rec, err = meta.Get(ctx, "json-lib")
	require.NoError(t, err)
	assert.False(t, rec.Versions[0].Yanked)
}

func TestYankAuthorization(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := testRegistry(t)
	publishVersion(t, reg, "alice-token", "json-lib", "1.0.0", "payload")

	err := reg.SetYanked(ctx, "no-such-token", "json-lib", "1.0.0", true)
	assert.Equal(t, types.KindUnauthenticated, types.KindOf(err))

	err = reg.SetYanked(ctx, "bob-token", "json-lib", "1.0.0", true)
	assert.Equal(t, types.KindForbidden, types.KindOf(err))

	// A superuser may yank anything.
	require.NoError(t, reg.SetYanked(ctx, "admin-token", "json-lib", "1.0.0", true))
}

func TestYankUnknownTargets(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := testRegistry(t)
	publishVersion(t, reg, "admin-token", "json-lib", "1.0.0", "payload")

	err := reg.SetYanked(ctx, "admin-token", "ghost", "1.0.0", true)
	assert.Equal(t, types.KindNotFound, types.KindOf(err))

	err = reg.SetYanked(ctx, "admin-token", "json-lib", "9.9.9", true)
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
}

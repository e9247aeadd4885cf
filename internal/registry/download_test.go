package registry

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/depot/pkg/types"
)

func TestDownloadExplicitVersion(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := testRegistry(t)
	res := publishVersion(t, reg, "alice-token", "json-lib", "1.0.0", "payload-v1")

	dl, err := reg.Download(ctx, "json-lib", "1.0.0")
	require.NoError(t, err)
	defer dl.Body.Close()

	assert.Equal(t, "json-lib", dl.Name)
	assert.Equal(t, "1.0.0", dl.Version)
	assert.Equal(t, res.Checksum, dl.Checksum)
	assert.Equal(t, res.Size, dl.Size)

	data, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	assert.Equal(t, "payload-v1", string(data))
}

func TestDownloadEmptyVersionResolvesLatest(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := testRegistry(t)
	publishVersion(t, reg, "alice-token", "json-lib", "1.2.0", "old")
	publishVersion(t, reg, "alice-token", "json-lib", "1.10.0", "new")

	dl, err := reg.Download(ctx, "json-lib", "")
	require.NoError(t, err)
	defer dl.Body.Close()
	assert.Equal(t, "1.10.0", dl.Version)
}

func TestDownloadLatestSkipsYanked(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := testRegistry(t)
	publishVersion(t, reg, "alice-token", "json-lib", "1.0.0", "good")
	publishVersion(t, reg, "alice-token", "json-lib", "2.0.0", "broken")
	require.NoError(t, reg.SetYanked(ctx, "alice-token", "json-lib", "2.0.0", true))

	dl, err := reg.Download(ctx, "json-lib", "")
	require.NoError(t, err)
	defer dl.Body.Close()
	assert.Equal(t, "1.0.0", dl.Version)
}

func TestDownloadYankedVersionIsGone(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := testRegistry(t)
	publishVersion(t, reg, "alice-token", "json-lib", "1.0.0", "broken")
	require.NoError(t, reg.SetYanked(ctx, "alice-token", "json-lib", "1.0.0", true))

	_, err := reg.Download(ctx, "json-lib", "1.0.0")
	assert.Equal(t, types.KindGone, types.KindOf(err))

	// With every version yanked there is no latest either, but that
	// reads as not-found rather than gone.
	_, err = reg.Download(ctx, "json-lib", "")
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
}

func TestDownloadUnknownPackageAndVersion(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := testRegistry(t)
	publishVersion(t, reg, "alice-token", "json-lib", "1.0.0", "payload")

	_, err := reg.Download(ctx, "ghost", "1.0.0")
	assert.Equal(t, types.KindNotFound, types.KindOf(err))

	_, err = reg.Download(ctx, "json-lib", "9.9.9")
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
}

func TestDownloadCountsOnlyArtifactFetches(t *testing.T) {
	ctx := context.Background()
	reg, meta, _ := testRegistry(t)
	publishVersion(t, reg, "alice-token", "json-lib", "1.0.0", "payload")

	// Metadata reads never touch the counter.
	_, err := reg.GetPackage(ctx, "json-lib")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		dl, err := reg.Download(ctx, "json-lib", "1.0.0")
		require.NoError(t, err)
		dl.Body.Close()
	}

	// The counter write is asynchronous; Close drains it.
	require.NoError(t, reg.Close())

	rec, err := meta.Get(ctx, "json-lib")
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.Downloads)
}

func TestDownloadMissingBlobIsStorageFailure(t *testing.T) {
	ctx := context.Background()
	reg, meta, _ := testRegistry(t)

	// Fabricate metadata with no backing blob.
	require.NoError(t, meta.CreateOrAppendVersion(ctx, "phantom", types.VersionRecord{
		Version:  "1.0.0",
		Checksum: "deadbeef",
		Size:     4,
	}, types.PackageDefaults{}))

	_, err := reg.Download(ctx, "phantom", "1.0.0")
	require.Error(t, err)
	assert.Equal(t, types.KindStorage, types.KindOf(err))
	assert.ErrorIs(t, err, types.ErrBlobNotFound)
}

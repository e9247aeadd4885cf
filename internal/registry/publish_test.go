package registry

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/depot/internal/memstore"
	"github.com/mesh-intelligence/depot/pkg/types"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestPublishHappyPath(t *testing.T) {
	ctx := context.Background()
	reg, meta, blobs := testRegistry(t)

	res, err := reg.Publish(ctx, PublishRequest{
		Token:       "alice-token",
		Name:        "json-lib",
		Version:     "1.0.0",
		Description: "fast JSON",
		Authors:     []string{"alice"},
		License:     "MIT",
		Keywords:    []string{"json", "parser"},
		Body:        strings.NewReader("artifact-contents!"),
	})
	require.NoError(t, err)
	assert.Equal(t, "json-lib", res.Name)
	assert.Equal(t, "1.0.0", res.Version)
	assert.Regexp(t, hexDigest, res.Checksum)
	assert.Equal(t, int64(len("artifact-contents!")), res.Size)
	assert.Equal(t, "pkg:generic/json-lib@1.0.0", res.Locator)
	assert.Equal(t, "json-lib/1.0.0", res.BlobPath)

	rec, err := meta.Get(ctx, "json-lib")
	require.NoError(t, err)
	assert.Equal(t, "fast JSON", rec.Description)
	require.Len(t, rec.Versions, 1)
	assert.Equal(t, res.Checksum, rec.Versions[0].Checksum)

	body, size, err := blobs.Get(ctx, "json-lib", "1.0.0")
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, int64(18), size)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "artifact-contents!", string(data))
}

func TestPublishGrantsOwnershipOnFirstVersion(t *testing.T) {
	ctx := context.Background()
	reg, meta, _ := testRegistry(t)

	publishVersion(t, reg, "alice-token", "json-lib", "1.0.0", "v1")

	owners, err := meta.Owners(ctx, "json-lib")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, owners)

	// A later version by the same owner does not duplicate the grant.
	publishVersion(t, reg, "alice-token", "json-lib", "1.1.0", "v2")
	owners, err = meta.Owners(ctx, "json-lib")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, owners)
}

func TestPublishDuplicateVersionConflicts(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := testRegistry(t)

	publishVersion(t, reg, "alice-token", "json-lib", "1.0.0", "original")

	_, err := reg.Publish(ctx, PublishRequest{
		Token:   "alice-token",
		Name:    "json-lib",
		Version: "1.0.0",
		Body:    strings.NewReader("imposter"),
	})
	assert.Equal(t, types.KindConflict, types.KindOf(err))
	assert.ErrorIs(t, err, types.ErrVersionExists)

	// The stored artifact is untouched.
	dl, err := reg.Download(ctx, "json-lib", "1.0.0")
	require.NoError(t, err)
	defer dl.Body.Close()
	data, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestPublishValidation(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := testRegistry(t)

	tests := []struct {
		name string
		req  PublishRequest
		kind types.Kind
	}{
		{
			name: "bad package name",
			req:  PublishRequest{Token: "alice-token", Name: "Bad Name", Version: "1.0.0", Body: strings.NewReader("x")},
			kind: types.KindInvalidInput,
		},
		{
			name: "bad version",
			req:  PublishRequest{Token: "alice-token", Name: "lib", Version: "1.0", Body: strings.NewReader("x")},
			kind: types.KindInvalidInput,
		},
		{
			name: "nil body",
			req:  PublishRequest{Token: "alice-token", Name: "lib", Version: "1.0.0"},
			kind: types.KindInvalidInput,
		},
		{
			name: "empty body",
			req:  PublishRequest{Token: "alice-token", Name: "lib", Version: "1.0.0", Body: strings.NewReader("")},
			kind: types.KindInvalidInput,
		},
		{
			name: "unknown token",
			req:  PublishRequest{Token: "nope", Name: "lib", Version: "1.0.0", Body: strings.NewReader("x")},
			kind: types.KindUnauthenticated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Publish(ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, types.KindOf(err))
		})
	}

	// None of the failed attempts created a package.
	_, err := reg.GetPackage(ctx, "lib")
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
}

func TestPublishForbiddenForNonOwner(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := testRegistry(t)

	publishVersion(t, reg, "alice-token", "json-lib", "1.0.0", "v1")

	_, err := reg.Publish(ctx, PublishRequest{
		Token:   "bob-token",
		Name:    "json-lib",
		Version: "2.0.0",
		Body:    strings.NewReader("takeover"),
	})
	assert.Equal(t, types.KindForbidden, types.KindOf(err))
}

func TestPublishSuperUserBypassesOwnership(t *testing.T) {
	reg, _, _ := testRegistry(t)

	publishVersion(t, reg, "alice-token", "json-lib", "1.0.0", "v1")
	publishVersion(t, reg, "admin-token", "json-lib", "2.0.0", "hotfix")

	rec, err := reg.GetPackage(context.Background(), "json-lib")
	require.NoError(t, err)
	assert.Len(t, rec.Versions, 2)
}

func TestPublishReleasesSlotWhenBlobWriteFails(t *testing.T) {
	ctx := context.Background()
	meta := memstore.NewMetadataStore()
	reg, err := New(Config{
		Metadata: meta,
		Blobs:    failingBlobStore{},
		Auth:     testAuth,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	_, err = reg.Publish(ctx, PublishRequest{
		Token:   "alice-token",
		Name:    "json-lib",
		Version: "1.0.0",
		Body:    strings.NewReader("doomed"),
	})
	require.Error(t, err)
	assert.Equal(t, types.KindStorage, types.KindOf(err))

	// The compensating release removed the reserved slot, so the
	// version is publishable again once storage recovers.
	_, err = meta.Get(ctx, "json-lib")
	assert.ErrorIs(t, err, types.ErrPackageNotFound)
}

func TestPublishStoresSignatureVerbatim(t *testing.T) {
	ctx := context.Background()
	reg, meta, _ := testRegistry(t)

	_, err := reg.Publish(ctx, PublishRequest{
		Token:       "alice-token",
		Name:        "signed-lib",
		Version:     "1.0.0",
		Signature:   "sig-bytes-base64",
		Fingerprint: "ABCD1234",
		Body:        strings.NewReader("payload"),
	})
	require.NoError(t, err)

	rec, err := meta.Get(ctx, "signed-lib")
	require.NoError(t, err)
	assert.Equal(t, "sig-bytes-base64", rec.Versions[0].Signature)
	assert.Equal(t, "ABCD1234", rec.Versions[0].PublisherFingerprint)
}

func TestPublishUnrecognizedLicenseStored(t *testing.T) {
	ctx := context.Background()
	reg, meta, _ := testRegistry(t)

	_, err := reg.Publish(ctx, PublishRequest{
		Token:   "alice-token",
		Name:    "odd-lib",
		Version: "1.0.0",
		License: "My Cool License 3000",
		Body:    strings.NewReader("payload"),
	})
	require.NoError(t, err)

	rec, err := meta.Get(ctx, "odd-lib")
	require.NoError(t, err)
	assert.Equal(t, "My Cool License 3000", rec.License)
}

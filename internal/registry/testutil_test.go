package registry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/depot/internal/memstore"
	"github.com/mesh-intelligence/depot/pkg/types"
)

// staticAuth resolves tokens from a fixed map.
type staticAuth map[string]types.Identity

func (a staticAuth) Authenticate(_ context.Context, token string) (types.Identity, error) {
	id, ok := a[token]
	if !ok {
		return types.Identity{}, types.ErrUnauthenticated
	}
	return id, nil
}

var testAuth = staticAuth{
	"alice-token": {OwnerID: "alice", Role: types.RoleOwner},
	"bob-token":   {OwnerID: "bob", Role: types.RoleOwner},
	"admin-token": {OwnerID: "admin", Role: types.RoleSuperUser},
}

// testRegistry wires a Registry over in-memory stores and returns the
// stores so tests can inspect state directly.
func testRegistry(t *testing.T) (*Registry, *memstore.MetadataStore, *memstore.BlobStore) {
	t.Helper()
	meta := memstore.NewMetadataStore()
	blobs := memstore.NewBlobStore()
	reg, err := New(Config{
		Metadata: meta,
		Blobs:    blobs,
		Auth:     testAuth,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return reg, meta, blobs
}

func publishVersion(t *testing.T, reg *Registry, token, name, ver, content string) *PublishResult {
	t.Helper()
	res, err := reg.Publish(context.Background(), PublishRequest{
		Token:       token,
		Name:        name,
		Version:     ver,
		Description: "test artifact",
		License:     "MIT",
		Keywords:    []string{"testing"},
		Body:        strings.NewReader(content),
	})
	require.NoError(t, err)
	return res
}

// failingBlobStore rejects every write, for exercising the
// compensating release path.
type failingBlobStore struct{}

var errBlobWrite = errors.New("disk on fire")

func (failingBlobStore) Put(context.Context, string, string, io.Reader) (int64, error) {
	return 0, errBlobWrite
}

func (failingBlobStore) Get(context.Context, string, string) (io.ReadCloser, int64, error) {
	return nil, 0, types.ErrBlobNotFound
}

func (failingBlobStore) Exists(context.Context, string, string) (bool, error) {
	return false, nil
}

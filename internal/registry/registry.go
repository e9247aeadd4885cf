// Package registry implements the Depot core: the publish pipeline,
// download and yank flows, substring search, ownership, and the
// background blob reconciler. Storage technology stays behind the
// MetadataStore and BlobStore interfaces in pkg/types.
// See docs/ARCHITECTURE.md § Registry Core.
package registry

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// Config wires a Registry. Metadata, Blobs, and Auth are required.
type Config struct {
	Metadata types.MetadataStore
	Blobs    types.BlobStore
	Auth     types.Authenticator

	// Logger receives structured events. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Registry is the authority over the package catalog. All user-facing
// errors carry a types.Kind; storage internals never leak.
type Registry struct {
	meta    types.MetadataStore
	blobs   types.BlobStore
	auth    types.Authenticator
	owners  *OwnershipRegistry
	logger  *slog.Logger
	counter *downloadCounter
}

// New validates cfg and returns a ready Registry.
func New(cfg Config) (*Registry, error) {
	if cfg.Metadata == nil {
		return nil, errors.New("registry: metadata store is required")
	}
	if cfg.Blobs == nil {
		return nil, errors.New("registry: blob store is required")
	}
	if cfg.Auth == nil {
		return nil, errors.New("registry: authenticator is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		meta:    cfg.Metadata,
		blobs:   cfg.Blobs,
		auth:    cfg.Auth,
		owners:  NewOwnershipRegistry(cfg.Metadata),
		logger:  logger,
		counter: newDownloadCounter(cfg.Metadata, logger),
	}, nil
}

// Close waits for in-flight download-counter updates and releases the
// metadata backend.
func (r *Registry) Close() error {
	r.counter.wait()
	return r.meta.Close()
}

// GetPackage returns the record for name.
func (r *Registry) GetPackage(ctx context.Context, name string) (*types.PackageRecord, error) {
	rec, err := r.meta.Get(ctx, name)
	if err != nil {
		if errors.Is(err, types.ErrPackageNotFound) {
			return nil, types.Wrap(types.KindNotFound, err, "no package named %q", name)
		}
		return nil, types.Wrap(types.KindStorage, err, "reading package %q", name)
	}
	return rec, nil
}

// ListPackages returns every record, most recently updated first.
func (r *Registry) ListPackages(ctx context.Context) ([]*types.PackageRecord, error) {
	records, err := r.meta.List(ctx)
	if err != nil {
		return nil, types.Wrap(types.KindStorage, err, "listing packages")
	}
	return records, nil
}

// PackageOwners returns the owner IDs holding name, oldest grant
// first.
func (r *Registry) PackageOwners(ctx context.Context, name string) ([]string, error) {
	if _, err := r.GetPackage(ctx, name); err != nil {
		return nil, err
	}
	owners, err := r.owners.Owners(ctx, name)
	if err != nil {
		return nil, types.Wrap(types.KindStorage, err, "listing owners of %q", name)
	}
	return owners, nil
}

// authenticate resolves token or fails with an unauthenticated kind.
func (r *Registry) authenticate(ctx context.Context, token string) (types.Identity, error) {
	id, err := r.auth.Authenticate(ctx, token)
	if err != nil {
		return types.Identity{}, types.Wrap(types.KindUnauthenticated, err, "authentication failed")
	}
	return id, nil
}

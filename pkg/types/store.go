package types

import (
	"context"
	"io"
)

// MetadataStore is the single authority over package and version
// records plus the ownership relation. Mutations are serialized per
// package name: two concurrent publishes of the same name can never
// both observe "version not present" and both insert. Operations on
// different names proceed independently.
type MetadataStore interface {
	// Get returns a snapshot of the record for name.
	// Returns ErrPackageNotFound if the package does not exist.
	Get(ctx context.Context, name string) (*PackageRecord, error)

	// List returns snapshots of every record, sorted most recently
	// updated first. The order is stable within a single snapshot.
	List(ctx context.Context) ([]*PackageRecord, error)

	// CreateOrAppendVersion atomically inserts vr under name. If the
	// package does not exist it is created from defaults with zero
	// downloads; otherwise the descriptive fields are left untouched.
	// Returns ErrVersionExists if any existing version record carries
	// the same version string. On success the version list is re-sorted
	// descending and UpdatedAt is bumped.
	CreateOrAppendVersion(ctx context.Context, name string, vr VersionRecord, defaults PackageDefaults) error

	// ReleaseVersion removes a just-reserved version whose blob write
	// failed. If it was the only version, the package record goes with
	// it. Compensation only; not part of the user-facing surface.
	ReleaseVersion(ctx context.Context, name, version string) error

	// SetYanked sets the yanked flag on (name, version). Idempotent:
	// yanking an already-yanked version succeeds.
	SetYanked(ctx context.Context, name, version string, yanked bool) error

	// IncrementDownloads bumps the download counter for name.
	// Sequentially consistent per package name.
	IncrementDownloads(ctx context.Context, name string) error

	// UpdateDescriptiveFields applies the non-nil fields of update.
	UpdateDescriptiveFields(ctx context.Context, name string, update FieldUpdate) error

	// GrantOwnership records that ownerID may mutate name. Idempotent.
	GrantOwnership(ctx context.Context, ownerID, name string) error

	// OwnsAny reports whether ownerID holds ownership of name.
	OwnsAny(ctx context.Context, ownerID, name string) (bool, error)

	// Owners returns the owner IDs holding name, oldest grant first.
	Owners(ctx context.Context, name string) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// BlobStore holds immutable artifact bytes keyed by (name, version).
// Put to an existing key fails with ErrBlobExists; the publish
// pipeline's reserve-before-write ordering keeps that from happening
// in normal operation.
type BlobStore interface {
	// Put stores the reader's bytes and returns their length.
	Put(ctx context.Context, name, version string, r io.Reader) (int64, error)

	// Get opens the stored bytes and returns their length.
	// Returns ErrBlobNotFound if the key was never written.
	Get(ctx context.Context, name, version string) (io.ReadCloser, int64, error)

	// Exists reports whether the key holds a blob.
	Exists(ctx context.Context, name, version string) (bool, error)
}

// Package memstore provides the reference in-memory MetadataStore and
// BlobStore implementations. Mutations are serialized per package name
// by an entry mutex; the map-level lock is held only long enough to
// look entries up, so operations on different names never contend.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mesh-intelligence/depot/pkg/types"
	"github.com/mesh-intelligence/depot/pkg/version"
)

// Compile-time interface check.
var _ types.MetadataStore = (*MetadataStore)(nil)

// MetadataStore is the in-memory metadata backend.
type MetadataStore struct {
	mu       sync.RWMutex
	packages map[string]*entry

	ownMu  sync.RWMutex
	owners map[string][]string // package name -> owner IDs, oldest grant first
}

// entry pairs a record with the mutex serializing its mutation.
// removed marks entries deleted from the map while a caller still
// holds a stale pointer; such callers retry the lookup.
type entry struct {
	mu      sync.Mutex
	rec     types.PackageRecord
	removed bool
}

// NewMetadataStore returns an empty store.
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{
		packages: make(map[string]*entry),
		owners:   make(map[string][]string),
	}
}

// lookup returns the live entry for name, or nil.
func (s *MetadataStore) lookup(name string) *entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.packages[name]
}

// lockLive locks the live, populated entry for name, retrying when
// the entry was removed between lookup and lock. Entries reserved by
// an in-flight first publish but not yet populated count as absent.
// Returns nil if no such entry exists; otherwise the caller must
// unlock the returned entry.
func (s *MetadataStore) lockLive(name string) *entry {
	for {
		e := s.lookup(name)
		if e == nil {
			return nil
		}
		e.mu.Lock()
		if e.removed {
			e.mu.Unlock()
			continue
		}
		if e.rec.Name == "" {
			e.mu.Unlock()
			return nil
		}
		return e
	}
}

// Get returns a snapshot of the record for name.
func (s *MetadataStore) Get(ctx context.Context, name string) (*types.PackageRecord, error) {
	e := s.lockLive(name)
	if e == nil {
		return nil, types.ErrPackageNotFound
	}
	defer e.mu.Unlock()
	return e.rec.Clone(), nil
}

// List returns snapshots of every record, most recently updated first.
// Ties break on name so the order is stable within a snapshot.
func (s *MetadataStore) List(ctx context.Context) ([]*types.PackageRecord, error) {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.packages))
	for _, e := range s.packages {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	records := make([]*types.PackageRecord, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.removed && e.rec.Name != "" {
			records = append(records, e.rec.Clone())
		}
		e.mu.Unlock()
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].UpdatedAt.Equal(records[j].UpdatedAt) {
			return records[i].UpdatedAt.After(records[j].UpdatedAt)
		}
		return records[i].Name < records[j].Name
	})
	return records, nil
}

// CreateOrAppendVersion atomically reserves the (name, version) slot.
func (s *MetadataStore) CreateOrAppendVersion(ctx context.Context, name string, vr types.VersionRecord, defaults types.PackageDefaults) error {
	e := s.getOrCreate(name)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.removed {
		// Lost a race with ReleaseVersion; start over on a fresh entry.
		return s.CreateOrAppendVersion(ctx, name, vr, defaults)
	}

	now := time.Now().UTC()
	if e.rec.Name == "" {
		// First publish of this name.
		e.rec = types.PackageRecord{
			Name:        name,
			Description: defaults.Description,
			Authors:     append([]string(nil), defaults.Authors...),
			License:     defaults.License,
			Repository:  defaults.Repository,
			Homepage:    defaults.Homepage,
			Keywords:    append([]string(nil), defaults.Keywords...),
			CreatedAt:   now,
		}
	}

	if _, ok := e.rec.Version(vr.Version); ok {
		return types.ErrVersionExists
	}

	e.rec.Versions = append(e.rec.Versions, vr)
	sortVersionsDescending(e.rec.Versions)
	e.rec.UpdatedAt = now
	return nil
}

// getOrCreate returns the live entry for name, creating an
// uninitialized one if needed. Entries with an empty record name have
// been reserved but not yet populated; population happens under the
// entry mutex in CreateOrAppendVersion.
func (s *MetadataStore) getOrCreate(name string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.packages[name]
	if !ok {
		e = &entry{}
		s.packages[name] = e
	}
	return e
}

// ReleaseVersion removes a just-reserved version after a failed blob
// write. Removing the only version removes the package record, so a
// package never exists with an empty version list.
func (s *MetadataStore) ReleaseVersion(ctx context.Context, name, version string) error {
	e := s.lockLive(name)
	if e == nil {
		return types.ErrPackageNotFound
	}
	defer e.mu.Unlock()

	idx := -1
	for i := range e.rec.Versions {
		if e.rec.Versions[i].Version == version {
			idx = i
			break
		}
	}
	if idx < 0 {
		return types.ErrVersionNotFound
	}

	if len(e.rec.Versions) == 1 {
		e.removed = true
		s.mu.Lock()
		delete(s.packages, name)
		s.mu.Unlock()
		return nil
	}

	e.rec.Versions = append(e.rec.Versions[:idx], e.rec.Versions[idx+1:]...)
	e.rec.UpdatedAt = time.Now().UTC()
	return nil
}

// SetYanked sets the yanked flag on (name, version). Idempotent.
func (s *MetadataStore) SetYanked(ctx context.Context, name, ver string, yanked bool) error {
	e := s.lockLive(name)
	if e == nil {
		return types.ErrPackageNotFound
	}
	defer e.mu.Unlock()

	vr, ok := e.rec.Version(ver)
	if !ok {
		return types.ErrVersionNotFound
	}
	if vr.Yanked != yanked {
		vr.Yanked = yanked
		e.rec.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// IncrementDownloads bumps the download counter. The counter is not a
// descriptive mutation, so UpdatedAt is left alone and listing order
// does not churn on reads.
func (s *MetadataStore) IncrementDownloads(ctx context.Context, name string) error {
	e := s.lockLive(name)
	if e == nil {
		return types.ErrPackageNotFound
	}
	defer e.mu.Unlock()
	e.rec.Downloads++
	return nil
}

// UpdateDescriptiveFields applies the non-nil fields of update.
func (s *MetadataStore) UpdateDescriptiveFields(ctx context.Context, name string, update types.FieldUpdate) error {
	e := s.lockLive(name)
	if e == nil {
		return types.ErrPackageNotFound
	}
	defer e.mu.Unlock()

	if update.Description != nil {
		e.rec.Description = *update.Description
	}
	if update.Authors != nil {
		e.rec.Authors = append([]string(nil), (*update.Authors)...)
	}
	if update.License != nil {
		e.rec.License = *update.License
	}
	if update.Repository != nil {
		e.rec.Repository = *update.Repository
	}
	if update.Homepage != nil {
		e.rec.Homepage = *update.Homepage
	}
	if update.Keywords != nil {
		e.rec.Keywords = append([]string(nil), (*update.Keywords)...)
	}
	e.rec.UpdatedAt = time.Now().UTC()
	return nil
}

// GrantOwnership records that ownerID may mutate name. Idempotent.
func (s *MetadataStore) GrantOwnership(ctx context.Context, ownerID, name string) error {
	s.ownMu.Lock()
	defer s.ownMu.Unlock()
	for _, id := range s.owners[name] {
		if id == ownerID {
			return nil
		}
	}
	s.owners[name] = append(s.owners[name], ownerID)
	return nil
}

// OwnsAny reports whether ownerID holds ownership of name.
func (s *MetadataStore) OwnsAny(ctx context.Context, ownerID, name string) (bool, error) {
	s.ownMu.RLock()
	defer s.ownMu.RUnlock()
	for _, id := range s.owners[name] {
		if id == ownerID {
			return true, nil
		}
	}
	return false, nil
}

// Owners returns the owner IDs holding name, oldest grant first.
func (s *MetadataStore) Owners(ctx context.Context, name string) ([]string, error) {
	s.ownMu.RLock()
	defer s.ownMu.RUnlock()
	return append([]string(nil), s.owners[name]...), nil
}

// Close is a no-op for the in-memory store.
func (s *MetadataStore) Close() error {
	return nil
}

// sortVersionsDescending orders version records newest first. The sort
// is stable, so versions that compare equal keep their insert order.
func sortVersionsDescending(vrs []types.VersionRecord) {
	sort.SliceStable(vrs, func(i, j int) bool {
		return version.CompareStrings(vrs[i].Version, vrs[j].Version) > 0
	})
}

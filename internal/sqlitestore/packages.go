// Package record retrieval and descriptive-field mutation for the
// SQLite backend. Rows are hydrated into pkg/types structs; version
// ordering is applied in Go so the comparison semantics live in one
// place (pkg/version).
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/mesh-intelligence/depot/pkg/types"
	"github.com/mesh-intelligence/depot/pkg/version"
)

const packageColumns = "name, description, authors, license, repository, homepage, keywords, downloads, created_at, updated_at"

// Get returns the record for name with its versions sorted descending.
func (s *Store) Get(ctx context.Context, name string) (*types.PackageRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+packageColumns+" FROM packages WHERE name = ?", name)
	rec, err := hydratePackage(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrPackageNotFound
		}
		return nil, fmt.Errorf("getting package %s: %w", name, err)
	}
	if err := s.hydrateVersions(ctx, rec); err != nil {
		return nil, fmt.Errorf("hydrating versions for %s: %w", name, err)
	}
	return rec, nil
}

// List returns every record, most recently updated first. Ties break
// on name so the order is stable within a snapshot.
func (s *Store) List(ctx context.Context) ([]*types.PackageRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+packageColumns+" FROM packages")
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}
	defer rows.Close()

	var records []*types.PackageRecord
	for rows.Next() {
		rec, err := hydratePackage(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating package row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating packages: %w", err)
	}

	for _, rec := range records {
		if err := s.hydrateVersions(ctx, rec); err != nil {
			return nil, fmt.Errorf("hydrating versions for %s: %w", rec.Name, err)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].UpdatedAt.Equal(records[j].UpdatedAt) {
			return records[i].UpdatedAt.After(records[j].UpdatedAt)
		}
		return records[i].Name < records[j].Name
	})
	return records, nil
}

// IncrementDownloads bumps the download counter without touching
// updated_at, so listing order does not churn on reads.
func (s *Store) IncrementDownloads(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE packages SET downloads = downloads + 1 WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("incrementing downloads for %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("incrementing downloads for %s: %w", name, err)
	}
	if n == 0 {
		return types.ErrPackageNotFound
	}
	return nil
}

// UpdateDescriptiveFields applies the non-nil fields of update inside
// one transaction.
func (s *Store) UpdateDescriptiveFields(ctx context.Context, name string, update types.FieldUpdate) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT "+packageColumns+" FROM packages WHERE name = ?", name)
	rec, err := hydratePackage(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.ErrPackageNotFound
		}
		return fmt.Errorf("getting package %s: %w", name, err)
	}

	if update.Description != nil {
		rec.Description = *update.Description
	}
	if update.Authors != nil {
		rec.Authors = *update.Authors
	}
	if update.License != nil {
		rec.License = *update.License
	}
	if update.Repository != nil {
		rec.Repository = *update.Repository
	}
	if update.Homepage != nil {
		rec.Homepage = *update.Homepage
	}
	if update.Keywords != nil {
		rec.Keywords = *update.Keywords
	}

	authors, err := encodeStrings(rec.Authors)
	if err != nil {
		return err
	}
	keywords, err := encodeStrings(rec.Keywords)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE packages SET description = ?, authors = ?, license = ?, repository = ?, homepage = ?, keywords = ?, updated_at = ? WHERE name = ?`,
		rec.Description, authors, rec.License, rec.Repository, rec.Homepage, keywords, encodeTime(time.Now()), name)
	if err != nil {
		return fmt.Errorf("updating package %s: %w", name, err)
	}
	return tx.Commit()
}

// scanner abstracts *sql.Row and *sql.Rows for hydration helpers.
type scanner interface {
	Scan(dest ...any) error
}

// hydratePackage scans one packages row into a PackageRecord, without
// its versions.
func hydratePackage(row scanner) (*types.PackageRecord, error) {
	var rec types.PackageRecord
	var authors, keywords, createdAt, updatedAt string
	err := row.Scan(&rec.Name, &rec.Description, &authors, &rec.License,
		&rec.Repository, &rec.Homepage, &keywords, &rec.Downloads, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if rec.Authors, err = decodeStrings(authors); err != nil {
		return nil, err
	}
	if rec.Keywords, err = decodeStrings(keywords); err != nil {
		return nil, err
	}
	if rec.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// hydrateVersions loads and orders the version list for rec. Rows come
// back in insert order (rowid), so the stable sort preserves insert
// order among versions that compare equal.
func (s *Store) hydrateVersions(ctx context.Context, rec *types.PackageRecord) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT version, published_at, yanked, checksum, size, signature, publisher_fingerprint
		 FROM versions WHERE package_name = ? ORDER BY rowid`, rec.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	rec.Versions = rec.Versions[:0]
	for rows.Next() {
		var vr types.VersionRecord
		var publishedAt string
		var yanked int
		if err := rows.Scan(&vr.Version, &publishedAt, &yanked, &vr.Checksum,
			&vr.Size, &vr.Signature, &vr.PublisherFingerprint); err != nil {
			return err
		}
		if vr.PublishedAt, err = decodeTime(publishedAt); err != nil {
			return err
		}
		vr.Yanked = yanked != 0
		rec.Versions = append(rec.Versions, vr)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	sort.SliceStable(rec.Versions, func(i, j int) bool {
		return version.CompareStrings(rec.Versions[i].Version, rec.Versions[j].Version) > 0
	})
	return nil
}

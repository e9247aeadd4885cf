// Version slot reservation, compensation, and yank-state transitions
// for the SQLite backend.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// CreateOrAppendVersion atomically reserves the (name, version) slot.
// The duplicate check and insert share a transaction on the single
// writer connection, so concurrent publishers of the same name cannot
// both pass the check.
func (s *Store) CreateOrAppendVersion(ctx context.Context, name string, vr types.VersionRecord, defaults types.PackageDefaults) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM versions WHERE package_name = ? AND version = ?",
		name, vr.Version).Scan(&exists)
	if err == nil {
		return types.ErrVersionExists
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking version existence: %w", err)
	}

	now := encodeTime(time.Now())
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM packages WHERE name = ?", name).Scan(&exists)
	switch err {
	case sql.ErrNoRows:
		authors, encErr := encodeStrings(defaults.Authors)
		if encErr != nil {
			return encErr
		}
		keywords, encErr := encodeStrings(defaults.Keywords)
		if encErr != nil {
			return encErr
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO packages (name, description, authors, license, repository, homepage, keywords, downloads, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
			name, defaults.Description, authors, defaults.License,
			defaults.Repository, defaults.Homepage, keywords, now, now)
		if err != nil {
			return fmt.Errorf("creating package %s: %w", name, err)
		}
	case nil:
		// Existing package keeps its descriptive fields untouched.
		if _, err = tx.ExecContext(ctx,
			"UPDATE packages SET updated_at = ? WHERE name = ?", now, name); err != nil {
			return fmt.Errorf("touching package %s: %w", name, err)
		}
	default:
		return fmt.Errorf("checking package existence: %w", err)
	}

	yanked := 0
	if vr.Yanked {
		yanked = 1
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO versions (package_name, version, published_at, yanked, checksum, size, signature, publisher_fingerprint)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		name, vr.Version, encodeTime(vr.PublishedAt), yanked, vr.Checksum,
		vr.Size, vr.Signature, vr.PublisherFingerprint)
	if err != nil {
		return fmt.Errorf("inserting version %s@%s: %w", name, vr.Version, err)
	}
	return tx.Commit()
}

// ReleaseVersion removes a just-reserved version after a failed blob
// write. Removing the only version removes the package row with it.
func (s *Store) ReleaseVersion(ctx context.Context, name, version string) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM versions WHERE package_name = ? AND version = ?", name, version)
	if err != nil {
		return fmt.Errorf("releasing version %s@%s: %w", name, version, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("releasing version %s@%s: %w", name, version, err)
	}
	if n == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM packages WHERE name = ?", name).Scan(&exists); err == sql.ErrNoRows {
			return types.ErrPackageNotFound
		}
		return types.ErrVersionNotFound
	}

	var remaining int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM versions WHERE package_name = ?", name).Scan(&remaining); err != nil {
		return fmt.Errorf("counting remaining versions for %s: %w", name, err)
	}
	if remaining == 0 {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM packages WHERE name = ?", name); err != nil {
			return fmt.Errorf("removing empty package %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// SetYanked sets the yanked flag on (name, version). Idempotent;
// updated_at is bumped only when the flag actually changes.
func (s *Store) SetYanked(ctx context.Context, name, version string, yanked bool) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRowContext(ctx,
		"SELECT yanked FROM versions WHERE package_name = ? AND version = ?",
		name, version).Scan(&current)
	if err == sql.ErrNoRows {
		var exists int
		if err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM packages WHERE name = ?", name).Scan(&exists); err == sql.ErrNoRows {
			return types.ErrPackageNotFound
		}
		return types.ErrVersionNotFound
	}
	if err != nil {
		return fmt.Errorf("reading yank state for %s@%s: %w", name, version, err)
	}

	want := 0
	if yanked {
		want = 1
	}
	if current == want {
		return tx.Commit()
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE versions SET yanked = ? WHERE package_name = ? AND version = ?",
		want, name, version); err != nil {
		return fmt.Errorf("setting yank state for %s@%s: %w", name, version, err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE packages SET updated_at = ? WHERE name = ?",
		encodeTime(time.Now()), name); err != nil {
		return fmt.Errorf("touching package %s: %w", name, err)
	}
	return tx.Commit()
}

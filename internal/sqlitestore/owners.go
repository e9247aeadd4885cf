// Ownership relation persistence for the SQLite backend.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// GrantOwnership records that ownerID may mutate name. Idempotent.
func (s *Store) GrantOwnership(ctx context.Context, ownerID, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO owners (owner_id, package_name, granted_at) VALUES (?, ?, ?)
		 ON CONFLICT (owner_id, package_name) DO NOTHING`,
		ownerID, name, encodeTime(time.Now()))
	if err != nil {
		return fmt.Errorf("granting ownership of %s to %s: %w", name, ownerID, err)
	}
	return nil
}

// OwnsAny reports whether ownerID holds ownership of name.
func (s *Store) OwnsAny(ctx context.Context, ownerID, name string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM owners WHERE owner_id = ? AND package_name = ?",
		ownerID, name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking ownership of %s: %w", name, err)
	}
	return true, nil
}

// Owners returns the owner IDs holding name, oldest grant first.
func (s *Store) Owners(ctx context.Context, name string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT owner_id FROM owners WHERE package_name = ? ORDER BY granted_at, rowid", name)
	if err != nil {
		return nil, fmt.Errorf("listing owners of %s: %w", name, err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning owner row: %w", err)
		}
		owners = append(owners, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating owners: %w", err)
	}
	return owners, nil
}

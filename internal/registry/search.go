package registry

import (
	"context"
	"strings"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// Search returns packages whose name, description, or any keyword
// contains query, case-insensitively, in the store's natural list
// order. No relevance ranking. The empty query matches every record,
// since every string contains the empty substring.
func (r *Registry) Search(ctx context.Context, query string) ([]*types.PackageRecord, error) {
	records, err := r.ListPackages(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	matches := records[:0]
	for _, rec := range records {
		if recordMatches(rec, q) {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

// recordMatches reports whether rec contains the lowercased query.
func recordMatches(rec *types.PackageRecord, q string) bool {
	if strings.Contains(strings.ToLower(rec.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Description), q) {
		return true
	}
	for _, kw := range rec.Keywords {
		if strings.Contains(strings.ToLower(kw), q) {
			return true
		}
	}
	return false
}

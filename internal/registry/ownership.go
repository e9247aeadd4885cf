package registry

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// OwnershipRegistry wraps the store's ownership relation with the
// authorization rule: an identity may mutate a package iff its role is
// SuperUser or it holds an ownership grant for the name.
type OwnershipRegistry struct {
	meta types.MetadataStore
}

// NewOwnershipRegistry returns a registry backed by meta.
func NewOwnershipRegistry(meta types.MetadataStore) *OwnershipRegistry {
	return &OwnershipRegistry{meta: meta}
}

// Grant records that id may mutate name. The first successful publish
// of a new package calls this for the publisher.
func (o *OwnershipRegistry) Grant(ctx context.Context, id types.Identity, name string) error {
	if err := o.meta.GrantOwnership(ctx, id.OwnerID, name); err != nil {
		return fmt.Errorf("granting ownership of %s: %w", name, err)
	}
	return nil
}

// CanMutate reports whether id may publish or yank versions of name.
// A pure function of role plus the stored ownership relation.
func (o *OwnershipRegistry) CanMutate(ctx context.Context, id types.Identity, name string) (bool, error) {
	if id.Role == types.RoleSuperUser {
		return true, nil
	}
	owns, err := o.meta.OwnsAny(ctx, id.OwnerID, name)
	if err != nil {
		return false, fmt.Errorf("checking ownership of %s: %w", name, err)
	}
	return owns, nil
}

// Owners returns the owner IDs holding name, oldest grant first.
func (o *OwnershipRegistry) Owners(ctx context.Context, name string) ([]string, error) {
	return o.meta.Owners(ctx, name)
}

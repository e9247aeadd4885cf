package registry

import (
	"context"
	"errors"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// SetYanked marks (name, version) yanked or unyanked on behalf of the
// caller holding token. Idempotent: re-yanking a yanked version
// succeeds. The record keeps every other field unchanged, in
// particular checksum and size.
func (r *Registry) SetYanked(ctx context.Context, token, name, ver string, yanked bool) error {
	id, err := r.authenticate(ctx, token)
	if err != nil {
		return err
	}

	ok, err := r.owners.CanMutate(ctx, id, name)
	if err != nil {
		return types.Wrap(types.KindStorage, err, "authorizing yank of %q", name)
	}
	if !ok {
		return types.E(types.KindForbidden, "identity does not own package %q", name)
	}

	if err := r.meta.SetYanked(ctx, name, ver, yanked); err != nil {
		switch {
		case errors.Is(err, types.ErrPackageNotFound):
			return types.Wrap(types.KindNotFound, err, "no package named %q", name)
		case errors.Is(err, types.ErrVersionNotFound):
			return types.Wrap(types.KindNotFound, err, "package %q has no version %s", name, ver)
		}
		return types.Wrap(types.KindStorage, err, "setting yank state for %s@%s", name, ver)
	}

	r.logger.Info("yank state changed",
		"package", name, "version", ver, "yanked", yanked, "owner", id.OwnerID)
	return nil
}

package registry

import (
	"context"
	"errors"
	"io"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// Download is a resolved artifact stream. The caller must close Body.
// Checksum lets the transport surface an integrity header.
type Download struct {
	Name     string
	Version  string
	Checksum string
	Size     int64
	Body     io.ReadCloser
}

// Download resolves a version and opens its artifact. An empty version
// selects the newest unyanked version. Yanked versions are refused
// with a gone kind, distinct from not-found: the record is retained
// forever but the artifact is off-limits to new installs. Metadata
// that names a blob the blob store cannot produce is an internal
// inconsistency and surfaces as a storage failure, never a crash.
//
// The download counter is bumped asynchronously after the stream is
// handed out; the read path never waits on that write.
func (r *Registry) Download(ctx context.Context, name, ver string) (*Download, error) {
	rec, err := r.GetPackage(ctx, name)
	if err != nil {
		return nil, err
	}

	var target *types.VersionRecord
	if ver == "" {
		latest, ok := rec.Latest()
		if !ok {
			return nil, types.E(types.KindNotFound, "package %q has no unyanked versions", name)
		}
		target = latest
	} else {
		vr, ok := rec.Version(ver)
		if !ok {
			return nil, types.E(types.KindNotFound, "package %q has no version %s", name, ver)
		}
		target = vr
	}

	if target.Yanked {
		return nil, types.E(types.KindGone, "version %s of %q has been yanked", target.Version, name)
	}

	body, size, err := r.blobs.Get(ctx, name, target.Version)
	if err != nil {
		if errors.Is(err, types.ErrBlobNotFound) {
			r.logger.Error("version record has no backing blob",
				"package", name, "version", target.Version)
			return nil, types.Wrap(types.KindStorage, err,
				"artifact for %s@%s is missing from storage", name, target.Version)
		}
		return nil, types.Wrap(types.KindStorage, err, "opening artifact for %s@%s", name, target.Version)
	}

	r.counter.record(name)

	return &Download{
		Name:     name,
		Version:  target.Version,
		Checksum: target.Checksum,
		Size:     size,
		Body:     body,
	}, nil
}

package registry

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/github/go-spdx/v2/spdxexp"

	"github.com/mesh-intelligence/depot/pkg/checksum"
	"github.com/mesh-intelligence/depot/pkg/types"
	"github.com/mesh-intelligence/depot/pkg/version"
)

// PublishRequest carries one publish attempt through the pipeline.
// Body is the raw artifact; everything else is side-channel metadata.
type PublishRequest struct {
	Token string

	Name        string
	Version     string
	Description string
	Authors     []string
	License     string
	Repository  string
	Homepage    string
	Keywords    []string

	// Signature and Fingerprint are stored verbatim, never verified.
	Signature   string
	Fingerprint string

	Body io.Reader
}

// PublishResult reports a committed publish.
type PublishResult struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Checksum string `json:"checksum"`
	Size     int64  `json:"size"`

	// Locator is the canonical package URL; BlobPath is the
	// {name}/{version} key the artifact was stored under.
	Locator  string `json:"locator"`
	BlobPath string `json:"blob_path"`
}

// Publish runs the pipeline: authenticate, validate, authorize against
// existing owners, compute the checksum, reserve the version slot,
// write the blob, then commit ownership. Validation failures abort
// before any write. Reservation happens before the blob write so a
// lost metadata race can never orphan a blob; the reverse window
// (slot reserved, blob write fails) is closed by a compensating
// release, with the reconciler as backstop.
func (r *Registry) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	id, err := r.authenticate(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	if err := types.ValidateName(req.Name); err != nil {
		return nil, types.E(types.KindInvalidInput, "invalid package name %q", req.Name)
	}
	if _, err := version.Parse(req.Version); err != nil {
		return nil, types.E(types.KindInvalidInput, "invalid version %q", req.Version)
	}
	if req.Body == nil {
		return nil, types.E(types.KindInvalidInput, "artifact body is required")
	}
	r.checkLicense(req.Name, req.License)

	// Authorization against the current owners happens before any
	// further work. A package that does not exist yet is publishable
	// by anyone; ownership is granted at commit.
	existing, err := r.meta.Get(ctx, req.Name)
	switch {
	case err == nil:
		ok, err := r.owners.CanMutate(ctx, id, req.Name)
		if err != nil {
			return nil, types.Wrap(types.KindStorage, err, "authorizing publish of %q", req.Name)
		}
		if !ok {
			return nil, types.E(types.KindForbidden, "identity does not own package %q", req.Name)
		}
	case errors.Is(err, types.ErrPackageNotFound):
		existing = nil
	default:
		return nil, types.Wrap(types.KindStorage, err, "reading package %q", req.Name)
	}

	var buf bytes.Buffer
	digester := checksum.NewDigester()
	if _, err := io.Copy(&buf, io.TeeReader(req.Body, digester)); err != nil {
		return nil, types.Wrap(types.KindStorage, err, "reading artifact body")
	}
	if buf.Len() == 0 {
		return nil, types.E(types.KindInvalidInput, "artifact body must not be empty")
	}
	digest := digester.Sum()
	size := digester.Size()

	vr := types.VersionRecord{
		Version:              req.Version,
		PublishedAt:          time.Now().UTC(),
		Checksum:             digest,
		Size:                 size,
		Signature:            req.Signature,
		PublisherFingerprint: req.Fingerprint,
	}
	defaults := types.PackageDefaults{
		Description: req.Description,
		Authors:     req.Authors,
		License:     req.License,
		Repository:  req.Repository,
		Homepage:    req.Homepage,
		Keywords:    req.Keywords,
	}

	if err := r.meta.CreateOrAppendVersion(ctx, req.Name, vr, defaults); err != nil {
		if errors.Is(err, types.ErrVersionExists) {
			return nil, types.Wrap(types.KindConflict, err, "version %s of %q already exists", req.Version, req.Name)
		}
		return nil, types.Wrap(types.KindStorage, err, "reserving %s@%s", req.Name, req.Version)
	}

	if _, err := r.blobs.Put(ctx, req.Name, req.Version, &buf); err != nil {
		r.release(ctx, req.Name, req.Version)
		return nil, types.Wrap(types.KindStorage, err, "storing artifact for %s@%s", req.Name, req.Version)
	}

	if existing == nil {
		if err := r.owners.Grant(ctx, id, req.Name); err != nil {
			// The publish itself stands; the grant is retried nowhere,
			// so surface it loudly.
			r.logger.Error("ownership grant failed after first publish",
				"package", req.Name, "owner", id.OwnerID, "error", err)
			return nil, types.Wrap(types.KindStorage, err, "recording ownership of %q", req.Name)
		}
	}

	r.logger.Info("version published",
		"package", req.Name, "version", req.Version, "size", size, "owner", id.OwnerID)

	return &PublishResult{
		Name:     req.Name,
		Version:  req.Version,
		Checksum: digest,
		Size:     size,
		Locator:  DownloadLocator(req.Name, req.Version),
		BlobPath: BlobPath(req.Name, req.Version),
	}, nil
}

// release compensates a reserved slot whose blob write failed. If the
// release itself fails the orphaned record stays behind for the
// reconciler to report.
func (r *Registry) release(ctx context.Context, name, ver string) {
	if err := r.meta.ReleaseVersion(ctx, name, ver); err != nil {
		r.logger.Error("could not release reserved version after failed blob write",
			"package", name, "version", ver, "error", err)
	}
}

// checkLicense warns when a license is not a valid SPDX expression.
// The value is stored verbatim either way.
func (r *Registry) checkLicense(name, license string) {
	if license == "" {
		return
	}
	if valid, _ := spdxexp.ValidateLicenses([]string{license}); !valid {
		r.logger.Warn("license is not a recognized SPDX expression",
			"package", name, "license", license)
	}
}

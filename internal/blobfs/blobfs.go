// Package blobfs implements a filesystem BlobStore. Each artifact
// lives at {root}/{name}/{version}.tgz, written to a temp file and
// renamed into place so readers never observe a partial blob.
package blobfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/depot/pkg/types"
)

var _ types.BlobStore = (*Store)(nil)

// Store is the filesystem blob backend.
type Store struct {
	root string
}

// New creates the root directory if needed and returns a Store.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &Store{root: root}, nil
}

// path maps (name, version) to the on-disk location. Keys containing
// path separators or traversal elements are rejected outright; the
// pipeline validates names before they get here, this is a backstop.
func (s *Store) path(name, version string) (string, error) {
	for _, part := range []string{name, version} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("unsafe blob key component %q", part)
		}
	}
	return filepath.Join(s.root, name, version+".tgz"), nil
}

// Put stores the reader's bytes under (name, version). A key that
// already holds a blob fails with ErrBlobExists; content is immutable
// once written.
func (s *Store) Put(ctx context.Context, name, version string, r io.Reader) (int64, error) {
	dst, err := s.path(name, version)
	if err != nil {
		return 0, err
	}
	if _, err := os.Stat(dst); err == nil {
		return 0, types.ErrBlobExists
	} else if !os.IsNotExist(err) {
		return 0, fmt.Errorf("stat blob: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("create package dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp blob: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp blob: %w", err)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return 0, fmt.Errorf("finalize blob: %w", err)
	}
	return n, nil
}

// Get opens the stored bytes for (name, version).
func (s *Store) Get(ctx context.Context, name, version string) (io.ReadCloser, int64, error) {
	p, err := s.path(name, version)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, types.ErrBlobNotFound
		}
		return nil, 0, fmt.Errorf("open blob: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat blob: %w", err)
	}
	return f, info.Size(), nil
}

// Exists reports whether (name, version) holds a blob.
func (s *Store) Exists(ctx context.Context, name, version string) (bool, error) {
	p, err := s.path(name, version)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat blob: %w", err)
	}
	return true, nil
}

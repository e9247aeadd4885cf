package memstore

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/mesh-intelligence/depot/pkg/types"
)

var _ types.BlobStore = (*BlobStore)(nil)

// BlobStore is the in-memory blob backend. Blobs are immutable: a
// second Put to the same key fails with ErrBlobExists.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewBlobStore returns an empty blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: make(map[string][]byte)}
}

func blobKey(name, version string) string {
	return name + "/" + version
}

// Put stores the reader's bytes under (name, version).
func (s *BlobStore) Put(ctx context.Context, name, version string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	key := blobKey(name, version)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[key]; ok {
		return 0, types.ErrBlobExists
	}
	s.blobs[key] = data
	return int64(len(data)), nil
}

// Get opens the stored bytes for (name, version).
func (s *BlobStore) Get(ctx context.Context, name, version string) (io.ReadCloser, int64, error) {
	s.mu.RLock()
	data, ok := s.blobs[blobKey(name, version)]
	s.mu.RUnlock()
	if !ok {
		return nil, 0, types.ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

// Exists reports whether (name, version) holds a blob.
func (s *BlobStore) Exists(ctx context.Context, name, version string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[blobKey(name, version)]
	return ok, nil
}

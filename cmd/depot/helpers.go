// Shared helpers for depot CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mesh-intelligence/depot/internal/auth"
	"github.com/mesh-intelligence/depot/internal/blobfs"
	"github.com/mesh-intelligence/depot/internal/memstore"
	"github.com/mesh-intelligence/depot/internal/registry"
	"github.com/mesh-intelligence/depot/internal/sqlitestore"
	"github.com/mesh-intelligence/depot/pkg/types"
)

// openRegistry loads config and wires a Registry. The caller must
// defer reg.Close().
func openRegistry() (*registry.Registry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	meta, err := openMetadata(cfg)
	if err != nil {
		return nil, err
	}

	var blobs types.BlobStore
	if cfg.MetadataBackend == types.BackendMemory {
		blobs = memstore.NewBlobStore()
	} else {
		fsBlobs, err := blobfs.New(cfg.BlobDir)
		if err != nil {
			meta.Close()
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		blobs = registry.NewBreakerBlobStore(fsBlobs)
	}

	authn, err := auth.Open(cfg.TokenFile)
	if err != nil {
		meta.Close()
		return nil, fmt.Errorf("open token file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	reg, err := registry.New(registry.Config{
		Metadata: meta,
		Blobs:    blobs,
		Auth:     authn,
		Logger:   logger,
	})
	if err != nil {
		meta.Close()
		return nil, err
	}
	return reg, nil
}

// openMetadata selects the metadata backend from config.
func openMetadata(cfg types.Config) (types.MetadataStore, error) {
	switch cfg.MetadataBackend {
	case types.BackendMemory:
		return memstore.NewMetadataStore(), nil
	case types.BackendSQLite:
		store, err := sqlitestore.Open(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open metadata store: %w", err)
		}
		return store, nil
	}
	return nil, types.ErrBackendUnknown
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

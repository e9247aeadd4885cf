package types

import "errors"

// Config holds backend selection and directories for opening a
// registry.
type Config struct {
	MetadataBackend string `json:"metadata_backend" yaml:"metadata_backend"`
	DataDir         string `json:"data_dir" yaml:"data_dir"`
	BlobDir         string `json:"blob_dir" yaml:"blob_dir"`
	TokenFile       string `json:"token_file" yaml:"token_file"`
}

// Supported metadata backend names.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("metadata backend must not be empty")
	ErrBackendUnknown = errors.New("unknown metadata backend")
	ErrBlobDirEmpty   = errors.New("blob directory must not be empty")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendMemory: true,
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a
// sentinel error from this package on failure.
func (c Config) Validate() error {
	if c.MetadataBackend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.MetadataBackend] {
		return ErrBackendUnknown
	}
	if c.MetadataBackend == BackendSQLite && c.BlobDir == "" {
		return ErrBlobDirEmpty
	}
	return nil
}

// Package paths resolves the depot configuration directory and the
// default locations of everything stored beneath it.
package paths

import (
	"os"
	"path/filepath"
)

// DefaultConfigDirName is the CWD-relative configuration directory
// used when no override is active.
const DefaultConfigDirName = ".depot"

// EnvConfigDir overrides the configuration directory location.
const EnvConfigDir = "DEPOT_CONFIG_DIR"

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > DEPOT_CONFIG_DIR env > $(CWD)/.depot.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return filepath.Abs(DefaultConfigDirName)
}

// DataDir returns the default metadata directory under configDir.
func DataDir(configDir string) string {
	return filepath.Join(configDir, "data")
}

// BlobDir returns the default artifact directory under configDir.
func BlobDir(configDir string) string {
	return filepath.Join(configDir, "blobs")
}

// TokenFile returns the default token table path under configDir.
func TokenFile(configDir string) string {
	return filepath.Join(configDir, "tokens.yaml")
}

// ConfigFile returns the config.yaml path under configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, "config.yaml")
}

// Config loading for the depot CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/depot/internal/paths"
	"github.com/mesh-intelligence/depot/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend   = "metadata_backend"
	cfgKeyDataDir   = "data_dir"
	cfgKeyBlobDir   = "blob_dir"
	cfgKeyTokenFile = "token_file"

	defaultBackend = types.BackendSQLite
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# Depot CLI configuration

# Metadata backend: sqlite or memory
metadata_backend: sqlite

# Directories (optional; default under the config directory)
# data_dir:
# blob_dir:
# token_file:
`

// loadConfig reads config.yaml from the resolved config directory,
// creating the directory and a default file on first run, and returns
// the typed registry config. A missing config.yaml is not an error.
func loadConfig() (types.Config, error) {
	dir, err := paths.ResolveConfigDir(configDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(dir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyDataDir, paths.DataDir(dir))
	v.SetDefault(cfgKeyBlobDir, paths.BlobDir(dir))
	v.SetDefault(cfgKeyTokenFile, paths.TokenFile(dir))
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := types.Config{
		MetadataBackend: v.GetString(cfgKeyBackend),
		DataDir:         v.GetString(cfgKeyDataDir),
		BlobDir:         v.GetString(cfgKeyBlobDir),
		TokenFile:       v.GetString(cfgKeyTokenFile),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file
// does not exist in the config directory.
func ensureDefaultConfigFile(dir string) error {
	path := paths.ConfigFile(dir)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

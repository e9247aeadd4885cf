package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigDirPrecedence(t *testing.T) {
	flagDir := t.TempDir()
	envDir := t.TempDir()

	t.Run("flag wins over env", func(t *testing.T) {
		t.Setenv(EnvConfigDir, envDir)
		got, err := ResolveConfigDir(flagDir)
		require.NoError(t, err)
		assert.Equal(t, flagDir, got)
	})

	t.Run("env wins over default", func(t *testing.T) {
		t.Setenv(EnvConfigDir, envDir)
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, envDir, got)
	})

	t.Run("default is cwd-relative", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
		assert.Equal(t, DefaultConfigDirName, filepath.Base(got))
	})
}

func TestResolveConfigDirReturnsAbsolute(t *testing.T) {
	got, err := ResolveConfigDir("relative/dir")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestDerivedPaths(t *testing.T) {
	dir := filepath.Join("/", "srv", "depot")
	assert.Equal(t, filepath.Join(dir, "data"), DataDir(dir))
	assert.Equal(t, filepath.Join(dir, "blobs"), BlobDir(dir))
	assert.Equal(t, filepath.Join(dir, "tokens.yaml"), TokenFile(dir))
	assert.Equal(t, filepath.Join(dir, "config.yaml"), ConfigFile(dir))
}

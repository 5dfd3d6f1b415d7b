package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/itcclock/pkg/config"
	"github.com/ssargent/itcclock/pkg/itc"
)

func TestResolveServeConfigFallsBackToDefaultWhenMissing(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "itcctl_serve_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	cfg, err := resolveServeConfig(filepath.Join(tmpDir, "missing.yaml"), "explicit-key")
	require.NoError(t, err)
	assert.Equal(t, "explicit-key", cfg.Security.APIKey)
}

func TestResolveServeConfigRejectsAutoKeyWithoutOverride(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "itcctl_serve_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	_, err = resolveServeConfig(filepath.Join(tmpDir, "missing.yaml"), "")
	assert.Error(t, err)
}

func TestResolveServeConfigOverridesLoadedKey(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "itcctl_serve_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	_, err = config.BootstrapConfig(configPath, "replica-a")
	require.NoError(t, err)

	cfg, err := resolveServeConfig(configPath, "override-key")
	require.NoError(t, err)
	assert.Equal(t, "override-key", cfg.Security.APIKey)
	assert.Equal(t, "replica-a", cfg.ActorLabel)
}

func TestLoadOrSeedStateSeedsWhenMissing(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "itcctl_serve_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "clock.state")
	pair, err := loadOrSeedState(path)
	require.NoError(t, err)
	assert.Equal(t, itc.SeedID(), pair.Id())
	assert.FileExists(t, path)
}

func TestLoadOrSeedStateLoadsExisting(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "itcctl_serve_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "clock.state")
	seeded := itc.Seed()
	require.NoError(t, seeded.Event())
	require.NoError(t, saveState(path, seeded))

	loaded, err := loadOrSeedState(path)
	require.NoError(t, err)
	assert.Equal(t, itc.Equal, itc.Compare(seeded, loaded))
}

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/itcclock/pkg/itc"
)

func TestSaveAndLoadStateRoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "itcctl_state_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "clock.state")
	pair := itc.Seed()
	require.NoError(t, pair.Event())

	require.NoError(t, saveState(path, pair))

	loaded, err := loadState(path)
	require.NoError(t, err)
	assert.Equal(t, itc.Equal, itc.Compare(pair, loaded))
	assert.Equal(t, pair.Id(), loaded.Id())
}

func TestLoadStateMissingFile(t *testing.T) {
	_, err := loadState("/nonexistent/clock.state")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "itcctl seed")
}

func TestSaveStateUsesSecurePermissions(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "itcctl_state_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "clock.state")
	require.NoError(t, saveState(path, itc.Seed()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves the test into dir and restores the old working directory at
// cleanup; stands in for t.Chdir, which needs Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	p, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
	assert.True(t, p.GridVisible)
	assert.False(t, p.AutoPlay)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	chdir(t, t.TempDir())
	want := Prefs{GridVisible: false, ShowOverlay: true, AutoPlay: true}
	require.NoError(t, Save(want))

	p, err := Load()
	require.NoError(t, err)
	assert.Equal(t, want, p)
}

func TestLoadInvalidFileReturnsDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Dir(PrefsPath), 0o755))
	require.NoError(t, os.WriteFile(PrefsPath, []byte("not json"), 0o644))

	p, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

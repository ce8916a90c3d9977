package logger

import (
	"os"
	"strings"
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

func TestLogKeepsLinesAndFile(t *testing.T) {
	chdir(t, t.TempDir())
	l := New()
	l.Log("building scene")
	l.Logf("saved %d objects", 30)

	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "building scene"))
	assert.True(t, strings.HasSuffix(lines[1], "saved 30 objects"))
	assert.True(t, strings.HasPrefix(lines[0], "["), "entries carry a timestamp")

	raw, err := os.ReadFile(LogFilePath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "building scene")
	assert.Contains(t, string(raw), "saved 30 objects")
}

func TestTail(t *testing.T) {
	chdir(t, t.TempDir())
	l := New()
	for _, s := range []string{"one", "two", "three"} {
		l.Log(s)
	}
	tail := l.Tail(2)
	require.Len(t, tail, 2)
	assert.True(t, strings.HasSuffix(tail[0], "two"))
	assert.True(t, strings.HasSuffix(tail[1], "three"))

	assert.Len(t, l.Tail(10), 3)
}

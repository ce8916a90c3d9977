package commands

import (
	"bytes"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteDispatchesWithFlags(t *testing.T) {
	r := NewRegistry("quickdock")
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	out := fs.String("out", "scene.yaml", "")
	var got string
	r.Register("build", "build the demo scene", fs, func() error {
		got = *out
		return nil
	})

	require.NoError(t, r.Execute([]string{"build", "-out", "other.yaml"}))
	assert.Equal(t, "other.yaml", got)
}

func TestExecuteRejectsUnknown(t *testing.T) {
	r := NewRegistry("quickdock")
	err := r.Execute([]string{"nonsense"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
	assert.True(t, IsUsage(err))

	err = r.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing subcommand")
	assert.True(t, IsUsage(err))
}

func TestRunFailureIsNotUsage(t *testing.T) {
	r := NewRegistry("quickdock")
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	r.Register("build", "build the demo scene", fs, func() error {
		return assert.AnError
	})
	err := r.Execute([]string{"build"})
	require.Error(t, err)
	assert.False(t, IsUsage(err))
	assert.False(t, IsHelp(err))
}

func TestBadFlagIsUsage(t *testing.T) {
	r := NewRegistry("quickdock")
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	r.Register("build", "build the demo scene", fs, func() error { return nil })
	err := r.Execute([]string{"build", "-bogus"})
	require.Error(t, err)
	assert.True(t, IsUsage(err))
}

func TestExecuteHelpIsNotFailure(t *testing.T) {
	r := NewRegistry("quickdock")
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	r.Register("export", "export the scene", fs, func() error { return nil })

	assert.True(t, IsHelp(r.Execute([]string{"help"})))
	assert.True(t, IsHelp(r.Execute([]string{"export", "-h"})))
}

func TestUsageListsInOrder(t *testing.T) {
	r := NewRegistry("quickdock")
	noop := func() error { return nil }
	r.Register("build", "build the demo scene", flag.NewFlagSet("build", flag.ContinueOnError), noop)
	r.Register("export", "export a saved scene", flag.NewFlagSet("export", flag.ContinueOnError), noop)

	var buf bytes.Buffer
	r.Usage(&buf)
	s := buf.String()
	assert.Contains(t, s, "usage: quickdock")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("build")), bytes.Index(buf.Bytes(), []byte("export")))
	assert.Contains(t, s, "build the demo scene")
}

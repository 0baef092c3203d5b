package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAppendsToFile(t *testing.T) {
	t.Cleanup(func() {
		Logger.SetOutput(os.Stderr)
		SetLevel(InfoLevel)
	})
	path := filepath.Join(t.TempDir(), "questree.log")

	c, err := Open(path)
	require.NoError(t, err)
	Debugf("hidden %d", 1)
	Infof("info %d", 4)
	WithField("req", "abc").Errorf("boom %d", 2)
	SetLevel(DebugLevel)
	Debugf("shown %d", 3)
	require.NoError(t, c.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "boom 2")
	assert.Contains(t, out, "req=abc")
	assert.Contains(t, out, "shown 3")
	assert.Contains(t, out, "info 4")
}

func TestOpenDiscard(t *testing.T) {
	t.Cleanup(func() { Logger.SetOutput(os.Stderr) })
	c, err := Open("")
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}

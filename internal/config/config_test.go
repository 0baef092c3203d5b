package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("questree", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseDefaults(t *testing.T) {
	t.Setenv("QUESTREE_API", "")
	t.Setenv("QUESTREE_LOG", "")

	fs := newFlagSet()
	cfg, err := Parse(fs, []string{"ls"})
	require.NoError(t, err)
	assert.Equal(t, DefaultAPI, cfg.API)
	assert.Equal(t, DefaultLogFile, cfg.LogFile)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "classic", cfg.Theme)
	assert.Equal(t, []string{"ls"}, fs.Args())
}

func TestParseEnvThenFlags(t *testing.T) {
	t.Setenv("QUESTREE_API", "http://questions.internal:8080/api/")
	t.Setenv("QUESTREE_LOG", "-")

	cfg, err := Parse(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, "http://questions.internal:8080/api", cfg.API)
	assert.Equal(t, "-", cfg.LogFile)

	cfg, err = Parse(newFlagSet(), []string{"-api", "https://q.example.com/api", "-debug"})
	require.NoError(t, err)
	assert.Equal(t, "https://q.example.com/api", cfg.API)
	assert.True(t, cfg.Debug)
}

func TestParseRejectsBadValues(t *testing.T) {
	_, err := Parse(newFlagSet(), []string{"-api", "not a url"})
	assert.Error(t, err)

	_, err = Parse(newFlagSet(), []string{"-timeout", "0s"})
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()

	assert.NoError(t, LoadEnv(filepath.Join(dir, "missing.env")), "a missing file is fine")

	good := filepath.Join(dir, "good.env")
	require.NoError(t, os.WriteFile(good, []byte("QUESTREE_TEST_API=http://from-env:5000/api\n"), 0o600))
	t.Setenv("QUESTREE_TEST_API", "")
	require.NoError(t, os.Unsetenv("QUESTREE_TEST_API"))
	require.NoError(t, LoadEnv(good))
	assert.Equal(t, "http://from-env:5000/api", os.Getenv("QUESTREE_TEST_API"))

	bad := filepath.Join(dir, "bad.env")
	require.NoError(t, os.WriteFile(bad, []byte("QUESTREE_TEST_API=\"unterminated\n"), 0o600))
	err := LoadEnv(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.env")
}

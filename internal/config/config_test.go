package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFile), false)
	require.NoError(t, err)

	assert.Equal(t, "utf8", cfg.Reader.Encoding)
	assert.Equal(t, 65536, cfg.Reader.BufSize)
	assert.False(t, cfg.Reader.SkipEmptyLines)
	assert.True(t, cfg.Output.Number)
	assert.Equal(t, 4, cfg.Count.Parallel)
	assert.Zero(t, cfg.Output.Delay)
}

func TestMissingRequired(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"), true)
	assert.Error(t, err)
}

func TestOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("reader:\n  encoding: latin1\n  skip_empty_lines: true\noutput:\n  delay: 100ms\n  max_lines: 10\n"), 0o644))

	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "latin1", cfg.Reader.Encoding)
	assert.True(t, cfg.Reader.SkipEmptyLines)
	assert.Equal(t, 65536, cfg.Reader.BufSize)
	assert.Equal(t, 100*time.Millisecond, cfg.Output.Delay)
	assert.Equal(t, 10, cfg.Output.MaxLines)
	assert.True(t, cfg.Output.Color)
}

func TestBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("reader: [\n"), 0o644))

	_, err := Load(path, true)
	assert.Error(t, err)
}

func TestGetConfigYAML(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFile), false)
	require.NoError(t, err)
	cfg.Reader.Encoding = "big5"

	var back Config
	require.NoError(t, yaml.Unmarshal(cfg.GetConfigYAML(), &back))
	assert.Equal(t, "big5", back.Reader.Encoding)
	assert.Equal(t, cfg.Output, back.Output)
}

package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_GraphPathSources(t *testing.T) {
	t.Parallel()

	t.Run("from --graph flag", func(t *testing.T) {
		t.Parallel()
		cfg, exit, err := Parse([]string{"--graph", "model.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "model.hcl", cfg.GraphPath)
	})

	t.Run("from -g shorthand", func(t *testing.T) {
		t.Parallel()
		cfg, exit, err := Parse([]string{"-g", "model.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "model.hcl", cfg.GraphPath)
	})

	t.Run("from positional argument", func(t *testing.T) {
		t.Parallel()
		cfg, exit, err := Parse([]string{"model.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "model.hcl", cfg.GraphPath)
	})

	t.Run("flag wins over positional", func(t *testing.T) {
		t.Parallel()
		cfg, _, err := Parse([]string{"--graph", "a.hcl", "b.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "a.hcl", cfg.GraphPath)
	})
}

func TestParse_NoPathPrintsUsage(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, exit, err := Parse(nil, out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, _, err := Parse([]string{"model.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_Validation(t *testing.T) {
	t.Parallel()

	t.Run("invalid log format", func(t *testing.T) {
		t.Parallel()
		_, _, err := Parse([]string{"--log-format", "xml", "model.hcl"}, &bytes.Buffer{})
		require.Error(t, err)
		exitErr, ok := err.(*ExitError)
		require.True(t, ok)
		assert.Equal(t, 2, exitErr.Code)
		assert.Contains(t, exitErr.Message, "invalid log-format")
	})

	t.Run("invalid log level", func(t *testing.T) {
		t.Parallel()
		_, _, err := Parse([]string{"--log-level", "loud", "model.hcl"}, &bytes.Buffer{})
		require.Error(t, err)
		exitErr, ok := err.(*ExitError)
		require.True(t, ok)
		assert.Equal(t, 2, exitErr.Code)
		assert.Contains(t, exitErr.Message, "invalid log-level")
	})

	t.Run("levels are case-insensitive", func(t *testing.T) {
		t.Parallel()
		cfg, _, err := Parse([]string{"--log-level", "DEBUG", "model.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
	})
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults verifies defaults apply without any config file.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Window.Size)
	assert.False(t, cfg.Window.PadEnd)
	assert.Equal(t, 50, cfg.Report.MaxRows)
	assert.True(t, cfg.Report.ShowValues)
	assert.Equal(t, "dark", cfg.Plot.Theme)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

// TestLoad_File verifies values from a YAML config file override defaults.
func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spantree.yaml")
	content := []byte("window:\n  size: 4\n  pad_end: true\nplot:\n  theme: light\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Window.Size)
	assert.True(t, cfg.Window.PadEnd)
	assert.Equal(t, "light", cfg.Plot.Theme)
	assert.Equal(t, "info", cfg.Logging.Level, "untouched sections keep defaults")
}

// TestLoad_Env verifies SPANTREE_* environment variables override the file.
func TestLoad_Env(t *testing.T) {
	t.Setenv("SPANTREE_WINDOW_SIZE", "7")
	t.Setenv("SPANTREE_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Window.Size)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

// TestLoad_Validation covers each sentinel validation error.
func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr error
	}{
		{"zero window", "window:\n  size: 0\n", ErrInvalidWindowSize},
		{"negative rows", "report:\n  max_rows: -1\n", ErrInvalidMaxRows},
		{"bad level", "logging:\n  level: loud\n", ErrInvalidLogLevel},
		{"bad format", "logging:\n  format: xml\n", ErrInvalidLogFormat},
		{"bad theme", "plot:\n  theme: sepia\n", ErrInvalidTheme},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "spantree.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))

			_, err := Load(path)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

// TestLoad_MissingExplicitFile verifies a named but absent file fails.
func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

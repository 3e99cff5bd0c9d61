package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dicklesworthstone/proctop/internal/errors"
	"github.com/Dicklesworthstone/proctop/internal/model"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config dir at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1500*time.Millisecond, cfg.RefreshInterval)
	assert.Equal(t, "CPU%", cfg.SortKey)
	assert.False(t, cfg.SortAscending)
	assert.False(t, cfg.TreeView)
	assert.True(t, cfg.ShowKernelThreads)
	assert.False(t, cfg.ShowProgramPath)
	assert.True(t, cfg.HighlightNewProcesses)
	assert.Equal(t, 3, cfg.HighlightWindowSeconds)
	assert.True(t, cfg.ConfirmKill)
	assert.True(t, cfg.ShowMeters)
	assert.Equal(t, DefaultColumns, cfg.Columns)
	assert.NoError(t, Validate(cfg))
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
refresh_interval: 2s
sort_key: MEM%
tree_view: true
show_kernel_threads: false
highlight_window_seconds: 5
columns: [PID, Command]
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.RefreshInterval)
	assert.Equal(t, "MEM%", cfg.SortKey)
	assert.True(t, cfg.TreeView)
	assert.False(t, cfg.ShowKernelThreads)
	assert.Equal(t, 5, cfg.HighlightWindowSeconds)
	assert.Equal(t, []string{"PID", "Command"}, cfg.Columns)
	assert.True(t, cfg.ConfirmKill, "unset keys keep defaults")
}

func TestLoadDefaultPath(t *testing.T) {
	isolate(t)
	path, err := DefaultPath()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("sort_key: PID\n"), 0o644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "PID", cfg.SortKey)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "sort_key: [unterminated\n")
	_, err := Load(path, nil)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "sort_key: MEM%\nrefresh_interval: 2s\nfilter: from-file\n")
	t.Setenv("PROCTOP_SORT_KEY", "PID")
	t.Setenv("PROCTOP_FILTER", "from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Duration("delay", 0, "")
	flags.String("sort-key", "", "")
	flags.String("filter", "", "")
	require.NoError(t, flags.Parse([]string{"--filter", "from-flag"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.RefreshInterval, "file beats default, unset flag does not apply")
	assert.Equal(t, "PID", cfg.SortKey, "env beats file")
	assert.Equal(t, "from-flag", cfg.Filter, "flag beats env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"interval too short", func(c *Config) { c.RefreshInterval = 10 * time.Millisecond }},
		{"interval too long", func(c *Config) { c.RefreshInterval = time.Minute }},
		{"unknown sort key", func(c *Config) { c.SortKey = "BOGUS" }},
		{"negative highlight", func(c *Config) { c.HighlightWindowSeconds = -1 }},
		{"no columns", func(c *Config) { c.Columns = nil }},
		{"unknown column", func(c *Config) { c.Columns = []string{"PID", "WAT"} }},
		{"duplicate column", func(c *Config) { c.Columns = []string{"PID", "PID"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}

func TestModelOptions(t *testing.T) {
	cfg := Default()
	cfg.SortKey = "PID"
	cfg.TreeView = true
	cfg.Filter = "ssh"

	opts := cfg.ModelOptions()
	assert.Equal(t, model.ColPID, opts.SortKey)
	assert.False(t, opts.Descending)
	assert.Equal(t, model.ViewTree, opts.View)
	assert.Equal(t, "ssh", opts.Filter)
	assert.Equal(t, 3*time.Second, opts.HighlightWindow)

	cfg.SortKey = "CPU%"
	col, desc := cfg.Sort()
	assert.Equal(t, model.ColCPU, col)
	assert.True(t, desc)

	cfg.SortAscending = true
	_, desc = cfg.Sort()
	assert.False(t, desc)

	cfg.HighlightNewProcesses = false
	assert.Zero(t, cfg.HighlightWindow())
}

func TestColumnSet(t *testing.T) {
	cfg := Default()
	cfg.Columns = []string{"pid", "bogus", "Command"}
	assert.Equal(t, []model.Column{model.ColPID, model.ColCommand}, cfg.ColumnSet())

	cfg.Columns = nil
	assert.Len(t, cfg.ColumnSet(), len(DefaultColumns))
}

func TestSaveRoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Default()
	cfg.RefreshInterval = 3 * time.Second
	cfg.SortKey = "TIME+"
	cfg.Columns = []string{"PID", "CPU%", "Command"}

	require.NoError(t, Save(cfg, path, false))
	loaded, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	err = Save(cfg, path, false)
	assert.True(t, errors.IsCode(err, errors.ErrConfig), "refuses to overwrite")
	assert.NoError(t, Save(cfg, path, true))
}

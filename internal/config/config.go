// Package config loads proctop's settings from defaults, a YAML file,
// PROCTOP_* environment variables and command-line flags.
package config

import (
	"time"

	"github.com/Dicklesworthstone/proctop/internal/model"
)

// Bounds and default of refresh_interval.
const (
	DefaultRefreshInterval = 1500 * time.Millisecond
	MinRefreshInterval     = 100 * time.Millisecond
	MaxRefreshInterval     = 10 * time.Second
)

// Config carries runtime options for proctop.
type Config struct {
	RefreshInterval time.Duration `yaml:"refresh_interval" mapstructure:"refresh_interval"`

	SortKey       string `yaml:"sort_key" mapstructure:"sort_key"`
	SortAscending bool   `yaml:"sort_ascending" mapstructure:"sort_ascending"`
	TreeView      bool   `yaml:"tree_view" mapstructure:"tree_view"`
	Filter        string `yaml:"filter" mapstructure:"filter"`

	ShowKernelThreads bool `yaml:"show_kernel_threads" mapstructure:"show_kernel_threads"`
	ShowProgramPath   bool `yaml:"show_program_path" mapstructure:"show_program_path"`

	HighlightNewProcesses  bool `yaml:"highlight_new_processes" mapstructure:"highlight_new_processes"`
	HighlightWindowSeconds int  `yaml:"highlight_window_seconds" mapstructure:"highlight_window_seconds"`
	HighlightLargeNumbers  bool `yaml:"highlight_large_numbers" mapstructure:"highlight_large_numbers"`

	ConfirmKill bool `yaml:"confirm_kill" mapstructure:"confirm_kill"`
	ReadOnly    bool `yaml:"readonly" mapstructure:"readonly"`
	NoColor     bool `yaml:"no_color" mapstructure:"no_color"`
	ShowMeters  bool `yaml:"show_meters" mapstructure:"show_meters"`

	Columns []string `yaml:"columns" mapstructure:"columns"`

	LogFile string `yaml:"log_file,omitempty" mapstructure:"log_file"`
}

// DefaultColumns is the column set shown when none is configured.
var DefaultColumns = []string{
	"PID", "USER", "PRI", "CLASS", "THR", "VIRT", "RES", "SHR", "S", "CPU%", "MEM%", "TIME+", "Command",
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		RefreshInterval:        DefaultRefreshInterval,
		SortKey:                "CPU%",
		ShowKernelThreads:      true,
		HighlightNewProcesses:  true,
		HighlightWindowSeconds: 3,
		HighlightLargeNumbers:  true,
		ConfirmKill:            true,
		ShowMeters:             true,
		Columns:                append([]string(nil), DefaultColumns...),
	}
}

// Sort returns the configured sort column and direction. An unknown key
// falls back to CPU%; Validate reports it.
func (c *Config) Sort() (model.Column, bool) {
	col, ok := model.ParseColumn(c.SortKey)
	if !ok {
		col = model.ColCPU
	}
	desc := col.DefaultDescending()
	if c.SortAscending {
		desc = false
	}
	return col, desc
}

// ColumnSet resolves the configured column names, skipping unknown ones.
func (c *Config) ColumnSet() []model.Column {
	out := make([]model.Column, 0, len(c.Columns))
	for _, name := range c.Columns {
		if col, ok := model.ParseColumn(name); ok {
			out = append(out, col)
		}
	}
	if len(out) == 0 {
		for _, name := range DefaultColumns {
			col, _ := model.ParseColumn(name)
			out = append(out, col)
		}
	}
	return out
}

// HighlightWindow is how long new processes stay highlighted, zero when
// highlighting is off.
func (c *Config) HighlightWindow() time.Duration {
	if !c.HighlightNewProcesses || c.HighlightWindowSeconds <= 0 {
		return 0
	}
	return time.Duration(c.HighlightWindowSeconds) * time.Second
}

// ModelOptions maps the config onto the model's initial view options.
func (c *Config) ModelOptions() model.Options {
	col, desc := c.Sort()
	opts := model.Options{
		SortKey:           col,
		Descending:        desc,
		Filter:            c.Filter,
		ShowKernelThreads: c.ShowKernelThreads,
		HighlightWindow:   c.HighlightWindow(),
	}
	if c.TreeView {
		opts.View = model.ViewTree
	}
	return opts
}

package config

import (
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/proctop/internal/errors"
	"github.com/Dicklesworthstone/proctop/internal/model"
)

// Validate checks the config and returns a structured CONFIG error for the
// first problem found.
func Validate(cfg *Config) error {
	if cfg.RefreshInterval < MinRefreshInterval || cfg.RefreshInterval > MaxRefreshInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Refresh interval %s is out of range", cfg.RefreshInterval),
			fmt.Sprintf("Use a value between %s and %s, e.g. refresh_interval: 1.5s", MinRefreshInterval, MaxRefreshInterval))
	}
	if _, ok := model.ParseColumn(cfg.SortKey); !ok {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown sort key %q", cfg.SortKey),
			"Pick one of: "+columnNames())
	}
	if cfg.HighlightWindowSeconds < 0 {
		return errors.New(errors.ErrConfig,
			"highlight_window_seconds can't be negative",
			"Use 0 to disable highlighting of new processes")
	}
	if len(cfg.Columns) == 0 {
		return errors.New(errors.ErrConfig,
			"No columns configured",
			"List at least one column, e.g. columns: [PID, CPU%, Command]")
	}
	seen := make(map[model.Column]bool, len(cfg.Columns))
	for _, name := range cfg.Columns {
		col, ok := model.ParseColumn(name)
		if !ok {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Unknown column %q", name),
				"Pick from: "+columnNames())
		}
		if seen[col] {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Column %q is listed twice", name),
				"Remove the duplicate from columns")
		}
		seen[col] = true
	}
	return nil
}

func columnNames() string {
	cols := model.AllColumns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Header()
	}
	return strings.Join(names, ", ")
}

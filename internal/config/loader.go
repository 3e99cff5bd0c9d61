package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Dicklesworthstone/proctop/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. PROCTOP_SORT_KEY.
	EnvPrefix = "PROCTOP"
	// AppDir is the directory under the user config dir.
	AppDir = "proctop"
	// FileName is the config file name inside AppDir.
	FileName = "config.yaml"
)

// FlagKeys maps command-line flag names onto config keys.
var FlagKeys = map[string]string{
	"delay":    "refresh_interval",
	"sort-key": "sort_key",
	"tree":     "tree_view",
	"filter":   "filter",
	"readonly": "readonly",
	"no-color": "no_color",
	"log-file": "log_file",
}

// DefaultPath returns <UserConfigDir>/proctop/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine the user config directory",
			"Set HOME or XDG_CONFIG_HOME, or pass --config")
	}
	return filepath.Join(dir, AppDir, FileName), nil
}

// Load merges defaults, the config file, environment and flags, in that
// order of increasing precedence. An explicit path must exist; the default
// path is optional. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := readFile(v, path, explicit); err != nil {
			return nil, err
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.WrapWithCode(err, errors.ErrConfig,
						"Failed to bind flag --"+name, "")
				}
			}
		}
	}

	// defaults live in viper; a pre-filled struct would leak default
	// slice elements past a shorter configured list
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}
	return cfg, nil
}

func readFile(v *viper.Viper, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		if os.IsNotExist(err) {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found: "+path,
				"Run 'proctop config init' to create one, or check the --config path")
		}
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot access config file: "+path,
			"Check file permissions")
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file "+path,
			"Check the file is valid YAML")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("refresh_interval", d.RefreshInterval)
	v.SetDefault("sort_key", d.SortKey)
	v.SetDefault("sort_ascending", d.SortAscending)
	v.SetDefault("tree_view", d.TreeView)
	v.SetDefault("filter", d.Filter)
	v.SetDefault("show_kernel_threads", d.ShowKernelThreads)
	v.SetDefault("show_program_path", d.ShowProgramPath)
	v.SetDefault("highlight_new_processes", d.HighlightNewProcesses)
	v.SetDefault("highlight_window_seconds", d.HighlightWindowSeconds)
	v.SetDefault("highlight_large_numbers", d.HighlightLargeNumbers)
	v.SetDefault("confirm_kill", d.ConfirmKill)
	v.SetDefault("readonly", d.ReadOnly)
	v.SetDefault("no_color", d.NoColor)
	v.SetDefault("show_meters", d.ShowMeters)
	v.SetDefault("columns", d.Columns)
	v.SetDefault("log_file", d.LogFile)
}

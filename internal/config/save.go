package config

import (
	"os"
	"path/filepath"

	"github.com/Dicklesworthstone/proctop/internal/errors"
	"gopkg.in/yaml.v3"
)

const fileHeader = "# proctop configuration\n# Environment variables (PROCTOP_<KEY>) and flags override these values.\n\n"

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}
	return out, nil
}

// Save writes cfg to path, creating parent directories. An existing file
// is only replaced when overwrite is set.
func Save(cfg *Config, path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrConfig,
				"Config file already exists: "+path,
				"Pass --force to overwrite it")
		}
	}
	body, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create config directory "+filepath.Dir(path),
			"Check directory permissions")
	}
	if err := os.WriteFile(path, append([]byte(fileHeader), body...), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot write config file "+path,
			"Check file permissions")
	}
	return nil
}

// Package config loads optional flag defaults from a configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk configuration shape. Unset fields leave the
// corresponding flag default in place.
type FileConfig struct {
	StartDirectory  *string  `toml:"start_directory"  yaml:"start_directory"`
	TargetDirectory *string  `toml:"target_directory" yaml:"target_directory"`
	MediaExtensions *string  `toml:"media_extensions" yaml:"media_extensions"`
	Exclude         []string `toml:"exclude"          yaml:"exclude"`
	Verify          *bool    `toml:"verify"           yaml:"verify"`
	Output          *string  `toml:"output"           yaml:"output"`
	Progress        *bool    `toml:"progress"         yaml:"progress"`
}

// Path returns the default config file location.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}

		dir = filepath.Join(home, ".config")
	}

	return filepath.Join(dir, "mediascan", "config.toml")
}

// Load reads the config file at path. With an empty path the default
// location is used, and a missing default file yields a zero FileConfig.
func Load(path string) (FileConfig, error) {
	if path != "" {
		return LoadFile(path)
	}

	path = Path()
	if path == "" {
		return FileConfig{}, nil
	}

	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return FileConfig{}, nil
	}

	return cfg, err
}

// LoadFile reads a config file. Files ending in .yaml or .yml are decoded as
// YAML, everything else as TOML.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		_, err = toml.Decode(string(data), &cfg)
	}

	if err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}

	return cfg, nil
}

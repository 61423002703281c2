// Package config loads persistent run defaults from a vdcheck.yaml file.
// CLI flags always win over file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/nicholasgasior/vdcheck/pkg/types"
)

// File holds the persistable subset of RunConfig.
type File struct {
	Timeout    int    `mapstructure:"timeout" yaml:"timeout"`
	NoColor    bool   `mapstructure:"no_color" yaml:"no_color"`
	Verbose    bool   `mapstructure:"verbose" yaml:"verbose"`
	NoSudo     bool   `mapstructure:"no_sudo" yaml:"no_sudo"`
	ProfileDir string `mapstructure:"profile_dir" yaml:"profile_dir"`
	Overrides  string `mapstructure:"overrides" yaml:"overrides"`
}

// Load reads the config file at path, or discovers one when path is
// empty. No file at all is not an error; the built-in defaults apply.
func Load(path string) (*File, error) {
	if path == "" {
		path = discover()
		if path == "" {
			return &File{Timeout: types.DefaultRunConfig().Timeout}, nil
		}
	}

	// Fresh instance per load; the package-level viper singleton carries
	// state between calls.
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("timeout", types.DefaultRunConfig().Timeout)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if f.Timeout <= 0 {
		return nil, fmt.Errorf("config %s: timeout must be positive", path)
	}
	return &f, nil
}

// discover looks for vdcheck.yaml in the working directory, then under
// the XDG config home.
func discover() string {
	candidates := []string{"vdcheck.yaml", ".vdcheck.yaml"}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	path := filepath.Join(configHome, "vdcheck", "vdcheck.yaml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// Apply folds file values into a RunConfig. Only fields the caller has
// not already set from flags should be passed through; changed reports
// which flags were explicitly given.
func (f *File) Apply(cfg *types.RunConfig, changed func(name string) bool) {
	if !changed("timeout") && f.Timeout > 0 {
		cfg.Timeout = f.Timeout
	}
	if !changed("no-color") {
		cfg.NoColor = cfg.NoColor || f.NoColor
	}
	if !changed("verbose") {
		cfg.Verbose = cfg.Verbose || f.Verbose
	}
	if !changed("no-sudo") {
		cfg.NoSudo = cfg.NoSudo || f.NoSudo
	}
	if cfg.ProfileDir == "" {
		cfg.ProfileDir = f.ProfileDir
	}
	if cfg.Overrides == "" {
		cfg.Overrides = f.Overrides
	}
}

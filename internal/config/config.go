// Package config loads persistent defaults for the orwell CLI from
// ~/.config/orwell/config.yaml. Every value can be overridden per run by a
// flag; a missing config file just means built-in defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/ycrc/Orwell-CLI/internal/errors"
)

const (
	// ConfigDir is the per-user config directory under $HOME.
	ConfigDir = ".config/orwell"
	// ConfigFile is the config file name inside ConfigDir.
	ConfigFile = "config.yaml"
)

// Config holds the persisted defaults.
type Config struct {
	// Glyphs is the default character set: ascii, utf8, or emoji.
	Glyphs string `yaml:"glyphs" mapstructure:"glyphs"`

	// Show is the default display mode: cpu, ram, both, or job.
	Show string `yaml:"show" mapstructure:"show"`

	// Color is the default highlight color name.
	Color string `yaml:"color" mapstructure:"color"`

	// Remote is a login node to run the reporting commands on over SSH.
	// Empty means run them locally.
	Remote string `yaml:"remote" mapstructure:"remote"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Glyphs: "ascii",
		Show:   "cpu",
		Color:  "red",
	}
}

// Path returns the config file location, or "" when the home directory is
// unknown.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. An unreadable or malformed file is an error; silently
// ignoring it would hide typos from the user.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("glyphs", cfg.Glyphs)
	v.SetDefault("show", cfg.Show)
	v.SetDefault("color", cfg.Color)

	if err := v.ReadInConfig(); err != nil {
		return cfg, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file "+path,
			"Check the file is valid YAML, or delete it to use defaults.")
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.WrapWithCode(err, errors.ErrConfig,
			"Config file "+path+" has unexpected structure",
			"Run 'orwell init' to regenerate it.")
	}
	return cfg, nil
}

// Package config loads linkcheck settings from .linkcheck.yaml and the
// environment.
//
// Precedence, highest first: command-line flags (applied by the CLI),
// LINKCHECK_* environment variables, the config file, built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the working directory.
const FileName = ".linkcheck"

// EnvPrefix prefixes environment overrides, e.g. LINKCHECK_DB.
const EnvPrefix = "LINKCHECK"

// Config holds settings shared by every command.
type Config struct {
	// DB is the run history database. Empty disables recording.
	DB string

	// Format is the output format: "text" or "json".
	Format string

	// RuntimeDir is the directory of interpreted capability sources.
	RuntimeDir string

	// Verbose enables debug logging.
	Verbose bool

	// File is the config file that was read, if any.
	File string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{Format: "text"}
}

// Load reads .linkcheck.yaml from dir, if present, and applies environment
// overrides. A missing file is not an error.
func Load(dir string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("db", cfg.DB)
	v.SetDefault("format", cfg.Format)
	v.SetDefault("runtime_dir", cfg.RuntimeDir)
	v.SetDefault("verbose", cfg.Verbose)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading %s.yaml: %w", FileName, err)
		}
	}

	cfg.DB = v.GetString("db")
	cfg.Format = v.GetString("format")
	cfg.RuntimeDir = v.GetString("runtime_dir")
	// A relative runtime_dir in the file is relative to the file.
	if _, fromEnv := os.LookupEnv(EnvPrefix + "_RUNTIME_DIR"); !fromEnv &&
		cfg.RuntimeDir != "" && !filepath.IsAbs(cfg.RuntimeDir) {
		cfg.RuntimeDir = filepath.Join(dir, cfg.RuntimeDir)
	}
	cfg.Verbose = v.GetBool("verbose")
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid format %q: must be one of text, json", c.Format)
	}
}

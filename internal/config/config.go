// Package config handles configuration loading from TOML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/xonecas/docsync/internal/constants"
	"github.com/xonecas/docsync/internal/highlight"
)

// Config is the root configuration structure.
type Config struct {
	Mapping MappingConfig `toml:"mapping"`
	Log     LogConfig     `toml:"log"`
	Journal JournalConfig `toml:"journal"`
	Walk    WalkConfig    `toml:"walk"`
	UI      UIConfig      `toml:"ui"`
}

// MappingConfig points at the default docstring mapping.
type MappingConfig struct {
	Path string `toml:"path"`
}

// LogConfig holds log sink settings. Level applies to the file sink.
type LogConfig struct {
	File         string `toml:"file"`
	Level        string `toml:"level"`
	ConsoleLevel string `toml:"console_level"`
}

// JournalConfig holds undo journal settings.
type JournalConfig struct {
	Enabled       bool   `toml:"enabled"`
	Path          string `toml:"path"`
	RetentionDays int    `toml:"retention_days"`
}

// WalkConfig controls directory expansion of path arguments.
type WalkConfig struct {
	RespectGitignore bool `toml:"respect_gitignore"`
}

// UIConfig holds output settings.
type UIConfig struct {
	// SyntaxTheme is the Chroma style for --diff output. Empty disables color.
	SyntaxTheme string `toml:"syntax_theme"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Mapping: MappingConfig{Path: constants.MappingFile},
		Log: LogConfig{
			File:         constants.LogFile,
			Level:        "debug",
			ConsoleLevel: "info",
		},
		Journal: JournalConfig{
			Enabled:       true,
			Path:          constants.JournalFile,
			RetentionDays: constants.JournalRetentionDays,
		},
		Walk: WalkConfig{RespectGitignore: true},
		UI:   UIConfig{SyntaxTheme: constants.SyntaxTheme},
	}
}

// Load reads configuration from a TOML file on top of the defaults and
// applies environment variable overrides. With an empty path, docsync.toml
// in the working directory is used when present.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(constants.ConfigFile); err == nil {
			path = constants.ConfigFile
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level=%q is invalid: %v", c.Log.Level, err))
	}
	if _, err := zerolog.ParseLevel(c.Log.ConsoleLevel); err != nil {
		errs = append(errs, fmt.Errorf("log.console_level=%q is invalid: %v", c.Log.ConsoleLevel, err))
	}

	if c.Journal.Enabled && c.Journal.Path == "" {
		errs = append(errs, errors.New("journal.path is required when the journal is enabled"))
	}
	if c.Journal.RetentionDays < 0 {
		errs = append(errs, fmt.Errorf("journal.retention_days=%d must not be negative", c.Journal.RetentionDays))
	}

	if c.UI.SyntaxTheme != "" && !highlight.ThemeExists(c.UI.SyntaxTheme) {
		errs = append(errs, fmt.Errorf("ui.syntax_theme=%q is not a known Chroma style", c.UI.SyntaxTheme))
	}

	return errors.Join(errs...)
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"DOCSYNC_MAPPING", func(v string) { cfg.Mapping.Path = v }},
		{"DOCSYNC_LOG_LEVEL", func(v string) { cfg.Log.Level = v }},
		{"DOCSYNC_LOG_FILE", func(v string) { cfg.Log.File = v }},
		{"DOCSYNC_JOURNAL", func(v string) {
			switch strings.ToLower(v) {
			case "off", "false", "0":
				cfg.Journal.Enabled = false
			case "on", "true", "1":
				cfg.Journal.Enabled = true
			default:
				cfg.Journal.Enabled = true
				cfg.Journal.Path = v
			}
		}},
	} {
		if v, ok := os.LookupEnv(setter.env); ok && v != "" {
			setter.apply(v)
		}
	}
}

// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

// Package config loads thriftc.toml project files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultFileName is looked up in the working directory when no config
// path is given.
const DefaultFileName = "thriftc.toml"

type Config struct {
	Target           string    `toml:"target"`
	DefaultNamespace string    `toml:"default_namespace"`
	IncludePaths     []string  `toml:"include_paths"`
	PluginPath       string    `toml:"plugin_path"`
	Log              LogConfig `toml:"log"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load decodes the config file at path. Relative include paths and
// plugin paths are taken relative to the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	applyDefaults(&cfg)
	relativeTo(&cfg, filepath.Dir(path))
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOptional is [Load], except that a missing file yields [Default].
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Target) == "" {
		cfg.Target = "go"
	}
	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = "info"
	}
}

func relativeTo(cfg *Config, dir string) {
	for ii, path := range cfg.IncludePaths {
		if path != "" && !filepath.IsAbs(path) {
			cfg.IncludePaths[ii] = filepath.Join(dir, path)
		}
	}
	if cfg.PluginPath == "" {
		return
	}
	parts := filepath.SplitList(cfg.PluginPath)
	for ii, path := range parts {
		if path != "" && !filepath.IsAbs(path) {
			parts[ii] = filepath.Join(dir, path)
		}
	}
	cfg.PluginPath = strings.Join(parts, string(os.PathListSeparator))
}

func validate(cfg *Config) error {
	if strings.ContainsAny(cfg.Target, " \t.") {
		return fmt.Errorf("target must be a single word, got %q", cfg.Target)
	}
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	for ii, path := range cfg.IncludePaths {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("include_paths[%d] must not be empty", ii)
		}
	}
	ns := cfg.DefaultNamespace
	if ns != "" {
		for _, segment := range strings.Split(ns, ".") {
			if segment == "" {
				return fmt.Errorf("default_namespace %q has an empty segment", ns)
			}
		}
	}
	return nil
}

// ParseLevel accepts "debug", "info", "warn" and "error".
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", level)
}

func (cfg *Config) LogLevel() slog.Level {
	level, err := ParseLevel(cfg.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

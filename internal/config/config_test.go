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

package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.thriftc.org/thrift/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
target = "py"
default_namespace = "gen.thrift"
include_paths = ["idl", "/opt/thrift/include"]
plugin_path = "plugins"

[log]
level = "debug"
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, "py", cfg.Target)
	assert.Equal(t, "gen.thrift", cfg.DefaultNamespace)
	assert.Equal(t, []string{filepath.Join(dir, "idl"), "/opt/thrift/include"}, cfg.IncludePaths)
	assert.Equal(t, filepath.Join(dir, "plugins"), cfg.PluginPath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "go", cfg.Target)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
	assert.Empty(t, cfg.IncludePaths)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadOptional(t *testing.T) {
	cfg, err := config.LoadOptional(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     string
	}{
		{name: "syntax", content: "target = ", err: "thriftc.toml"},
		{name: "unknown key", content: "targets = \"go\"\n", err: "unknown keys: targets"},
		{name: "unknown table key", content: "[log]\nfile = \"x\"\n", err: "unknown keys: log.file"},
		{name: "log level", content: "[log]\nlevel = \"loud\"\n", err: "log.level must be one of"},
		{name: "target", content: "target = \"go.mod\"\n", err: "target must be a single word"},
		{name: "empty include", content: "include_paths = [\"\"]\n", err: "include_paths[0] must not be empty"},
		{name: "namespace", content: "default_namespace = \"a..b\"\n", err: "empty segment"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, test.content))
			assert.ErrorContains(t, err, test.err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	for level, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	} {
		got, err := config.ParseLevel(level)
		require.NoError(t, err, level)
		assert.Equal(t, want, got, level)
	}
}

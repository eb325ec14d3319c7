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

package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"go.thriftc.org/thrift/compiler"
	"go.thriftc.org/thrift/filegroup"
	"go.thriftc.org/thrift/internal/config"
)

// groupFlags are shared by every command that loads a file group. Flags
// that are set override the config file.
type groupFlags struct {
	configPath   string
	includePaths []string
	namespace    string
	target       string
	verbose      bool
}

func (f *groupFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.configPath, "config", "", "Path to thriftc.toml (default: ./thriftc.toml if present)")
	flags.StringArrayVarP(&f.includePaths, "include-path", "I", nil, "Directory searched for included files; may be repeated")
	flags.StringVar(&f.namespace, "namespace", "", "Namespace for files that declare none for the target")
	flags.StringVar(&f.target, "target", "", "Namespace target used for destination modules (default \"go\")")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Log debug output to stderr")
}

func (f *groupFlags) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.Load(f.configPath)
	} else {
		cfg, err = config.LoadOptional(config.DefaultFileName)
	}
	if err != nil {
		return nil, err
	}
	if f.target != "" {
		cfg.Target = f.target
	}
	if f.namespace != "" {
		cfg.DefaultNamespace = f.namespace
	}
	if len(f.includePaths) > 0 {
		cfg.IncludePaths = append(append([]string(nil), f.includePaths...), cfg.IncludePaths...)
	}
	if f.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))
}

// loadGroup loads path and its includes. Assembly warnings are logged;
// errors are returned.
func loadGroup(env *cmdEnv, cfg *config.Config, path string) (*filegroup.FileGroup, error) {
	logger := newLogger(env.stderr, cfg)
	parser := &compiler.FileParser{
		OnWarning: func(path string, warning *compiler.Warning) {
			logger.Warn(warning.String(), "path", path, "line", warning.Pos().Line)
		},
	}
	g, err := filegroup.Load(
		path,
		filegroup.WithParser(parser),
		filegroup.WithIncludePaths(cfg.IncludePaths...),
		filegroup.WithDefaultNamespace(cfg.DefaultNamespace),
		filegroup.WithTarget(cfg.Target),
		filegroup.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded file group", "initial_module", g.InitialModule(), "files", len(g.ParsedFiles()))
	return g, nil
}

// checkGroup prints every resolution error and reports whether there
// were none.
func checkGroup(env *cmdEnv, g *filegroup.FileGroup) bool {
	errs := g.Check()
	for _, err := range errs {
		fmt.Fprintln(env.stderr, err)
	}
	return len(errs) == 0
}

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
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"go.thriftc.org/thrift/codegen"
)

type cmdCodegen struct {
	group         groupFlags
	outDir        string
	plugin        string
	pluginPath    string
	pluginOptions []string
}

func (*cmdCodegen) help() *commandHelp {
	return &commandHelp{
		usage:   "codegen FILE",
		summary: "Generate code for an IDL file with a WebAssembly plugin",
	}
}

func (cmd *cmdCodegen) flags(flags *pflag.FlagSet) {
	cmd.group.register(flags)
	flags.StringVarP(&cmd.outDir, "output", "o", "", "Directory generated files are written to")
	flags.StringVar(&cmd.plugin, "plugin", "", "Plugin name, run as thriftc-codegen-NAME.wasm (default: the target)")
	flags.StringVar(&cmd.pluginPath, "plugin-path", "", "Directories searched for plugins (default: $"+codegen.PluginPathEnv+")")
	flags.StringArrayVar(&cmd.pluginOptions, "plugin-opt", nil, "KEY=VALUE option passed to the plugin; may be repeated")
}

func (cmd *cmdCodegen) run(ctx context.Context, env *cmdEnv, argv []string) int {
	if len(argv) != 1 {
		fmt.Fprintln(env.stderr, "usage: thriftc codegen [options] FILE")
		return 1
	}
	if cmd.outDir == "" {
		fmt.Fprintln(env.stderr, "No output directory specified (set --output=)")
		return 1
	}
	options := make(map[string]string, len(cmd.pluginOptions))
	for _, opt := range cmd.pluginOptions {
		key, value, ok := strings.Cut(opt, "=")
		if !ok || key == "" {
			fmt.Fprintf(env.stderr, "Invalid plugin option %q (expected KEY=VALUE)\n", opt)
			return 1
		}
		options[key] = value
	}

	cfg, err := cmd.group.loadConfig()
	if err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}
	g, err := loadGroup(env, cfg, argv[0])
	if err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}
	if !checkGroup(env, g) {
		return 1
	}
	var reqOpts []codegen.RequestOption
	if len(options) > 0 {
		reqOpts = append(reqOpts, codegen.WithPluginOptions(options))
	}
	req, err := codegen.BuildRequest(g, reqOpts...)
	if err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}

	plugin := cmd.plugin
	if plugin == "" {
		plugin = cfg.Target
	}
	pluginPath := cmd.pluginPath
	if pluginPath == "" {
		pluginPath = cfg.PluginPath
	}
	pluginFile, err := codegen.LocatePlugin(plugin, pluginPath)
	if err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}
	pluginBin, err := os.ReadFile(pluginFile)
	if err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}

	response, err := codegen.RunPlugin(ctx, pluginBin, req)
	if err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}
	if err := codegen.WriteOutputs(cmd.outDir, response); err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}
	return 0
}

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
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"go.thriftc.org/thrift/codegen"
	"go.thriftc.org/thrift/encoding/thrifttext"
)

type cmdResolve struct {
	group   groupFlags
	outPath string
	format  string
}

func (*cmdResolve) help() *commandHelp {
	return &commandHelp{
		usage:   "resolve FILE",
		summary: "Resolve an IDL file and its includes, and print the result",
	}
}

func (cmd *cmdResolve) flags(flags *pflag.FlagSet) {
	cmd.group.register(flags)
	flags.StringVarP(&cmd.outPath, "output", "o", "", "Write to this file instead of stdout")
	flags.StringVarP(&cmd.format, "format", "f", "text", "Output format: 'text' or 'json'")
}

func (cmd *cmdResolve) run(ctx context.Context, env *cmdEnv, argv []string) int {
	if len(argv) != 1 {
		fmt.Fprintln(env.stderr, "usage: thriftc resolve [options] FILE")
		return 1
	}
	switch cmd.format {
	case "text", "json":
	default:
		fmt.Fprintf(env.stderr, "Unsupported output format %q (choose 'text' or 'json')\n", cmd.format)
		return 1
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

	var output string
	if cmd.format == "text" {
		output, err = thrifttext.Encode(g)
	} else {
		var req *codegen.Request
		req, err = codegen.BuildRequest(g)
		if err == nil {
			var buf []byte
			buf, err = json.MarshalIndent(req, "", "  ")
			output = string(buf) + "\n"
		}
	}
	if err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}

	if cmd.outPath == "" {
		if _, err := fmt.Fprint(env.stdout, output); err != nil {
			fmt.Fprintln(env.stderr, err)
			return 1
		}
		return 0
	}
	if err := os.WriteFile(cmd.outPath, []byte(output), 0o666); err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}
	return 0
}

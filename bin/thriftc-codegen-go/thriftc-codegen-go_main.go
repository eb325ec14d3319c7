// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
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

// Command thriftc-codegen-go generates Go declarations from a resolved
// IDL file group.
//
// Built for WebAssembly it is loaded by "thriftc codegen". Run natively it
// reads a request written by "thriftc resolve --format=json" and writes
// the generated files into a directory, which is handy when debugging
// the generator:
//
//	thriftc resolve --format=json tutorial.yaml > request.json
//	thriftc-codegen-go request.json out/
package main

import (
	"encoding/json"
	"io"
	"log"
	"os"

	"go.thriftc.org/thrift/codegen"
)

func main() {
	args := os.Args[1:]
	if len(args) != 2 {
		log.Fatalf("usage: %s REQUEST_JSON OUTPUT_DIR", os.Args[0])
	}
	requestPath, outDir := args[0], args[1]

	var (
		requestBuf []byte
		err        error
	)
	if requestPath == "-" {
		requestBuf, err = io.ReadAll(os.Stdin)
	} else {
		requestBuf, err = os.ReadFile(requestPath)
	}
	if err != nil {
		log.Fatalf("reading request %q: %v", requestPath, err)
	}

	var request codegen.Request
	if err := json.Unmarshal(requestBuf, &request); err != nil {
		log.Fatalf("decoding request %q: %v", requestPath, err)
	}
	files, err := newGenerator(&request).generate()
	if err != nil {
		log.Fatal(err)
	}
	if err := codegen.WriteOutputs(outDir, &codegen.Response{OutputFiles: files}); err != nil {
		log.Fatal(err)
	}
}

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
	"go/parser"
	"go/token"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.thriftc.org/thrift/codegen"
	"go.thriftc.org/thrift/filegroup"
	"go.thriftc.org/thrift/internal/testutil"
)

func generateTutorial(t *testing.T, opts ...codegen.RequestOption) map[string]string {
	t.Helper()
	g, err := filegroup.Load(testutil.Testdata(t, "tutorial", "tutorial.yaml"))
	require.NoError(t, err)
	req, err := codegen.BuildRequest(g, opts...)
	require.NoError(t, err)
	files, err := newGenerator(req).generate()
	require.NoError(t, err)

	out := make(map[string]string, len(files))
	for _, file := range files {
		out[strings.Join(file.Path, "/")] = file.Content
	}
	return out
}

func assertMatches(t *testing.T, src string, patterns ...string) {
	t.Helper()
	for _, pattern := range patterns {
		assert.Regexp(t, regexp.MustCompile(pattern), src)
	}
}

func TestGenerateTutorial(t *testing.T) {
	files := generateTutorial(t, codegen.WithPluginOptions(map[string]string{
		"import_prefix": "example.com/gen/",
	}))
	require.Len(t, files, 2)
	tutorial := files["tutorial/tutorial.thrift.go"]
	shared := files["shared/shared.thrift.go"]
	require.NotEmpty(t, tutorial)
	require.NotEmpty(t, shared)

	for name, src := range files {
		_, err := parser.ParseFile(token.NewFileSet(), name, src, parser.AllErrors)
		require.NoError(t, err, src)
	}

	assertMatches(t, tutorial,
		`^// Code generated by thriftc-codegen-go from tutorial\. DO NOT EDIT\.`,
		`package tutorial\n`,
		`import \(\n\s+"context"\n\s+"example\.com/gen/shared"\n\)`,
		`type Operation int64`,
		`Operation_SUBTRACT\s+Operation = 2`,
		`Operation_DIVIDE\s+Operation = 6`,
		`type MyInteger = int32`,
		`const DEFAULT_OP Operation = Operation_ADD`,
		`const INT32CONSTANT int32 = 9853`,
		`var MAPCONSTANT map\[string\]string = map\[string\]string\{"hello": "world"\}`,
		"Num2\\s+int32\\s+`thrift:\"num2,2\"`",
		"Comment\\s+\\*string\\s+`thrift:\"comment,4,optional\"`",
		"Tags\\s+\\[\\]shared\\.SharedStruct\\s+`thrift:\"tags,5,required\"`",
		`func NewWork\(\) \*Work \{\n\s+return &Work\{\n\s+Num1: 0,\n\s+Op:\s+DEFAULT_OP,`,
		"IntValue\\s+\\*int64\\s+`thrift:\"int_value,1,optional\"`",
		"Work\\s+\\*Work\\s+`thrift:\"work,2,optional\"`",
		`func \(\*InvalidOperation\) Error\(\) string \{\n\s+return "tutorial\.InvalidOperation"`,
		`type Calculator interface \{\n\s+shared\.SharedService\n`,
		`Ping\(ctx context\.Context\) error`,
		`Add\(ctx context\.Context, num1 int32, num2 int32\) \(int32, error\)`,
		`// Throws InvalidOperation on ouch\.\n\s+Calculate\(ctx context\.Context, logid int32, w \*Work\) \(int32, error\)`,
		`// Oneway\.\n\s+Zip\(ctx context\.Context\) error`,
	)

	assertMatches(t, shared,
		`package shared\n`,
		`import \(\n\s+"context"\n\)`,
		`GetStruct\(ctx context\.Context, key int32\) \(\*SharedStruct, error\)`,
	)
	assert.NotContains(t, shared, "example.com")
}

func TestGenerateWithoutImportPrefix(t *testing.T) {
	files := generateTutorial(t)
	assert.Contains(t, files["tutorial/tutorial.thrift.go"], "\t\"shared\"\n")
}

func TestGenerateValues(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"vals.yaml": `
headers: [{namespace: {target: go, path: example.vals}}]
definitions:
  - enum: {name: Mode, members: [{name: FAST, value: fast}, {name: SLOW, value: slow}]}
  - const: {name: IDS, type: {set: i16}, value: {set: [1, 2]}}
  - const: {name: NESTED, type: {map: {key: string, value: {list: double}}}, value: {map: [{key: a, value: [1.5, 2]}]}}
  - const: {name: BLOB, type: binary, value: "raw"}
  - const: {name: MODES, type: {list: Mode}, value: [{ref: Mode.SLOW}]}
  - struct:
      name: Config
      fields:
        - {id: 1, name: type, type: string}
        - {id: 2, name: next, type: Config, requiredness: optional}
`,
	})
	g, err := filegroup.Load(filepath.Join(dir, "vals.yaml"))
	require.NoError(t, err)
	req, err := codegen.BuildRequest(g)
	require.NoError(t, err)
	files, err := newGenerator(req).generate()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, []string{"example", "vals", "vals.thrift.go"}, files[0].Path)

	src := files[0].Content
	_, err = parser.ParseFile(token.NewFileSet(), "vals.go", src, parser.AllErrors)
	require.NoError(t, err, src)
	assertMatches(t, src,
		`package vals\n`,
		`type Mode string`,
		`Mode_FAST\s+Mode = "fast"`,
		`var IDS map\[int16\]struct\{\} = map\[int16\]struct\{\}\{1: \{\}, 2: \{\}\}`,
		`var NESTED map\[string\]\[\]float64 = map\[string\]\[\]float64\{"a": \[\]float64\{1\.5, 2\}\}`,
		`var BLOB \[\]byte = \[\]byte\("raw"\)`,
		`var MODES \[\]Mode = \[\]Mode\{Mode_SLOW\}`,
		"Type\\s+string\\s+`thrift:\"type,1\"`",
		"Next\\s+\\*Config\\s+`thrift:\"next,2,optional\"`",
	)
	assert.NotContains(t, src, "import")
}

func TestIdentifiers(t *testing.T) {
	assert.Equal(t, "IntValue", fieldIdent("int_value"))
	assert.Equal(t, "WhatOp", fieldIdent("whatOp"))
	assert.Equal(t, "DEFAULT_OP", exportIdent("DEFAULT_OP"))
	assert.Equal(t, "type_", paramIdent("type"))
	assert.Equal(t, "ctx_", paramIdent("ctx"))
	assert.Equal(t, "logid", paramIdent("logid"))
	assert.Equal(t, "weatherservice", packageName("weather_service"))
	assert.Equal(t, "thrift2d", packageName("2d"))
}

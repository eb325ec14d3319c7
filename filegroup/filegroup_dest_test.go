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

package filegroup_test

import (
	"path/filepath"
	"testing"

	"go.thriftc.org/thrift"
	"go.thriftc.org/thrift/filegroup"
	"go.thriftc.org/thrift/internal/testutil"
)

func destModule(t *testing.T, g *filegroup.FileGroup, node thrift.Node) string {
	t.Helper()
	dest, err := g.DestModule(node)
	testutil.AssertNoError(t, err)
	return dest
}

func TestDestModuleNamespaces(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"app.yaml": `
headers:
  - namespace: {target: go, path: example.weather_service}
  - namespace: {target: py, path: weather_py}
  - include: plain.yaml
definitions:
  - struct: {name: report}
  - enum: {name: Level, members: [LOW]}
  - typedef: {name: Ids, type: {list: i64}}
  - struct: {name: Holder, fields: [{id: 1, name: p, type: plain.Point}]}
`,
		"plain.yaml": "definitions: [{struct: {name: Point}}]",
	})
	g := load(t, filepath.Join(dir, "app.yaml"))
	app, _ := g.Schema("app")
	plain, _ := g.Schema("plain")

	testutil.ExpectEq(t, "Example.WeatherService.Report", destModule(t, g, app.Structs["report"]))
	testutil.ExpectEq(t, "Example.WeatherService.Level", destModule(t, g, app.Enums["Level"]))
	testutil.ExpectEq(t, "Example.WeatherService.Level", destModule(t, g, app.Enums["Level"].Members[0]))
	testutil.ExpectEq(t, "Example.WeatherService.Ids", destModule(t, g, app.TypeAliases["Ids"]))
	testutil.ExpectEq(t, "Point", destModule(t, g, plain.Structs["Point"]))
	testutil.ExpectEq(t, "Point", destModule(t, g, app.Structs["Holder"].Fields[0]))
	testutil.ExpectEq(t, "Point", destModule(t, g, &thrift.TypeRef{Name: thrift.LocalName("plain.Point")}))

	testutil.ExpectEq(t, "Example.WeatherService.Report", g.DestModuleName(thrift.QualifiedName("app", "report")))
	pyView := load(t, filepath.Join(dir, "app.yaml"), filegroup.WithTarget("py"))
	testutil.ExpectEq(t, "py", pyView.Target())
	testutil.ExpectEq(t, "WeatherPy.Report", pyView.DestModuleName(thrift.QualifiedName("app", "report")))

	_, err := g.DestModule(thrift.Primitive_I32)
	testutil.AssertErrorCode(t, 5008, err)
	_, err = g.DestModule(&thrift.TypeRef{Name: thrift.LocalName("Nope")})
	testutil.AssertErrorCode(t, filegroup.CodeUnresolvedSymbol, err)
}

func TestDefaultNamespace(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a.yaml": `
headers:
  - namespace: {target: go, path: own}
  - include: b.yaml
`,
		"b.yaml": "definitions: [{struct: {name: Thing}}]",
	})
	g := load(t, filepath.Join(dir, "a.yaml"), filegroup.WithDefaultNamespace("gen.thrift"))
	ns, ok := g.Namespace("b")
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, "gen.thrift", ns.Path)
	ns, _ = g.Namespace("a")
	testutil.ExpectEq(t, "own", ns.Path)
	testutil.ExpectEq(t, "Gen.Thrift.Thing", g.DestModuleName(thrift.QualifiedName("b", "Thing")))
}

func TestConstantsDestModule(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		src    string
		expect string
	}{
		{
			name:   "synthesized from basename",
			file:   "weather_report.yaml",
			src:    "definitions: [{const: {name: C, type: i32, value: 1}}]",
			expect: "WeatherReport",
		},
		{
			name:   "reuses enum spelling",
			file:   "weather.yaml",
			src:    "definitions: [{enum: {name: WEATHER}}, {const: {name: C, type: i32, value: 1}}]",
			expect: "WEATHER",
		},
		{
			name:   "reuses exact match",
			file:   "weather.yaml",
			src:    "definitions: [{enum: {name: Weather}}, {const: {name: C, type: i32, value: 1}}]",
			expect: "Weather",
		},
		{
			name:   "ignores other constants",
			file:   "weather.yaml",
			src:    "definitions: [{const: {name: WEATHER, type: i32, value: 1}}]",
			expect: "Weather",
		},
		{
			name:   "with namespace",
			file:   "weather.yaml",
			src:    "headers: [{namespace: {target: go, path: svc.api}}]\ndefinitions: [{service: {name: weather}}]",
			expect: "Svc.Api.Weather",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dir := testutil.WriteFiles(t, map[string]string{test.file: test.src})
			g := load(t, filepath.Join(dir, test.file))
			testutil.ExpectEq(t, test.expect, g.ConstantsDestModule())
		})
	}
}

func TestConstantDestModuleAndOwnership(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"weather.yaml": `
headers: [{include: shared.yaml}]
definitions:
  - enum: {name: Weather, members: [SUNNY]}
  - const: {name: DEFAULT, type: Weather, value: {ref: Weather.SUNNY}}
`,
		"shared.yaml": `
definitions:
  - const: {name: DEFAULT, type: i32, value: 0}
`,
	})
	g := load(t, filepath.Join(dir, "weather.yaml"))
	weather, _ := g.Schema("weather")
	shared, _ := g.Schema("shared")

	own := weather.Constants["DEFAULT"]
	inherited := shared.Constants["DEFAULT"]
	testutil.ExpectTrue(t, g.OwnConstant(own))
	testutil.ExpectFalse(t, g.OwnConstant(inherited))

	testutil.ExpectEq(t, "Weather", destModule(t, g, own))
	testutil.ExpectEq(t, "Shared", destModule(t, g, inherited))
	testutil.ExpectEq(t, "Weather", destModule(t, g, &thrift.ValueRef{Name: thrift.LocalName("DEFAULT")}))
}

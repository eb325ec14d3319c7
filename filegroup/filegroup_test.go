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
	"bytes"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"

	"go.thriftc.org/thrift"
	"go.thriftc.org/thrift/compiler"
	"go.thriftc.org/thrift/filegroup"
	"go.thriftc.org/thrift/internal/testutil"
)

func load(t *testing.T, path string, opts ...filegroup.Option) *filegroup.FileGroup {
	t.Helper()
	g, err := filegroup.Load(path, opts...)
	testutil.AssertNoError(t, err)
	return g
}

func modules(g *filegroup.FileGroup) []string {
	var out []string
	for _, schema := range g.Schemas() {
		out = append(out, schema.Module)
	}
	return out
}

func TestTransitiveClosure(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a.yaml": "headers: [{include: b.yaml}]\ndefinitions: [{struct: {name: A}}]",
		"b.yaml": "headers: [{include: c.yaml}]\ndefinitions: [{struct: {name: B}}]",
		"c.yaml": "definitions: [{struct: {name: Deep}}, {enum: {name: Level, members: [LOW, HIGH]}}]",
	})
	g := load(t, filepath.Join(dir, "a.yaml"))
	testutil.ExpectSliceEq(t, []string{"a", "b", "c"}, modules(g))
	testutil.ExpectEq(t, "a", g.CurrentModule())

	for _, module := range []string{"a", "b", "c"} {
		view := g.SetCurrentModule(module)
		node, err := view.ResolveName("c.Deep")
		testutil.AssertNoError(t, err)
		testutil.ExpectEq(t, "c.Deep", node.(*thrift.Struct).Name.String())

		node, err = view.ResolveName("c.Level.HIGH")
		testutil.AssertNoError(t, err)
		testutil.ExpectEq(t, thrift.Literal(thrift.Int(1)), node.(*thrift.EnumMember).Value)
	}
}

func TestQualificationConsistency(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a.yaml": "headers: [{include: b.yaml}]",
		"b.yaml": "definitions: [{struct: {name: Foo}}]",
	})
	g := load(t, filepath.Join(dir, "a.yaml"))

	_, err := g.ResolveName("Foo")
	resolveErr := testutil.AssertErrorCode(t, filegroup.CodeUnresolvedSymbol, err).(*filegroup.Error)
	testutil.ExpectEq(t, "Foo", resolveErr.Symbol())

	node, err := g.ResolveName("b.Foo")
	testutil.AssertNoError(t, err)
	foo, ok := node.(*thrift.Struct)
	testutil.ExpectTrue(t, ok)

	_, err = g.Resolve(&thrift.TypeRef{Name: thrift.LocalName("Foo")})
	testutil.AssertErrorCode(t, filegroup.CodeUnresolvedSymbol, err)

	fromB := g.SetCurrentModule("b")
	node, err = fromB.ResolveName("Foo")
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, node == thrift.Node(foo))

	// The original view is unchanged.
	testutil.ExpectEq(t, "a", g.CurrentModule())
	_, err = g.ResolveName("Foo")
	testutil.AssertError(t, err)
}

func TestResolvePrimitiveName(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a.yaml": "definitions: [{typedef: {name: Id, type: i64}}]",
	})
	g := load(t, filepath.Join(dir, "a.yaml"))
	for _, name := range []string{"i32", "string", "binary"} {
		node, err := g.ResolveName(name)
		testutil.AssertNoError(t, err)
		primitive, _ := thrift.LookupPrimitive(name)
		testutil.ExpectTrue(t, node == thrift.Node(primitive))
	}
	node, err := g.ResolveName("Id")
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, node == thrift.Node(thrift.Primitive_I64))
}

func TestContainerRecursion(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a.yaml": "headers: [{include: b.yaml}]",
		"b.yaml": "definitions: [{struct: {name: Foo}}, {enum: {name: Color, members: [RED]}}]",
	})
	g := load(t, filepath.Join(dir, "a.yaml"))
	foo, err := g.ResolveName("b.Foo")
	testutil.AssertNoError(t, err)

	input := &thrift.List{Elem: &thrift.Set{
		Elem: &thrift.TypeRef{Name: thrift.QualifiedName("b", "Foo")},
	}}
	got, err := g.Resolve(input)
	testutil.AssertNoError(t, err)
	list := got.(*thrift.List)
	set := list.Elem.(*thrift.Set)
	testutil.ExpectTrue(t, set.Elem == foo.(thrift.Type))

	got, err = g.Resolve(&thrift.Map{
		Key:   thrift.Primitive_STRING,
		Value: &thrift.TypeRef{Name: thrift.QualifiedName("b", "Color")},
	})
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "map<string,b.Color>", thrift.TypeString(got.(thrift.Type)))
	_, isEnum := got.(*thrift.Map).Value.(*thrift.Enum)
	testutil.ExpectTrue(t, isEnum)
}

func TestResolveIdempotent(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a.yaml": `
definitions:
  - typedef: {name: Ids, type: {list: i64}}
  - struct:
      name: S
      fields:
        - {id: 1, name: ids, type: Ids}
        - {id: 2, name: nested, type: {map: {key: string, value: {set: S}}}}
  - enum: {name: E, members: [X]}
  - const: {name: C, type: E, value: {ref: E.X}}
`,
	})
	g := load(t, filepath.Join(dir, "a.yaml"))
	schema, _ := g.Schema("a")

	inputs := []thrift.Node{
		thrift.Primitive_I32,
		schema.Structs["S"],
		schema.Enums["E"],
		schema.Constants["C"],
		schema.Structs["S"].Fields[0],
		schema.Structs["S"].Fields[1],
		&thrift.TypeRef{Name: thrift.QualifiedName("a", "Ids")},
		&thrift.ValueRef{Name: thrift.QualifiedName("a", "E.X")},
		&thrift.ListLiteral{Elems: []thrift.Literal{
			thrift.Int(1),
			&thrift.ValueRef{Name: thrift.LocalName("C")},
		}},
	}
	for _, input := range inputs {
		once, err := g.Resolve(input)
		testutil.AssertNoError(t, err)
		twice, err := g.Resolve(once)
		testutil.AssertNoError(t, err)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("Resolve is not idempotent for %#v: %#v != %#v", input, once, twice)
		}
	}

	for _, resolved := range []thrift.Node{
		thrift.Primitive_BINARY,
		schema.Structs["S"],
		schema.Enums["E"],
	} {
		got, err := g.Resolve(resolved)
		testutil.AssertNoError(t, err)
		testutil.ExpectTrue(t, got == resolved)
	}
}

func TestTypedefChain(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a.yaml": `
headers: [{include: b.yaml}]
definitions:
  - typedef: {name: Outer, type: b.Inner}
  - struct: {name: S, fields: [{id: 1, name: x, type: Outer}]}
`,
		"b.yaml": `
definitions:
  - typedef: {name: Inner, type: {list: Target}}
  - struct: {name: Target}
`,
	})
	g := load(t, filepath.Join(dir, "a.yaml"))
	schema, _ := g.Schema("a")

	field, err := g.ResolveField(schema.Structs["S"].Fields[0])
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "list<b.Target>", thrift.TypeString(field.Type))
	_, isStruct := field.Type.(*thrift.List).Elem.(*thrift.Struct)
	testutil.ExpectTrue(t, isStruct)

	// The schema's own field is not modified.
	testutil.ExpectEq(t, "a.Outer", thrift.TypeString(schema.Structs["S"].Fields[0].Type))
}

func TestResolveValue(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a.yaml": `
headers: [{include: b.yaml}]
definitions:
  - const: {name: LIMIT, type: i32, value: 10}
`,
		"b.yaml": "definitions: [{enum: {name: Color, members: [RED, GREEN]}}]",
	})
	g := load(t, filepath.Join(dir, "a.yaml"))

	got, err := g.ResolveValue(&thrift.MapLiteral{Entries: []thrift.MapEntry{{
		Key: &thrift.ValueRef{Name: thrift.LocalName("b.Color.GREEN")},
		Value: &thrift.ListLiteral{Elems: []thrift.Literal{
			&thrift.ValueRef{Name: thrift.LocalName("LIMIT")},
		}},
	}}})
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "{b.Color.GREEN: [a.LIMIT]}", thrift.LiteralString(got))
	entry := got.(*thrift.MapLiteral).Entries[0]
	testutil.ExpectEq(t, thrift.Literal(thrift.Int(1)), entry.Key.(*thrift.EnumMember).Value)

	_, err = g.ResolveValue(&thrift.ValueRef{Name: thrift.LocalName("b.Color")})
	testutil.AssertErrorCode(t, 5005, err)
	_, err = g.ResolveType(&thrift.TypeRef{Name: thrift.LocalName("LIMIT")})
	testutil.AssertErrorCode(t, 5004, err)
}

func TestCyclicTypedef(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a.yaml": "definitions: [{typedef: {name: X, type: Y}}, {typedef: {name: Y, type: {list: X}}}]",
	})
	g := load(t, filepath.Join(dir, "a.yaml"))
	_, err := g.ResolveName("X")
	testutil.AssertErrorCode(t, 5003, err)
}

func TestIncludeCycle(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"x.yaml": "headers: [{include: y.yaml}]\ndefinitions: [{struct: {name: X}}]",
		"y.yaml": "headers: [{include: x.yaml}]\ndefinitions: [{struct: {name: Y}}]",
	})
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	g := load(t, filepath.Join(dir, "x.yaml"), filegroup.WithLogger(logger))
	testutil.ExpectSliceEq(t, []string{"x", "y"}, modules(g))
	testutil.ExpectMatch(t, `msg="include already registered" module=x`, logs.String())

	_, err := g.ResolveName("y.Y")
	testutil.AssertNoError(t, err)
}

type countingParser struct {
	inner  filegroup.Parser
	parsed map[string]int
}

func (p *countingParser) ParseFile(path string) (*thrift.ParsedFile, error) {
	p.parsed[filepath.Base(path)]++
	return p.inner.ParseFile(path)
}

func TestSharedIncludeParsedOnce(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"top.yaml":    "headers: [{include: left.yaml}, {include: right.yaml}]",
		"left.yaml":   "headers: [{include: common.yaml}]",
		"right.yaml":  "headers: [{include: common.yaml}]",
		"common.yaml": "definitions: [{struct: {name: Shared}}]",
	})
	parser := &countingParser{inner: &compiler.FileParser{}, parsed: map[string]int{}}
	g := load(t, filepath.Join(dir, "top.yaml"), filegroup.WithParser(parser))
	testutil.ExpectSliceEq(t, []string{"top", "left", "common", "right"}, modules(g))
	testutil.ExpectEq(t, 1, parser.parsed["common.yaml"])

	again, err := g.Add(g.ParsedFiles()[0])
	testutil.AssertNoError(t, err)
	testutil.ExpectSliceEq(t, modules(g), modules(again))
	testutil.ExpectEq(t, 1, parser.parsed["common.yaml"])
}

func TestSearchPathFallback(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"main/app.yaml":     "headers: [{include: shared.yaml}, {include: lib.yaml}]",
		"main/shared.yaml":  "definitions: [{struct: {name: FromMain}}]",
		"libs1/shared.yaml": "definitions: [{struct: {name: FromLibs1}}]",
		"libs1/lib.yaml":    "definitions: [{struct: {name: FromLibs1}}]",
		"libs2/lib.yaml":    "definitions: [{struct: {name: FromLibs2}}]",
	})
	g := load(t,
		filepath.Join(dir, "main", "app.yaml"),
		filegroup.WithIncludePaths(filepath.Join(dir, "libs1"), filepath.Join(dir, "libs2")),
	)

	_, err := g.ResolveName("shared.FromMain")
	testutil.AssertNoError(t, err)
	_, err = g.ResolveName("lib.FromLibs1")
	testutil.AssertNoError(t, err)

	var paths []string
	for _, pf := range g.ParsedFiles() {
		rel, err := filepath.Rel(dir, pf.Path)
		testutil.AssertNoError(t, err)
		paths = append(paths, filepath.ToSlash(rel))
	}
	testutil.ExpectSliceEq(t, []string{
		"main/app.yaml", "main/shared.yaml", "libs1/lib.yaml",
	}, paths)
}

func TestMissingInclude(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a.yaml": "headers: [{include: nowhere.yaml}]",
	})
	_, err := filegroup.Load(filepath.Join(dir, "a.yaml"), filegroup.WithIncludePaths(filepath.Join(dir, "inc")))
	missing := testutil.AssertErrorCode(t, filegroup.CodeMissingIncludeFile, err).(*filegroup.Error)
	testutil.ExpectEq(t, "nowhere.yaml", missing.Symbol())
	testutil.ExpectMatch(t, `searched .*nowhere\.yaml, .*inc.*nowhere\.yaml`, missing.Message())

	_, err = filegroup.Load(filepath.Join(dir, "absent.yaml"))
	testutil.AssertErrorCode(t, filegroup.CodeMissingIncludeFile, err)
}

func TestModuleConflict(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a.yaml":     "headers: [{include: one/b.yaml}, {include: two/b.yaml}]",
		"one/b.yaml": "definitions: []",
		"two/b.yaml": "definitions: []",
	})
	_, err := filegroup.Load(filepath.Join(dir, "a.yaml"))
	testutil.AssertErrorCode(t, 5002, err)
}

func TestCheckCollectsAllErrors(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a.yaml": `
headers: [{include: b.yaml}]
definitions:
  - struct:
      name: S
      fields:
        - {id: 1, name: x, type: Missing}
        - {id: 2, name: y, type: b.Gone, default: {ref: b.NOPE}}
  - service:
      name: Svc
      extends: S
      functions:
        - {name: f, throws: [{id: 1, name: e, type: S}]}
`,
		"b.yaml": `
definitions:
  - const: {name: C, type: i32, value: {ref: UNKNOWN}}
`,
	})
	g := load(t, filepath.Join(dir, "a.yaml"))
	errs := g.Check()
	var codes []uint32
	var symbols []string
	for _, err := range errs {
		codes = append(codes, err.Code())
		symbols = append(symbols, err.Symbol())
	}
	testutil.ExpectSliceEq(t, []uint32{5000, 5000, 5000, 5006, 5007, 5000}, codes)
	testutil.ExpectSliceEq(t, []string{
		"a.Missing", "b.Gone", "b.NOPE", "a.Svc", "a.Svc.f.e", "b.UNKNOWN",
	}, symbols)
	testutil.ExpectEq(t, "field a.S.x", errs[0].Context())
	testutil.AssertError(t, errs.Err())
}

func TestCheckClean(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a.yaml": `
headers: [{include: b.yaml}]
definitions:
  - struct: {name: S, fields: [{id: 1, name: c, type: b.Color, default: {ref: b.Color.RED}}]}
  - exception: {name: Oops}
  - service:
      name: Svc
      extends: b.Base
      functions: [{name: f, returns: S, throws: [{id: 1, name: e, type: Oops}]}]
`,
		"b.yaml": `
definitions:
  - enum: {name: Color, members: [RED]}
  - service: {name: Base}
`,
	})
	g := load(t, filepath.Join(dir, "a.yaml"))
	errs := g.Check()
	testutil.ExpectEq(t, 0, len(errs))
	testutil.ExpectNoError(t, errs.Err())
}

func TestDuplicateSymbol(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a.yaml": "definitions: [{struct: {name: A}}, {enum: {name: A}}]",
	})
	_, err := filegroup.Load(filepath.Join(dir, "a.yaml"))
	err = testutil.AssertErrorCode(t, 5009, err)
	testutil.ExpectMatch(t, `'a\.A' is defined as both an enum and a struct$`, err.Error())
}

func TestIncludedEnumDefaults(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a.yaml": `
headers: [{include: b.yaml}]
definitions:
  - enum: {name: Tag, members: [BLUE]}
  - struct:
      name: S
      fields:
        - {id: 1, name: tag, type: b.Tag, default: {ref: Tag.RED}}
        - {id: 2, name: tags, type: {list: b.Tag}, default: [{ref: Tag.RED}, {ref: RED}]}
`,
		"b.yaml": "definitions: [{enum: {name: Tag, members: [RED]}}]",
	})
	g := load(t, filepath.Join(dir, "a.yaml"))
	errs := g.Check()
	testutil.ExpectEq(t, 0, len(errs))
	testutil.ExpectNoError(t, errs.Err())

	a, _ := g.Schema("a")
	b, _ := g.Schema("b")
	red := b.Enums["Tag"].Members[0]
	tag, err := g.ResolveValue(a.Structs["S"].Fields[0].Default)
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, tag == thrift.Literal(red))

	tags, err := g.ResolveValue(a.Structs["S"].Fields[1].Default)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "[b.Tag.RED, b.Tag.RED]", thrift.LiteralString(tags))
}

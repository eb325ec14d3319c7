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
	"go/format"
	"go/token"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.thriftc.org/thrift/codegen"
)

// goPackage is where the definitions of one IDL module are generated.
type goPackage struct {
	dir  []string
	name string
}

type generator struct {
	request      *codegen.Request
	importPrefix string
	packages     map[string]*goPackage
}

func newGenerator(request *codegen.Request) *generator {
	g := &generator{
		request:      request,
		importPrefix: strings.TrimSuffix(request.Options["import_prefix"], "/"),
		packages:     make(map[string]*goPackage, len(request.Files)),
	}
	for _, file := range request.Files {
		var dir []string
		if file.Namespace != "" {
			for _, segment := range strings.Split(file.Namespace, ".") {
				dir = append(dir, strings.ToLower(segment))
			}
		} else {
			dir = []string{strings.ToLower(file.Module)}
		}
		g.packages[file.Module] = &goPackage{
			dir:  dir,
			name: packageName(dir[len(dir)-1]),
		}
	}
	return g
}

func (g *generator) generate() ([]*codegen.OutputFile, error) {
	var out []*codegen.OutputFile
	for _, file := range g.request.Files {
		output, err := g.emitFile(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file.Path, err)
		}
		out = append(out, output)
	}
	return out, nil
}

func (g *generator) importPath(pkg *goPackage) string {
	path := strings.Join(pkg.dir, "/")
	if g.importPrefix == "" {
		return path
	}
	return g.importPrefix + "/" + path
}

type fileEmitter struct {
	g       *generator
	module  string
	pkg     *goPackage
	imports map[string]string // import path -> local name
	body    strings.Builder
}

func (g *generator) emitFile(file *codegen.File) (*codegen.OutputFile, error) {
	e := &fileEmitter{
		g:       g,
		module:  file.Module,
		pkg:     g.packages[file.Module],
		imports: make(map[string]string),
	}
	for _, enum := range file.Enums {
		e.emitEnum(enum)
	}
	for _, typedef := range file.Typedefs {
		e.linef("type %s = %s\n", e.localIdent(typedef.Name), e.goType(typedef.Type))
	}
	for _, constant := range file.Constants {
		e.emitConstant(constant)
	}
	for _, s := range file.Structs {
		e.emitStruct(s, false)
	}
	for _, s := range file.Unions {
		e.emitStruct(s, false)
	}
	for _, s := range file.Exceptions {
		e.emitStruct(s, true)
	}
	for _, service := range file.Services {
		e.emitService(service)
	}

	var src strings.Builder
	fmt.Fprintf(&src, "// Code generated by thriftc-codegen-go from %s. DO NOT EDIT.\n\n", file.Module)
	fmt.Fprintf(&src, "package %s\n\n", e.pkg.name)
	if len(e.imports) > 0 {
		src.WriteString("import (\n")
		for _, path := range slices.Sorted(maps.Keys(e.imports)) {
			base := path[strings.LastIndex(path, "/")+1:]
			if name := e.imports[path]; name != base {
				fmt.Fprintf(&src, "\t%s %q\n", name, path)
			} else {
				fmt.Fprintf(&src, "\t%q\n", path)
			}
		}
		src.WriteString(")\n\n")
	}
	src.WriteString(e.body.String())

	formatted, err := format.Source([]byte(src.String()))
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w", err)
	}
	path := append(slices.Clone(e.pkg.dir), file.Module+".thrift.go")
	return &codegen.OutputFile{Path: path, Content: string(formatted)}, nil
}

func (e *fileEmitter) linef(format string, args ...any) {
	fmt.Fprintf(&e.body, format, args...)
}

func (e *fileEmitter) emitEnum(enum *codegen.Enum) {
	name := e.localIdent(enum.Name)
	underlying := "int64"
	for _, member := range enum.Members {
		if member.Value.Kind == "string" {
			underlying = "string"
		}
	}
	e.linef("type %s %s\n\n", name, underlying)
	if len(enum.Members) == 0 {
		return
	}
	e.linef("const (\n")
	for _, member := range enum.Members {
		e.linef("\t%s_%s %s = %s\n", name, member.Name, name, e.goValue(member.Value, nil))
	}
	e.linef(")\n\n")
}

func (e *fileEmitter) emitConstant(constant *codegen.Constant) {
	keyword := "var"
	if isScalar(constant.Type) {
		keyword = "const"
	}
	e.linef("%s %s %s = %s\n\n",
		keyword,
		e.localIdent(constant.Name),
		e.goType(constant.Type),
		e.goValue(constant.Value, constant.Type),
	)
}

func (e *fileEmitter) emitStruct(s *codegen.Struct, exception bool) {
	name := e.localIdent(s.Name)
	e.linef("type %s struct {\n", name)
	for _, field := range s.Fields {
		e.linef("\t%s %s `thrift:\"%s,%d", fieldIdent(field.Name), e.fieldType(field), field.Name, field.ID)
		if field.Requiredness != "default" {
			e.linef(",%s", field.Requiredness)
		}
		e.linef("\"`\n")
	}
	e.linef("}\n\n")

	var defaults []*codegen.Field
	for _, field := range s.Fields {
		if field.Default != nil && !isPointerField(field) {
			defaults = append(defaults, field)
		}
	}
	if len(defaults) > 0 {
		e.linef("func New%s() *%s {\n\treturn &%s{\n", name, name, name)
		for _, field := range defaults {
			e.linef("\t\t%s: %s,\n", fieldIdent(field.Name), e.goValue(field.Default, field.Type))
		}
		e.linef("\t}\n}\n\n")
	}
	if exception {
		e.linef("func (*%s) Error() string {\n\treturn %q\n}\n\n", name, s.Name)
	}
}

func (e *fileEmitter) emitService(service *codegen.Service) {
	e.imports["context"] = "context"
	e.linef("type %s interface {\n", e.localIdent(service.Name))
	if service.Extends != nil {
		e.linef("\t%s\n", e.namedType(service.Extends.Name))
	}
	for _, fn := range service.Functions {
		params := []string{"ctx context.Context"}
		for _, param := range fn.Params {
			params = append(params, paramIdent(param.Name)+" "+e.fieldType(param))
		}
		result := "error"
		if !(fn.Returns.Kind == "primitive" && fn.Returns.Name == "void") {
			result = "(" + e.resultType(fn.Returns) + ", error)"
		}
		for _, throws := range fn.Throws {
			e.linef("\t// Throws %s on %s.\n", e.goType(throws.Type), throws.Name)
		}
		if fn.Oneway {
			e.linef("\t// Oneway.\n")
		}
		e.linef("\t%s(%s) %s\n", fieldIdent(fn.Name), strings.Join(params, ", "), result)
	}
	e.linef("}\n\n")
}

func (e *fileEmitter) resultType(t *codegen.Type) string {
	switch t.Kind {
	case "struct", "union", "exception":
		return "*" + e.goType(t)
	}
	return e.goType(t)
}

func (e *fileEmitter) fieldType(field *codegen.Field) string {
	t := e.goType(field.Type)
	if isPointerField(field) {
		return "*" + t
	}
	return t
}

// isPointerField reports whether a field is generated as a pointer:
// optional scalars, so that unset differs from zero, and named records,
// which may refer to themselves.
func isPointerField(field *codegen.Field) bool {
	switch field.Type.Kind {
	case "struct", "union", "exception":
		return true
	case "primitive", "enum":
		return field.Requiredness == "optional" && field.Type.Name != "binary"
	}
	return false
}

func isScalar(t *codegen.Type) bool {
	return t.Kind == "enum" || (t.Kind == "primitive" && t.Name != "binary")
}

var primitiveTypes = map[string]string{
	"bool":   "bool",
	"byte":   "int8",
	"i8":     "int8",
	"i16":    "int16",
	"i32":    "int32",
	"i64":    "int64",
	"double": "float64",
	"string": "string",
	"binary": "[]byte",
}

func (e *fileEmitter) goType(t *codegen.Type) string {
	switch t.Kind {
	case "primitive":
		if name, ok := primitiveTypes[t.Name]; ok {
			return name
		}
		return "struct{}"
	case "list":
		return "[]" + e.goType(t.Elem)
	case "set":
		return "map[" + e.goType(t.Elem) + "]struct{}"
	case "map":
		return "map[" + e.goType(t.Key) + "]" + e.goType(t.Value)
	}
	return e.namedType(t.Name)
}

// namedType refers to a definition, qualified by its package when it is
// generated elsewhere.
func (e *fileEmitter) namedType(name string) string {
	module, local, _ := strings.Cut(name, ".")
	if module == e.module {
		return exportIdent(local)
	}
	pkg, ok := e.g.packages[module]
	if !ok || slices.Equal(pkg.dir, e.pkg.dir) {
		return exportIdent(local)
	}
	return e.importName(pkg) + "." + exportIdent(local)
}

func (e *fileEmitter) importName(pkg *goPackage) string {
	path := e.g.importPath(pkg)
	if name, ok := e.imports[path]; ok {
		return name
	}
	name := pkg.name
	taken := func(candidate string) bool {
		for _, other := range e.imports {
			if other == candidate {
				return true
			}
		}
		return candidate == e.pkg.name
	}
	for ii := 2; taken(name); ii++ {
		name = pkg.name + strconv.Itoa(ii)
	}
	e.imports[path] = name
	return name
}

func (e *fileEmitter) goValue(v *codegen.Value, t *codegen.Type) string {
	switch v.Kind {
	case "bool":
		return strconv.FormatBool(*v.Bool)
	case "int":
		return strconv.FormatInt(*v.Int, 10)
	case "double":
		return strconv.FormatFloat(*v.Double, 'g', -1, 64)
	case "string":
		if t != nil && t.Kind == "primitive" && t.Name == "binary" {
			return "[]byte(" + strconv.Quote(*v.String) + ")"
		}
		return strconv.Quote(*v.String)
	case "const":
		return e.namedType(v.Name)
	case "enum_member":
		// "module.Enum.MEMBER"
		enum, member, _ := strings.Cut(v.Name[strings.Index(v.Name, ".")+1:], ".")
		module, _, _ := strings.Cut(v.Name, ".")
		return e.namedType(module+"."+enum) + "_" + member
	case "list", "set":
		var elemType *codegen.Type
		if t != nil {
			elemType = t.Elem
		}
		elems := make([]string, 0, len(v.Elems))
		for _, elem := range v.Elems {
			if v.Kind == "set" {
				elems = append(elems, e.goValue(elem, elemType)+": {}")
			} else {
				elems = append(elems, e.goValue(elem, elemType))
			}
		}
		return e.containerType(v, t) + "{" + strings.Join(elems, ", ") + "}"
	case "map":
		var keyType, valueType *codegen.Type
		if t != nil {
			keyType, valueType = t.Key, t.Value
		}
		entries := make([]string, 0, len(v.Entries))
		for _, entry := range v.Entries {
			entries = append(entries, e.goValue(entry.Key, keyType)+": "+e.goValue(entry.Value, valueType))
		}
		return e.containerType(v, t) + "{" + strings.Join(entries, ", ") + "}"
	}
	panic("unreachable")
}

func (e *fileEmitter) containerType(v *codegen.Value, t *codegen.Type) string {
	if t != nil && t.Kind == v.Kind {
		return e.goType(t)
	}
	switch v.Kind {
	case "list":
		return "[]any"
	case "set":
		return "map[any]struct{}"
	}
	return "map[any]any"
}

// localIdent is the Go name of a definition in the current file.
func (e *fileEmitter) localIdent(name string) string {
	_, local, _ := strings.Cut(name, ".")
	return exportIdent(local)
}

// exportIdent upper-cases the first letter and keeps the rest, so that
// "INT32CONSTANT" and "DEFAULT_OP" survive unchanged.
func exportIdent(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// fieldIdent turns "int_value" into "IntValue".
func fieldIdent(name string) string {
	var buf strings.Builder
	for _, part := range strings.Split(name, "_") {
		buf.WriteString(exportIdent(part))
	}
	if buf.Len() == 0 {
		return "X"
	}
	return buf.String()
}

func paramIdent(name string) string {
	if token.IsKeyword(name) || name == "ctx" {
		return name + "_"
	}
	return name
}

func packageName(segment string) string {
	var buf strings.Builder
	for _, r := range segment {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			buf.WriteRune(unicode.ToLower(r))
		}
	}
	if buf.Len() == 0 || !unicode.IsLetter([]rune(buf.String())[0]) {
		return "thrift" + buf.String()
	}
	return buf.String()
}

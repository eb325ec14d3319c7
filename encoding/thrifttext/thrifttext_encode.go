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

// Package thrifttext renders a resolved file group as indented text.
//
// The output is deterministic: files appear in registration order and
// definitions are grouped by kind and sorted by name. Every type and
// value is shown after resolution, alongside its destination module.
package thrifttext

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.thriftc.org/thrift"
	"go.thriftc.org/thrift/filegroup"
)

func Encode(g *filegroup.FileGroup) (string, error) {
	var buf strings.Builder
	if err := EncodeTo(g, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func EncodeTo(g *filegroup.FileGroup, w io.Writer) error {
	e := encoder{w: w}
	for _, pf := range g.ParsedFiles() {
		if e.err != nil {
			break
		}
		e.g = g.SetCurrentModule(pf.Identity())
		e.visitFile(pf)
	}
	return e.err
}

type encoder struct {
	w      io.Writer
	g      *filegroup.FileGroup
	indent int
	err    error
}

func (e *encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *encoder) line(s string) {
	if e.err != nil {
		return
	}
	if indent := strings.Repeat("\t", e.indent); indent != "" {
		if _, err := io.WriteString(e.w, indent); err != nil {
			e.fail(err)
			return
		}
	}
	if _, err := io.WriteString(e.w, s); err != nil {
		e.fail(err)
		return
	}
	if _, err := io.WriteString(e.w, "\n"); err != nil {
		e.fail(err)
	}
}

func (e *encoder) linef(format string, a ...any) {
	e.line(fmt.Sprintf(format, a...))
}

func (e *encoder) open(format string, a ...any) {
	e.linef(format+" {", a...)
	e.indent += 1
}

func (e *encoder) close() {
	e.indent -= 1
	e.line("}")
}

func (e *encoder) visitFile(pf *thrift.ParsedFile) {
	schema := pf.Schema
	e.open("file %s", quote(filepath.ToSlash(filepath.Base(pf.Path))))
	e.linef("module = %s", quote(schema.Module))
	for _, ns := range thrift.Sorted(schema.Namespaces) {
		e.linef("namespace %s = %s", ns.Target, quote(ns.Path))
	}
	for _, include := range schema.Includes {
		e.linef("include = %s", quote(include.Path))
	}
	for def := range schema.Definitions() {
		if e.err != nil {
			return
		}
		e.visitDefinition(def)
	}
	e.close()
}

func (e *encoder) visitDefinition(def thrift.Definition) {
	switch def := def.(type) {
	case *thrift.Constant:
		e.open("const %s", def.Name)
		e.dest(def)
		e.linef("own = %s", fmtBool(e.g.OwnConstant(def)))
		e.linef("type = %s", e.fmtType(def.Type))
		e.linef("value = %s", e.fmtValue(def.Value))
		e.close()
	case *thrift.Enum:
		e.open("enum %s", def.Name)
		e.dest(def)
		for _, member := range def.Members {
			e.linef("item %s = %s", member.Member, thrift.LiteralString(member.Value))
		}
		e.close()
	case *thrift.TypeAlias:
		e.open("typedef %s", def.Name)
		e.dest(def)
		e.linef("type = %s", e.fmtType(def.Type))
		e.close()
	case *thrift.Struct:
		e.open("struct %s", def.Name)
		e.dest(def)
		e.visitFields("field", def.Fields)
		e.close()
	case *thrift.Union:
		e.open("union %s", def.Name)
		e.dest(def)
		e.visitFields("field", def.Fields)
		e.close()
	case *thrift.Exception:
		e.open("exception %s", def.Name)
		e.dest(def)
		e.visitFields("field", def.Fields)
		e.close()
	case *thrift.Service:
		e.open("service %s", def.Name)
		e.dest(def)
		if def.Extends != (thrift.Name{}) {
			e.linef("extends = %s", def.Extends)
		}
		for _, fn := range def.Functions {
			e.open("function %s", fn.Name)
			if fn.Oneway {
				e.line("oneway = .true")
			}
			e.linef("returns = %s", e.fmtType(fn.ReturnType))
			e.visitFields("param", fn.Params)
			e.visitFields("throws", fn.Throws)
			e.close()
		}
		e.close()
	default:
		panic("unreachable")
	}
}

func (e *encoder) dest(node thrift.Node) {
	dest, err := e.g.DestModule(node)
	if err != nil {
		e.fail(err)
		return
	}
	e.linef("dest = %s", quote(dest))
}

func (e *encoder) visitFields(label string, fields []*thrift.Field) {
	for _, field := range fields {
		e.open("%s %d %s", label, field.ID, field.Name)
		e.linef("type = %s", e.fmtType(field.Type))
		e.linef("requiredness = .%s", field.Requiredness)
		if field.Default != nil {
			e.linef("default = %s", e.fmtValue(field.Default))
		}
		e.close()
	}
}

func (e *encoder) fmtType(t thrift.Type) string {
	resolved, err := e.g.ResolveType(t)
	if err != nil {
		e.fail(err)
		return thrift.TypeString(t)
	}
	return thrift.TypeString(resolved)
}

func (e *encoder) fmtValue(lit thrift.Literal) string {
	resolved, err := e.g.ResolveValue(lit)
	if err != nil {
		e.fail(err)
		return thrift.LiteralString(lit)
	}
	return thrift.LiteralString(resolved)
}

func fmtBool(value bool) string {
	if value {
		return ".true"
	}
	return ".false"
}

func quote(text string) string {
	var buf strings.Builder
	buf.WriteByte('"')
	for _, c := range text {
		if c == '\\' || c == '"' {
			buf.WriteByte('\\')
			buf.WriteRune(c)
			continue
		}
		if c == '\t' {
			buf.WriteString("\\t")
			continue
		}
		if c == '\n' {
			buf.WriteString("\\n")
			continue
		}
		if c < 0x20 || c == 0x7F {
			fmt.Fprintf(&buf, "\\x%02X", c)
			continue
		}
		buf.WriteRune(c)
	}
	buf.WriteByte('"')
	return buf.String()
}

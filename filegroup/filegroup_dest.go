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

package filegroup

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.thriftc.org/thrift"
)

// DestModule returns the output module a definition is generated into.
//
// Named definitions use [FileGroup.DestModuleName]. Constants live in
// their file's constants module, enum items in their enum's module, and
// fields in the module of their type. References are resolved first.
func (g *FileGroup) DestModule(node thrift.Node) (string, error) {
	switch node := node.(type) {
	case *thrift.Constant:
		return g.constantsDestModule(node.Name.Module), nil
	case *thrift.EnumMember:
		return g.DestModuleName(node.Enum), nil
	case *thrift.Enum:
		return g.DestModuleName(node.Name), nil
	case *thrift.Struct:
		return g.DestModuleName(node.Name), nil
	case *thrift.Union:
		return g.DestModuleName(node.Name), nil
	case *thrift.Exception:
		return g.DestModuleName(node.Name), nil
	case *thrift.Service:
		return g.DestModuleName(node.Name), nil
	case *thrift.TypeAlias:
		return g.DestModuleName(node.Name), nil
	case *thrift.TypeRef, *thrift.ValueRef:
		resolved, err := g.Resolve(node)
		if err != nil {
			return "", err
		}
		return g.DestModule(resolved)
	case *thrift.Field:
		return g.DestModule(node.Type)
	}
	return "", errNoDestModule(node)
}

// DestModuleName maps a qualified name to its output module: the
// module's namespace path with each segment camel-cased, followed by the
// local name with its first letter upper-cased. Without a namespace only
// the local name remains.
func (g *FileGroup) DestModuleName(name thrift.Name) string {
	local := initialCase(name.Local)
	ns, ok := g.namespaces[name.Module]
	if !ok || ns.Path == "" {
		return local
	}
	segments := strings.Split(ns.Path, ".")
	parts := make([]string, 0, len(segments)+1)
	for _, segment := range segments {
		parts = append(parts, camelize(segment))
	}
	parts = append(parts, local)
	return strings.Join(parts, ".")
}

// ConstantsDestModule is the output module holding the initial file's
// constants.
func (g *FileGroup) ConstantsDestModule() string {
	return g.constantsDestModule(g.InitialModule())
}

// constantsDestModule homes a file's constants under its camel-cased
// module name. If the file already defines something whose name differs
// from that only in case, its spelling is used instead.
func (g *FileGroup) constantsDestModule(module string) string {
	local := camelize(module)
	if schema, ok := g.Schema(module); ok {
		for def := range schema.Definitions() {
			if _, isConst := def.(*thrift.Constant); isConst {
				continue
			}
			candidate := localName(def)
			if candidate != local && strings.EqualFold(candidate, local) {
				local = candidate
				break
			}
		}
	}
	return g.DestModuleName(thrift.QualifiedName(module, local))
}

// OwnConstant reports whether a constant is declared by the initial file
// itself rather than by a file it includes.
func (g *FileGroup) OwnConstant(constant *thrift.Constant) bool {
	schema, ok := g.Schema(g.InitialModule())
	if !ok {
		return false
	}
	own, ok := schema.Constants[constant.Name.Local]
	return ok && own.Name == constant.Name
}

func localName(def thrift.Definition) string {
	switch def := def.(type) {
	case *thrift.Enum:
		return def.Name.Local
	case *thrift.Struct:
		return def.Name.Local
	case *thrift.Union:
		return def.Name.Local
	case *thrift.Exception:
		return def.Name.Local
	case *thrift.Service:
		return def.Name.Local
	case *thrift.TypeAlias:
		return def.Name.Local
	}
	return ""
}

func initialCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// camelize turns "weather_report" into "WeatherReport".
func camelize(s string) string {
	var buf strings.Builder
	for _, part := range strings.Split(s, "_") {
		buf.WriteString(initialCase(part))
	}
	return buf.String()
}

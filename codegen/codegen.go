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

// Package codegen hands a resolved file group to code generator plugins.
//
// A [Request] is a self-contained JSON view of every registered file:
// all references are resolved and every named definition carries the
// output module it belongs in, so plugins need no resolver of their own.
// Plugins are WebAssembly modules run by [RunPlugin].
package codegen

import (
	"go.thriftc.org/thrift"
	"go.thriftc.org/thrift/filegroup"
)

type Request struct {
	Target          string            `json:"target"`
	InitialModule   string            `json:"initial_module"`
	ConstantsModule string            `json:"constants_module"`
	Files           []*File           `json:"files"`
	Options         map[string]string `json:"options,omitempty"`
}

type File struct {
	Path       string      `json:"path"`
	Module     string      `json:"module"`
	Namespace  string      `json:"namespace,omitempty"`
	Includes   []string    `json:"includes,omitempty"`
	Constants  []*Constant `json:"constants,omitempty"`
	Enums      []*Enum     `json:"enums,omitempty"`
	Typedefs   []*Typedef  `json:"typedefs,omitempty"`
	Structs    []*Struct   `json:"structs,omitempty"`
	Unions     []*Struct   `json:"unions,omitempty"`
	Exceptions []*Struct   `json:"exceptions,omitempty"`
	Services   []*Service  `json:"services,omitempty"`
}

type Constant struct {
	Name       string `json:"name"`
	DestModule string `json:"dest_module"`
	// Own is set for constants declared by the initial file.
	Own   bool   `json:"own"`
	Type  *Type  `json:"type"`
	Value *Value `json:"value"`
}

type Enum struct {
	Name       string        `json:"name"`
	DestModule string        `json:"dest_module"`
	Members    []*EnumMember `json:"members"`
}

type EnumMember struct {
	Name  string `json:"name"`
	Value *Value `json:"value"`
}

type Typedef struct {
	Name       string `json:"name"`
	DestModule string `json:"dest_module"`
	Type       *Type  `json:"type"`
}

// Struct describes a struct, union or exception.
type Struct struct {
	Name       string   `json:"name"`
	DestModule string   `json:"dest_module"`
	Fields     []*Field `json:"fields"`
}

type Field struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Requiredness string `json:"requiredness"`
	Type         *Type  `json:"type"`
	Default      *Value `json:"default,omitempty"`
}

type Service struct {
	Name       string      `json:"name"`
	DestModule string      `json:"dest_module"`
	Extends    *Type       `json:"extends,omitempty"`
	Functions  []*Function `json:"functions"`
}

type Function struct {
	Name    string   `json:"name"`
	Oneway  bool     `json:"oneway,omitempty"`
	Returns *Type    `json:"returns"`
	Params  []*Field `json:"params,omitempty"`
	Throws  []*Field `json:"throws,omitempty"`
}

// Type is a resolved type. Kind is "primitive", "list", "set", "map",
// "enum", "struct", "union", "exception" or "service"; named kinds carry
// the qualified name and its destination module.
type Type struct {
	Kind       string `json:"kind"`
	Name       string `json:"name,omitempty"`
	DestModule string `json:"dest_module,omitempty"`
	Elem       *Type  `json:"elem,omitempty"`
	Key        *Type  `json:"key,omitempty"`
	Value      *Type  `json:"value,omitempty"`
}

// Value is a resolved literal. Kind is "bool", "int", "double", "string",
// "list", "set", "map", "const" or "enum_member".
type Value struct {
	Kind       string      `json:"kind"`
	Bool       *bool       `json:"bool,omitempty"`
	Int        *int64      `json:"int,omitempty"`
	Double     *float64    `json:"double,omitempty"`
	String     *string     `json:"string,omitempty"`
	Elems      []*Value    `json:"elems,omitempty"`
	Entries    []*MapEntry `json:"entries,omitempty"`
	Name       string      `json:"name,omitempty"`
	DestModule string      `json:"dest_module,omitempty"`
}

type MapEntry struct {
	Key   *Value `json:"key"`
	Value *Value `json:"value"`
}

type RequestOption interface {
	apply(*Request)
}

type requestOption func(*Request)

func (f requestOption) apply(req *Request) { f(req) }

// WithPluginOptions passes free-form key/value settings to the plugin.
func WithPluginOptions(options map[string]string) RequestOption {
	return requestOption(func(req *Request) {
		if req.Options == nil {
			req.Options = make(map[string]string, len(options))
		}
		for k, v := range options {
			req.Options[k] = v
		}
	})
}

// BuildRequest resolves every definition of every file in g. Each file is
// resolved under its own module view. The first resolution failure is
// returned; run [filegroup.FileGroup.Check] first to see all of them.
func BuildRequest(g *filegroup.FileGroup, opts ...RequestOption) (*Request, error) {
	req := &Request{
		Target:          g.Target(),
		InitialModule:   g.InitialModule(),
		ConstantsModule: g.ConstantsDestModule(),
	}
	for _, opt := range opts {
		opt.apply(req)
	}
	for _, pf := range g.ParsedFiles() {
		b := &builder{g: g.SetCurrentModule(pf.Identity())}
		file, err := b.file(pf)
		if err != nil {
			return nil, err
		}
		req.Files = append(req.Files, file)
	}
	return req, nil
}

type builder struct {
	g *filegroup.FileGroup
}

func (b *builder) file(pf *thrift.ParsedFile) (*File, error) {
	schema := pf.Schema
	file := &File{
		Path:   pf.Path,
		Module: schema.Module,
	}
	if ns, ok := b.g.Namespace(schema.Module); ok {
		file.Namespace = ns.Path
	}
	for _, include := range schema.Includes {
		file.Includes = append(file.Includes, include.Path)
	}
	for def := range schema.Definitions() {
		if err := b.definition(file, def); err != nil {
			return nil, err
		}
	}
	return file, nil
}

func (b *builder) definition(file *File, def thrift.Definition) error {
	dest, err := b.g.DestModule(def)
	if err != nil {
		return err
	}
	switch def := def.(type) {
	case *thrift.Constant:
		t, err := b.typ(def.Type)
		if err != nil {
			return err
		}
		v, err := b.value(def.Value)
		if err != nil {
			return err
		}
		file.Constants = append(file.Constants, &Constant{
			Name:       def.Name.String(),
			DestModule: dest,
			Own:        b.g.OwnConstant(def),
			Type:       t,
			Value:      v,
		})
	case *thrift.Enum:
		enum := &Enum{Name: def.Name.String(), DestModule: dest}
		for _, member := range def.Members {
			v, err := b.value(member.Value)
			if err != nil {
				return err
			}
			enum.Members = append(enum.Members, &EnumMember{Name: member.Member, Value: v})
		}
		file.Enums = append(file.Enums, enum)
	case *thrift.TypeAlias:
		t, err := b.typ(def.Type)
		if err != nil {
			return err
		}
		file.Typedefs = append(file.Typedefs, &Typedef{
			Name:       def.Name.String(),
			DestModule: dest,
			Type:       t,
		})
	case *thrift.Struct:
		s, err := b.fieldOwner(def.Name, dest, def.Fields)
		if err != nil {
			return err
		}
		file.Structs = append(file.Structs, s)
	case *thrift.Union:
		s, err := b.fieldOwner(def.Name, dest, def.Fields)
		if err != nil {
			return err
		}
		file.Unions = append(file.Unions, s)
	case *thrift.Exception:
		s, err := b.fieldOwner(def.Name, dest, def.Fields)
		if err != nil {
			return err
		}
		file.Exceptions = append(file.Exceptions, s)
	case *thrift.Service:
		s, err := b.service(def, dest)
		if err != nil {
			return err
		}
		file.Services = append(file.Services, s)
	default:
		panic("unreachable")
	}
	return nil
}

func (b *builder) fieldOwner(name thrift.Name, dest string, fields []*thrift.Field) (*Struct, error) {
	out, err := b.fields(fields)
	if err != nil {
		return nil, err
	}
	return &Struct{Name: name.String(), DestModule: dest, Fields: out}, nil
}

func (b *builder) fields(fields []*thrift.Field) ([]*Field, error) {
	out := make([]*Field, 0, len(fields))
	for _, field := range fields {
		resolved, err := b.g.ResolveField(field)
		if err != nil {
			return nil, err
		}
		t, err := b.typ(resolved.Type)
		if err != nil {
			return nil, err
		}
		var def *Value
		if field.Default != nil {
			if def, err = b.value(field.Default); err != nil {
				return nil, err
			}
		}
		out = append(out, &Field{
			ID:           field.ID,
			Name:         field.Name,
			Requiredness: field.Requiredness.String(),
			Type:         t,
			Default:      def,
		})
	}
	return out, nil
}

func (b *builder) service(def *thrift.Service, dest string) (*Service, error) {
	out := &Service{Name: def.Name.String(), DestModule: dest}
	if def.Extends != (thrift.Name{}) {
		parent, err := b.g.ResolveName(def.Extends.String())
		if err != nil {
			return nil, err
		}
		parentDest, err := b.g.DestModule(parent)
		if err != nil {
			return nil, err
		}
		out.Extends = &Type{Kind: "service", Name: def.Extends.String(), DestModule: parentDest}
	}
	for _, fn := range def.Functions {
		returns, err := b.typ(fn.ReturnType)
		if err != nil {
			return nil, err
		}
		params, err := b.fields(fn.Params)
		if err != nil {
			return nil, err
		}
		throws, err := b.fields(fn.Throws)
		if err != nil {
			return nil, err
		}
		out.Functions = append(out.Functions, &Function{
			Name:    fn.Name,
			Oneway:  fn.Oneway,
			Returns: returns,
			Params:  params,
			Throws:  throws,
		})
	}
	return out, nil
}

func (b *builder) typ(t thrift.Type) (*Type, error) {
	resolved, err := b.g.ResolveType(t)
	if err != nil {
		return nil, err
	}
	return b.resolvedType(resolved)
}

func (b *builder) resolvedType(t thrift.Type) (*Type, error) {
	switch t := t.(type) {
	case thrift.Primitive:
		return &Type{Kind: "primitive", Name: t.String()}, nil
	case *thrift.List:
		elem, err := b.resolvedType(t.Elem)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: "list", Elem: elem}, nil
	case *thrift.Set:
		elem, err := b.resolvedType(t.Elem)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: "set", Elem: elem}, nil
	case *thrift.Map:
		key, err := b.resolvedType(t.Key)
		if err != nil {
			return nil, err
		}
		value, err := b.resolvedType(t.Value)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: "map", Key: key, Value: value}, nil
	case *thrift.Enum:
		return b.namedType("enum", t, t.Name)
	case *thrift.Struct:
		return b.namedType("struct", t, t.Name)
	case *thrift.Union:
		return b.namedType("union", t, t.Name)
	case *thrift.Exception:
		return b.namedType("exception", t, t.Name)
	}
	panic("unreachable")
}

func (b *builder) namedType(kind string, node thrift.Node, name thrift.Name) (*Type, error) {
	dest, err := b.g.DestModule(node)
	if err != nil {
		return nil, err
	}
	return &Type{Kind: kind, Name: name.String(), DestModule: dest}, nil
}

func (b *builder) value(lit thrift.Literal) (*Value, error) {
	resolved, err := b.g.ResolveValue(lit)
	if err != nil {
		return nil, err
	}
	return b.resolvedValue(resolved)
}

func (b *builder) resolvedValue(lit thrift.Literal) (*Value, error) {
	switch lit := lit.(type) {
	case nil:
		return nil, nil
	case thrift.Bool:
		v := bool(lit)
		return &Value{Kind: "bool", Bool: &v}, nil
	case thrift.Int:
		v := int64(lit)
		return &Value{Kind: "int", Int: &v}, nil
	case thrift.Double:
		v := float64(lit)
		return &Value{Kind: "double", Double: &v}, nil
	case thrift.String:
		v := string(lit)
		return &Value{Kind: "string", String: &v}, nil
	case *thrift.ListLiteral:
		elems, err := b.resolvedValues(lit.Elems)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: "list", Elems: elems}, nil
	case *thrift.SetLiteral:
		elems, err := b.resolvedValues(lit.Elems)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: "set", Elems: elems}, nil
	case *thrift.MapLiteral:
		out := &Value{Kind: "map"}
		for _, entry := range lit.Entries {
			key, err := b.resolvedValue(entry.Key)
			if err != nil {
				return nil, err
			}
			value, err := b.resolvedValue(entry.Value)
			if err != nil {
				return nil, err
			}
			out.Entries = append(out.Entries, &MapEntry{Key: key, Value: value})
		}
		return out, nil
	case *thrift.Constant:
		return b.namedValue("const", lit, lit.Name)
	case *thrift.EnumMember:
		return b.namedValue("enum_member", lit, lit.Name())
	}
	panic("unreachable")
}

func (b *builder) resolvedValues(lits []thrift.Literal) ([]*Value, error) {
	out := make([]*Value, 0, len(lits))
	for _, lit := range lits {
		v, err := b.resolvedValue(lit)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (b *builder) namedValue(kind string, node thrift.Node, name thrift.Name) (*Value, error) {
	dest, err := b.g.DestModule(node)
	if err != nil {
		return nil, err
	}
	return &Value{Kind: kind, Name: name.String(), DestModule: dest}, nil
}

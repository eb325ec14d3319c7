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

package thrift

type Kind uint8

const (
	Kind_UNKNOWN Kind = iota
	Kind_NAMESPACE
	Kind_INCLUDE
	Kind_CONSTANT
	Kind_ENUM
	Kind_FIELD
	Kind_EXCEPTION
	Kind_STRUCT
	Kind_UNION
	Kind_FUNCTION
	Kind_SERVICE
	Kind_TYPE_ALIAS
)

func (k Kind) String() string {
	switch k {
	case Kind_NAMESPACE:
		return "namespace"
	case Kind_INCLUDE:
		return "include"
	case Kind_CONSTANT:
		return "const"
	case Kind_ENUM:
		return "enum"
	case Kind_FIELD:
		return "field"
	case Kind_EXCEPTION:
		return "exception"
	case Kind_STRUCT:
		return "struct"
	case Kind_UNION:
		return "union"
	case Kind_FUNCTION:
		return "function"
	case Kind_SERVICE:
		return "service"
	case Kind_TYPE_ALIAS:
		return "typedef"
	default:
		return "unknown"
	}
}

// Definition is implemented by every declaration kind that can appear in
// a Schema.
type Definition interface {
	Node
	Kind() Kind
	DefinitionName() string
}

// Namespace declares the output package for one target language.
type Namespace struct {
	Target string
	Path   string
}

type Include struct {
	Path string
}

type Constant struct {
	Name  Name
	Type  Type
	Value Literal
}

type Enum struct {
	Name    Name
	Members []*EnumMember
}

// EnumMember is both an enum's item and the literal a reference to that
// item resolves to.
type EnumMember struct {
	Enum   Name
	Member string
	Value  Literal
}

// Name returns the member's name in the form "Enum.MEMBER", qualified by
// the enum's module.
func (m *EnumMember) Name() Name {
	return Name{Module: m.Enum.Module, Local: m.Enum.Local + "." + m.Member}
}

// Member looks up an enum item by its unqualified name.
func (e *Enum) Member(name string) (*EnumMember, bool) {
	for _, member := range e.Members {
		if member.Member == name {
			return member, true
		}
	}
	return nil, false
}

type Field struct {
	ID           int64
	Name         string
	Type         Type
	Requiredness Requiredness
	Default      Literal
}

type Struct struct {
	Name   Name
	Fields []*Field
}

type Union struct {
	Name   Name
	Fields []*Field
}

type Exception struct {
	Name   Name
	Fields []*Field
}

type Function struct {
	Name       string
	Oneway     bool
	ReturnType Type
	Params     []*Field
	Throws     []*Field
}

// Service is a named set of functions. A zero Extends means the service
// has no parent.
type Service struct {
	Name      Name
	Extends   Name
	Functions []*Function
}

type TypeAlias struct {
	Name Name
	Type Type
}

func (*Namespace) thriftNode()  {}
func (*Include) thriftNode()    {}
func (*Constant) thriftNode()   {}
func (*Enum) thriftNode()       {}
func (*EnumMember) thriftNode() {}
func (*Field) thriftNode()      {}
func (*Struct) thriftNode()     {}
func (*Union) thriftNode()      {}
func (*Exception) thriftNode()  {}
func (*Function) thriftNode()   {}
func (*Service) thriftNode()    {}
func (*TypeAlias) thriftNode()  {}

func (*Namespace) Kind() Kind { return Kind_NAMESPACE }
func (*Include) Kind() Kind   { return Kind_INCLUDE }
func (*Constant) Kind() Kind  { return Kind_CONSTANT }
func (*Enum) Kind() Kind      { return Kind_ENUM }
func (*Field) Kind() Kind     { return Kind_FIELD }
func (*Exception) Kind() Kind { return Kind_EXCEPTION }
func (*Struct) Kind() Kind    { return Kind_STRUCT }
func (*Union) Kind() Kind     { return Kind_UNION }
func (*Function) Kind() Kind  { return Kind_FUNCTION }
func (*Service) Kind() Kind   { return Kind_SERVICE }
func (*TypeAlias) Kind() Kind { return Kind_TYPE_ALIAS }

func (d *Namespace) DefinitionName() string { return d.Target }
func (d *Include) DefinitionName() string   { return d.Path }
func (d *Constant) DefinitionName() string  { return d.Name.String() }
func (d *Enum) DefinitionName() string      { return d.Name.String() }
func (d *Field) DefinitionName() string     { return d.Name }
func (d *Exception) DefinitionName() string { return d.Name.String() }
func (d *Struct) DefinitionName() string    { return d.Name.String() }
func (d *Union) DefinitionName() string     { return d.Name.String() }
func (d *Function) DefinitionName() string  { return d.Name }
func (d *Service) DefinitionName() string   { return d.Name.String() }
func (d *TypeAlias) DefinitionName() string { return d.Name.String() }

// FieldsOf returns the field list of a struct, union or exception.
func FieldsOf(def Definition) ([]*Field, bool) {
	switch def := def.(type) {
	case *Struct:
		return def.Fields, true
	case *Union:
		return def.Fields, true
	case *Exception:
		return def.Fields, true
	}
	return nil, false
}

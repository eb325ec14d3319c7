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

package syntax

import (
	"fmt"
)

// Pos is a 1-based line and column in the record document. The zero Pos
// means the record was built in memory.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.Line == 0 {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Node interface {
	Position() Pos
}

// File is the front end's output for one IDL source file: headers and
// definitions in file order, with names as written.
type File struct {
	Headers     []Header
	Definitions []Definition
}

// Header is *Namespace or *Include.
type Header interface {
	Node
	header()
}

// Definition is *Const, *Enum, *Struct, *Union, *Exception, *Service or
// *Typedef.
type Definition interface {
	Node
	definition()
	DeclName() string
}

type Namespace struct {
	Pos    Pos
	Target string
	Path   string
}

type Include struct {
	Pos  Pos
	Path string
}

type Const struct {
	Pos   Pos
	Name  string
	Type  TypeExpr
	Value Value
}

type Enum struct {
	Pos     Pos
	Name    string
	Members []*EnumMember
}

// EnumMember has a nil Value when the source did not assign one.
type EnumMember struct {
	Pos   Pos
	Name  string
	Value Value
}

// Field has a nil ID when the source did not assign one.
type Field struct {
	Pos          Pos
	ID           *int64
	Name         string
	Type         TypeExpr
	Requiredness string
	Default      Value
}

type Struct struct {
	Pos    Pos
	Name   string
	Fields []*Field
}

type Union struct {
	Pos    Pos
	Name   string
	Fields []*Field
}

type Exception struct {
	Pos    Pos
	Name   string
	Fields []*Field
}

type Function struct {
	Pos        Pos
	Name       string
	Oneway     bool
	ReturnType TypeExpr
	Params     []*Field
	Throws     []*Field
}

type Service struct {
	Pos       Pos
	Name      string
	Extends   string
	Functions []*Function
}

type Typedef struct {
	Pos  Pos
	Name string
	Type TypeExpr
}

func (n *Namespace) Position() Pos  { return n.Pos }
func (n *Include) Position() Pos    { return n.Pos }
func (n *Const) Position() Pos      { return n.Pos }
func (n *Enum) Position() Pos       { return n.Pos }
func (n *EnumMember) Position() Pos { return n.Pos }
func (n *Field) Position() Pos      { return n.Pos }
func (n *Struct) Position() Pos     { return n.Pos }
func (n *Union) Position() Pos      { return n.Pos }
func (n *Exception) Position() Pos  { return n.Pos }
func (n *Function) Position() Pos   { return n.Pos }
func (n *Service) Position() Pos    { return n.Pos }
func (n *Typedef) Position() Pos    { return n.Pos }

func (*Namespace) header() {}
func (*Include) header()   {}

func (*Const) definition()     {}
func (*Enum) definition()      {}
func (*Struct) definition()    {}
func (*Union) definition()     {}
func (*Exception) definition() {}
func (*Service) definition()   {}
func (*Typedef) definition()   {}

func (n *Const) DeclName() string     { return n.Name }
func (n *Enum) DeclName() string      { return n.Name }
func (n *Struct) DeclName() string    { return n.Name }
func (n *Union) DeclName() string     { return n.Name }
func (n *Exception) DeclName() string { return n.Name }
func (n *Service) DeclName() string   { return n.Name }
func (n *Typedef) DeclName() string   { return n.Name }

// TypeExpr is *TypeName, *ListType, *SetType or *MapType.
type TypeExpr interface {
	Node
	typeExpr()
}

// TypeName is a primitive type name or a (possibly dotted) reference to a
// declared type.
type TypeName struct {
	Pos  Pos
	Name string
}

type ListType struct {
	Pos  Pos
	Elem TypeExpr
}

type SetType struct {
	Pos  Pos
	Elem TypeExpr
}

type MapType struct {
	Pos   Pos
	Key   TypeExpr
	Value TypeExpr
}

func (n *TypeName) Position() Pos { return n.Pos }
func (n *ListType) Position() Pos { return n.Pos }
func (n *SetType) Position() Pos  { return n.Pos }
func (n *MapType) Position() Pos  { return n.Pos }

func (*TypeName) typeExpr() {}
func (*ListType) typeExpr() {}
func (*SetType) typeExpr()  {}
func (*MapType) typeExpr()  {}

// Value is *IntLit, *DoubleLit, *BoolLit, *TextLit, *ListLit, *SetLit,
// *MapLit or *NameRef.
type Value interface {
	Node
	value()
}

type IntLit struct {
	Pos   Pos
	Value int64
}

type DoubleLit struct {
	Pos   Pos
	Value float64
}

type BoolLit struct {
	Pos   Pos
	Value bool
}

type TextLit struct {
	Pos   Pos
	Value string
}

type ListLit struct {
	Pos   Pos
	Elems []Value
}

type SetLit struct {
	Pos   Pos
	Elems []Value
}

type MapLitEntry struct {
	Key   Value
	Value Value
}

type MapLit struct {
	Pos     Pos
	Entries []MapLitEntry
}

// NameRef refers to a constant or enum member by its name as written.
type NameRef struct {
	Pos  Pos
	Name string
}

func (n *IntLit) Position() Pos    { return n.Pos }
func (n *DoubleLit) Position() Pos { return n.Pos }
func (n *BoolLit) Position() Pos   { return n.Pos }
func (n *TextLit) Position() Pos   { return n.Pos }
func (n *ListLit) Position() Pos   { return n.Pos }
func (n *SetLit) Position() Pos    { return n.Pos }
func (n *MapLit) Position() Pos    { return n.Pos }
func (n *NameRef) Position() Pos   { return n.Pos }

func (*IntLit) value()    {}
func (*DoubleLit) value() {}
func (*BoolLit) value()   {}
func (*TextLit) value()   {}
func (*ListLit) value()   {}
func (*SetLit) value()    {}
func (*MapLit) value()    {}
func (*NameRef) value()   {}

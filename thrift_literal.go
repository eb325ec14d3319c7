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

import (
	"strconv"
	"strings"
)

// Literal is one of Bool, Int, Double, String, *ListLiteral, *SetLiteral,
// *MapLiteral, *ValueRef, or a resolved *Constant or *EnumMember.
type Literal interface {
	Node
	thriftLiteral()
}

type Bool bool

type Int int64

type Double float64

type String string

type ListLiteral struct {
	Elems []Literal
}

type SetLiteral struct {
	Elems []Literal
}

type MapEntry struct {
	Key   Literal
	Value Literal
}

type MapLiteral struct {
	Entries []MapEntry
}

// ValueRef is a reference to a named constant or enum member that has
// not been resolved.
type ValueRef struct {
	Name Name
}

func (Bool) thriftNode()         {}
func (Int) thriftNode()          {}
func (Double) thriftNode()       {}
func (String) thriftNode()       {}
func (*ListLiteral) thriftNode() {}
func (*SetLiteral) thriftNode()  {}
func (*MapLiteral) thriftNode()  {}
func (*ValueRef) thriftNode()    {}

func (Bool) thriftLiteral()         {}
func (Int) thriftLiteral()          {}
func (Double) thriftLiteral()       {}
func (String) thriftLiteral()       {}
func (*ListLiteral) thriftLiteral() {}
func (*SetLiteral) thriftLiteral()  {}
func (*MapLiteral) thriftLiteral()  {}
func (*ValueRef) thriftLiteral()    {}
func (*Constant) thriftLiteral()    {}
func (*EnumMember) thriftLiteral()  {}

// TransformLiteral rebuilds lit bottom-up, applying fn to every leaf.
// List, set and map literals are rebuilt with their transformed contents.
func TransformLiteral(lit Literal, fn func(Literal) (Literal, error)) (Literal, error) {
	switch lit := lit.(type) {
	case nil:
		return nil, nil
	case *ListLiteral:
		elems, err := transformLiterals(lit.Elems, fn)
		if err != nil {
			return nil, err
		}
		return &ListLiteral{Elems: elems}, nil
	case *SetLiteral:
		elems, err := transformLiterals(lit.Elems, fn)
		if err != nil {
			return nil, err
		}
		return &SetLiteral{Elems: elems}, nil
	case *MapLiteral:
		entries := make([]MapEntry, 0, len(lit.Entries))
		for _, entry := range lit.Entries {
			key, err := TransformLiteral(entry.Key, fn)
			if err != nil {
				return nil, err
			}
			value, err := TransformLiteral(entry.Value, fn)
			if err != nil {
				return nil, err
			}
			entries = append(entries, MapEntry{Key: key, Value: value})
		}
		return &MapLiteral{Entries: entries}, nil
	case Bool, Int, Double, String, *ValueRef, *Constant, *EnumMember:
		return fn(lit)
	}
	panic("unreachable")
}

func transformLiterals(lits []Literal, fn func(Literal) (Literal, error)) ([]Literal, error) {
	out := make([]Literal, 0, len(lits))
	for _, lit := range lits {
		transformed, err := TransformLiteral(lit, fn)
		if err != nil {
			return nil, err
		}
		out = append(out, transformed)
	}
	return out, nil
}

// LiteralString formats lit the way it would be written in IDL source.
// Resolved constants and enum members print their qualified names.
func LiteralString(lit Literal) string {
	switch lit := lit.(type) {
	case nil:
		return "<nil>"
	case Bool:
		return strconv.FormatBool(bool(lit))
	case Int:
		return strconv.FormatInt(int64(lit), 10)
	case Double:
		return strconv.FormatFloat(float64(lit), 'g', -1, 64)
	case String:
		return strconv.Quote(string(lit))
	case *ListLiteral:
		return "[" + joinLiterals(lit.Elems) + "]"
	case *SetLiteral:
		return "{" + joinLiterals(lit.Elems) + "}"
	case *MapLiteral:
		var buf strings.Builder
		buf.WriteByte('{')
		for ii, entry := range lit.Entries {
			if ii != 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(LiteralString(entry.Key))
			buf.WriteString(": ")
			buf.WriteString(LiteralString(entry.Value))
		}
		buf.WriteByte('}')
		return buf.String()
	case *ValueRef:
		return lit.Name.String()
	case *Constant:
		return lit.Name.String()
	case *EnumMember:
		return lit.Name().String()
	}
	panic("unreachable")
}

func joinLiterals(lits []Literal) string {
	parts := make([]string, 0, len(lits))
	for _, lit := range lits {
		parts = append(parts, LiteralString(lit))
	}
	return strings.Join(parts, ", ")
}

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

// Type is one of Primitive, *List, *Set, *Map, *TypeRef, or a resolved
// *Struct, *Union, *Exception or *Enum.
type Type interface {
	Node
	thriftType()
}

type List struct {
	Elem Type
}

type Set struct {
	Elem Type
}

type Map struct {
	Key   Type
	Value Type
}

// TypeRef is a reference to a named type that has not been resolved.
type TypeRef struct {
	Name Name
}

func (Primitive) thriftNode()  {}
func (*List) thriftNode()      {}
func (*Set) thriftNode()       {}
func (*Map) thriftNode()       {}
func (*TypeRef) thriftNode()   {}
func (Primitive) thriftType()  {}
func (*List) thriftType()      {}
func (*Set) thriftType()       {}
func (*Map) thriftType()       {}
func (*TypeRef) thriftType()   {}
func (*Struct) thriftType()    {}
func (*Union) thriftType()     {}
func (*Exception) thriftType() {}
func (*Enum) thriftType()      {}

// TransformType rebuilds t bottom-up, applying fn to every non-container
// node. Container shapes are preserved.
func TransformType(t Type, fn func(Type) (Type, error)) (Type, error) {
	switch t := t.(type) {
	case nil:
		return nil, nil
	case *List:
		elem, err := TransformType(t.Elem, fn)
		if err != nil {
			return nil, err
		}
		return &List{Elem: elem}, nil
	case *Set:
		elem, err := TransformType(t.Elem, fn)
		if err != nil {
			return nil, err
		}
		return &Set{Elem: elem}, nil
	case *Map:
		key, err := TransformType(t.Key, fn)
		if err != nil {
			return nil, err
		}
		value, err := TransformType(t.Value, fn)
		if err != nil {
			return nil, err
		}
		return &Map{Key: key, Value: value}, nil
	case Primitive, *TypeRef, *Struct, *Union, *Exception, *Enum:
		return fn(t)
	}
	panic("unreachable")
}

// TypeString formats t the way it would be written in IDL source.
func TypeString(t Type) string {
	switch t := t.(type) {
	case nil:
		return "<nil>"
	case Primitive:
		return t.String()
	case *List:
		return "list<" + TypeString(t.Elem) + ">"
	case *Set:
		return "set<" + TypeString(t.Elem) + ">"
	case *Map:
		return "map<" + TypeString(t.Key) + "," + TypeString(t.Value) + ">"
	case *TypeRef:
		return t.Name.String()
	case *Struct:
		return t.Name.String()
	case *Union:
		return t.Name.String()
	case *Exception:
		return t.Name.String()
	case *Enum:
		return t.Name.String()
	}
	panic("unreachable")
}

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

// Package thrift holds the resolved model shared by the assembler, the
// file group and code generators.
package thrift

// Node is anything a file group can resolve: types, literal values and
// definitions.
type Node interface {
	thriftNode()
}

type Primitive uint8

const (
	Primitive_UNKNOWN Primitive = iota
	Primitive_BOOL
	Primitive_BYTE
	Primitive_I8
	Primitive_I16
	Primitive_I32
	Primitive_I64
	Primitive_DOUBLE
	Primitive_STRING
	Primitive_BINARY
	Primitive_VOID
)

var primitiveNames = map[Primitive]string{
	Primitive_BOOL:   "bool",
	Primitive_BYTE:   "byte",
	Primitive_I8:     "i8",
	Primitive_I16:    "i16",
	Primitive_I32:    "i32",
	Primitive_I64:    "i64",
	Primitive_DOUBLE: "double",
	Primitive_STRING: "string",
	Primitive_BINARY: "binary",
	Primitive_VOID:   "void",
}

var primitivesByName = func() map[string]Primitive {
	out := make(map[string]Primitive, len(primitiveNames))
	for p, name := range primitiveNames {
		out[name] = p
	}
	return out
}()

// LookupPrimitive returns the primitive type spelled name, if any.
func LookupPrimitive(name string) (Primitive, bool) {
	p, ok := primitivesByName[name]
	return p, ok
}

func (p Primitive) String() string {
	if name, ok := primitiveNames[p]; ok {
		return name
	}
	return "unknown"
}

type Requiredness uint8

const (
	Requiredness_DEFAULT Requiredness = iota
	Requiredness_REQUIRED
	Requiredness_OPTIONAL
)

func (r Requiredness) String() string {
	switch r {
	case Requiredness_REQUIRED:
		return "required"
	case Requiredness_OPTIONAL:
		return "optional"
	default:
		return "default"
	}
}

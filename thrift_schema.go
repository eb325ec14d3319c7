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
	"iter"
	"maps"
	"slices"
)

// Schema is the assembled contents of one IDL file. Each definition kind
// is keyed by its unqualified name; names are unique within a kind.
type Schema struct {
	Module     string
	Namespaces map[string]*Namespace
	Includes   []*Include

	Constants   map[string]*Constant
	Enums       map[string]*Enum
	Structs     map[string]*Struct
	Unions      map[string]*Union
	Exceptions  map[string]*Exception
	Services    map[string]*Service
	TypeAliases map[string]*TypeAlias
}

func NewSchema(module string) *Schema {
	return &Schema{
		Module:      module,
		Namespaces:  make(map[string]*Namespace),
		Constants:   make(map[string]*Constant),
		Enums:       make(map[string]*Enum),
		Structs:     make(map[string]*Struct),
		Unions:      make(map[string]*Union),
		Exceptions:  make(map[string]*Exception),
		Services:    make(map[string]*Service),
		TypeAliases: make(map[string]*TypeAlias),
	}
}

// Definitions yields every named definition in the schema, grouped by
// kind and sorted by name within each kind.
func (s *Schema) Definitions() iter.Seq[Definition] {
	return func(yield func(Definition) bool) {
		if !yieldSorted(s.Constants, yield) {
			return
		}
		if !yieldSorted(s.Enums, yield) {
			return
		}
		if !yieldSorted(s.TypeAliases, yield) {
			return
		}
		if !yieldSorted(s.Structs, yield) {
			return
		}
		if !yieldSorted(s.Unions, yield) {
			return
		}
		if !yieldSorted(s.Exceptions, yield) {
			return
		}
		yieldSorted(s.Services, yield)
	}
}

func yieldSorted[D Definition](defs map[string]D, yield func(Definition) bool) bool {
	for _, name := range slices.Sorted(maps.Keys(defs)) {
		if !yield(defs[name]) {
			return false
		}
	}
	return true
}

// Sorted returns the values of a definition map ordered by key.
func Sorted[D any](defs map[string]D) []D {
	out := make([]D, 0, len(defs))
	for _, name := range slices.Sorted(maps.Keys(defs)) {
		out = append(out, defs[name])
	}
	return out
}

// ParsedFile pairs an IDL file's path with its assembled schema.
type ParsedFile struct {
	Path   string
	Schema *Schema
}

// Identity is the key a file is tracked under: its basename without
// extension.
func (f *ParsedFile) Identity() string {
	return ModuleName(f.Path)
}

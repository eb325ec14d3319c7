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
	"go.thriftc.org/thrift"
)

// buildGlobal collects every qualified name defined by the registered
// files. Typedefs map to their target type so that chains of aliases
// resolve through to the final type.
func buildGlobal(
	order []string,
	files map[string]*thrift.ParsedFile,
) (map[string]symbol, error) {
	table := make(map[string]symbol)
	put := func(name thrift.Name, node thrift.Node) error {
		key := name.String()
		if prev, conflict := table[key]; conflict {
			return errDuplicateSymbol(key, prev.node, node)
		}
		table[key] = symbol{name: name, node: node}
		return nil
	}
	for _, module := range order {
		for def := range files[module].Schema.Definitions() {
			var err error
			switch def := def.(type) {
			case *thrift.Constant:
				err = put(def.Name, def)
			case *thrift.Enum:
				err = put(def.Name, def)
				for _, member := range def.Members {
					if err == nil {
						err = put(member.Name(), member)
					}
				}
			case *thrift.Struct:
				err = put(def.Name, def)
			case *thrift.Union:
				err = put(def.Name, def)
			case *thrift.Exception:
				err = put(def.Name, def)
			case *thrift.Service:
				err = put(def.Name, def)
			case *thrift.TypeAlias:
				err = put(def.Name, def.Type)
			default:
				panic("unreachable")
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return table, nil
}

// SetCurrentModule returns a view of the group in which the definitions
// of module are also visible by their unqualified names. A qualified name
// always wins over an alias spelled the same way.
func (g *FileGroup) SetCurrentModule(module string) *FileGroup {
	next := g.clone()
	next.deriveView(module)
	return next
}

func (g *FileGroup) deriveView(module string) {
	view := make(map[string]symbol, len(g.global))
	for key, sym := range g.global {
		view[key] = sym
	}
	for _, sym := range g.global {
		if sym.name.Module != module {
			continue
		}
		alias := sym.name.Local
		if _, taken := view[alias]; !taken {
			view[alias] = sym
		}
	}
	g.resolutions = view
	g.currentModule = module

	namespaces := make(map[string]*thrift.Namespace, len(g.files))
	for identity, pf := range g.files {
		if ns, ok := pf.Schema.Namespaces[g.opts.target]; ok {
			namespaces[identity] = ns
		} else if g.opts.defaultNamespace != "" {
			namespaces[identity] = &thrift.Namespace{
				Target: g.opts.target,
				Path:   g.opts.defaultNamespace,
			}
		}
	}
	g.namespaces = namespaces
}

// Namespace returns the effective namespace of a module for the group's
// target, including the default namespace if one is configured.
func (g *FileGroup) Namespace(module string) (*thrift.Namespace, bool) {
	ns, ok := g.namespaces[module]
	return ns, ok
}

// Resolve replaces references in node with the definitions they name.
//
// Type and value references are looked up in the current view and the
// result is itself resolved, so references to typedefs of typedefs end at
// the underlying type. Containers are rebuilt with resolved arguments and
// fields are copied with a resolved type. Everything else, including
// already resolved definitions, is returned unchanged; Resolve is
// idempotent.
func (g *FileGroup) Resolve(node thrift.Node) (thrift.Node, error) {
	r := g.newResolver("")
	return r.resolve(node)
}

func (g *FileGroup) ResolveType(t thrift.Type) (thrift.Type, error) {
	r := g.newResolver("")
	return r.resolveType(t)
}

func (g *FileGroup) ResolveValue(lit thrift.Literal) (thrift.Literal, error) {
	r := g.newResolver("")
	return r.resolveValue(lit)
}

func (g *FileGroup) ResolveField(field *thrift.Field) (*thrift.Field, error) {
	r := g.newResolver("")
	return r.resolveField(field)
}

// ResolveName resolves a name written as in IDL source, either qualified
// ("shared.Weather") or visible in the current module ("Weather"). A
// primitive type name resolves to the primitive.
func (g *FileGroup) ResolveName(name string) (thrift.Node, error) {
	if primitive, ok := thrift.LookupPrimitive(name); ok {
		return primitive, nil
	}
	r := g.newResolver("")
	return r.resolveRef(thrift.LocalName(name))
}

type resolver struct {
	g       *FileGroup
	context string
	active  map[string]struct{}
}

func (g *FileGroup) newResolver(context string) *resolver {
	return &resolver{
		g:       g,
		context: context,
		active:  make(map[string]struct{}),
	}
}

func (r *resolver) lookup(name thrift.Name) (thrift.Node, error) {
	sym, ok := r.g.resolutions[name.String()]
	if !ok {
		return nil, errUnresolvedSymbol(name.String(), r.g.currentModule, r.context)
	}
	return sym.node, nil
}

func (r *resolver) resolveRef(name thrift.Name) (thrift.Node, error) {
	key := name.String()
	if _, cyclic := r.active[key]; cyclic {
		return nil, errCyclicReference(key, r.context)
	}
	r.active[key] = struct{}{}
	defer delete(r.active, key)

	node, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return r.resolve(node)
}

func (r *resolver) resolve(node thrift.Node) (thrift.Node, error) {
	switch node := node.(type) {
	case *thrift.Field:
		return r.resolveField(node)
	case *thrift.TypeRef:
		return r.resolveRef(node.Name)
	case *thrift.ValueRef:
		return r.resolveRef(node.Name)
	case *thrift.List, *thrift.Set, *thrift.Map:
		return r.resolveType(node.(thrift.Type))
	case *thrift.ListLiteral, *thrift.SetLiteral, *thrift.MapLiteral:
		return r.resolveValue(node.(thrift.Literal))
	}
	return node, nil
}

func (r *resolver) resolveField(field *thrift.Field) (*thrift.Field, error) {
	t, err := r.resolveType(field.Type)
	if err != nil {
		return nil, err
	}
	resolved := *field
	resolved.Type = t
	return &resolved, nil
}

func (r *resolver) resolveType(t thrift.Type) (thrift.Type, error) {
	return thrift.TransformType(t, func(leaf thrift.Type) (thrift.Type, error) {
		ref, ok := leaf.(*thrift.TypeRef)
		if !ok {
			return leaf, nil
		}
		node, err := r.resolveRef(ref.Name)
		if err != nil {
			return nil, err
		}
		resolved, ok := node.(thrift.Type)
		if !ok {
			return nil, errNotAType(ref.Name.String(), node, r.context)
		}
		return resolved, nil
	})
}

func (r *resolver) resolveValue(lit thrift.Literal) (thrift.Literal, error) {
	return thrift.TransformLiteral(lit, func(leaf thrift.Literal) (thrift.Literal, error) {
		ref, ok := leaf.(*thrift.ValueRef)
		if !ok {
			return leaf, nil
		}
		node, err := r.resolveRef(ref.Name)
		if err != nil {
			return nil, err
		}
		resolved, ok := node.(thrift.Literal)
		if !ok {
			return nil, errNotAValue(ref.Name.String(), node, r.context)
		}
		return resolved, nil
	})
}

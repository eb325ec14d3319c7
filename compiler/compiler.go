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

// Package compiler folds the header and definition records of one IDL file
// into a [thrift.Schema].
//
// Assembly qualifies every definition name and every type or value
// reference with its owning module, assigns implicit field ids, and
// checks the per-file invariants (unique names per kind, unique field ids
// per field list). All violations in a file are collected before
// assembly gives up.
package compiler

import (
	"errors"
	"strings"

	"go.thriftc.org/thrift"
	"go.thriftc.org/thrift/syntax"
)

type AssembleOption interface {
	apply(*AssembleOptions)
}

type assembleOption func(*AssembleOptions)

func (f assembleOption) apply(opts *AssembleOptions) { f(opts) }

type AssembleOptions struct {
	module string
}

// WithModule overrides the module identity, which is otherwise the file's
// basename without extension.
func WithModule(module string) AssembleOption {
	return assembleOption(func(opts *AssembleOptions) {
		opts.module = module
	})
}

type AssembleResult struct {
	schema *thrift.Schema

	Errors   []*Error
	Warnings []*Warning
}

// Schema returns the assembled schema, or nil if assembly failed.
func (r *AssembleResult) Schema() *thrift.Schema {
	return r.schema
}

// Err joins every assembly error, or returns nil on success.
func (r *AssembleResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for _, err := range r.Errors {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func Assemble(path string, file *syntax.File, opts ...AssembleOption) AssembleResult {
	return NewAssembleOptions(opts...).Assemble(path, file)
}

func NewAssembleOptions(opts ...AssembleOption) *AssembleOptions {
	assembleOptions := &AssembleOptions{}
	for _, opt := range opts {
		opt.apply(assembleOptions)
	}
	return assembleOptions
}

func (opts *AssembleOptions) Assemble(path string, file *syntax.File) AssembleResult {
	module := opts.module
	if module == "" {
		module = thrift.ModuleName(path)
	}
	a := assembler{
		module:  module,
		schema:  thrift.NewSchema(module),
		modules: map[string]struct{}{module: {}},
	}
	a.constants = constantNames(file.Definitions)
	a.assembleHeaders(file.Headers)
	a.assembleDefinitions(file.Definitions)
	if len(a.errors) > 0 {
		return AssembleResult{
			Errors:   a.errors,
			Warnings: a.warnings,
		}
	}
	return AssembleResult{
		schema:   a.schema,
		Warnings: a.warnings,
	}
}

type assembler struct {
	module   string
	schema   *thrift.Schema
	errors   []*Error
	warnings []*Warning

	// Module names a dotted reference may start with: the file itself
	// and every file it includes.
	modules map[string]struct{}

	// Constants declared by this file, known before any are assembled.
	constants map[string]struct{}
}

func constantNames(defs []syntax.Definition) map[string]struct{} {
	names := make(map[string]struct{})
	for _, def := range defs {
		if c, ok := def.(*syntax.Const); ok {
			names[c.Name] = struct{}{}
		}
	}
	return names
}

func (a *assembler) err(err error) {
	a.errors = append(a.errors, err.(*Error))
}

func (a *assembler) warn(warning *Warning) {
	a.warnings = append(a.warnings, warning)
}

func (a *assembler) assembleHeaders(headers []syntax.Header) {
	for _, header := range headers {
		switch header := header.(type) {
		case *syntax.Namespace:
			ns := &thrift.Namespace{Target: header.Target, Path: header.Path}
			insert(a, a.schema.Namespaces, header.Target, ns, header.Pos)
		case *syntax.Include:
			a.schema.Includes = append(a.schema.Includes, &thrift.Include{
				Path: header.Path,
			})
			a.modules[thrift.ModuleName(header.Path)] = struct{}{}
		default:
			panic("unreachable")
		}
	}
}

func (a *assembler) assembleDefinitions(defs []syntax.Definition) {
	for _, def := range defs {
		if _, ok := thrift.LookupPrimitive(def.DeclName()); ok {
			a.warn(warnShadowsPrimitive(def.DeclName(), def.Position()))
		}
		switch def := def.(type) {
		case *syntax.Const:
			c := a.assembleConst(def)
			insert(a, a.schema.Constants, c.Name.Local, c, def.Pos)
		case *syntax.Enum:
			e := a.assembleEnum(def)
			insert(a, a.schema.Enums, e.Name.Local, e, def.Pos)
		case *syntax.Struct:
			name := a.declName(def.Name)
			s := &thrift.Struct{
				Name:   name,
				Fields: a.assembleFields(name.Local, def.Fields, false),
			}
			insert(a, a.schema.Structs, name.Local, s, def.Pos)
		case *syntax.Union:
			name := a.declName(def.Name)
			u := &thrift.Union{
				Name:   name,
				Fields: a.assembleFields(name.Local, def.Fields, true),
			}
			insert(a, a.schema.Unions, name.Local, u, def.Pos)
		case *syntax.Exception:
			name := a.declName(def.Name)
			e := &thrift.Exception{
				Name:   name,
				Fields: a.assembleFields(name.Local, def.Fields, false),
			}
			insert(a, a.schema.Exceptions, name.Local, e, def.Pos)
		case *syntax.Service:
			s := a.assembleService(def)
			insert(a, a.schema.Services, s.Name.Local, s, def.Pos)
		case *syntax.Typedef:
			alias := &thrift.TypeAlias{
				Name: a.declName(def.Name),
				Type: a.assembleType(def.Type, false, "typedef "+def.Name),
			}
			insert(a, a.schema.TypeAliases, alias.Name.Local, alias, def.Pos)
		default:
			panic("unreachable")
		}
	}
}

func insert[D thrift.Definition](
	a *assembler,
	defs map[string]D,
	key string,
	def D,
	pos syntax.Pos,
) {
	if _, conflict := defs[key]; conflict {
		a.err(errNameCollision(def.Kind(), def.DefinitionName(), pos))
		return
	}
	defs[key] = def
}

// declName qualifies a definition's own name with the current module. A
// name already written as "{module}.{name}" keeps its local part.
func (a *assembler) declName(name string) thrift.Name {
	return thrift.QualifiedName(a.module, strings.TrimPrefix(name, a.module+"."))
}

// qualify binds a reference to its owning module. A reference "P.X"
// whose head is an included module (or this one) is already qualified;
// anything else refers to this module.
func (a *assembler) qualify(name thrift.Name) thrift.Name {
	if name.IsQualified() {
		return name
	}
	if head, rest, ok := strings.Cut(name.Local, "."); ok {
		if _, isModule := a.modules[head]; isModule {
			return thrift.QualifiedName(head, rest)
		}
	}
	return name.Qualify(a.module)
}

func (a *assembler) assembleConst(node *syntax.Const) *thrift.Constant {
	t := a.assembleType(node.Type, false, "const "+node.Name)
	return &thrift.Constant{
		Name:  a.declName(node.Name),
		Type:  t,
		Value: a.assembleValue(node.Value, t),
	}
}

func (a *assembler) assembleEnum(node *syntax.Enum) *thrift.Enum {
	enum := &thrift.Enum{Name: a.declName(node.Name)}
	seen := make(map[string]struct{}, len(node.Members))
	var next int64
	for _, memberNode := range node.Members {
		member := &thrift.EnumMember{Enum: enum.Name, Member: memberNode.Name}
		if _, dup := seen[memberNode.Name]; dup {
			a.err(errNameCollision(
				thrift.Kind_ENUM,
				member.Name().String(),
				memberNode.Pos,
			))
			continue
		}
		seen[memberNode.Name] = struct{}{}

		switch value := memberNode.Value.(type) {
		case nil:
			member.Value = thrift.Int(next)
			next++
		case *syntax.IntLit:
			member.Value = thrift.Int(value.Value)
			next = value.Value + 1
		case *syntax.TextLit:
			member.Value = thrift.String(value.Value)
		default:
			a.err(errInvalidEnumValue(node.Name, memberNode.Name, memberNode.Pos))
			continue
		}
		enum.Members = append(enum.Members, member)
	}
	return enum
}

func (a *assembler) assembleService(node *syntax.Service) *thrift.Service {
	service := &thrift.Service{Name: a.declName(node.Name)}
	if node.Extends != "" {
		service.Extends = a.qualify(thrift.LocalName(node.Extends))
	}
	seen := make(map[string]struct{}, len(node.Functions))
	for _, fnNode := range node.Functions {
		owner := node.Name + "." + fnNode.Name
		fn := &thrift.Function{
			Name:       fnNode.Name,
			Oneway:     fnNode.Oneway,
			ReturnType: a.assembleType(fnNode.ReturnType, true, owner),
			Params:     a.assembleFields(owner, fnNode.Params, false),
			Throws:     a.assembleFields(owner, fnNode.Throws, false),
		}
		if _, dup := seen[fn.Name]; dup {
			a.err(errNameCollision(thrift.Kind_FUNCTION, owner, fnNode.Pos))
			continue
		}
		seen[fn.Name] = struct{}{}
		if fn.Oneway {
			if fn.ReturnType != thrift.Primitive_VOID {
				a.err(errOnewayReturn(owner, fnNode.Pos))
			}
			if len(fn.Throws) > 0 {
				a.err(errOnewayThrows(owner, fnNode.Pos))
			}
		}
		service.Functions = append(service.Functions, fn)
	}
	return service
}

// assembleFields converts one field list. Fields without an explicit id
// are numbered -1, -2, ... in declaration order; ids must then be unique
// within the list.
func (a *assembler) assembleFields(
	owner string,
	nodes []*syntax.Field,
	union bool,
) []*thrift.Field {
	fields := make([]*thrift.Field, 0, len(nodes))
	nextImplicit := int64(-1)
	byID := make(map[int64][]string)
	dupPos := make(map[int64]syntax.Pos)
	var idOrder []int64
	seen := make(map[string]struct{}, len(nodes))
	for _, node := range nodes {
		if _, dup := seen[node.Name]; dup {
			a.err(errNameCollision(thrift.Kind_FIELD, owner+"."+node.Name, node.Pos))
			continue
		}
		seen[node.Name] = struct{}{}

		fieldType := a.assembleType(node.Type, false, owner+"."+node.Name)
		field := &thrift.Field{
			Name:    node.Name,
			Type:    fieldType,
			Default: a.assembleValue(node.Default, fieldType),
		}
		if node.ID != nil {
			field.ID = *node.ID
		} else {
			field.ID = nextImplicit
			nextImplicit--
			a.warn(warnImplicitFieldID(owner, node.Name, field.ID, node.Pos))
		}

		switch node.Requiredness {
		case "required":
			field.Requiredness = thrift.Requiredness_REQUIRED
		case "optional":
			field.Requiredness = thrift.Requiredness_OPTIONAL
		}
		if union {
			if field.Requiredness == thrift.Requiredness_REQUIRED {
				a.warn(warnRequiredUnionField(owner, node.Name, node.Pos))
			}
			field.Requiredness = thrift.Requiredness_OPTIONAL
		}

		switch len(byID[field.ID]) {
		case 0:
			idOrder = append(idOrder, field.ID)
		case 1:
			dupPos[field.ID] = node.Pos
		}
		byID[field.ID] = append(byID[field.ID], field.Name)
		fields = append(fields, field)
	}

	for _, id := range idOrder {
		if names := byID[id]; len(names) > 1 {
			a.err(errDuplicateFieldID(owner, id, names, dupPos[id]))
		}
	}
	return fields
}

func (a *assembler) assembleType(
	expr syntax.TypeExpr,
	allowVoid bool,
	context string,
) thrift.Type {
	t, err := thrift.TransformType(rawType(expr), func(leaf thrift.Type) (thrift.Type, error) {
		if ref, ok := leaf.(*thrift.TypeRef); ok {
			return &thrift.TypeRef{Name: a.qualify(ref.Name)}, nil
		}
		return leaf, nil
	})
	if err != nil {
		panic("unreachable")
	}
	if containsVoid(t, allowVoid) {
		a.err(errVoidType(context, expr.Position()))
	}
	return t
}

// rawType converts a type expression as written. References are left
// unqualified.
func rawType(expr syntax.TypeExpr) thrift.Type {
	switch expr := expr.(type) {
	case *syntax.TypeName:
		if primitive, ok := thrift.LookupPrimitive(expr.Name); ok {
			return primitive
		}
		return &thrift.TypeRef{Name: thrift.LocalName(expr.Name)}
	case *syntax.ListType:
		return &thrift.List{Elem: rawType(expr.Elem)}
	case *syntax.SetType:
		return &thrift.Set{Elem: rawType(expr.Elem)}
	case *syntax.MapType:
		return &thrift.Map{Key: rawType(expr.Key), Value: rawType(expr.Value)}
	}
	panic("unreachable")
}

func containsVoid(t thrift.Type, allowTopLevel bool) bool {
	if t == thrift.Primitive_VOID {
		return !allowTopLevel
	}
	found := false
	_, _ = thrift.TransformType(t, func(leaf thrift.Type) (thrift.Type, error) {
		if leaf == thrift.Primitive_VOID {
			found = true
		}
		return leaf, nil
	})
	return found
}

// assembleValue converts a constant value of type t and qualifies every
// reference inside it, however deeply nested in list, set or map
// literals. The literal is walked alongside its type, so a reference in
// a position typed by another module's enum is qualified with that module.
func (a *assembler) assembleValue(value syntax.Value, t thrift.Type) thrift.Literal {
	if value == nil {
		return nil
	}
	return a.qualifyLiteral(rawLiteral(value), t)
}

func (a *assembler) qualifyLiteral(lit thrift.Literal, t thrift.Type) thrift.Literal {
	switch lit := lit.(type) {
	case *thrift.ValueRef:
		return &thrift.ValueRef{Name: a.qualifyValue(lit.Name, t)}
	case *thrift.ListLiteral:
		return &thrift.ListLiteral{Elems: a.qualifyLiterals(lit.Elems, elemType(t))}
	case *thrift.SetLiteral:
		return &thrift.SetLiteral{Elems: a.qualifyLiterals(lit.Elems, elemType(t))}
	case *thrift.MapLiteral:
		var keyType, valueType thrift.Type
		if m, ok := t.(*thrift.Map); ok {
			keyType, valueType = m.Key, m.Value
		}
		entries := make([]thrift.MapEntry, 0, len(lit.Entries))
		for _, entry := range lit.Entries {
			entries = append(entries, thrift.MapEntry{
				Key:   a.qualifyLiteral(entry.Key, keyType),
				Value: a.qualifyLiteral(entry.Value, valueType),
			})
		}
		return &thrift.MapLiteral{Entries: entries}
	}
	return lit
}

func (a *assembler) qualifyLiterals(lits []thrift.Literal, t thrift.Type) []thrift.Literal {
	out := make([]thrift.Literal, 0, len(lits))
	for _, lit := range lits {
		out = append(out, a.qualifyLiteral(lit, t))
	}
	return out
}

func elemType(t thrift.Type) thrift.Type {
	switch t := t.(type) {
	case *thrift.List:
		return t.Elem
	case *thrift.Set:
		return t.Elem
	}
	return nil
}

// qualifyValue binds a value reference. At a position typed "M.E", the
// reference "E.MEMBER" and a bare "MEMBER" both name a member of M.E. A
// bare name that is a constant of this file stays with this file.
func (a *assembler) qualifyValue(name thrift.Name, t thrift.Type) thrift.Name {
	ref, ok := t.(*thrift.TypeRef)
	if !ok || name.IsQualified() {
		return a.qualify(name)
	}
	owner := ref.Name
	head, _, dotted := strings.Cut(name.Local, ".")
	if !dotted {
		if _, isConst := a.constants[name.Local]; isConst {
			return name.Qualify(a.module)
		}
		return thrift.QualifiedName(owner.Module, owner.Local+"."+name.Local)
	}
	if _, isModule := a.modules[head]; !isModule && head == owner.Local {
		return thrift.QualifiedName(owner.Module, name.Local)
	}
	return a.qualify(name)
}

func rawLiteral(value syntax.Value) thrift.Literal {
	switch value := value.(type) {
	case *syntax.IntLit:
		return thrift.Int(value.Value)
	case *syntax.DoubleLit:
		return thrift.Double(value.Value)
	case *syntax.BoolLit:
		return thrift.Bool(value.Value)
	case *syntax.TextLit:
		return thrift.String(value.Value)
	case *syntax.ListLit:
		return &thrift.ListLiteral{Elems: rawLiterals(value.Elems)}
	case *syntax.SetLit:
		return &thrift.SetLiteral{Elems: rawLiterals(value.Elems)}
	case *syntax.MapLit:
		entries := make([]thrift.MapEntry, 0, len(value.Entries))
		for _, entry := range value.Entries {
			entries = append(entries, thrift.MapEntry{
				Key:   rawLiteral(entry.Key),
				Value: rawLiteral(entry.Value),
			})
		}
		return &thrift.MapLiteral{Entries: entries}
	case *syntax.NameRef:
		return &thrift.ValueRef{Name: thrift.LocalName(value.Name)}
	}
	panic("unreachable")
}

func rawLiterals(values []syntax.Value) []thrift.Literal {
	out := make([]thrift.Literal, 0, len(values))
	for _, value := range values {
		out = append(out, rawLiteral(value))
	}
	return out
}

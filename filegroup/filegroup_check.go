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

// Check resolves every reference in every registered file, each under
// its own module's view, and returns all failures rather than the first.
func (g *FileGroup) Check() ErrorList {
	c := checker{}
	for _, module := range g.order {
		view := g.SetCurrentModule(module)
		for def := range g.files[module].Schema.Definitions() {
			c.checkDefinition(view, def)
		}
	}
	g.opts.logger.Debug("checked file group", "files", len(g.order), "errors", len(c.errors))
	return c.errors
}

type checker struct {
	errors ErrorList
}

func (c *checker) add(err error) {
	if err != nil {
		c.errors = append(c.errors, err.(*Error))
	}
}

func (c *checker) checkDefinition(g *FileGroup, def thrift.Definition) {
	switch def := def.(type) {
	case *thrift.Constant:
		context := "const " + def.Name.String()
		c.checkType(g, def.Type, context)
		c.checkValue(g, def.Value, context)
	case *thrift.Enum:
	case *thrift.TypeAlias:
		c.checkType(g, def.Type, "typedef "+def.Name.String())
	case *thrift.Struct:
		c.checkFields(g, def.Name.String(), def.Fields)
	case *thrift.Union:
		c.checkFields(g, def.Name.String(), def.Fields)
	case *thrift.Exception:
		c.checkFields(g, def.Name.String(), def.Fields)
	case *thrift.Service:
		c.checkService(g, def)
	default:
		panic("unreachable")
	}
}

func (c *checker) checkType(g *FileGroup, t thrift.Type, context string) thrift.Type {
	resolved, err := g.newResolver(context).resolveType(t)
	c.add(err)
	return resolved
}

func (c *checker) checkValue(g *FileGroup, lit thrift.Literal, context string) {
	_, err := g.newResolver(context).resolveValue(lit)
	c.add(err)
}

func (c *checker) checkFields(g *FileGroup, owner string, fields []*thrift.Field) {
	for _, field := range fields {
		context := "field " + owner + "." + field.Name
		c.checkType(g, field.Type, context)
		c.checkValue(g, field.Default, context)
	}
}

func (c *checker) checkService(g *FileGroup, service *thrift.Service) {
	name := service.Name.String()
	if service.Extends != (thrift.Name{}) {
		parent, err := g.newResolver("service "+name).resolveRef(service.Extends)
		c.add(err)
		if err == nil {
			if _, ok := parent.(*thrift.Service); !ok {
				c.add(errExtendsNotService(name, parent))
			}
		}
	}
	for _, fn := range service.Functions {
		owner := name + "." + fn.Name
		c.checkType(g, fn.ReturnType, "function "+owner)
		c.checkFields(g, owner, fn.Params)
		for _, field := range fn.Throws {
			resolved := c.checkType(g, field.Type, "field "+owner+"."+field.Name)
			if resolved == nil {
				continue
			}
			if _, ok := resolved.(*thrift.Exception); !ok {
				c.add(errThrowsNotException(owner, field.Name, resolved))
			}
		}
	}
}

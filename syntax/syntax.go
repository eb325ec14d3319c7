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

// Package syntax decodes the record documents produced by the IDL grammar
// front end. A record document is YAML with two top-level sequences:
//
//	headers:
//	  - namespace: {target: go, path: example.weather}
//	  - include: shared.yaml
//	definitions:
//	  - enum: {name: Weather, members: [SUNNY, {name: RAINY, value: 5}]}
//	  - struct:
//	      name: Report
//	      fields:
//	        - {id: 1, name: weather, type: Weather, default: {ref: Weather.SUNNY}}
//	        - {name: temps, type: {list: i32}}
//
// Names are kept exactly as written; qualification happens later.
package syntax

import (
	"slices"

	"gopkg.in/yaml.v3"
)

func Parse(src []byte) (*File, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, errInvalidDocument(err)
	}
	file := &File{}
	if len(doc.Content) == 0 {
		return file, nil
	}
	root := deref(doc.Content[0])
	if root.Kind == 0 || (root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null") {
		return file, nil
	}

	keys, err := mapping(root, "record document", "headers", "definitions")
	if err != nil {
		return nil, err
	}
	if node, ok := keys["headers"]; ok {
		items, err := sequence(node, "headers")
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			header, err := parseHeader(item)
			if err != nil {
				return nil, err
			}
			file.Headers = append(file.Headers, header)
		}
	}
	if node, ok := keys["definitions"]; ok {
		items, err := sequence(node, "definitions")
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			def, err := parseDefinition(item)
			if err != nil {
				return nil, err
			}
			file.Definitions = append(file.Definitions, def)
		}
	}
	return file, nil
}

func parseHeader(node *yaml.Node) (Header, error) {
	kind, value, err := record(node, "header")
	if err != nil {
		return nil, err
	}
	switch kind {
	case "namespace":
		keys, err := mapping(value, "namespace", "target", "path")
		if err != nil {
			return nil, err
		}
		target, err := requiredName(keys, "target", "namespace", value)
		if err != nil {
			return nil, err
		}
		path, err := requiredName(keys, "path", "namespace", value)
		if err != nil {
			return nil, err
		}
		return &Namespace{Pos: posOf(node), Target: target, Path: path}, nil
	case "include":
		if value.Kind == yaml.MappingNode {
			keys, err := mapping(value, "include", "path")
			if err != nil {
				return nil, err
			}
			path, err := requiredName(keys, "path", "include", value)
			if err != nil {
				return nil, err
			}
			return &Include{Pos: posOf(node), Path: path}, nil
		}
		path, err := name(value, "include")
		if err != nil {
			return nil, err
		}
		return &Include{Pos: posOf(node), Path: path}, nil
	}
	return nil, errUnknownRecord("header", kind, node)
}

func parseDefinition(node *yaml.Node) (Definition, error) {
	kind, value, err := record(node, "definition")
	if err != nil {
		return nil, err
	}
	pos := posOf(node)
	switch kind {
	case "const":
		return parseConst(pos, value)
	case "enum":
		return parseEnum(pos, value)
	case "struct":
		declName, fields, err := parseFieldOwner(value, "struct")
		if err != nil {
			return nil, err
		}
		return &Struct{Pos: pos, Name: declName, Fields: fields}, nil
	case "union":
		declName, fields, err := parseFieldOwner(value, "union")
		if err != nil {
			return nil, err
		}
		return &Union{Pos: pos, Name: declName, Fields: fields}, nil
	case "exception":
		declName, fields, err := parseFieldOwner(value, "exception")
		if err != nil {
			return nil, err
		}
		return &Exception{Pos: pos, Name: declName, Fields: fields}, nil
	case "service":
		return parseService(pos, value)
	case "typedef":
		keys, err := mapping(value, "typedef", "name", "type")
		if err != nil {
			return nil, err
		}
		declName, err := requiredName(keys, "name", "typedef", value)
		if err != nil {
			return nil, err
		}
		typeExpr, err := requiredType(keys, "type", "typedef", value)
		if err != nil {
			return nil, err
		}
		return &Typedef{Pos: pos, Name: declName, Type: typeExpr}, nil
	}
	return nil, errUnknownRecord("definition", kind, node)
}

func parseConst(pos Pos, node *yaml.Node) (*Const, error) {
	keys, err := mapping(node, "const", "name", "type", "value")
	if err != nil {
		return nil, err
	}
	declName, err := requiredName(keys, "name", "const", node)
	if err != nil {
		return nil, err
	}
	typeExpr, err := requiredType(keys, "type", "const", node)
	if err != nil {
		return nil, err
	}
	valueNode, ok := keys["value"]
	if !ok {
		return nil, errMissingKey("value", "const", node)
	}
	value, err := parseValue(valueNode)
	if err != nil {
		return nil, err
	}
	return &Const{Pos: pos, Name: declName, Type: typeExpr, Value: value}, nil
}

func parseEnum(pos Pos, node *yaml.Node) (*Enum, error) {
	keys, err := mapping(node, "enum", "name", "members")
	if err != nil {
		return nil, err
	}
	declName, err := requiredName(keys, "name", "enum", node)
	if err != nil {
		return nil, err
	}
	enum := &Enum{Pos: pos, Name: declName}
	membersNode, ok := keys["members"]
	if !ok {
		return enum, nil
	}
	items, err := sequence(membersNode, "enum members")
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.Kind == yaml.ScalarNode {
			memberName, err := name(item, "enum member")
			if err != nil {
				return nil, err
			}
			enum.Members = append(enum.Members, &EnumMember{
				Pos:  posOf(item),
				Name: memberName,
			})
			continue
		}
		memberKeys, err := mapping(item, "enum member", "name", "value")
		if err != nil {
			return nil, err
		}
		memberName, err := requiredName(memberKeys, "name", "enum member", item)
		if err != nil {
			return nil, err
		}
		member := &EnumMember{Pos: posOf(item), Name: memberName}
		if valueNode, ok := memberKeys["value"]; ok {
			if member.Value, err = parseValue(valueNode); err != nil {
				return nil, err
			}
		}
		enum.Members = append(enum.Members, member)
	}
	return enum, nil
}

func parseFieldOwner(node *yaml.Node, context string) (string, []*Field, error) {
	keys, err := mapping(node, context, "name", "fields")
	if err != nil {
		return "", nil, err
	}
	declName, err := requiredName(keys, "name", context, node)
	if err != nil {
		return "", nil, err
	}
	fields, err := parseFields(keys["fields"], context+" fields")
	if err != nil {
		return "", nil, err
	}
	return declName, fields, nil
}

func parseFields(node *yaml.Node, context string) ([]*Field, error) {
	if node == nil {
		return nil, nil
	}
	items, err := sequence(node, context)
	if err != nil {
		return nil, err
	}
	fields := make([]*Field, 0, len(items))
	for _, item := range items {
		field, err := parseField(item)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func parseField(node *yaml.Node) (*Field, error) {
	keys, err := mapping(node, "field", "id", "name", "type", "requiredness", "default")
	if err != nil {
		return nil, err
	}
	fieldName, err := requiredName(keys, "name", "field", node)
	if err != nil {
		return nil, err
	}
	typeExpr, err := requiredType(keys, "type", "field", node)
	if err != nil {
		return nil, err
	}
	field := &Field{Pos: posOf(node), Name: fieldName, Type: typeExpr}
	if idNode, ok := keys["id"]; ok {
		id, err := integer(idNode, "field id")
		if err != nil {
			return nil, err
		}
		field.ID = &id
	}
	if reqNode, ok := keys["requiredness"]; ok {
		if reqNode.Kind != yaml.ScalarNode {
			return nil, errExpectedNode(yaml.ScalarNode, "requiredness", reqNode)
		}
		switch reqNode.Value {
		case "required", "optional", "default":
			field.Requiredness = reqNode.Value
		default:
			return nil, errInvalidRequiredness(reqNode)
		}
	}
	if defaultNode, ok := keys["default"]; ok {
		if field.Default, err = parseValue(defaultNode); err != nil {
			return nil, err
		}
	}
	return field, nil
}

func parseService(pos Pos, node *yaml.Node) (*Service, error) {
	keys, err := mapping(node, "service", "name", "extends", "functions")
	if err != nil {
		return nil, err
	}
	declName, err := requiredName(keys, "name", "service", node)
	if err != nil {
		return nil, err
	}
	service := &Service{Pos: pos, Name: declName}
	if extendsNode, ok := keys["extends"]; ok {
		if service.Extends, err = name(extendsNode, "service extends"); err != nil {
			return nil, err
		}
	}
	functionsNode, ok := keys["functions"]
	if !ok {
		return service, nil
	}
	items, err := sequence(functionsNode, "service functions")
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		function, err := parseFunction(item)
		if err != nil {
			return nil, err
		}
		service.Functions = append(service.Functions, function)
	}
	return service, nil
}

func parseFunction(node *yaml.Node) (*Function, error) {
	keys, err := mapping(node, "function", "name", "oneway", "returns", "params", "throws")
	if err != nil {
		return nil, err
	}
	functionName, err := requiredName(keys, "name", "function", node)
	if err != nil {
		return nil, err
	}
	function := &Function{Pos: posOf(node), Name: functionName}
	if onewayNode, ok := keys["oneway"]; ok {
		if onewayNode.Kind != yaml.ScalarNode || onewayNode.ShortTag() != "!!bool" {
			return nil, errInvalidScalar("boolean", onewayNode)
		}
		if err := onewayNode.Decode(&function.Oneway); err != nil {
			return nil, errInvalidScalar("boolean", onewayNode)
		}
	}
	if returnsNode, ok := keys["returns"]; ok {
		if function.ReturnType, err = parseType(returnsNode); err != nil {
			return nil, err
		}
	} else {
		function.ReturnType = &TypeName{Pos: posOf(node), Name: "void"}
	}
	if function.Params, err = parseFields(keys["params"], "function params"); err != nil {
		return nil, err
	}
	if function.Throws, err = parseFields(keys["throws"], "function throws"); err != nil {
		return nil, err
	}
	return function, nil
}

func parseType(node *yaml.Node) (TypeExpr, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			return nil, errInvalidTypeExpr(node)
		}
		return &TypeName{Pos: posOf(node), Name: node.Value}, nil
	case yaml.MappingNode:
		kind, value, err := record(node, "type")
		if err != nil {
			return nil, err
		}
		switch kind {
		case "list":
			elem, err := parseType(value)
			if err != nil {
				return nil, err
			}
			return &ListType{Pos: posOf(node), Elem: elem}, nil
		case "set":
			elem, err := parseType(value)
			if err != nil {
				return nil, err
			}
			return &SetType{Pos: posOf(node), Elem: elem}, nil
		case "map":
			keys, err := mapping(value, "map type", "key", "value")
			if err != nil {
				return nil, err
			}
			keyType, err := requiredType(keys, "key", "map type", value)
			if err != nil {
				return nil, err
			}
			valueType, err := requiredType(keys, "value", "map type", value)
			if err != nil {
				return nil, err
			}
			return &MapType{Pos: posOf(node), Key: keyType, Value: valueType}, nil
		}
	}
	return nil, errInvalidTypeExpr(node)
}

func parseValue(node *yaml.Node) (Value, error) {
	pos := posOf(node)
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!int":
			v, err := integer(node, "integer")
			if err != nil {
				return nil, err
			}
			return &IntLit{Pos: pos, Value: v}, nil
		case "!!float":
			var v float64
			if err := node.Decode(&v); err != nil {
				return nil, errInvalidScalar("double", node)
			}
			return &DoubleLit{Pos: pos, Value: v}, nil
		case "!!bool":
			var v bool
			if err := node.Decode(&v); err != nil {
				return nil, errInvalidScalar("boolean", node)
			}
			return &BoolLit{Pos: pos, Value: v}, nil
		case "!!str":
			return &TextLit{Pos: pos, Value: node.Value}, nil
		}
	case yaml.SequenceNode:
		elems, err := parseValues(node, "list value")
		if err != nil {
			return nil, err
		}
		return &ListLit{Pos: pos, Elems: elems}, nil
	case yaml.MappingNode:
		kind, value, err := record(node, "value")
		if err != nil {
			return nil, err
		}
		switch kind {
		case "ref":
			refName, err := name(value, "value reference")
			if err != nil {
				return nil, err
			}
			return &NameRef{Pos: pos, Name: refName}, nil
		case "set":
			elems, err := parseValues(value, "set value")
			if err != nil {
				return nil, err
			}
			return &SetLit{Pos: pos, Elems: elems}, nil
		case "map":
			items, err := sequence(value, "map value")
			if err != nil {
				return nil, err
			}
			lit := &MapLit{Pos: pos}
			for _, item := range items {
				keys, err := mapping(item, "map entry", "key", "value")
				if err != nil {
					return nil, err
				}
				entry, err := parseMapEntry(keys, item)
				if err != nil {
					return nil, err
				}
				lit.Entries = append(lit.Entries, entry)
			}
			return lit, nil
		}
		return nil, errUnknownRecord("value", kind, node)
	}
	return nil, errInvalidValue(node)
}

func parseMapEntry(keys map[string]*yaml.Node, node *yaml.Node) (MapLitEntry, error) {
	var entry MapLitEntry
	keyNode, ok := keys["key"]
	if !ok {
		return entry, errMissingKey("key", "map entry", node)
	}
	valueNode, ok := keys["value"]
	if !ok {
		return entry, errMissingKey("value", "map entry", node)
	}
	var err error
	if entry.Key, err = parseValue(keyNode); err != nil {
		return entry, err
	}
	if entry.Value, err = parseValue(valueNode); err != nil {
		return entry, err
	}
	return entry, nil
}

func parseValues(node *yaml.Node, context string) ([]Value, error) {
	items, err := sequence(node, context)
	if err != nil {
		return nil, err
	}
	values := make([]Value, 0, len(items))
	for _, item := range items {
		value, err := parseValue(item)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

func deref(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func mapping(
	node *yaml.Node,
	context string,
	allowed ...string,
) (map[string]*yaml.Node, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errExpectedNode(yaml.MappingNode, context, node)
	}
	out := make(map[string]*yaml.Node, len(node.Content)/2)
	for ii := 0; ii+1 < len(node.Content); ii += 2 {
		key := node.Content[ii]
		if !slices.Contains(allowed, key.Value) {
			return nil, errUnknownKey(key.Value, context, key)
		}
		out[key.Value] = deref(node.Content[ii+1])
	}
	return out, nil
}

func sequence(node *yaml.Node, context string) ([]*yaml.Node, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, errExpectedNode(yaml.SequenceNode, context, node)
	}
	items := make([]*yaml.Node, 0, len(node.Content))
	for _, item := range node.Content {
		items = append(items, deref(item))
	}
	return items, nil
}

// record splits a single-key mapping such as `{struct: {...}}` into its
// key and value.
func record(node *yaml.Node, context string) (string, *yaml.Node, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return "", nil, errExpectedNode(yaml.MappingNode, "single-key "+context+" record", node)
	}
	return node.Content[0].Value, deref(node.Content[1]), nil
}

func name(node *yaml.Node, context string) (string, error) {
	if node.Kind != yaml.ScalarNode {
		return "", errExpectedNode(yaml.ScalarNode, context, node)
	}
	if node.Value == "" {
		return "", errEmptyName(context, node)
	}
	return node.Value, nil
}

func requiredName(
	keys map[string]*yaml.Node,
	key string,
	context string,
	parent *yaml.Node,
) (string, error) {
	node, ok := keys[key]
	if !ok {
		return "", errMissingKey(key, context, parent)
	}
	return name(node, context+" "+key)
}

func requiredType(
	keys map[string]*yaml.Node,
	key string,
	context string,
	parent *yaml.Node,
) (TypeExpr, error) {
	node, ok := keys[key]
	if !ok {
		return nil, errMissingKey(key, context, parent)
	}
	return parseType(node)
}

func integer(node *yaml.Node, context string) (int64, error) {
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!int" {
		return 0, errInvalidScalar(context, node)
	}
	var v int64
	if err := node.Decode(&v); err != nil {
		return 0, errInvalidScalar(context, node)
	}
	return v, nil
}

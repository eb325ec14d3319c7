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

	"gopkg.in/yaml.v3"
)

type Error struct {
	code    uint32
	message string
	pos     Pos
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

func (err *Error) Pos() Pos {
	return err.pos
}

func posOf(node *yaml.Node) Pos {
	return Pos{Line: node.Line, Column: node.Column}
}

func kindString(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "empty node"
	}
}

func errInvalidDocument(err error) error {
	return &Error{
		code:    1000,
		message: fmt.Sprintf("Invalid record document: %v", err),
	}
}

func errExpectedNode(want yaml.Kind, context string, node *yaml.Node) error {
	return &Error{
		code: 1001,
		message: fmt.Sprintf(
			"Expected %s for %s, got %s",
			kindString(want), context, kindString(node.Kind),
		),
		pos: posOf(node),
	}
}

func errUnknownKey(key string, context string, node *yaml.Node) error {
	return &Error{
		code:    1002,
		message: fmt.Sprintf("Unknown key '%s' in %s", key, context),
		pos:     posOf(node),
	}
}

func errMissingKey(key string, context string, node *yaml.Node) error {
	return &Error{
		code:    1003,
		message: fmt.Sprintf("Missing required key '%s' in %s", key, context),
		pos:     posOf(node),
	}
}

func errUnknownRecord(group, kind string, node *yaml.Node) error {
	return &Error{
		code:    1004,
		message: fmt.Sprintf("Unknown %s record '%s'", group, kind),
		pos:     posOf(node),
	}
}

func errInvalidScalar(want string, node *yaml.Node) error {
	return &Error{
		code:    1005,
		message: fmt.Sprintf("Invalid %s %q", want, node.Value),
		pos:     posOf(node),
	}
}

func errInvalidRequiredness(node *yaml.Node) error {
	return &Error{
		code: 1006,
		message: fmt.Sprintf(
			"Invalid requiredness %q (expected 'required', 'optional' or 'default')",
			node.Value,
		),
		pos: posOf(node),
	}
}

func errInvalidValue(node *yaml.Node) error {
	return &Error{
		code:    1007,
		message: fmt.Sprintf("Invalid constant value (%s)", kindString(node.Kind)),
		pos:     posOf(node),
	}
}

func errInvalidTypeExpr(node *yaml.Node) error {
	return &Error{
		code:    1008,
		message: "Invalid type expression",
		pos:     posOf(node),
	}
}

func errEmptyName(context string, node *yaml.Node) error {
	return &Error{
		code:    1009,
		message: fmt.Sprintf("Empty name in %s", context),
		pos:     posOf(node),
	}
}

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

package compiler

import (
	"fmt"
	"strings"

	"go.thriftc.org/thrift"
	"go.thriftc.org/thrift/syntax"
)

type Error struct {
	code    uint32
	message string
	pos     syntax.Pos
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

func (err *Error) Pos() syntax.Pos {
	return err.pos
}

// Error codes reported by the assembler. NameCollision and DuplicateFieldID
// are the two a caller is most likely to match on.
const (
	CodeNameCollision    uint32 = 3100
	CodeDuplicateFieldID uint32 = 3101
)

func errNameCollision(kind thrift.Kind, name string, pos syntax.Pos) error {
	return &Error{
		code:    CodeNameCollision,
		message: fmt.Sprintf("Duplicate %s '%s'", kind, name),
		pos:     pos,
	}
}

func errDuplicateFieldID(
	owner string,
	id int64,
	fieldNames []string,
	pos syntax.Pos,
) error {
	qualified := make([]string, 0, len(fieldNames))
	for _, name := range fieldNames {
		qualified = append(qualified, fmt.Sprintf("'%s.%s'", owner, name))
	}
	return &Error{
		code: CodeDuplicateFieldID,
		message: fmt.Sprintf(
			"Field id %d of '%s' is shared by fields %s",
			id, owner, strings.Join(qualified, ", "),
		),
		pos: pos,
	}
}

func errInvalidEnumValue(enum, member string, pos syntax.Pos) error {
	return &Error{
		code: 3102,
		message: fmt.Sprintf(
			"Value of enum item '%s.%s' must be an integer or string",
			enum, member,
		),
		pos: pos,
	}
}

func errVoidType(context string, pos syntax.Pos) error {
	return &Error{
		code: 3103,
		message: fmt.Sprintf(
			"Type 'void' is only valid as a function return type (in %s)",
			context,
		),
		pos: pos,
	}
}

func errOnewayReturn(function string, pos syntax.Pos) error {
	return &Error{
		code:    3104,
		message: fmt.Sprintf("Oneway function '%s' must return void", function),
		pos:     pos,
	}
}

func errOnewayThrows(function string, pos syntax.Pos) error {
	return &Error{
		code:    3105,
		message: fmt.Sprintf("Oneway function '%s' cannot throw exceptions", function),
		pos:     pos,
	}
}

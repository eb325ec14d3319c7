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

	"go.thriftc.org/thrift/syntax"
)

type Warning struct {
	code    uint32
	message string
	pos     syntax.Pos
}

func (w *Warning) String() string {
	return fmt.Sprintf("W%d: %s", w.code, w.message)
}

func (w *Warning) Code() uint32 {
	return w.code
}

func (w *Warning) Message() string {
	return w.message
}

func (w *Warning) Pos() syntax.Pos {
	return w.pos
}

func warnRequiredUnionField(union, field string, pos syntax.Pos) *Warning {
	return &Warning{
		code: 4000,
		message: fmt.Sprintf(
			"Union field '%s.%s' declared required, treating as optional",
			union, field,
		),
		pos: pos,
	}
}

func warnImplicitFieldID(owner, field string, id int64, pos syntax.Pos) *Warning {
	return &Warning{
		code: 4001,
		message: fmt.Sprintf(
			"Field '%s.%s' has no explicit id, assigned %d",
			owner, field, id,
		),
		pos: pos,
	}
}

func warnShadowsPrimitive(name string, pos syntax.Pos) *Warning {
	return &Warning{
		code:    4002,
		message: fmt.Sprintf("Definition '%s' shadows a primitive type name", name),
		pos:     pos,
	}
}

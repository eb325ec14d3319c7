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
	"fmt"
	"strings"

	"go.thriftc.org/thrift"
)

type Error struct {
	code    uint32
	message string
	symbol  string
	context string
	cause   error
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

// Symbol is the name or path the error is about.
func (err *Error) Symbol() string {
	return err.symbol
}

// Context describes where the failing reference appeared, if known.
func (err *Error) Context() string {
	return err.context
}

func (err *Error) Unwrap() error {
	return err.cause
}

// ErrorList collects diagnostics that do not stop resolution.
type ErrorList []*Error

func (list ErrorList) Error() string {
	lines := make([]string, 0, len(list))
	for _, err := range list {
		lines = append(lines, err.Error())
	}
	return strings.Join(lines, "\n")
}

func (list ErrorList) Unwrap() []error {
	errs := make([]error, 0, len(list))
	for _, err := range list {
		errs = append(errs, err)
	}
	return errs
}

// Err returns the list as an error, or nil if it is empty.
func (list ErrorList) Err() error {
	if len(list) == 0 {
		return nil
	}
	return list
}

const (
	CodeUnresolvedSymbol   uint32 = 5000
	CodeMissingIncludeFile uint32 = 5001
)

func errUnresolvedSymbol(symbol, module, context string) *Error {
	msg := fmt.Sprintf("Unresolved symbol '%s' (current module %q)", symbol, module)
	if context != "" {
		msg = fmt.Sprintf("Unresolved symbol '%s' in %s (current module %q)", symbol, context, module)
	}
	return &Error{
		code:    CodeUnresolvedSymbol,
		message: msg,
		symbol:  symbol,
		context: context,
	}
}

func errMissingIncludeFile(
	path string,
	includer string,
	candidates []string,
	cause error,
) *Error {
	msg := fmt.Sprintf("IDL file %q not found", path)
	if includer != "" {
		msg = fmt.Sprintf(
			"Include %q of %s not found (searched %s)",
			path, includer, strings.Join(candidates, ", "),
		)
	}
	return &Error{
		code:    CodeMissingIncludeFile,
		message: msg,
		symbol:  path,
		context: includer,
		cause:   cause,
	}
}

func errModuleConflict(module, path, prevPath string) *Error {
	return &Error{
		code: 5002,
		message: fmt.Sprintf(
			"Module '%s' of %s conflicts with earlier file %s",
			module, path, prevPath,
		),
		symbol: module,
	}
}

func errDuplicateSymbol(symbol string, prev, node thrift.Node) *Error {
	return &Error{
		code: 5009,
		message: fmt.Sprintf(
			"Symbol '%s' is defined as both %s and %s",
			symbol, withArticle(nodeKind(prev)), withArticle(nodeKind(node)),
		),
		symbol: symbol,
	}
}

func withArticle(noun string) string {
	if noun != "" && strings.ContainsRune("aeiou", rune(noun[0])) {
		return "an " + noun
	}
	return "a " + noun
}

func errCyclicReference(symbol, context string) *Error {
	return &Error{
		code:    5003,
		message: fmt.Sprintf("Reference to '%s' is cyclic", symbol),
		symbol:  symbol,
		context: context,
	}
}

func errNotAType(symbol string, got thrift.Node, context string) *Error {
	return &Error{
		code:    5004,
		message: fmt.Sprintf("'%s' is a %s, not a type", symbol, nodeKind(got)),
		symbol:  symbol,
		context: context,
	}
}

func errNotAValue(symbol string, got thrift.Node, context string) *Error {
	return &Error{
		code:    5005,
		message: fmt.Sprintf("'%s' is a %s, not a value", symbol, nodeKind(got)),
		symbol:  symbol,
		context: context,
	}
}

func errExtendsNotService(service string, got thrift.Node) *Error {
	return &Error{
		code: 5006,
		message: fmt.Sprintf(
			"Service '%s' extends a %s, not a service",
			service, nodeKind(got),
		),
		symbol:  service,
		context: "service " + service,
	}
}

func errThrowsNotException(owner, field string, got thrift.Node) *Error {
	return &Error{
		code: 5007,
		message: fmt.Sprintf(
			"Thrown field '%s.%s' has type %s, not an exception",
			owner, field, nodeKind(got),
		),
		symbol:  owner + "." + field,
		context: "function " + owner,
	}
}

func errNoDestModule(got thrift.Node) *Error {
	return &Error{
		code:    5008,
		message: fmt.Sprintf("A %s has no destination module", nodeKind(got)),
	}
}

func nodeKind(node thrift.Node) string {
	switch node := node.(type) {
	case thrift.Definition:
		return node.Kind().String()
	case *thrift.EnumMember:
		return "enum item"
	case thrift.Primitive:
		return "primitive type " + node.String()
	case thrift.Type:
		return "type " + thrift.TypeString(node)
	case thrift.Literal:
		return "literal " + thrift.LiteralString(node)
	}
	return fmt.Sprintf("%T", node)
}

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
	"os"

	"go.thriftc.org/thrift"
	"go.thriftc.org/thrift/syntax"
)

// FileParser reads record documents from disk and assembles them.
type FileParser struct {
	Options []AssembleOption

	// OnWarning, if set, receives every assembly warning.
	OnWarning func(path string, warning *Warning)
}

func (p *FileParser) ParseFile(path string) (*thrift.ParsedFile, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file, err := syntax.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	result := Assemble(path, file, p.Options...)
	if p.OnWarning != nil {
		for _, warning := range result.Warnings {
			p.OnWarning(path, warning)
		}
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &thrift.ParsedFile{Path: path, Schema: result.Schema()}, nil
}

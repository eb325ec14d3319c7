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
	"path/filepath"
	"strings"
)

// Name identifies a definition or enum member. An empty Module means the
// name has not been qualified yet.
//
// Local is either a plain identifier or, for enum members, "Enum.MEMBER".
type Name struct {
	Module string
	Local  string
}

func LocalName(local string) Name {
	return Name{Local: local}
}

func QualifiedName(module, local string) Name {
	return Name{Module: module, Local: local}
}

func (n Name) IsQualified() bool {
	return n.Module != ""
}

// String renders the name in the form used as a symbol table key.
func (n Name) String() string {
	if n.Module == "" {
		return n.Local
	}
	return n.Module + "." + n.Local
}

// Qualify returns n with module as its owner, unless it is already
// qualified.
func (n Name) Qualify(module string) Name {
	if n.IsQualified() {
		return n
	}
	return Name{Module: module, Local: n.Local}
}

// ModuleName returns the module identity of an IDL file: its basename
// without extension.
func ModuleName(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

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

package thrifttext_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.thriftc.org/thrift/encoding/thrifttext"
	"go.thriftc.org/thrift/filegroup"
	"go.thriftc.org/thrift/internal/testutil"
)

func TestEncodeTutorial(t *testing.T) {
	g, err := filegroup.Load(testutil.Testdata(t, "tutorial", "tutorial.yaml"))
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, g.Check().Err())

	got, err := thrifttext.Encode(g)
	testutil.AssertNoError(t, err)
	want, err := os.ReadFile(testutil.Testdata(t, "tutorial", "expect_text.txt"))
	testutil.AssertNoError(t, err)
	testutil.ExpectNoDiff(t, string(want), got)
}

func TestEncodeDeterministic(t *testing.T) {
	path := testutil.Testdata(t, "tutorial", "tutorial.yaml")
	var first string
	for ii := 0; ii < 5; ii++ {
		g, err := filegroup.Load(path)
		testutil.AssertNoError(t, err)
		got, err := thrifttext.Encode(g)
		testutil.AssertNoError(t, err)
		if ii == 0 {
			first = got
			continue
		}
		testutil.ExpectNoDiff(t, first, got)
	}
}

func TestEncodeQuoting(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"q.yaml": `
headers: [{namespace: {target: go, path: "a\"b"}}]
definitions:
  - const: {name: S, type: string, value: "tab\there"}
`,
	})
	g, err := filegroup.Load(filepath.Join(dir, "q.yaml"))
	testutil.AssertNoError(t, err)
	got, err := thrifttext.Encode(g)
	testutil.AssertNoError(t, err)
	testutil.ExpectMatch(t, `namespace go = "a\\"b"`, got)
	testutil.ExpectMatch(t, `value = "tab\\there"`, got)
}

func TestEncodeUnresolved(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"bad.yaml": "definitions: [{typedef: {name: T, type: Missing}}]",
	})
	g, err := filegroup.Load(filepath.Join(dir, "bad.yaml"))
	testutil.AssertNoError(t, err)
	_, err = thrifttext.Encode(g)
	testutil.AssertErrorCode(t, filegroup.CodeUnresolvedSymbol, err)
}

type failingWriter struct{}

var errWrite = errors.New("write failed")

func (failingWriter) Write([]byte) (int, error) {
	return 0, errWrite
}

func TestEncodeToWriteError(t *testing.T) {
	g, err := filegroup.Load(testutil.Testdata(t, "tutorial", "tutorial.yaml"))
	testutil.AssertNoError(t, err)
	err = thrifttext.EncodeTo(g, failingWriter{})
	testutil.ExpectTrue(t, errors.Is(err, errWrite))

	var buf bytes.Buffer
	testutil.AssertNoError(t, thrifttext.EncodeTo(g, &buf))
	testutil.ExpectTrue(t, buf.Len() > 0)
}

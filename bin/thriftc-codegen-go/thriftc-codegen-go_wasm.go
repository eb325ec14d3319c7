// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
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

//go:build tinygo

package main

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"unsafe"

	"go.thriftc.org/thrift/codegen"
)

var buffers = make(map[*uint8][]uint8)

//go:export thrift_codegen_allocate
func thriftCodegenAllocate(len uint32) *uint8 {
	if len > math.MaxInt32 {
		return nil
	}
	buf := make([]uint8, int(len))
	ptr := unsafe.SliceData(buf)
	buffers[ptr] = buf
	return ptr
}

//go:export thrift_codegen_deallocate
func thriftCodegenDeallocate(ptr *uint8) {
	delete(buffers, ptr)
}

//go:export thrift_codegen_generate
func thriftCodegenGenerate(requestPtr *uint8, responsePtrPtr **uint8) uint8 {
	requestLen := binary.LittleEndian.Uint32(unsafe.Slice(requestPtr, 4))
	if requestLen < 4 {
		return respond(responsePtrPtr, &codegen.Response{
			Error: fmt.Sprintf("invalid request length %d", requestLen),
		}, 1)
	}
	requestBuf := unsafe.Slice(requestPtr, requestLen)[4:]

	var request codegen.Request
	if err := json.Unmarshal(requestBuf, &request); err != nil {
		return respond(responsePtrPtr, &codegen.Response{
			Error: fmt.Sprintf("decoding codegen request: %v", err),
		}, 1)
	}
	files, err := newGenerator(&request).generate()
	if err != nil {
		return respond(responsePtrPtr, &codegen.Response{Error: err.Error()}, 1)
	}
	return respond(responsePtrPtr, &codegen.Response{OutputFiles: files}, 0)
}

func respond(responsePtrPtr **uint8, response *codegen.Response, rc uint8) uint8 {
	payload, err := json.Marshal(response)
	if err != nil {
		payload = []byte(`{"error":"encoding codegen response failed"}`)
		rc = 1
	}
	buf := binary.LittleEndian.AppendUint32(nil, uint32(4+len(payload)))
	buf = append(buf, payload...)
	responsePtr := unsafe.SliceData(buf)
	buffers[responsePtr] = buf
	*responsePtrPtr = responsePtr
	return rc
}

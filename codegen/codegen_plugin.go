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

package codegen

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	wasm "github.com/tetratelabs/wazero"
)

const (
	allocateExport = "thrift_codegen_allocate"
	generateExport = "thrift_codegen_generate"

	// 1 GiB of plugin memory.
	memoryLimitPages = 16384

	// PluginPathEnv lists plugin directories when no path is configured.
	PluginPathEnv = "THRIFTC_CODEGEN_PLUGIN_PATH"
)

type Response struct {
	Error       string        `json:"error,omitempty"`
	OutputFiles []*OutputFile `json:"output_files,omitempty"`
}

// OutputFile is a generated file. Path holds the components of a path
// relative to the output directory.
type OutputFile struct {
	Path    []string `json:"path"`
	Content string   `json:"content"`
}

// PluginError is the error reported by a plugin that ran to completion
// with a non-zero return code.
type PluginError struct {
	Code    uint32
	Message string
}

func (err *PluginError) Error() string {
	return fmt.Sprintf("codegen plugin failed (rc=%d): %s", err.Code, err.Message)
}

// RunPlugin runs a WebAssembly codegen plugin on req.
//
// The request is written into plugin memory as JSON prefixed by its u32
// little-endian total length, and the plugin stores the address of a
// response in the same format.
func RunPlugin(ctx context.Context, pluginBin []byte, req *Request) (*Response, error) {
	requestJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding codegen request: %w", err)
	}
	requestBuf := binary.LittleEndian.AppendUint32(nil, uint32(4+len(requestJSON)))
	requestBuf = append(requestBuf, requestJSON...)

	runtimeConfig := wasm.NewRuntimeConfigInterpreter()
	runtimeConfig = runtimeConfig.WithMemoryLimitPages(memoryLimitPages)
	runtime := wasm.NewRuntimeWithConfig(ctx, runtimeConfig)
	defer runtime.Close(ctx)

	pluginExe, err := runtime.CompileModule(ctx, pluginBin)
	if err != nil {
		return nil, fmt.Errorf("compiling codegen plugin: %w", err)
	}
	plugin, err := runtime.InstantiateModule(ctx, pluginExe, wasm.NewModuleConfig())
	if err != nil {
		return nil, fmt.Errorf("instantiating codegen plugin: %w", err)
	}

	wasmAlloc := plugin.ExportedFunction(allocateExport)
	if wasmAlloc == nil {
		return nil, fmt.Errorf("codegen plugin does not export %q", allocateExport)
	}
	wasmGenerate := plugin.ExportedFunction(generateExport)
	if wasmGenerate == nil {
		return nil, fmt.Errorf("codegen plugin does not export %q", generateExport)
	}
	mem := plugin.Memory()
	if mem == nil {
		return nil, errors.New("codegen plugin has no memory")
	}

	results, err := wasmAlloc.Call(ctx, uint64(len(requestBuf)))
	if err != nil {
		return nil, err
	}
	requestPtr := uint32(results[0])
	if !mem.Write(requestPtr, requestBuf) {
		return nil, fmt.Errorf("codegen request of %d bytes does not fit in plugin memory", len(requestBuf))
	}

	results, err = wasmAlloc.Call(ctx, 4)
	if err != nil {
		return nil, err
	}
	responsePtrPtr := uint32(results[0])

	results, err = wasmGenerate.Call(ctx, uint64(requestPtr), uint64(responsePtrPtr))
	if err != nil {
		return nil, err
	}
	rc := uint32(results[0])

	responsePtr, ok := mem.ReadUint32Le(responsePtrPtr)
	if !ok {
		return nil, errors.New("failed to read response message address")
	}
	responseLen, ok := mem.ReadUint32Le(responsePtr)
	if !ok || responseLen < 4 {
		return nil, errors.New("failed to read response message length")
	}
	responseBuf, ok := mem.Read(responsePtr+4, responseLen-4)
	if !ok {
		return nil, errors.New("failed to read response message")
	}

	response := &Response{}
	if err := json.Unmarshal(responseBuf, response); err != nil {
		return nil, fmt.Errorf("decoding codegen response: %w", err)
	}
	if rc != 0 {
		return nil, &PluginError{Code: rc, Message: strings.TrimSpace(response.Error)}
	}
	return response, nil
}

// LocatePlugin finds "thriftc-codegen-<name>.wasm" in a list of
// directories separated by [os.PathListSeparator]. An empty searchPath
// falls back to $THRIFTC_CODEGEN_PLUGIN_PATH.
func LocatePlugin(name, searchPath string) (string, error) {
	if searchPath == "" {
		searchPath = os.Getenv(PluginPathEnv)
	}
	if searchPath == "" {
		return "", fmt.Errorf("No plugin path set, use --plugin-path= or $%s", PluginPathEnv)
	}
	basename := fmt.Sprintf("thriftc-codegen-%s.wasm", name)
	for _, dir := range filepath.SplitList(searchPath) {
		if dir == "" {
			continue
		}
		pluginPath := filepath.Join(dir, basename)
		if info, err := os.Stat(pluginPath); err == nil && !info.IsDir() {
			return pluginPath, nil
		}
	}
	return "", fmt.Errorf("Codegen plugin %s not found in plugin path", basename)
}

// OutputPath joins a generated file's path onto outDir. Paths must be
// relative and may not leave outDir.
func OutputPath(outDir string, file *OutputFile) (string, error) {
	parts := file.Path
	if len(parts) == 0 {
		return "", fmt.Errorf("Invalid output path %#v: empty", parts)
	}
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("Invalid output path %#v: bad path component %q", parts, part)
		}
		if part[0] == '/' || filepath.IsAbs(part) {
			return "", fmt.Errorf("Invalid output path %#v: absolute path component %q", parts, part)
		}
		if strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("Invalid output path %#v: component %q contains a path separator", parts, part)
		}
	}
	return filepath.Join(append([]string{outDir}, parts...)...), nil
}

// WriteOutputs validates every output path before writing any file.
func WriteOutputs(outDir string, response *Response) error {
	if len(response.OutputFiles) == 0 {
		return errors.New("Plugin did not generate any output files")
	}
	paths := make([]string, 0, len(response.OutputFiles))
	for _, file := range response.OutputFiles {
		path, err := OutputPath(outDir, file)
		if err != nil {
			return err
		}
		paths = append(paths, path)
	}
	for ii, file := range response.OutputFiles {
		if err := os.MkdirAll(filepath.Dir(paths[ii]), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(paths[ii], []byte(file.Content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

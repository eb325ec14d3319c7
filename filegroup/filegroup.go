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

// Package filegroup links the schemas of an IDL file and everything it
// includes into one symbol universe.
//
// A [FileGroup] is a value: [FileGroup.Add] and [FileGroup.SetCurrentModule]
// return a new group and leave the receiver untouched. Queries are only
// meaningful once a current module has been set, since unqualified names
// are resolved relative to it.
package filegroup

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"go.thriftc.org/thrift"
	"go.thriftc.org/thrift/compiler"
)

// Parser turns an IDL file path into its assembled schema.
type Parser interface {
	ParseFile(path string) (*thrift.ParsedFile, error)
}

type Option interface {
	apply(*options)
}

type option func(*options)

func (f option) apply(opts *options) { f(opts) }

type options struct {
	includePaths     []string
	defaultNamespace string
	target           string
	parser           Parser
	logger           *slog.Logger
}

// DefaultTarget is the namespace target consulted by [FileGroup.DestModule]
// unless [WithTarget] says otherwise.
const DefaultTarget = "go"

// WithIncludePaths appends directories searched for included files after
// the including file's own directory.
func WithIncludePaths(paths ...string) Option {
	return option(func(opts *options) {
		opts.includePaths = append(opts.includePaths, paths...)
	})
}

// WithDefaultNamespace sets the namespace path used for files that
// declare none for the target.
func WithDefaultNamespace(path string) Option {
	return option(func(opts *options) {
		opts.defaultNamespace = path
	})
}

func WithTarget(target string) Option {
	return option(func(opts *options) {
		opts.target = target
	})
}

func WithParser(parser Parser) Option {
	return option(func(opts *options) {
		opts.parser = parser
	})
}

func WithLogger(logger *slog.Logger) Option {
	return option(func(opts *options) {
		opts.logger = logger
	})
}

type FileGroup struct {
	opts        *options
	initialFile string

	files map[string]*thrift.ParsedFile
	order []string

	// Every qualified name defined by a registered file. Rebuilt from
	// scratch by Add, never modified afterwards.
	global map[string]symbol

	// global plus the unqualified aliases of the current module.
	resolutions   map[string]symbol
	currentModule string

	// Effective namespace of each file for the configured target.
	namespaces map[string]*thrift.Namespace
}

type symbol struct {
	name thrift.Name
	node thrift.Node
}

// New returns an empty group rooted at initialFile.
func New(initialFile string, opts ...Option) *FileGroup {
	o := &options{target: DefaultTarget}
	for _, opt := range opts {
		opt.apply(o)
	}
	if o.parser == nil {
		o.parser = &compiler.FileParser{}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FileGroup{
		opts:        o,
		initialFile: initialFile,
		files:       make(map[string]*thrift.ParsedFile),
		global:      make(map[string]symbol),
		resolutions: make(map[string]symbol),
		namespaces:  make(map[string]*thrift.Namespace),
	}
}

// Load parses initialFile and everything it includes, then makes the
// initial file the current module.
func Load(initialFile string, opts ...Option) (*FileGroup, error) {
	g := New(initialFile, opts...)
	parsed, err := g.opts.parser.ParseFile(initialFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errMissingIncludeFile(initialFile, "", nil, err)
		}
		return nil, err
	}
	g, err = g.Add(parsed)
	if err != nil {
		return nil, err
	}
	return g.SetCurrentModule(g.InitialModule()), nil
}

func (g *FileGroup) InitialFile() string {
	return g.initialFile
}

// InitialModule is the module identity of the initial file.
func (g *FileGroup) InitialModule() string {
	return thrift.ModuleName(g.initialFile)
}

func (g *FileGroup) CurrentModule() string {
	return g.currentModule
}

func (g *FileGroup) Target() string {
	return g.opts.target
}

// Schema returns the schema registered under a module identity.
func (g *FileGroup) Schema(module string) (*thrift.Schema, bool) {
	pf, ok := g.files[module]
	if !ok {
		return nil, false
	}
	return pf.Schema, true
}

// ParsedFiles returns every registered file in registration order.
func (g *FileGroup) ParsedFiles() []*thrift.ParsedFile {
	out := make([]*thrift.ParsedFile, 0, len(g.order))
	for _, module := range g.order {
		out = append(out, g.files[module])
	}
	return out
}

// Schemas returns every registered schema in registration order.
func (g *FileGroup) Schemas() []*thrift.Schema {
	out := make([]*thrift.Schema, 0, len(g.order))
	for _, module := range g.order {
		out = append(out, g.files[module].Schema)
	}
	return out
}

func (g *FileGroup) clone() *FileGroup {
	return &FileGroup{
		opts:          g.opts,
		initialFile:   g.initialFile,
		files:         maps.Clone(g.files),
		order:         slices.Clone(g.order),
		global:        g.global,
		resolutions:   g.resolutions,
		currentModule: g.currentModule,
		namespaces:    g.namespaces,
	}
}

// Add registers a parsed file and, transitively, every file it includes.
// A file whose module identity is already registered is skipped, which
// bounds the walk even when includes form a cycle.
func (g *FileGroup) Add(pf *thrift.ParsedFile) (*FileGroup, error) {
	next := g.clone()
	if err := next.addFile(pf); err != nil {
		return nil, err
	}
	global, err := buildGlobal(next.order, next.files)
	if err != nil {
		return nil, err
	}
	next.global = global
	if next.currentModule != "" {
		next.deriveView(next.currentModule)
	} else {
		next.resolutions = next.global
	}
	return next, nil
}

func (g *FileGroup) addFile(pf *thrift.ParsedFile) error {
	module := pf.Identity()
	if prev, ok := g.files[module]; ok {
		if !samePath(prev.Path, pf.Path) {
			return errModuleConflict(module, pf.Path, prev.Path)
		}
		g.opts.logger.Debug("file already registered", "module", module, "path", pf.Path)
		return nil
	}
	g.opts.logger.Debug("registering file", "module", module, "path", pf.Path)
	g.files[module] = pf
	g.order = append(g.order, module)
	return g.addIncludes(pf)
}

func (g *FileGroup) addIncludes(pf *thrift.ParsedFile) error {
	for _, include := range pf.Schema.Includes {
		path, candidates := g.locateInclude(pf.Path, include.Path)
		module := thrift.ModuleName(path)
		if prev, ok := g.files[module]; ok {
			if !samePath(prev.Path, path) {
				return errModuleConflict(module, path, prev.Path)
			}
			g.opts.logger.Debug(
				"include already registered",
				"module", module,
				"included_by", pf.Identity(),
			)
			continue
		}
		g.opts.logger.Debug(
			"located include",
			"include", include.Path,
			"path", path,
			"included_by", pf.Identity(),
		)
		included, err := g.opts.parser.ParseFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return errMissingIncludeFile(include.Path, pf.Path, candidates, err)
			}
			return err
		}
		if err := g.addFile(included); err != nil {
			return err
		}
	}
	return nil
}

// locateInclude tries the including file's directory, then each include
// path in order. When no candidate exists the include path is returned
// unchanged, and opening it reports the failure.
func (g *FileGroup) locateInclude(includer, include string) (string, []string) {
	if filepath.IsAbs(include) {
		return include, []string{include}
	}
	candidates := make([]string, 0, 1+len(g.opts.includePaths))
	candidates = append(candidates, filepath.Join(filepath.Dir(includer), include))
	for _, dir := range g.opts.includePaths {
		candidates = append(candidates, filepath.Join(dir, include))
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, candidates
		}
	}
	return include, candidates
}

func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

package mira

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/singleflight"
)

// SimpleModuleLoader loads modules from the filesystem relative to a root
// path, parsing on demand and caching by resolved path. The cache preserves
// module identity: every load of the same resolved path returns the same
// record, whichever referrer asked. Concurrent first loads of the same path
// are deduplicated so the identity guarantee holds under parallel dynamic
// imports.
type SimpleModuleLoader struct {
	root string

	mu      sync.RWMutex
	modules map[string]*Module
	flight  singleflight.Group
}

// NewSimpleModuleLoader creates a loader rooted at root. The root is
// canonicalized up front (absolute, symlinks resolved) and must exist.
// Targets without a real filesystem are refused at construction.
func NewSimpleModuleLoader(root string) (*SimpleModuleLoader, error) {
	if runtime.GOOS == "js" || runtime.GOOS == "wasip1" {
		return nil, fmt.Errorf("cannot resolve a relative path on %s targets", runtime.GOOS)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("could not set module root %q: %w", root, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("could not set module root %q: %w", root, err)
	}
	return &SimpleModuleLoader{
		root:    canonical,
		modules: make(map[string]*Module),
	}, nil
}

// Root returns the canonicalized module root.
func (l *SimpleModuleLoader) Root() string {
	return l.root
}

// Insert adds a module to the cache under its resolved path.
func (l *SimpleModuleLoader) Insert(path string, module *Module) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.modules[path] = module
}

// Get returns the cached module for a resolved path.
func (l *SimpleModuleLoader) Get(path string) (*Module, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	module, ok := l.modules[path]
	return module, ok
}

// LoadImportedModule resolves specifier against the loader root, returns
// the cached record on a hit, and otherwise reads and parses the file.
func (l *SimpleModuleLoader) LoadImportedModule(ctx context.Context, referrer Referrer, specifier string, cx *Context) (*Module, error) {
	refPath, _ := referrer.Path()
	path, err := ResolveModuleSpecifier(l.root, specifier, refPath)
	if err != nil {
		return nil, newLoadError(referrer, specifier, err)
	}

	if module, ok := l.Get(path); ok {
		cx.Logger().Debug("module cache hit", "specifier", specifier, "path", path)
		return module, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, newLoadError(referrer, specifier, err)
	}

	// Whichever in-flight load wins populates the cache for everyone.
	v, err, _ := l.flight.Do(path, func() (any, error) {
		if module, ok := l.Get(path); ok {
			return module, nil
		}
		source, err := SourceFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not open file `%s`: %w", specifier, err)
		}
		module, err := ParseModule(source, cx)
		if err != nil {
			return nil, fmt.Errorf("could not parse module `%s`: %w", specifier, err)
		}
		l.Insert(path, module)
		cx.Logger().Debug("module loaded", "specifier", specifier, "path", path)
		return module, nil
	})
	if err != nil {
		return nil, newLoadError(referrer, specifier, err)
	}
	return v.(*Module), nil
}

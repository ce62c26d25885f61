package mira

import (
	"context"
	"sync"
)

// MapModuleLoader resolves specifiers against an explicit path-to-module
// table the host populates ahead of time. Resolution runs with no base, so
// no containment check applies; the table is the cache. Keys are matched
// exactly against the resolved path.
type MapModuleLoader struct {
	mu      sync.RWMutex
	modules map[string]*Module
}

// NewMapModuleLoader creates an empty map loader.
func NewMapModuleLoader() *MapModuleLoader {
	return &MapModuleLoader{modules: make(map[string]*Module)}
}

// MapModuleLoaderFromPairs creates a map loader pre-populated from pairs.
func MapModuleLoaderFromPairs(pairs map[string]*Module) *MapModuleLoader {
	l := NewMapModuleLoader()
	for spec, mod := range pairs {
		l.modules[spec] = mod
	}
	return l
}

// Insert adds or replaces a mapping, returning the previous module if there
// was one.
func (l *MapModuleLoader) Insert(specifier string, module *Module) *Module {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.modules[specifier]
	l.modules[specifier] = module
	return prev
}

// Clear drops every mapping.
func (l *MapModuleLoader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.modules)
}

// Len reports the number of mappings.
func (l *MapModuleLoader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.modules)
}

// LoadImportedModule resolves specifier with no base and looks the result
// up in the table.
func (l *MapModuleLoader) LoadImportedModule(_ context.Context, referrer Referrer, specifier string, cx *Context) (*Module, error) {
	refPath, _ := referrer.Path()
	path, err := ResolveModuleSpecifier("", specifier, refPath)
	if err != nil {
		return nil, newLoadError(referrer, specifier, err)
	}

	l.mu.RLock()
	module, ok := l.modules[path]
	l.mu.RUnlock()
	if !ok {
		return nil, newLoadError(referrer, specifier, ErrModuleNotFound)
	}
	cx.Logger().Debug("map loader hit", "specifier", specifier, "path", path)
	return module, nil
}

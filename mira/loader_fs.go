package mira

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FSModuleLoader loads modules from an fs.FS: module sets embedded in the
// binary with go:embed, or in-memory filesystems for targets where
// SimpleModuleLoader refuses to run. Paths are slash-separated and anchored
// to a logical "/" root, so the containment invariant holds regardless of
// the host platform. Cache discipline matches SimpleModuleLoader.
type FSModuleLoader struct {
	fsys fs.FS

	mu      sync.RWMutex
	modules map[string]*Module
	flight  singleflight.Group
}

// NewFSModuleLoader creates a loader over fsys.
func NewFSModuleLoader(fsys fs.FS) (*FSModuleLoader, error) {
	if fsys == nil {
		return nil, fmt.Errorf("could not set module filesystem: fs is nil")
	}
	return &FSModuleLoader{fsys: fsys, modules: make(map[string]*Module)}, nil
}

// Get returns the cached module for a resolved logical path.
func (l *FSModuleLoader) Get(path string) (*Module, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	module, ok := l.modules[path]
	return module, ok
}

func (l *FSModuleLoader) insert(path string, module *Module) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.modules[path] = module
}

// LoadImportedModule resolves specifier against the logical root and reads
// the file from the wrapped filesystem on a cache miss.
func (l *FSModuleLoader) LoadImportedModule(ctx context.Context, referrer Referrer, specifier string, cx *Context) (*Module, error) {
	refPath, _ := referrer.Path()
	path, err := resolveSlashSpecifier(specifier, refPath)
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

	v, err, _ := l.flight.Do(path, func() (any, error) {
		if module, ok := l.Get(path); ok {
			return module, nil
		}
		source, err := SourceFromFS(l.fsys, strings.TrimPrefix(path, "/"))
		if err != nil {
			return nil, fmt.Errorf("could not open file `%s`: %w", specifier, err)
		}
		// Keep the logical rooted path so relative imports from this
		// module resolve against it.
		source.path = path
		module, err := ParseModule(source, cx)
		if err != nil {
			return nil, fmt.Errorf("could not parse module `%s`: %w", specifier, err)
		}
		l.insert(path, module)
		cx.Logger().Debug("module loaded", "specifier", specifier, "path", path)
		return module, nil
	})
	if err != nil {
		return nil, newLoadError(referrer, specifier, err)
	}
	return v.(*Module), nil
}

// resolveSlashSpecifier is the slash-path rendition of
// ResolveModuleSpecifier with a fixed "/" base, independent of the host's
// separator conventions.
func resolveSlashSpecifier(specifier, referrerPath string) (string, error) {
	const sep = "/"

	var joined string
	if specifierIsRelative(specifier, sep) {
		if referrerPath == "" {
			return "", fmt.Errorf("cannot resolve %q: %w", specifier, ErrNoReferrer)
		}
		joined = rawJoinSlash(slashDir(referrerPath), specifier)
	} else {
		joined = rawJoinSlash(sep, specifier)
	}
	if !strings.HasPrefix(joined, sep) {
		return "", fmt.Errorf("cannot resolve %q: %w", specifier, ErrRelativeResolved)
	}

	_, _, parts, err := normalizeComponents(joined, sep)
	if err != nil {
		return "", fmt.Errorf("cannot resolve %q: %w", specifier, err)
	}
	return sep + strings.Join(parts, sep), nil
}

func rawJoinSlash(a, b string) string {
	switch {
	case b == "":
		return a
	case strings.HasPrefix(b, "/"), a == "":
		return b
	case strings.HasSuffix(a, "/"):
		return a + b
	default:
		return a + "/" + b
	}
}

func slashDir(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return "/"
	}
	return path[:idx]
}

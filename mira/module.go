package mira

import (
	"sync"
)

// Module is the record a loader hands back to the engine's module graph
// machinery. Records are compared by identity: the engine relies on pointer
// equality to detect already-visited nodes, so loaders must return the same
// *Module for the same resolved path.
type Module struct {
	path     string
	source   *Source
	requests []string

	metaOnce sync.Once
	meta     *ImportMeta
}

// ParseModule scans src for its requested specifiers and builds a module
// record. The record's path is the source's path hint; linking and
// evaluation happen elsewhere in the engine.
func ParseModule(src *Source, cx *Context) (*Module, error) {
	requests, err := scanModuleRequests(src)
	if err != nil {
		return nil, err
	}
	cx.Logger().Debug("parsed module", "path", src.Path(), "requests", len(requests))
	return &Module{path: src.Path(), source: src, requests: requests}, nil
}

// Path returns the path the module was loaded from, or "" for in-memory
// modules without one.
func (m *Module) Path() string {
	return m.path
}

// Source returns the module's source.
func (m *Module) Source() *Source {
	return m.source
}

// RequestedModules returns the specifiers the module imports, in source
// order.
func (m *Module) RequestedModules() []string {
	out := make([]string, len(m.requests))
	copy(out, m.requests)
	return out
}

// ImportMeta returns the module's import.meta object, building it on first
// use and letting the configured loader decorate it.
func (m *Module) ImportMeta(cx *Context) *ImportMeta {
	m.metaOnce.Do(func() {
		m.meta = newImportMeta()
		cx.initImportMeta(m.meta, m)
	})
	return m.meta
}

// Script is a classic (non-module) execution unit that can originate load
// requests.
type Script struct {
	path   string
	source *Source
}

// NewScript wraps script source; the source's path hint becomes the
// referrer path for relative imports triggered by the script.
func NewScript(src *Source) *Script {
	return &Script{path: src.Path(), source: src}
}

// Path returns the path the script was read from, or "".
func (s *Script) Path() string {
	return s.path
}

// Source returns the script's source.
func (s *Script) Source() *Source {
	return s.source
}

// Realm is a bare execution realm. Loads originating from a realm carry no
// referrer path; they are host-initiated top-level loads.
type Realm struct {
	name string
}

// NewRealm creates a named realm handle.
func NewRealm(name string) *Realm {
	return &Realm{name: name}
}

// Name returns the realm's diagnostic name.
func (r *Realm) Name() string {
	return r.name
}

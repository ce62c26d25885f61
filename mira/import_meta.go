package mira

import (
	"sort"
	"sync"
)

// ImportMeta is the property bag exposed to module code as `import.meta`.
// Hosts decorate it through the ImportMetaInitializer hook; the engine adds
// nothing by itself.
type ImportMeta struct {
	mu    sync.RWMutex
	props map[string]any
}

func newImportMeta() *ImportMeta {
	return &ImportMeta{props: make(map[string]any)}
}

// Set defines or replaces a property.
func (m *ImportMeta) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.props[key] = value
}

// Get looks up a property.
func (m *ImportMeta) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.props[key]
	return v, ok
}

// Keys returns the property names in sorted order.
func (m *ImportMeta) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.props))
	for k := range m.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package mira

import (
	"context"
)

// IdleModuleLoader fails every load. It disables the module system for
// sandboxes that must not resolve anything.
type IdleModuleLoader struct{}

// LoadImportedModule always fails with ErrLoadingDisabled.
func (IdleModuleLoader) LoadImportedModule(_ context.Context, referrer Referrer, specifier string, _ *Context) (*Module, error) {
	return nil, newLoadError(referrer, specifier, ErrLoadingDisabled)
}

package mira

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by resolution and the bundled loader strategies.
// Wrapped errors carry the offending specifier; use errors.Is to classify.
var (
	// ErrNoReferrer is returned when a relative specifier is resolved
	// without a referrer that has a path.
	ErrNoReferrer = errors.New("relative specifier without referrer")

	// ErrOutsideRoot is returned when a specifier normalizes to a path
	// outside the configured module root.
	ErrOutsideRoot = errors.New("path is outside the module root")

	// ErrRelativeResolved is returned when a resolution anchored to a root
	// still produced a filesystem-relative path.
	ErrRelativeResolved = errors.New("resolved path is relative")

	// ErrModuleNotFound is returned by MapModuleLoader for specifiers
	// absent from its table.
	ErrModuleNotFound = errors.New("module could not be found")

	// ErrLoadingDisabled is returned by IdleModuleLoader for every load.
	ErrLoadingDisabled = errors.New("module resolution is disabled for this context")
)

// LoadError ties a load failure to the (referrer, specifier) pair that
// triggered it. The specifier string and referrer path are frequently the
// only diagnostic a script author sees for a broken import.
type LoadError struct {
	Specifier    string
	ReferrerPath string
	Err          error
}

func (e *LoadError) Error() string {
	if e.ReferrerPath != "" {
		return fmt.Sprintf("loading %q (imported from %s): %v", e.Specifier, e.ReferrerPath, e.Err)
	}
	return fmt.Sprintf("loading %q: %v", e.Specifier, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func newLoadError(referrer Referrer, specifier string, err error) *LoadError {
	refPath, _ := referrer.Path()
	return &LoadError{Specifier: specifier, ReferrerPath: refPath, Err: err}
}

package mira

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

// ContextOptions configures a Context. Zero values get defaults: an
// IdleModuleLoader, a discard logger, and an anonymous realm.
type ContextOptions struct {
	Loader ModuleLoader
	Logger *log.Logger
	Realm  *Realm
}

// Context is the engine-global state threaded through every resolution and
// load call: the configured loader (held through the dynamic-dispatch
// adapter) and a structured logger for diagnostics.
type Context struct {
	loader loaderHandle
	logger *log.Logger
	realm  *Realm
}

// NewContext builds a Context from opts.
func NewContext(opts ContextOptions) *Context {
	loader := opts.Loader
	if loader == nil {
		loader = IdleModuleLoader{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	realm := opts.Realm
	if realm == nil {
		realm = NewRealm("default")
	}
	return &Context{
		loader: loaderHandle{inner: loader},
		logger: logger,
		realm:  realm,
	}
}

// Logger returns the context's logger.
func (cx *Context) Logger() *log.Logger {
	return cx.logger
}

// Realm returns the context's realm.
func (cx *Context) Realm() *Realm {
	return cx.realm
}

// Loader returns the configured module loader.
func (cx *Context) Loader() ModuleLoader {
	return cx.loader.inner
}

// LoadImportedModule resolves and loads specifier on behalf of referrer
// through the configured loader. This is the entry point the engine uses
// for both static imports and dynamic import(); the call goes through the
// type-erased adapter and may suspend on I/O until the future completes.
func (cx *Context) LoadImportedModule(ctx context.Context, referrer Referrer, specifier string) (*Module, error) {
	refPath, _ := referrer.Path()
	cx.logger.Debug("load imported module", "specifier", specifier, "referrer", refPath, "kind", referrer.Kind())
	return cx.loader.enqueueLoad(ctx, referrer, specifier, cx).Await(ctx)
}

func (cx *Context) initImportMeta(meta *ImportMeta, module *Module) {
	cx.loader.initImportMeta(meta, module, cx)
}

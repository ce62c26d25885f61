package mira

import (
	"context"
)

// ModuleLoader is the capability a host implements to customize module
// loading. It is the only configuration point for module behavior; the
// bundled strategies cover hosts that do not want to implement it.
//
// LoadImportedModule performs "finish loading": a successful return means
// the specifier is now associated with a concrete module record. If the
// operation previously completed successfully for a (referrer, specifier)
// pair, invoking it again must yield the same record — the same *Module,
// not an equal one — because the module graph uses identity to detect
// visited nodes. The call may block on I/O; ctx carries cancellation, which
// implementations propagate as an ordinary load error.
type ModuleLoader interface {
	LoadImportedModule(ctx context.Context, referrer Referrer, specifier string, cx *Context) (*Module, error)
}

// ImportMetaInitializer is an optional capability of a ModuleLoader: hosts
// that implement it get to decorate a module's import.meta object after the
// module is loaded. Loaders without it leave import.meta empty.
type ImportMetaInitializer interface {
	InitImportMeta(meta *ImportMeta, module *Module, cx *Context)
}

// LoadFuture is a type-erased handle to an in-flight load. The engine holds
// futures rather than concrete loader results so that any ModuleLoader
// implementation can be dispatched through one handle type.
type LoadFuture struct {
	done chan struct{}
	mod  *Module
	err  error
}

// Done is closed when the load completes.
func (f *LoadFuture) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the load completes or ctx is canceled.
func (f *LoadFuture) Await(ctx context.Context) (*Module, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-f.done:
		return f.mod, f.err
	}
}

// loaderHandle adapts any ModuleLoader for dynamic dispatch by the engine.
// enqueueLoad erases the concrete implementation behind a LoadFuture; the
// contract is identical to calling LoadImportedModule directly. The adapter
// is a dispatch mechanism only and is swappable without touching the
// ModuleLoader contract.
type loaderHandle struct {
	inner ModuleLoader
}

func (h loaderHandle) enqueueLoad(ctx context.Context, referrer Referrer, specifier string, cx *Context) *LoadFuture {
	f := &LoadFuture{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.mod, f.err = h.inner.LoadImportedModule(ctx, referrer, specifier, cx)
	}()
	return f
}

func (h loaderHandle) initImportMeta(meta *ImportMeta, module *Module, cx *Context) {
	if init, ok := h.inner.(ImportMetaInitializer); ok {
		init.InitImportMeta(meta, module, cx)
	}
}

// LoadImportedModule lets the handle itself satisfy ModuleLoader, so code
// holding a Context's loader sees one uniform surface.
func (h loaderHandle) LoadImportedModule(ctx context.Context, referrer Referrer, specifier string, cx *Context) (*Module, error) {
	return h.enqueueLoad(ctx, referrer, specifier, cx).Await(ctx)
}

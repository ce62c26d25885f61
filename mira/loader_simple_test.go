package mira

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

func writeModuleFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func newTestSimpleLoader(t *testing.T, root string) *SimpleModuleLoader {
	t.Helper()
	loader, err := NewSimpleModuleLoader(root)
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	return loader
}

func TestSimpleModuleLoaderRejectsMissingRoot(t *testing.T) {
	_, err := NewSimpleModuleLoader(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatalf("expected error for missing root")
	}
	if !strings.Contains(err.Error(), "could not set module root") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSimpleModuleLoaderCanonicalizesSymlinkedRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink behavior is environment-specific on Windows")
	}

	real := t.TempDir()
	link := filepath.Join(t.TempDir(), "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlink unavailable: %v", err)
	}

	loader := newTestSimpleLoader(t, link)
	canonical, err := filepath.EvalSymlinks(real)
	if err != nil {
		t.Fatalf("eval real root: %v", err)
	}
	if loader.Root() != canonical {
		t.Fatalf("expected root %q, got %q", canonical, loader.Root())
	}
}

func TestSimpleModuleLoaderLoadsAndCaches(t *testing.T) {
	root := t.TempDir()
	writeModuleFile(t, root, "a.js", `import "./b.js";`)
	bPath := writeModuleFile(t, root, "b.js", `export const b = 2;`)

	loader := newTestSimpleLoader(t, root)
	cx := testContext(t, loader)
	ctx := context.Background()

	a, err := cx.LoadImportedModule(ctx, RealmReferrer(cx.Realm()), "a.js")
	if err != nil {
		t.Fatalf("load a.js failed: %v", err)
	}
	if got := a.RequestedModules(); len(got) != 1 || got[0] != "./b.js" {
		t.Fatalf("unexpected requests: %v", got)
	}

	b1, err := cx.LoadImportedModule(ctx, ModuleReferrer(a), "./b.js")
	if err != nil {
		t.Fatalf("load ./b.js failed: %v", err)
	}

	// Removing the file proves the second load is served from the cache,
	// not from another read.
	if err := os.Remove(bPath); err != nil {
		t.Fatalf("remove b.js: %v", err)
	}

	sep := string(filepath.Separator)
	dirtyPath := loader.Root() + sep + "sub" + sep + ".." + sep + "a.js"
	dirtyRef := NewScript(SourceFromString("", dirtyPath))
	b2, err := cx.LoadImportedModule(ctx, ScriptReferrer(dirtyRef), "./b.js")
	if err != nil {
		t.Fatalf("cached load failed: %v", err)
	}
	if b1 != b2 {
		t.Fatalf("expected identical records, got %p and %p", b1, b2)
	}
}

func TestSimpleModuleLoaderIdentityAcrossReferrers(t *testing.T) {
	root := t.TempDir()
	writeModuleFile(t, root, "a.js", `import "./shared.js";`)
	writeModuleFile(t, root, "b.js", `import "./shared.js";`)
	writeModuleFile(t, root, "shared.js", "")

	loader := newTestSimpleLoader(t, root)
	cx := testContext(t, loader)
	ctx := context.Background()
	realm := RealmReferrer(cx.Realm())

	a, err := cx.LoadImportedModule(ctx, realm, "a.js")
	if err != nil {
		t.Fatalf("load a.js failed: %v", err)
	}
	b, err := cx.LoadImportedModule(ctx, realm, "b.js")
	if err != nil {
		t.Fatalf("load b.js failed: %v", err)
	}

	fromA, err := cx.LoadImportedModule(ctx, ModuleReferrer(a), "./shared.js")
	if err != nil {
		t.Fatalf("load shared from a failed: %v", err)
	}
	fromB, err := cx.LoadImportedModule(ctx, ModuleReferrer(b), "./shared.js")
	if err != nil {
		t.Fatalf("load shared from b failed: %v", err)
	}
	if fromA != fromB {
		t.Fatalf("expected one shared record, got %p and %p", fromA, fromB)
	}
}

func TestSimpleModuleLoaderMissingFile(t *testing.T) {
	loader := newTestSimpleLoader(t, t.TempDir())
	cx := testContext(t, loader)

	_, err := cx.LoadImportedModule(context.Background(), RealmReferrer(cx.Realm()), "missing.js")
	if err == nil {
		t.Fatalf("expected missing file error")
	}
	if !strings.Contains(err.Error(), "could not open file `missing.js`") {
		t.Fatalf("unexpected error: %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist in chain, got %v", err)
	}
}

func TestSimpleModuleLoaderParseErrorKeepsCause(t *testing.T) {
	root := t.TempDir()
	writeModuleFile(t, root, "bad.js", "import \"./never-closed.js\nconst x = 1;")

	loader := newTestSimpleLoader(t, root)
	cx := testContext(t, loader)

	_, err := cx.LoadImportedModule(context.Background(), RealmReferrer(cx.Realm()), "bad.js")
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "could not parse module `bad.js`") {
		t.Fatalf("unexpected error: %v", err)
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError cause, got %v", err)
	}
	if parseErr.Pos.Line != 1 {
		t.Fatalf("expected cause position on line 1, got %+v", parseErr.Pos)
	}
}

func TestSimpleModuleLoaderRejectsRootEscape(t *testing.T) {
	root := t.TempDir()
	writeModuleFile(t, root, "a.js", "")

	loader := newTestSimpleLoader(t, root)
	cx := testContext(t, loader)

	a, err := cx.LoadImportedModule(context.Background(), RealmReferrer(cx.Realm()), "a.js")
	if err != nil {
		t.Fatalf("load a.js failed: %v", err)
	}

	_, err = cx.LoadImportedModule(context.Background(), ModuleReferrer(a), "../outside.js")
	if !errors.Is(err, ErrOutsideRoot) {
		t.Fatalf("expected ErrOutsideRoot, got %v", err)
	}
}

func TestSimpleModuleLoaderConcurrentLoadsShareOneRecord(t *testing.T) {
	root := t.TempDir()
	writeModuleFile(t, root, "hot.js", `export const hot = true;`)

	loader := newTestSimpleLoader(t, root)
	cx := testContext(t, loader)

	const goroutines = 16
	records := make([]*Module, goroutines)
	errs := make([]error, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			records[i], errs[i] = cx.LoadImportedModule(context.Background(), RealmReferrer(cx.Realm()), "hot.js")
		}(i)
	}
	wg.Wait()

	for i := 0; i < goroutines; i++ {
		if errs[i] != nil {
			t.Fatalf("concurrent load %d failed: %v", i, errs[i])
		}
		if records[i] != records[0] {
			t.Fatalf("concurrent load %d returned a different record", i)
		}
	}

	loader.mu.RLock()
	cached := len(loader.modules)
	loader.mu.RUnlock()
	if cached != 1 {
		t.Fatalf("expected 1 cached module, got %d", cached)
	}
}

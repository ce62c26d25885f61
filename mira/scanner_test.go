package mira

import (
	"errors"
	"strings"
	"testing"
)

func scanRequests(t *testing.T, src string) []string {
	t.Helper()
	requests, err := scanModuleRequests(SourceFromString(src, "test.js"))
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	return requests
}

func TestScanStaticImports(t *testing.T) {
	requests := scanRequests(t, `
import defaultExport from "./a.js";
import * as ns from "./b.js";
import { one, two as alias } from "../c.js";
import "./side-effect.js";
import ident, { three } from 'lib/d.js';
`)
	want := []string{"./a.js", "./b.js", "../c.js", "./side-effect.js", "lib/d.js"}
	if strings.Join(requests, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, requests)
	}
}

func TestScanReExports(t *testing.T) {
	requests := scanRequests(t, `
export * from "./a.js";
export { one } from "./b.js";
export { local };
export function noise() { return "./not-an-import.js"; }
export const s = "./also-not.js";
`)
	want := []string{"./a.js", "./b.js"}
	if strings.Join(requests, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, requests)
	}
}

func TestScanDynamicImportLiterals(t *testing.T) {
	requests := scanRequests(t, `
async function load() {
  const mod = await import("./dynamic.js");
  const computed = await import(someVariable);
  return mod;
}
`)
	want := []string{"./dynamic.js"}
	if strings.Join(requests, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, requests)
	}
}

func TestScanIgnoresStringsAndComments(t *testing.T) {
	requests := scanRequests(t, `
// import "./in-line-comment.js";
/* import "./in-block-comment.js"; */
const s = 'import "./in-string.js";';
const tpl = ` + "`import \"./in-template.js\";`" + `;
import "./real.js";
`)
	want := []string{"./real.js"}
	if strings.Join(requests, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, requests)
	}
}

func TestScanDeduplicatesRequests(t *testing.T) {
	requests := scanRequests(t, `
import "./a.js";
import { x } from "./a.js";
import "./b.js";
`)
	want := []string{"./a.js", "./b.js"}
	if strings.Join(requests, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, requests)
	}
}

func TestScanImportMetaIsNotARequest(t *testing.T) {
	requests := scanRequests(t, `
const here = import.meta.url;
import "./real.js";
`)
	want := []string{"./real.js"}
	if strings.Join(requests, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, requests)
	}
}

func TestScanUnterminatedStringFails(t *testing.T) {
	_, err := scanModuleRequests(SourceFromString(`import "./broken.js`, "broken.js"))
	if err == nil {
		t.Fatalf("expected unterminated string error")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if parseErr.Pos.Line != 1 {
		t.Fatalf("expected error on line 1, got %+v", parseErr.Pos)
	}
	if !strings.Contains(err.Error(), "broken.js") {
		t.Fatalf("expected path in error, got %v", err)
	}
}

func TestScanUnterminatedBlockCommentFails(t *testing.T) {
	_, err := scanModuleRequests(SourceFromString("/* never closed", "c.js"))
	if err == nil {
		t.Fatalf("expected unterminated comment error")
	}
	if !strings.Contains(err.Error(), "unterminated block comment") {
		t.Fatalf("unexpected error: %v", err)
	}
}

package symbols

import (
	"strings"
	"testing"

	"idlc/internal/ast"
	"idlc/internal/diag"
	"idlc/internal/testkit"
)

func build(t *testing.T, sources ...string) (*Table, *testkit.Unit) {
	t.Helper()
	u := testkit.Lower(t, sources...)
	return Build(u.Ast, u.Reporter()), u
}

func TestRedefinitionAcrossFiles(t *testing.T) {
	_, u := build(t, "module Test { struct S {} }", "module Test { struct S {} }")
	if got := u.Count(diag.SemaRedefinition); got != 1 {
		t.Fatalf("expected exactly one redefinition, got %d (%v)", got, u.Codes())
	}
	d, _ := u.Find(diag.SemaRedefinition)
	if !strings.Contains(d.Message, "Test::S") {
		t.Fatalf("message should name the qualified entity: %q", d.Message)
	}
	if len(d.Notes) != 1 {
		t.Fatalf("expected a note pointing at the first definition, got %d", len(d.Notes))
	}
	if d.Primary.File == d.Notes[0].Span.File {
		t.Fatalf("primary and note should be in different files")
	}
}

func TestReopenedModulesMerge(t *testing.T) {
	tbl, u := build(t, `
module A { struct X {} }
module A { struct Y {} }
module A::B { struct Z {} }`)
	if u.Bag.Len() != 0 {
		t.Fatalf("reopened modules must not conflict: %v", u.Codes())
	}
	if got := len(tbl.Modules("A")); got != 2 {
		t.Fatalf("expected two declarations of A, got %d", got)
	}
	for _, name := range []string{"A::X", "A::Y", "A::B::Z"} {
		if _, ok := tbl.Find(name); !ok {
			t.Fatalf("%s not registered", name)
		}
	}
}

func TestModuleConflictsWithType(t *testing.T) {
	_, u := build(t, "module M { struct N {} module N {} }")
	if u.Count(diag.SemaRedefinition) != 1 {
		t.Fatalf("module clashing with struct should be reported: %v", u.Codes())
	}
}

func TestDuplicateMembers(t *testing.T) {
	_, u := build(t, `
module M {
    struct S { a: int32, a: string }
    interface I { op(x: int32, x: int32); op(); }
}`)
	if got := u.Count(diag.SemaRedefinition); got != 3 {
		t.Fatalf("expected 3 redefinitions (field, param, operation), got %d: %v", got, u.Codes())
	}
}

func TestRedefiningBuiltinHasNoNote(t *testing.T) {
	_, u := build(t, `struct \string {}`)
	d, ok := u.Find(diag.SemaRedefinition)
	if !ok {
		t.Fatalf("expected redefinition of builtin, got %v", u.Codes())
	}
	if len(d.Notes) != 0 {
		t.Fatalf("builtin has no source location to point at")
	}
}

func TestLookupWalksScopesOutward(t *testing.T) {
	tbl, _ := build(t, `
module M {
    struct T {}
    module N {
        struct T {}
        interface I { op(x: int32); }
    }
}
struct T {}`)
	cases := []struct {
		name     string
		absolute bool
		scope    string
		want     string
	}{
		{"T", false, "M::N::I::op", "M::N::T"},
		{"T", false, "M", "M::T"},
		{"T", false, "", "T"},
		{"T", true, "M::N", "T"},
		{"N::T", false, "M", "M::N::T"},
		{"M::T", true, "M::N", "M::T"},
	}
	for _, tc := range cases {
		idx, ok := tbl.Lookup(tc.name, tc.absolute, tc.scope)
		if !ok {
			t.Fatalf("lookup %q from %q failed", tc.name, tc.scope)
		}
		e := ast.EntityOf(tbl.ast.Resolve(idx))
		if got := e.QualifiedName(); got != tc.want {
			t.Fatalf("lookup %q from %q: got %s, want %s", tc.name, tc.scope, got, tc.want)
		}
	}
}

func TestLookupPrefersDefinitionsOverMembers(t *testing.T) {
	tbl, _ := build(t, `
module M {
    struct x {}
    struct S { x: x }
}`)
	idx, ok := tbl.Lookup("x", false, "M::S")
	if !ok {
		t.Fatalf("lookup failed")
	}
	if k := tbl.ast.Resolve(idx).Kind(); k != ast.KindStruct {
		t.Fatalf("expected the struct, got %s", k)
	}

	// без определения поиск находит член и возвращает его
	tbl, _ = build(t, "module M { interface I { op(); } }")
	idx, ok = tbl.Lookup("I::op", false, "M")
	if !ok || tbl.ast.Resolve(idx).Kind() != ast.KindOperation {
		t.Fatalf("member fallback failed")
	}
}

func TestLookupPrimitives(t *testing.T) {
	tbl, u := build(t, "")
	idx, ok := tbl.Lookup("int32", true, "M")
	if !ok || idx != u.Ast.Primitive(ast.PrimInt32) {
		t.Fatalf("primitive lookup failed")
	}
}

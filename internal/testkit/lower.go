// Package testkit holds helpers shared by package tests.
package testkit

import (
	"fmt"
	"testing"

	"idlc/internal/ast"
	"idlc/internal/diag"
	"idlc/internal/parser"
	"idlc/internal/source"
)

// Unit is a parsed and lowered set of virtual files.
type Unit struct {
	Files *source.FileSet
	Ast   *ast.Ast
	Bag   *diag.Bag
}

// Reporter returns a reporter writing into the unit's bag.
func (u *Unit) Reporter() diag.Reporter { return diag.BagReporter{Bag: u.Bag} }

// Codes lists diagnostic codes in report order.
func (u *Unit) Codes() []diag.Code {
	out := make([]diag.Code, 0, u.Bag.Len())
	for _, d := range u.Bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

// Count returns how many diagnostics carry code.
func (u *Unit) Count(code diag.Code) int {
	n := 0
	for _, d := range u.Bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

// Find returns the first diagnostic with code.
func (u *Unit) Find(code diag.Code) (diag.Diagnostic, bool) {
	for _, d := range u.Bag.Items() {
		if d.Code == code {
			return d, true
		}
	}
	return diag.Diagnostic{}, false
}

// Lower parses every source as test<N>.idl and lowers it into one arena.
// Parse errors fail the test.
func Lower(t testing.TB, sources ...string) *Unit {
	t.Helper()
	u := &Unit{Files: source.NewFileSet(), Ast: ast.New(), Bag: diag.NewBag(0)}
	for _, src := range sources {
		u.add(t, src, false)
	}
	return u
}

// AddReference lowers src as a reference file: usable by sources, never visited.
func (u *Unit) AddReference(t testing.TB, src string) *ast.File {
	t.Helper()
	return u.add(t, src, true)
}

func (u *Unit) add(t testing.TB, src string, reference bool) *ast.File {
	t.Helper()
	name := fmt.Sprintf("test%d.idl", u.Files.Len()+1)
	id := u.Files.AddVirtual(name, []byte(src))
	res := parser.ParseFile(u.Files.Get(id), parser.Options{Reporter: u.Reporter()})
	if u.Bag.HasErrors(false) {
		t.Fatalf("%s: unexpected parse error: %s", name, u.Bag.Items()[0].Message)
	}
	f := ast.NewBuilder(u.Ast, u.Reporter()).AddFile(res.File, name, reference)
	if err := CheckSpanInvariants(u.Ast, f, u.Files.Get(id)); err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return f
}

// Lookup returns the node with the given qualified name or fails the test.
func (u *Unit) Lookup(t testing.TB, qualified string) ast.Node {
	t.Helper()
	idx, ok := u.Ast.FindByQualifiedName(qualified)
	if !ok {
		t.Fatalf("no definition named %q", qualified)
	}
	return u.Ast.Resolve(idx)
}

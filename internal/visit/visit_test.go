package visit_test

import (
	"errors"
	"strings"
	"testing"

	"idlc/internal/ast"
	"idlc/internal/sema"
	"idlc/internal/testkit"
	"idlc/internal/validate"
	"idlc/internal/visit"
)

// recorder logs every callback as one line.
type recorder struct {
	visit.BaseVisitor
	ast *ast.Ast
	log []string
}

func (r *recorder) add(s string) { r.log = append(r.log, s) }

func (r *recorder) VisitFile(f *ast.File)                             { r.add("file " + f.Path) }
func (r *recorder) VisitModuleStart(_ ast.Index, m *ast.Module)       { r.add("module " + m.QualifiedName()) }
func (r *recorder) VisitModuleEnd(_ ast.Index, m *ast.Module)         { r.add("end module " + m.Name()) }
func (r *recorder) VisitStructStart(_ ast.Index, s *ast.Struct)       { r.add("struct " + s.Name()) }
func (r *recorder) VisitStructEnd(_ ast.Index, s *ast.Struct)         { r.add("end struct " + s.Name()) }
func (r *recorder) VisitInterfaceStart(_ ast.Index, i *ast.Interface) { r.add("interface " + i.Name()) }
func (r *recorder) VisitInterfaceEnd(_ ast.Index, i *ast.Interface) {
	r.add("end interface " + i.Name())
}
func (r *recorder) VisitOperationStart(_ ast.Index, op *ast.Operation) { r.add("op " + op.Name()) }
func (r *recorder) VisitOperationEnd(_ ast.Index, op *ast.Operation)   { r.add("end op " + op.Name()) }
func (r *recorder) VisitField(_ ast.Index, f *ast.Field)               { r.add("field " + f.Name()) }
func (r *recorder) VisitParameter(_ ast.Index, p *ast.Parameter)       { r.add("param " + p.Name()) }
func (r *recorder) VisitTypeRef(ref *ast.TypeRef)                      { r.add("ref " + r.ast.RefName(ref)) }

func compile(t *testing.T, sources ...string) *testkit.Unit {
	t.Helper()
	u := testkit.Lower(t, sources...)
	sema.Check(u.Ast, sema.Options{Reporter: u.Reporter()})
	validate.Validate(u.Ast, validate.Options{Reporter: u.Reporter()})
	return u
}

func TestWalkOrder(t *testing.T) {
	u := compile(t, `
module M {
    struct P { x: int32, tags: Sequence<string> }
    interface I { get(id: int32) -> P; }
}`)
	r := &recorder{ast: u.Ast}
	if err := visit.Walk(visit.Unit{Ast: u.Ast, Bag: u.Bag}, r); err != nil {
		t.Fatalf("walk: %v", err)
	}
	want := []string{
		"file test1.idl",
		"module M",
		"struct P",
		"field x", "ref int32",
		"field tags", "ref Sequence<string>", "ref string",
		"end struct P",
		"interface I",
		"op get",
		"param id", "ref int32",
		"param ", "ref M::P",
		"end op get",
		"end interface I",
		"end module M",
	}
	if got := strings.Join(r.log, "\n"); got != strings.Join(want, "\n") {
		t.Fatalf("unexpected order:\n%s", got)
	}
}

func TestWalkRefusesOnErrors(t *testing.T) {
	u := compile(t, "module M { class C(42) {} }")
	r := &recorder{ast: u.Ast}
	err := visit.Walk(visit.Unit{Ast: u.Ast, Bag: u.Bag}, r)
	if !errors.Is(err, visit.ErrHasErrors) {
		t.Fatalf("expected ErrHasErrors, got %v", err)
	}
	if len(r.log) != 0 {
		t.Fatalf("no callback may run on a failed compilation: %v", r.log)
	}
}

func TestWalkWarningsAsErrors(t *testing.T) {
	u := compile(t, "module M { [frobnicate] struct S {} }")
	if err := visit.Walk(visit.Unit{Ast: u.Ast, Bag: u.Bag}, &recorder{ast: u.Ast}); err != nil {
		t.Fatalf("warnings alone must not block: %v", err)
	}
	err := visit.Walk(visit.Unit{Ast: u.Ast, Bag: u.Bag, WarningsAsErrors: true}, &recorder{ast: u.Ast})
	if !errors.Is(err, visit.ErrHasErrors) {
		t.Fatalf("escalated warnings must block, got %v", err)
	}
}

func TestWalkSkipsReferences(t *testing.T) {
	u := testkit.Lower(t, "module App { struct S { b: Lib::Base } }")
	u.AddReference(t, "module Lib { struct Base {} }")
	sema.Check(u.Ast, sema.Options{Reporter: u.Reporter()})
	r := &recorder{ast: u.Ast}
	if err := visit.Walk(visit.Unit{Ast: u.Ast, Bag: u.Bag}, r); err != nil {
		t.Fatalf("walk: %v", err)
	}
	for _, line := range r.log {
		if strings.Contains(line, "module Lib") || line == "struct Base" {
			t.Fatalf("reference file was visited: %v", r.log)
		}
	}
	if !strings.Contains(strings.Join(r.log, "\n"), "ref Lib::Base") {
		t.Fatalf("reference target should still be reachable: %v", r.log)
	}
}

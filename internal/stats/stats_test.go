package stats

import (
	"bytes"
	"strings"
	"testing"

	"idlc/internal/ast"
	"idlc/internal/sema"
	"idlc/internal/testkit"
	"idlc/internal/visit"
)

func TestCollect(t *testing.T) {
	u := testkit.Lower(t, `
module M {
    struct S { tag(1) a: int32?, b: Sequence<string> }
    enum E { A, B, C }
    interface I { op(x: int32) -> string; }
}`)
	sema.Check(u.Ast, sema.Options{Reporter: u.Reporter()})
	s, err := Collect(visit.Unit{Ast: u.Ast, Bag: u.Bag})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if s.Files != 1 || s.Kinds[ast.KindEnumerator] != 3 || s.Kinds[ast.KindField] != 2 || s.Kinds[ast.KindParameter] != 2 {
		t.Fatalf("unexpected counts %+v", s)
	}
	if s.Tagged != 1 || s.Optional != 1 || s.References != 5 {
		t.Fatalf("unexpected reference counts %+v", s)
	}
	var buf bytes.Buffer
	if err := s.Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "enumerator: 3") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

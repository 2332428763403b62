package sema

import (
	"strings"
	"testing"

	"idlc/internal/ast"
	"idlc/internal/diag"
	"idlc/internal/testkit"
)

func check(t *testing.T, sources ...string) (*testkit.Unit, Result) {
	t.Helper()
	u := testkit.Lower(t, sources...)
	res := Check(u.Ast, Options{Reporter: u.Reporter()})
	return u, res
}

func TestResolvesEveryReference(t *testing.T) {
	u, res := check(t, `
module M {
    struct Point { x: int32, y: int32 }
    typealias Points = Sequence<Point>;
    exception Failed { reason: string }
    interface Shapes {
        area(p: Point, extra: Dictionary<string, Points>) -> float64 throws Failed;
    }
}`)
	if u.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", u.Codes())
	}
	if res.Unresolved != 0 {
		t.Fatalf("unresolved references: %d", res.Unresolved)
	}
	for _, idx := range u.Ast.Indices() {
		forEachRef(u.Ast.Resolve(idx), func(ref *ast.TypeRef) {
			if !ref.IsResolved() {
				t.Fatalf("reference %q left unresolved", ref.WrittenName())
			}
			_ = u.Ast.Target(ref)
		})
	}
}

func forEachRef(n ast.Node, fn func(*ast.TypeRef)) {
	switch n := n.(type) {
	case *ast.Field:
		fn(&n.Type)
	case *ast.Parameter:
		fn(&n.Type)
	case *ast.TypeAlias:
		fn(&n.Underlying)
	case *ast.Sequence:
		fn(&n.Element)
	case *ast.Dictionary:
		fn(&n.Key)
		fn(&n.Value)
	case *ast.Operation:
		for i := range n.Throws {
			fn(&n.Throws[i])
		}
	}
}

func TestUnknownTypeContinues(t *testing.T) {
	u, res := check(t, `
module M {
    struct S { a: Missing, b: AlsoMissing, c: int32 }
}`)
	if got := u.Count(diag.SemaUnknownType); got != 2 {
		t.Fatalf("expected 2 unknown types, got %d: %v", got, u.Codes())
	}
	if res.Unresolved != 2 {
		t.Fatalf("expected 2 unresolved, got %d", res.Unresolved)
	}
	d, _ := u.Find(diag.SemaUnknownType)
	if !strings.Contains(d.Message, "Missing") {
		t.Fatalf("message should name the type: %q", d.Message)
	}
}

func TestKindMismatches(t *testing.T) {
	u, _ := check(t, `
module M {
    struct S {}
    exception E {}
    interface I { op(); }
    class C : S {}
    exception F : S {}
    interface J : S {}
    interface K {
        a(x: I::op);
        b() throws S;
        c(m: M);
        d(e: E);
    }
    enum Color : string { Red }
}`)
	want := map[diag.Code]int{
		diag.SemaInvalidBase:       3,
		diag.SemaInvalidThrows:     1,
		diag.SemaNotAType:          3,
		diag.SemaInvalidUnderlying: 1,
	}
	for code, n := range want {
		if got := u.Count(code); got != n {
			t.Fatalf("%s: expected %d, got %d (%v)", code.ID(), n, got, u.Codes())
		}
	}
}

func TestAliasesSatisfyBasePositions(t *testing.T) {
	u, _ := check(t, `
module M {
    interface Base {}
    typealias B = Base;
    interface Derived : B {}
    enum E : U8 { A }
    typealias U8 = uint8;
}`)
	if u.Bag.Len() != 0 {
		t.Fatalf("aliases of the right kind must be accepted: %v", u.Codes())
	}
}

func TestSelfInheritanceAndCycles(t *testing.T) {
	u, _ := check(t, `
module M {
    interface A : A {}
    interface B : C {}
    interface C : D {}
    interface D : B {}
    interface E : F, F {}
    interface F {}
}`)
	if u.Count(diag.SemaSelfInheritance) != 1 {
		t.Fatalf("expected self inheritance: %v", u.Codes())
	}
	if u.Count(diag.SemaInheritanceCycle) != 1 {
		t.Fatalf("expected exactly one inheritance cycle: %v", u.Codes())
	}
	d, _ := u.Find(diag.SemaInheritanceCycle)
	if !strings.Contains(d.Message, "M::B -> M::C -> M::D -> M::B") {
		t.Fatalf("cycle path not canonical: %q", d.Message)
	}
	if u.Count(diag.SemaDuplicateBase) != 1 {
		t.Fatalf("expected duplicate base: %v", u.Codes())
	}
}

func TestDirectContainmentCycle(t *testing.T) {
	u, res := check(t, "module M { struct S { s: S } }")
	if got := u.Count(diag.SemaCyclicValueContainment); got != 1 {
		t.Fatalf("expected one cycle diagnostic, got %d", got)
	}
	d, _ := u.Find(diag.SemaCyclicValueContainment)
	if !strings.Contains(d.Message, "M::S -> M::S") {
		t.Fatalf("unexpected message %q", d.Message)
	}
	if len(res.Cycles) != 1 || len(res.Cycles[0]) != 1 {
		t.Fatalf("unexpected cycles %v", res.Cycles)
	}
}

func TestTransitiveCycleReportedOnce(t *testing.T) {
	u, res := check(t, `
module M {
    struct A { b: B }
    struct B { c: C }
    struct C { a: A, alias: AA }
    typealias AA = A;
}`)
	if got := u.Count(diag.SemaCyclicValueContainment); got != len(res.Cycles) {
		t.Fatalf("diagnostics (%d) and cycles (%d) disagree", got, len(res.Cycles))
	}
	seen := map[string]bool{}
	for _, d := range u.Bag.Items() {
		if d.Code != diag.SemaCyclicValueContainment {
			continue
		}
		if seen[d.Message] {
			t.Fatalf("cycle reported twice: %q", d.Message)
		}
		seen[d.Message] = true
	}
	if !seen["'M::A' contains itself by value: M::A -> M::B -> M::C -> M::A"] {
		t.Fatalf("canonical cycle missing: %v", seen)
	}
}

func TestOverlappingCyclesBothReported(t *testing.T) {
	u, res := check(t, `
module M {
    struct A { b: B, c: C }
    struct B { c: C }
    struct C { a: A }
}`)
	if got := u.Count(diag.SemaCyclicValueContainment); got != 2 || len(res.Cycles) != 2 {
		t.Fatalf("expected 2 cycles, got %d diagnostics and %v", got, res.Cycles)
	}
	seen := map[string]bool{}
	for _, d := range u.Bag.Items() {
		if d.Code == diag.SemaCyclicValueContainment {
			seen[d.Message] = true
		}
	}
	for _, want := range []string{
		"'M::A' contains itself by value: M::A -> M::B -> M::C -> M::A",
		"'M::A' contains itself by value: M::A -> M::C -> M::A",
	} {
		if !seen[want] {
			t.Fatalf("missing %q in %v", want, seen)
		}
	}
}

func TestIndirectionsBreakCycles(t *testing.T) {
	u, _ := check(t, `
mode = Slice1;
module M {
    struct Opt { next: Opt? }
    struct Seq { items: Sequence<Seq> }
    struct Dict { items: Dictionary<string, Dict> }
    class Node { next: Node, holder: Holder }
    struct Holder { node: Node }
    interface I { get() -> Proxy; }
    struct Proxy { i: I }
}`)
	if got := u.Count(diag.SemaCyclicValueContainment); got != 0 {
		t.Fatalf("indirections must break cycles: %v", u.Bag.Items())
	}
}

func TestEnumeratorFieldsContain(t *testing.T) {
	u, _ := check(t, "module M { enum E { A(e: E), B } }")
	if u.Count(diag.SemaCyclicValueContainment) != 1 {
		t.Fatalf("enumerator field cycle not found: %v", u.Codes())
	}
}

func TestDeterministicOrdering(t *testing.T) {
	src := `
module M {
    struct Z { z: Z }
    struct Y { m: Missing }
    struct X { x: X }
}`
	first, _ := check(t, src)
	for range 5 {
		again, _ := check(t, src)
		a, b := first.Bag.Items(), again.Bag.Items()
		if len(a) != len(b) {
			t.Fatalf("diagnostic count changed")
		}
		for i := range a {
			if a[i].Code != b[i].Code || a[i].Message != b[i].Message || a[i].Primary != b[i].Primary {
				t.Fatalf("diagnostic %d differs between runs", i)
			}
		}
	}
	items := first.Bag.Items()
	if len(items) != 3 || !strings.Contains(items[0].Message, "M::Z") || items[1].Code != diag.SemaUnknownType {
		t.Fatalf("findings must follow arena order: %v", first.Codes())
	}
}

func TestDeprecatedUsage(t *testing.T) {
	u, _ := check(t, `
module M {
    [deprecated("use New")]
    struct Old {}
    struct User { o: Old }
    [deprecated]
    struct AlsoOld { o: Old }
}`)
	if got := u.Count(diag.SemaDeprecatedUsage); got != 1 {
		t.Fatalf("expected one deprecation warning, got %d", got)
	}
	d, _ := u.Find(diag.SemaDeprecatedUsage)
	if d.Severity != diag.SevWarning || !strings.Contains(d.Message, "use New") {
		t.Fatalf("unexpected deprecation diagnostic %+v", d)
	}
}

func TestDocCommentChecks(t *testing.T) {
	u, _ := check(t, `
module M {
    exception Oops {}
    struct NotAnError {}
    interface I {
        /// Does things.
        /// @param x: the input.
        /// @param y: not a parameter.
        /// @returns: nothing really.
        /// @throws Oops: sometimes.
        a(x: int32);

        /// @throws NotAnError: never.
        /// @see Oops
        /// @see Nowhere
        b() throws Oops;
    }
}`)
	want := map[diag.Code]int{
		diag.SemaDocParamUnknown:       1,
		diag.SemaDocReturnsNoReturn:    1,
		diag.SemaDocThrowsNoThrows:     1,
		diag.SemaDocThrowsNotException: 1,
		diag.SemaDocSeeUnresolved:      1,
	}
	for code, n := range want {
		if got := u.Count(code); got != n {
			t.Fatalf("%s: expected %d, got %d (%v)", code.ID(), n, got, u.Codes())
		}
	}
	if u.Bag.HasErrors(false) {
		t.Fatalf("doc problems must be warnings")
	}
}

package validate

import (
	"strings"
	"testing"

	"idlc/internal/ast"
	"idlc/internal/diag"
	"idlc/internal/sema"
	"idlc/internal/testkit"
)

func validate(t *testing.T, sources ...string) (*testkit.Unit, Result) {
	t.Helper()
	u := testkit.Lower(t, sources...)
	sema.Check(u.Ast, sema.Options{Reporter: u.Reporter()})
	if u.Bag.HasErrors(false) {
		t.Fatalf("resolution failed: %v", u.Codes())
	}
	return u, Validate(u.Ast, Options{Reporter: u.Reporter()})
}

func TestClassUnderSlice1(t *testing.T) {
	u, res := validate(t, "mode = Slice1;\nmodule M { class C(42) {} }")
	if u.Bag.Len() != 0 || res.Violations != 0 {
		t.Fatalf("class is legal in Slice1: %v", u.Codes())
	}
	c := u.Lookup(t, "M::C").(*ast.Class)
	if c.CompactID == nil || c.CompactID.Int != 42 {
		t.Fatalf("compact id not preserved: %+v", c.CompactID)
	}
}

func TestClassUnderSlice2(t *testing.T) {
	u, res := validate(t, "mode = Slice2;\nmodule M { class C(42) {} }")
	d, ok := u.Find(diag.EncClassNotSupported)
	if !ok || res.Violations == 0 {
		t.Fatalf("expected a mode violation, got %v", u.Codes())
	}
	if !strings.Contains(d.Message, "Slice2") || !strings.Contains(d.Message, "M::C") {
		t.Fatalf("message must name the construct and the mode: %q", d.Message)
	}
	if len(d.Notes) == 0 || !strings.HasPrefix(d.Notes[0].Msg, "hint:") {
		t.Fatalf("expected a remediation hint")
	}
	if res.Suggested[d.Primary.File] != ast.ModeSlice1 {
		t.Fatalf("expected Slice1 to be suggested, got %v", res.Suggested)
	}
}

func TestCompactIDUnderSlice2(t *testing.T) {
	u, res := validate(t, "mode = Slice2;\nmodule M { class C(42) {} }")
	if u.Count(diag.EncClassNotSupported) != 2 || res.Violations != 2 {
		t.Fatalf("expected class and compact id violations, got %v", u.Codes())
	}
	found := false
	for _, d := range u.Bag.Items() {
		if strings.Contains(d.Message, "compact type ids") {
			found = true
		}
	}
	if !found {
		t.Fatalf("compact id violation missing: %v", u.Bag.Items())
	}
}

func TestDefaultModeIsSlice2(t *testing.T) {
	u, _ := validate(t, "module M { class C {} }")
	if u.Count(diag.EncClassNotSupported) != 1 {
		t.Fatalf("files without a mode compile as Slice2: %v", u.Codes())
	}
}

func TestTags(t *testing.T) {
	u, _ := validate(t, `
module M {
    struct S { tag(10) a: int32? }
}`)
	if u.Bag.Len() != 0 {
		t.Fatalf("tagged optional is legal: %v", u.Codes())
	}
	f := u.Lookup(t, "M::S::a").(*ast.Field)
	if f.Tag == nil || f.Tag.Int != 10 {
		t.Fatalf("tag value lost: %+v", f.Tag)
	}

	u, _ = validate(t, `
module M {
    struct S {
        tag(1) required: int32,
        tag(2) a: int32?,
        tag(2) b: string?,
        tag(2147483648) c: int32?,
    }
    enum E { tag(3) A }
}`)
	want := map[diag.Code]int{
		diag.SemaTagOnRequired: 1,
		diag.SemaDuplicateTag:  1,
		diag.SemaTagOutOfRange: 1,
		diag.SemaTagNotAllowed: 1,
	}
	for code, n := range want {
		if got := u.Count(code); got != n {
			t.Fatalf("%s: expected %d, got %d (%v)", code.ID(), n, got, u.Codes())
		}
	}
}

func TestSlice1Rules(t *testing.T) {
	u, res := validate(t, `
mode = Slice1;
module M {
    custom Custom;
    enum E : uint8 { A }
    enum F { A(x: int32) }
    struct S {
        a: varint32,
        b: string?,
        c: AnyClass?,
        tag(1) d: C?,
    }
    class C {}
    interface I { up(data: stream uint8); }
}`)
	want := []diag.Code{
		diag.EncCustomTypeNotSupported,
		diag.EncEnumUnderlyingNotSupported,
		diag.EncEnumFieldsNotSupported,
		diag.EncPrimitiveNotSupported,
		diag.EncOptionalNotSupported,
		diag.EncTaggedClassNotSupported,
		diag.EncStreamNotSupported,
	}
	for _, code := range want {
		if u.Count(code) != 1 {
			t.Fatalf("%s: expected one, got %v", code.ID(), u.Codes())
		}
	}
	if res.Violations != len(want) {
		t.Fatalf("expected %d violations, got %d", len(want), res.Violations)
	}
	if len(res.Suggested) != 0 {
		t.Fatalf("no single mode fits this file")
	}
}

func TestSlice2Rules(t *testing.T) {
	u, _ := validate(t, `
module M {
    exception Base {}
    exception Derived : Base {}
    exception Other {}
    struct S { any: AnyClass }
    interface I { op() throws (Base, Other); }
}`)
	for _, code := range []diag.Code{
		diag.EncExceptionInheritance,
		diag.EncAnyClassNotSupported,
		diag.EncMultipleThrows,
	} {
		if u.Count(code) != 1 {
			t.Fatalf("%s: expected one, got %v", code.ID(), u.Codes())
		}
	}
}

func TestAllViolationsReported(t *testing.T) {
	u, res := validate(t, "module M { class A {} class B {} class C {} }")
	if u.Count(diag.EncClassNotSupported) != 3 || res.Violations != 3 {
		t.Fatalf("validation must not stop at the first violation: %v", u.Codes())
	}
}

func TestCrossModeDefinition(t *testing.T) {
	u, _ := validate(t,
		"mode = Slice2;\nmodule M { custom Handle; }",
		"mode = Slice1;\nmodule N { struct S { h: M::Handle } }",
	)
	d, ok := u.Find(diag.EncIncompatibleDefinition)
	if !ok {
		t.Fatalf("expected incompatible definition, got %v", u.Codes())
	}
	if len(d.Notes) == 0 || d.Notes[0].Span.File == d.Primary.File {
		t.Fatalf("note should point at the definition in the other file")
	}
}

func TestAliasFromOtherModeIsExpanded(t *testing.T) {
	u, res := validate(t,
		"mode = Slice1;\nmodule M { typealias Anything = AnyClass; typealias Obj = Node; class Node {} }",
		"mode = Slice2;\nmodule N { struct S { a: M::Anything?, b: M::Obj? } }",
	)
	if u.Count(diag.EncAnyClassNotSupported) != 1 || u.Count(diag.EncClassNotSupported) != 1 {
		t.Fatalf("aliases must not hide Slice1-only types: %v", u.Codes())
	}
	if res.Violations != 2 {
		t.Fatalf("expected 2 violations, got %d", res.Violations)
	}
}

func TestAliasInSameModeReportedOnce(t *testing.T) {
	u, _ := validate(t, "mode = Slice2;\nmodule M { typealias Anything = AnyClass; struct S { a: Anything?, b: Anything? } }")
	if got := u.Count(diag.EncAnyClassNotSupported); got != 1 {
		t.Fatalf("expected the alias definition alone to be reported, got %d: %v", got, u.Codes())
	}
}

func TestCompactStructs(t *testing.T) {
	u, _ := validate(t, `
module M {
    compact struct Empty {}
    compact struct Tagged { tag(1) a: int32? }
}`)
	if u.Count(diag.SemaCompactStructEmpty) != 1 || u.Count(diag.SemaCompactStructTagged) != 1 {
		t.Fatalf("unexpected %v", u.Codes())
	}
}

func TestEnums(t *testing.T) {
	u, _ := validate(t, `
module M {
    enum Empty {}
    unchecked enum Open {}
    enum Dup { A = 1, B = 1 }
    enum Small : uint8 { A = 255, B }
    enum Neg : uint16 { A = -1 }
    enum Fields { A(x: int32) = 3 }
}`)
	want := map[diag.Code]int{
		diag.SemaEnumEmpty:           1,
		diag.SemaEnumDuplicateValue:  1,
		diag.SemaEnumValueOutOfRange: 2,
		diag.SemaEnumValueNotAllowed: 1,
	}
	for code, n := range want {
		if got := u.Count(code); got != n {
			t.Fatalf("%s: expected %d, got %d (%v)", code.ID(), n, got, u.Codes())
		}
	}
}

func TestCompactIDs(t *testing.T) {
	u, _ := validate(t, `
mode = Slice1;
module M {
    class A(1) {}
    class B(1) {}
    class C(-1) {}
}`)
	if u.Count(diag.SemaDuplicateCompactID) != 1 || u.Count(diag.SemaCompactIDOutOfRange) != 1 {
		t.Fatalf("unexpected %v", u.Codes())
	}
}

func TestDictionaryKeys(t *testing.T) {
	u, _ := validate(t, `
module M {
    compact struct Key { a: int32, b: string }
    struct BadKey { f: float64 }
    interface I {}
    struct S {
        ok1: Dictionary<string, int32>,
        ok2: Dictionary<Key, int32>,
        bad1: Dictionary<float32, int32>,
        bad2: Dictionary<Sequence<int32>, int32>,
        bad3: Dictionary<I, int32>,
        bad4: Dictionary<BadKey, int32>,
        bad5: Dictionary<string?, int32>,
    }
}`)
	if got := u.Count(diag.SemaInvalidDictionaryKey); got != 5 {
		t.Fatalf("expected 5 invalid keys, got %d: %v", got, u.Codes())
	}
}

func TestStreams(t *testing.T) {
	u, _ := validate(t, `
module M {
    interface I {
        a(x: stream uint8, y: int32);
        b(x: stream uint8, y: stream uint8);
    }
}`)
	if u.Count(diag.SemaStreamNotLast) != 2 || u.Count(diag.SemaMultipleStreams) != 1 {
		t.Fatalf("unexpected %v", u.Codes())
	}
}

func TestReturnMembersAndAttributes(t *testing.T) {
	u, _ := validate(t, `
module M {
    interface I {
        [oneway] a() -> int32;
        b() -> (x: int32, x: string);
        [frobnicate] c();
        [deprecated("a", "b")] d();
    }
}`)
	if u.Count(diag.SemaDuplicateMember) != 1 {
		t.Fatalf("duplicate return member not found: %v", u.Codes())
	}
	if u.Count(diag.SemaAttrInvalidArgs) != 2 {
		t.Fatalf("expected 2 attribute errors: %v", u.Codes())
	}
	d, ok := u.Find(diag.SemaUnknownAttribute)
	if !ok || d.Severity != diag.SevWarning {
		t.Fatalf("unknown attributes are warnings")
	}
}

func TestUnknownMode(t *testing.T) {
	u, _ := validate(t, "mode = Slice9;\nmodule M { struct S {} }")
	if u.Count(diag.EncUnknownMode) != 1 {
		t.Fatalf("unknown mode not reported: %v", u.Codes())
	}
}

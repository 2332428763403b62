package ast_test

import (
	"errors"
	"slices"
	"testing"

	"idlc/internal/ast"
	"idlc/internal/diag"
	"idlc/internal/testkit"
)

func TestLowerQualifiedNames(t *testing.T) {
	u := testkit.Lower(t, `
module Shop::Orders {
    struct Item { name: string }
    interface Desk {
        place(item: Item) -> (id: int64, tag(1) note: string?);
    }
}`)

	m := u.Lookup(t, "Shop::Orders").(*ast.Module)
	if m.Scope != "Shop" || m.Name() != "Orders" {
		t.Fatalf("module scope/name = %q/%q", m.Scope, m.Name())
	}
	if len(m.Members) != 2 {
		t.Fatalf("module members = %d, want 2", len(m.Members))
	}

	op := u.Lookup(t, "Shop::Orders::Desk::place").(*ast.Operation)
	if len(op.Params) != 1 || len(op.Returns) != 2 || !op.ReturnTuple {
		t.Fatalf("operation shape: params=%d returns=%d tuple=%v", len(op.Params), len(op.Returns), op.ReturnTuple)
	}
	note := ast.MustAs[*ast.Parameter](u.Ast, op.Returns[1])
	if !note.IsReturn || note.Tag == nil || note.Tag.Int != 1 || !note.Type.Optional {
		t.Fatalf("tagged return member lowered wrong: %+v", note)
	}
	if note.QualifiedName() != "Shop::Orders::Desk::place::note" {
		t.Fatalf("parameter qualified name = %q", note.QualifiedName())
	}

	item := ast.MustAs[*ast.Parameter](u.Ast, op.Params[0])
	if item.Type.IsResolved() {
		t.Fatal("named references must stay unresolved after lowering")
	}
	if got := item.Type.WrittenName(); got != "Item" {
		t.Fatalf("written name = %q", got)
	}
}

func TestLowerArenaOrder(t *testing.T) {
	u := testkit.Lower(t, "struct A {}", "struct B { a: A }")
	a, okA := u.Ast.FindByQualifiedName("A")
	b, okB := u.Ast.FindByQualifiedName("::B")
	if !okA || !okB {
		t.Fatal("definitions not registered")
	}
	if a >= b {
		t.Fatalf("indices out of load order: A=%d B=%d", a, b)
	}
	for _, k := range ast.PrimitiveKinds {
		if u.Ast.Primitive(k) >= a {
			t.Fatalf("primitive %s allocated after user definitions", k)
		}
	}
	if len(u.Ast.Files()) != 2 {
		t.Fatalf("files = %d", len(u.Ast.Files()))
	}
}

func TestLowerFirstDefinitionWins(t *testing.T) {
	u := testkit.Lower(t, "struct S {}", "struct S { x: int32 }")
	s := u.Lookup(t, "S").(*ast.Struct)
	if len(s.Fields) != 0 {
		t.Fatal("qualified lookup must return the first definition")
	}
}

func TestLowerEnumValues(t *testing.T) {
	u := testkit.Lower(t, "enum E : uint8 { A, B = 5, C, D = 0x10 }")
	want := map[string]int64{"E::A": 0, "E::B": 5, "E::C": 6, "E::D": 16}
	for name, v := range want {
		en := u.Lookup(t, name).(*ast.Enumerator)
		if !en.ValueOK || en.Value != v {
			t.Errorf("%s = %d (ok=%v), want %d", name, en.Value, en.ValueOK, v)
		}
	}
	e := u.Lookup(t, "E").(*ast.Enum)
	if e.Underlying == nil || e.Underlying.WrittenName() != "::uint8" {
		t.Fatalf("underlying = %+v", e.Underlying)
	}
}

func TestLowerContainersAreAnonymousNodes(t *testing.T) {
	u := testkit.Lower(t, "struct S { m: Dictionary<string, Sequence<int32>> }")
	s := u.Lookup(t, "S").(*ast.Struct)
	f := ast.MustAs[*ast.Field](u.Ast, s.Fields[0])
	dict := ast.MustAs[*ast.Dictionary](u.Ast, f.Type.MustIndex())
	if _, ok := dict.Value.Index(); !ok {
		t.Fatal("nested sequence must be allocated while lowering")
	}
	if ast.EntityOf(dict) != nil {
		t.Fatal("dictionary must not be a named node")
	}
}

func TestLowerModes(t *testing.T) {
	u := testkit.Lower(t, "mode = Slice1;\nstruct A {}", "struct B {}", "encoding = 1;\nstruct C {}")
	files := u.Ast.Files()
	if m := files[0].Mode; m.Mode != ast.ModeSlice1 || !m.Declared {
		t.Fatalf("file 1 mode = %+v", m)
	}
	if m := files[1].Mode; m.Mode != ast.DefaultMode || m.Declared {
		t.Fatalf("file 2 mode = %+v", m)
	}
	if m := files[2].Mode; m.Mode != ast.ModeSlice1 || !m.Legacy {
		t.Fatalf("file 3 mode = %+v", m)
	}
}

func TestLowerDeprecated(t *testing.T) {
	u := testkit.Lower(t, `
[deprecated("use New")]
struct Old {}

/// Kept for old clients.
/// @deprecated gone in 2.0
struct Older {}

struct New {}`)
	cases := []struct {
		name   string
		reason string
		ok     bool
	}{
		{"Old", "use New", true},
		{"Older", "gone in 2.0", true},
		{"New", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := ast.EntityOf(u.Lookup(t, tc.name))
			reason, ok := e.Deprecated()
			if ok != tc.ok || reason != tc.reason {
				t.Fatalf("Deprecated() = %q, %v", reason, ok)
			}
		})
	}
}

func TestLowerMalformedDocWarns(t *testing.T) {
	u := testkit.Lower(t, "/// @bogus tag\nstruct S {}")
	if u.Count(diag.SemaDocMalformed) != 1 {
		t.Fatalf("codes = %v", u.Codes())
	}
	if u.Bag.HasErrors(false) {
		t.Fatal("malformed doc comments are warnings")
	}
}

func TestMustIndexPanicsWithInternalError(t *testing.T) {
	ref := ast.TypeRef{Def: ast.Unresolved{Name: "Foo"}}
	defer func() {
		r := recover()
		err, ok := r.(error)
		var ice ast.InternalError
		if !ok || !errors.As(err, &ice) {
			t.Fatalf("recovered %v, want InternalError", r)
		}
	}()
	ref.MustIndex()
}

func TestResolveInvalidIndexPanics(t *testing.T) {
	a := ast.New()
	if _, ok := a.Get(ast.NoIndex); ok {
		t.Fatal("NoIndex must not resolve")
	}
	defer func() {
		if _, ok := recover().(ast.InternalError); !ok {
			t.Fatal("expected InternalError panic")
		}
	}()
	a.Resolve(ast.Index(a.Len() + 1))
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		value  string
		legacy bool
		want   ast.Mode
		ok     bool
	}{
		{"Slice1", false, ast.ModeSlice1, true},
		{"Slice2", false, ast.ModeSlice2, true},
		{"1", true, ast.ModeSlice1, true},
		{"2", true, ast.ModeSlice2, true},
		{"Slice3", false, 0, false},
		{"Slice1", true, 0, false},
	}
	for _, tt := range tests {
		got, ok := ast.ParseMode(tt.value, tt.legacy)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseMode(%q, %v) = %v, %v", tt.value, tt.legacy, got, ok)
		}
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"42", 42, true},
		{"-7", -7, true},
		{"0x_ff", 255, true},
		{"0b101", 5, true},
		{"0o17", 15, true},
		{"1_000", 1000, true},
		{"-9223372036854775808", -9223372036854775808, true},
		{"9223372036854775808", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := ast.ParseInt(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseInt(%q) = %d, %v", tt.in, got, ok)
		}
	}
}

func TestIndicesCoverArena(t *testing.T) {
	u := testkit.Lower(t, "module M { struct S { x: int32 } }")
	idx := u.Ast.Indices()
	if len(idx) != u.Ast.Len() || idx[0] != 1 {
		t.Fatalf("indices = %v (len %d)", idx, u.Ast.Len())
	}
	if !slices.IsSorted(idx) {
		t.Fatal("indices must follow allocation order")
	}
}

package diag

import (
	"strings"
	"testing"

	"idlc/internal/source"
)

func TestBagCountersIgnoreDisplayCap(t *testing.T) {
	b := NewBag(1)
	b.Add(NewWarning(SemaDeprecatedUsage, source.Span{}, "w"))
	if stored := b.Add(NewError(SemaUnknownType, source.Span{}, "e")); stored {
		t.Fatalf("second diagnostic must not be stored with cap 1")
	}
	if b.Len() != 1 || b.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d", b.Len(), b.Dropped())
	}
	if !b.HasErrors(false) || b.ErrorCount() != 1 || b.WarningCount() != 1 {
		t.Fatalf("counters wrong: errors=%d warnings=%d", b.ErrorCount(), b.WarningCount())
	}
}

func TestBagWarningsAsErrors(t *testing.T) {
	b := NewBag(0)
	b.Add(NewWarning(SemaDocParamUnknown, source.Span{}, "w"))
	if b.HasErrors(false) {
		t.Fatalf("warning alone must not fail the build")
	}
	if !b.HasErrors(true) {
		t.Fatalf("warning must fail the build when escalated")
	}
}

func TestBagMergeKeepsOrderAndCounts(t *testing.T) {
	a := NewBag(0)
	a.Add(NewError(LexUnknownChar, source.Span{}, "first"))
	other := NewBag(1)
	other.Add(NewError(SynUnexpectedToken, source.Span{}, "second"))
	other.Add(NewError(SynUnexpectedToken, source.Span{}, "dropped"))

	a.Merge(other)
	if a.Len() != 2 || a.ErrorCount() != 3 {
		t.Fatalf("len=%d errors=%d", a.Len(), a.ErrorCount())
	}
	if a.Items()[0].Message != "first" || a.Items()[1].Message != "second" {
		t.Fatalf("order not preserved: %+v", a.Items())
	}
}

func TestDeferredFlushOrdersByKey(t *testing.T) {
	var q Deferred
	q.Error(7, SemaUnknownType, source.Span{}, "c")
	q.Error(2, SemaUnknownType, source.Span{}, "a").AddNote(source.Span{}, "note")
	q.Warning(7, SemaDeprecatedUsage, source.Span{}, "d")
	q.Error(2, SemaNotAType, source.Span{}, "b")

	bag := NewBag(0)
	q.Flush(BagReporter{Bag: bag})
	var got []string
	for _, d := range bag.Items() {
		got = append(got, d.Message)
	}
	if strings.Join(got, ",") != "a,b,c,d" {
		t.Fatalf("unexpected order %v", got)
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("note lost")
	}
	if q.Len() != 0 {
		t.Fatalf("flush must reset the buffer")
	}
}

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir(".")
	id := fs.AddVirtual("a.idl", []byte("module A {\n  struct S {}\n}\n"))
	d := NewError(SemaRedefinition, source.Span{File: id, Start: 13, End: 19}, "redefinition of 'A::S'").
		WithNote(source.Span{File: id, Start: 0, End: 6}, "previous definition is here")

	got := FormatShortDiagnostics([]Diagnostic{d}, fs, true)
	want := "a.idl:2:3: error: redefinition of 'A::S'\na.idl:1:1: note: previous definition is here"
	if got != want {
		t.Fatalf("want:\n%s\ngot:\n%s", want, got)
	}
	if strings.Contains(FormatShortDiagnostics([]Diagnostic{d}, fs, false), "note:") {
		t.Fatalf("notes must be omitted")
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:       "LEX1001",
		SynExpectSemicolon:   "SYN2003",
		SemaRedefinition:     "SEM3002",
		IOLoadFileError:      "IO4001",
		ProjInvalidManifest:  "PRJ5001",
		EncClassNotSupported: "ENC6010",
	}
	for code, want := range cases {
		if code.ID() != want {
			t.Fatalf("%d: want %s got %s", code, want, code.ID())
		}
		if code.Title() == codeDescription[UnknownCode] {
			t.Fatalf("%s has no description", want)
		}
	}
}

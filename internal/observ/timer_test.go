package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	done := tm.Track("parse")
	done("3 files")
	tm.End(tm.Begin("resolve"), "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "parse" || r.Phases[0].Note != "3 files" {
		t.Fatalf("unexpected report: %+v", r)
	}
	s := tm.Summary()
	if !strings.Contains(s, "// 3 files") || !strings.Contains(s, "total") {
		t.Fatalf("unexpected summary:\n%s", s)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.Track("x")("")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("nil timer must be empty")
	}
}

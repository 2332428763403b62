package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestStreamTracerLevels(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	root := Begin(tr, ScopeDriver, "check", 0)
	pass := Begin(tr, ScopePass, "parse", root.ID())
	file := Begin(tr, ScopeFile, "file:a.idl", pass.ID())
	file.End("")
	pass.End("2 files")
	root.End("")

	out := buf.String()
	if strings.Contains(out, "file:a.idl") {
		t.Fatalf("file scope must be filtered at phase level:\n%s", out)
	}
	if !strings.Contains(out, "← parse (2 files)") {
		t.Fatalf("missing pass end event:\n%s", out)
	}
	if n := strings.Count(out, "\n"); n != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", n, out)
	}
}

func TestNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Begin(tr, ScopeDefinition, "Shop::Item", 7).WithExtra("kind", "struct").End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.Scope != "definition" || ev.ParentID != 7 || ev.Extra["kind"] != "struct" || ev.Detail != "ok" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestRingWraps(t *testing.T) {
	r := NewRingTracer(3, LevelError)
	for _, name := range []string{"a", "b", "c", "d"} {
		Begin(r, ScopePass, name, 0)
	}
	snap := r.Snapshot()
	if len(snap) != 3 || snap[0].Name != "b" || snap[2].Name != "d" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestNewAndContext(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off level must yield a disabled tracer")
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelDetail, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := Ring(tr); !ok {
		t.Fatalf("both mode must include a ring")
	}

	ctx := WithTracer(context.Background(), tr)
	span := Begin(FromContext(ctx), ScopePass, "load", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx) != span.ID() {
		t.Fatalf("span id not propagated")
	}
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context must yield Nop")
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel(DETAIL) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode(both) = %v, %v", m, err)
	}
}

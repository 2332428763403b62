package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = execute(append([]string{"--color", "off"}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeIDL(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckOK(t *testing.T) {
	dir := t.TempDir()
	path := writeIDL(t, dir, "shop.idl", "module Shop { struct Item { name: string } }\n")
	code, _, stderr := run(t, "check", path)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stderr, "ok: 1 files checked, 0 warnings") {
		t.Fatalf("missing summary:\n%s", stderr)
	}
}

func TestCheckFails(t *testing.T) {
	dir := t.TempDir()
	path := writeIDL(t, dir, "shop.idl", "module Shop { struct Item { item: Missing } }\n")
	code, _, stderr := run(t, "check", path)
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(stderr, "SEM3005") || !strings.Contains(stderr, "failed: 1 errors") {
		t.Fatalf("unexpected stderr:\n%s", stderr)
	}
}

func TestCheckJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeIDL(t, dir, "shop.idl", "module Shop { struct Item { item: Missing } }\n")
	code, stdout, _ := run(t, "check", "--format", "json", path)
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	var out struct {
		Count       int `json:"count"`
		Diagnostics []struct {
			Code string `json:"code"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, stdout)
	}
	if out.Count != 1 || out.Diagnostics[0].Code != "SEM3005" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestCheckUnknownFormat(t *testing.T) {
	code, _, stderr := run(t, "check", "--format", "xml", "x.idl")
	if code != 1 || !strings.Contains(stderr, "unknown format: xml") {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
}

func TestCheckUsesManifest(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, "idl.toml"), []byte("[package]\nname = \"shop\"\n\n[compile]\nsources = [\"defs\"]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "defs"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeIDL(t, filepath.Join(dir, "defs"), "a.idl", "module Shop { struct A {} }\n")
	writeIDL(t, filepath.Join(dir, "defs"), "b.idl", "module Shop { struct B { a: A } }\n")

	code, _, stderr := run(t, "check")
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stderr, "ok: 2 files checked") {
		t.Fatalf("unexpected summary:\n%s", stderr)
	}
}

func TestCheckWithoutInputs(t *testing.T) {
	t.Chdir(t.TempDir())
	code, _, stderr := run(t, "check")
	if code != 1 || !strings.Contains(stderr, "no inputs") {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
}

func TestVersionJSON(t *testing.T) {
	code, stdout, _ := run(t, "version", "--format", "json")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatal(err)
	}
	if info["version"] == "" || info["go_version"] == "" {
		t.Fatalf("incomplete version info: %v", info)
	}
}

func TestTokenize(t *testing.T) {
	dir := t.TempDir()
	path := writeIDL(t, dir, "t.idl", "struct S {}\n")
	code, stdout, stderr := run(t, "tokenize", "--format", "json", path)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	var toks []map[string]any
	if err := json.Unmarshal([]byte(stdout), &toks); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, stdout)
	}
	if len(toks) != 5 {
		t.Fatalf("got %d tokens, want 5 (struct S { } EOF)", len(toks))
	}
}

func TestInitThenCheck(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "order-service")
	code, stdout, stderr := run(t, "init", dir)
	if code != 0 {
		t.Fatalf("init exit %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout, "idl.toml") {
		t.Fatalf("unexpected init output:\n%s", stdout)
	}
	sample, err := os.ReadFile(filepath.Join(dir, "orderservice.idl"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(sample), "module OrderService {") {
		t.Fatalf("unexpected sample:\n%s", sample)
	}

	t.Chdir(dir)
	if code, _, stderr := run(t, "check"); code != 0 {
		t.Fatalf("check exit %d, stderr:\n%s", code, stderr)
	}
	if code, _, _ := run(t, "init", dir); code != 1 {
		t.Fatalf("second init should refuse to overwrite, got exit %d", code)
	}
}

func TestModuleName(t *testing.T) {
	tests := map[string]string{
		"order-service": "OrderService",
		"shop":          "Shop",
		"9lives":        "M9lives",
		"---":           "Project",
	}
	for in, want := range tests {
		if got := moduleName(in); got != want {
			t.Errorf("moduleName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDump(t *testing.T) {
	dir := t.TempDir()
	path := writeIDL(t, dir, "shop.idl", "module Shop { struct Item { name: string } }\n")

	code, stdout, stderr := run(t, "dump", "--format", "yaml", path)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout, "Item") || !strings.Contains(stdout, "Shop") {
		t.Fatalf("yaml dump misses definitions:\n%s", stdout)
	}

	code, stdout, _ = run(t, "dump", path)
	if code != 0 || !strings.Contains(stdout, "Item") {
		t.Fatalf("tree dump exit %d:\n%s", code, stdout)
	}
}

func TestDumpRefusesBrokenModel(t *testing.T) {
	dir := t.TempDir()
	path := writeIDL(t, dir, "shop.idl", "module Shop { struct Item { item: Missing } }\n")
	code, stdout, stderr := run(t, "dump", path)
	if code != 1 || stdout != "" {
		t.Fatalf("exit %d, stdout:\n%s", code, stdout)
	}
	if !strings.Contains(stderr, "SEM3005") {
		t.Fatalf("diagnostics not shown:\n%s", stderr)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("fancy"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	var buf bytes.Buffer
	if shouldUseTUI(uiModeAuto, &buf) {
		t.Fatal("auto mode must stay off for non-terminal output")
	}
}

func TestProfilingFlags(t *testing.T) {
	dir := t.TempDir()
	path := writeIDL(t, dir, "shop.idl", "module Shop { struct Item {} }\n")
	mem := filepath.Join(dir, "mem.pprof")
	code, _, stderr := run(t, "--mem-profile", mem, "check", path)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	if _, err := os.Stat(mem); err != nil {
		t.Fatalf("heap profile not written: %v", err)
	}
}

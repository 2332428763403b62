package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"idlc/internal/diag"
	"idlc/internal/source"
)

const unknownTypeSrc = "module M {\n    struct S { x: Foo }\n}\n"

func unknownTypeBag(t *testing.T, path string) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(path, []byte(unknownTypeSrc))
	start := uint32(strings.Index(unknownTypeSrc, "Foo"))
	bag := diag.NewBag(10)
	d := diag.New(diag.SevError, diag.SemaUnknownType,
		source.Span{File: fileID, Start: start, End: start + 3},
		"no type named 'Foo' in scope")
	d = d.WithNote(source.Span{File: fileID, Start: 7, End: 8}, "in module 'M'")
	bag.Add(d)
	return bag, fs
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	bag, fs := unknownTypeBag(t, "/home/user/project/idl/shop.idl")
	fs.SetBaseDir("/home/user/project")

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/idl/shop.idl:2:19"},
		{"Relative path", PathModeRelative, "idl/shop.idl:2:19"},
		{"Basename only", PathModeBasename, "shop.idl:2:19"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR SEM3005: no type named 'Foo' in scope") {
				t.Errorf("Expected header in output, got:\n%s", output)
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	bag, fs := unknownTypeBag(t, "test.idl")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})

	want := strings.Join([]string{
		"test.idl:2:19: ERROR SEM3005: no type named 'Foo' in scope",
		"1 | module M {",
		"2 |     struct S { x: Foo }",
		"  | " + strings.Repeat(" ", 18) + "^~~",
		"3 | }",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyNotes(t *testing.T) {
	bag, fs := unknownTypeBag(t, "test.idl")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	if out := buf.String(); !strings.Contains(out, "note: test.idl:1:8 in module 'M'") {
		t.Fatalf("expected note with location, got:\n%s", out)
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if out := buf.String(); strings.Contains(out, "note:") {
		t.Fatalf("notes must be hidden by default, got:\n%s", out)
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"Short path - as is", "test.idl", "test.idl:"},
		{"Long absolute path - basename", "/very/long/absolute/path/to/some/nested/directory/file.idl", "file.idl:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag, fs := unknownTypeBag(t, tt.path)
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})
			output := buf.String()
			if !strings.HasPrefix(output, tt.expected) {
				t.Errorf("Expected output to start with %q, got:\n%s", tt.expected, output)
			}
		})
	}
}

func TestPrettyWideRunes(t *testing.T) {
	src := "struct 名 { x: Foo }\n"
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("wide.idl", []byte(src))
	bag := diag.NewBag(1)
	start := uint32(strings.Index(src, "Foo"))
	bag.Add(diag.NewError(diag.SemaUnknownType, source.Span{File: fileID, Start: start, End: start + 3}, "unknown"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("short output:\n%s", buf.String())
	}
	if want := "  | " + strings.Repeat(" ", 15) + "^~~"; lines[2] != want {
		t.Fatalf("caret line = %q, want %q", lines[2], want)
	}
}

func TestPrettyMax(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("m.idl", []byte("struct A {}\n"))
	bag := diag.NewBag(0)
	for range 3 {
		bag.Add(diag.NewWarning(diag.LexUnknownChar, source.Span{File: fileID, Start: 0, End: 6}, "w"))
	}
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Max: 2})
	if n := strings.Count(buf.String(), "WARNING"); n != 2 {
		t.Fatalf("expected 2 diagnostics, got %d:\n%s", n, buf.String())
	}
}

func TestShort(t *testing.T) {
	bag, fs := unknownTypeBag(t, "test.idl")
	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, true); err != nil {
		t.Fatal(err)
	}
	want := "test.idl:2:19: error: no type named 'Foo' in scope\ntest.idl:1:8: note: in module 'M'\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

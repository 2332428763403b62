package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"idlc/internal/ast"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWalksParents(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[package]
name = "shop"

[compile]
sources = ["idl"]
references = ["vendor/common.idl"]
mode = "Slice1"
warnings_as_errors = true
max_diagnostics = 20
`)
	nested := filepath.Join(root, "idl", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := Load(nested)
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	if m.Config.Package.Name != "shop" || !m.Config.Compile.WarningsAsErrors || m.Config.Compile.MaxDiagnostics != 20 {
		t.Fatalf("unexpected config: %+v", m.Config)
	}
	if got := m.Sources(); len(got) != 1 || got[0] != filepath.Join(root, "idl") {
		t.Fatalf("Sources() = %v", got)
	}
	if got := m.References(); len(got) != 1 || got[0] != filepath.Join(root, "vendor", "common.idl") {
		t.Fatalf("References() = %v", got)
	}
	if mode, ok := m.Mode(); !ok || mode != ast.ModeSlice1 {
		t.Fatalf("Mode() = %v, %v", mode, ok)
	}
}

func TestLoadMissing(t *testing.T) {
	_, ok, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	// каталог без манифеста может всё же лежать под чужим idl.toml,
	// но у TempDir такого нет
	if ok {
		t.Fatalf("unexpected manifest above temp dir")
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		err  error
	}{
		{"no package", "[compile]\nmode = \"Slice2\"\n", "", ErrPackageSectionMissing},
		{"no name", "[package]\nname = \" \"\n", "", ErrPackageNameMissing},
		{"bad mode", "[package]\nname = \"x\"\n[compile]\nmode = \"Slice3\"\n", "invalid [compile].mode", nil},
		{"unknown key", "[package]\nname = \"x\"\nversion = 1\n", "unknown key", nil},
		{"bad toml", "[package\n", "failed to parse TOML", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			_, err := LoadFile(path)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Fatalf("error %v is not %v", err, tt.err)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Package: PackageConfig{Name: "demo"}, Compile: CompileConfig{Mode: "Slice2"}}
	path, err := Write(dir, cfg)
	if err != nil {
		t.Fatal(err)
	}
	m, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Config.Package.Name != "demo" || len(m.Sources()) != 1 || m.Sources()[0] != dir {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if _, err := Write(dir, cfg); err == nil {
		t.Fatalf("second Write must fail")
	}
}

func TestCombineOrderMatters(t *testing.T) {
	a, b := Of([]byte("a")), Of([]byte("b"))
	if Combine(a, b) == Combine(b, a) {
		t.Fatalf("Combine must depend on order")
	}
	if Combine(a, b) != Combine(a, b) || Combine(a).IsZero() {
		t.Fatalf("Combine must be deterministic and non-zero")
	}
	if len(a.String()) != 64 {
		t.Fatalf("hex digest length %d", len(a.String()))
	}
}

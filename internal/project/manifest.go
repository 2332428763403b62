// Package project finds and decodes the idl.toml project manifest.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"idlc/internal/ast"
)

// ManifestName is the file looked up in the working directory and its parents.
const ManifestName = "idl.toml"

// Manifest is a decoded idl.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package PackageConfig `toml:"package"`
	Compile CompileConfig `toml:"compile"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

// CompileConfig mirrors the `idlc check` flags; flags win when both are set.
type CompileConfig struct {
	Sources          []string `toml:"sources"`
	References       []string `toml:"references"`
	Mode             string   `toml:"mode"`
	WarningsAsErrors bool     `toml:"warnings_as_errors"`
	MaxDiagnostics   int      `toml:"max_diagnostics"`
}

var (
	// ErrPackageSectionMissing indicates that [package] is missing.
	ErrPackageSectionMissing = errors.New("missing [package]")
	ErrPackageNameMissing    = errors.New("missing [package].name")
)

// Find walks up from startDir to locate idl.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and decodes the manifest governing startDir.
// ok is false when there is none.
func Load(startDir string) (m *Manifest, ok bool, err error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err = LoadFile(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// LoadFile decodes and validates a manifest at path.
func LoadFile(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Compile.Mode != "" {
		if _, ok := ast.ParseMode(cfg.Compile.Mode, false); !ok {
			return nil, fmt.Errorf("%s: invalid [compile].mode %q (expected Slice1 or Slice2)", path, cfg.Compile.Mode)
		}
	}
	if cfg.Compile.MaxDiagnostics < 0 {
		return nil, fmt.Errorf("%s: [compile].max_diagnostics must not be negative", path)
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// Sources returns [compile].sources resolved against the manifest directory.
// An empty list means the whole project root.
func (m *Manifest) Sources() []string {
	if len(m.Config.Compile.Sources) == 0 {
		return []string{m.Root}
	}
	return m.resolve(m.Config.Compile.Sources)
}

func (m *Manifest) References() []string {
	return m.resolve(m.Config.Compile.References)
}

// Mode returns the configured default mode, if any.
func (m *Manifest) Mode() (ast.Mode, bool) {
	if m.Config.Compile.Mode == "" {
		return 0, false
	}
	return ast.ParseMode(m.Config.Compile.Mode, false)
}

func (m *Manifest) resolve(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = filepath.FromSlash(strings.TrimSpace(p))
		if !filepath.IsAbs(p) {
			p = filepath.Join(m.Root, p)
		}
		out = append(out, p)
	}
	return out
}

// Write encodes cfg into dir/idl.toml and fails if it already exists.
func Write(dir string, cfg Config) (string, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return "", fmt.Errorf("%s: failed to encode TOML: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

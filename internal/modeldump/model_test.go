package modeldump

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"idlc/internal/sema"
	"idlc/internal/testkit"
	"idlc/internal/visit"
)

const sample = `
mode = Slice1;
module Shop {
    /// An item for sale.
    class Item(7) { tag(1) price: int64?, name: string }
    enum Color { Red, Green = 5 }
    interface Catalog { find(name: string) -> Item throws NotFound; }
    exception NotFound {}
}`

func build(t *testing.T) *Model {
	t.Helper()
	u := testkit.Lower(t, sample)
	sema.Check(u.Ast, sema.Options{Reporter: u.Reporter()})
	m, err := Build(visit.Unit{Ast: u.Ast, Bag: u.Bag}, u.Files)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return m
}

func TestBuildNestsMembers(t *testing.T) {
	m := build(t)
	if len(m.Files) != 1 || len(m.Files[0].Children) != 1 {
		t.Fatalf("expected one file with one module: %+v", m.Files)
	}
	mod := m.Files[0].Children[0]
	if mod.Kind != "module" || len(mod.Children) != 4 {
		t.Fatalf("unexpected module node %+v", mod)
	}
	item := mod.Children[0]
	if item.Props["compact_id"] != "7" || item.Doc != "An item for sale." || len(item.Children) != 2 {
		t.Fatalf("unexpected class node %+v", item)
	}
	if item.Children[0].Props["tag"] != "1" || item.Children[0].Type != "int64?" {
		t.Fatalf("unexpected field node %+v", item.Children[0])
	}
	color := mod.Children[1]
	if len(color.Children) != 2 || color.Children[1].Props["value"] != "5" {
		t.Fatalf("enumerators not nested under the enum: %+v", color)
	}
	if item.Location != "test1.idl:5:11" {
		t.Fatalf("unexpected location %q", item.Location)
	}
}

func TestEncodeFormats(t *testing.T) {
	m := build(t)

	var buf bytes.Buffer
	if err := Encode(&buf, m, FormatJSON); err != nil {
		t.Fatalf("json: %v", err)
	}
	var back Model
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("json output does not parse: %v", err)
	}
	if back.Files[0].Children[0].Qualified != "Shop" {
		t.Fatalf("json lost data")
	}

	buf.Reset()
	if err := Encode(&buf, m, FormatYAML); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("yaml output does not parse: %v", err)
	}
	if !strings.Contains(buf.String(), "qualified: Shop::Catalog::find") {
		t.Fatalf("yaml missing operation:\n%s", buf.String())
	}

	buf.Reset()
	if err := Encode(&buf, m, FormatTree); err != nil {
		t.Fatalf("tree: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"test1.idl (mode: Slice1)",
		"└─ module Shop",
		"   ├─ class Item (compact_id: 7)",
		"   │  ├─ field price: int64? (tag: 1)",
		"return: Shop::Item",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("tree output missing %q:\n%s", want, out)
		}
	}
}

func TestBuildFailsOnErrors(t *testing.T) {
	u := testkit.Lower(t, "module M { struct S { a: Missing } }")
	sema.Check(u.Ast, sema.Options{Reporter: u.Reporter()})
	if _, err := Build(visit.Unit{Ast: u.Ast, Bag: u.Bag}, u.Files); !errors.Is(err, visit.ErrHasErrors) {
		t.Fatalf("expected ErrHasErrors, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("YAML"); err != nil || f != FormatYAML {
		t.Fatalf("ParseFormat(YAML) = %q, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("xml should be rejected")
	}
}

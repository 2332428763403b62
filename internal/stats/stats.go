// Package stats counts definitions of a compiled unit through the visitor.
package stats

import (
	"fmt"
	"io"
	"sort"

	"idlc/internal/ast"
	"idlc/internal/visit"
)

// Stats holds per-kind definition counts.
type Stats struct {
	Files      int                  `json:"files"`
	Kinds      map[ast.NodeKind]int `json:"-"`
	Tagged     int                  `json:"tagged"`
	Optional   int                  `json:"optional"`
	References int                  `json:"references"`
}

// Collect walks the unit; it fails exactly when Walk does.
func Collect(u visit.Unit) (*Stats, error) {
	c := &counter{s: &Stats{Kinds: make(map[ast.NodeKind]int)}}
	if err := visit.Walk(u, c); err != nil {
		return nil, err
	}
	return c.s, nil
}

type counter struct {
	visit.BaseVisitor
	s *Stats
}

func (c *counter) bump(k ast.NodeKind) { c.s.Kinds[k]++ }

func (c *counter) VisitFile(*ast.File)                           { c.s.Files++ }
func (c *counter) VisitModuleStart(ast.Index, *ast.Module)       { c.bump(ast.KindModule) }
func (c *counter) VisitStructStart(ast.Index, *ast.Struct)       { c.bump(ast.KindStruct) }
func (c *counter) VisitClassStart(ast.Index, *ast.Class)         { c.bump(ast.KindClass) }
func (c *counter) VisitExceptionStart(ast.Index, *ast.Exception) { c.bump(ast.KindException) }
func (c *counter) VisitInterfaceStart(ast.Index, *ast.Interface) { c.bump(ast.KindInterface) }
func (c *counter) VisitEnumStart(ast.Index, *ast.Enum)           { c.bump(ast.KindEnum) }
func (c *counter) VisitOperationStart(ast.Index, *ast.Operation) { c.bump(ast.KindOperation) }
func (c *counter) VisitCustomType(ast.Index, *ast.CustomType)    { c.bump(ast.KindCustomType) }
func (c *counter) VisitTypeAlias(ast.Index, *ast.TypeAlias)      { c.bump(ast.KindTypeAlias) }
func (c *counter) VisitEnumerator(ast.Index, *ast.Enumerator)    { c.bump(ast.KindEnumerator) }

func (c *counter) VisitField(_ ast.Index, f *ast.Field) {
	c.bump(ast.KindField)
	if f.Tag != nil {
		c.s.Tagged++
	}
}

func (c *counter) VisitParameter(_ ast.Index, p *ast.Parameter) {
	c.bump(ast.KindParameter)
	if p.Tag != nil {
		c.s.Tagged++
	}
}

func (c *counter) VisitTypeRef(ref *ast.TypeRef) {
	c.s.References++
	if ref.Optional {
		c.s.Optional++
	}
}

// Write prints one "kind: count" line per non-zero kind, sorted by kind name.
func (s *Stats) Write(w io.Writer) error {
	kinds := make([]ast.NodeKind, 0, len(s.Kinds))
	for k := range s.Kinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i].String() < kinds[j].String() })
	if _, err := fmt.Fprintf(w, "files: %d\n", s.Files); err != nil {
		return err
	}
	for _, k := range kinds {
		if _, err := fmt.Fprintf(w, "%s: %d\n", k, s.Kinds[k]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "type references: %d (optional %d), tagged members: %d\n", s.References, s.Optional, s.Tagged)
	return err
}

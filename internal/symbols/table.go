// Package symbols maps qualified names to arena indices.
package symbols

import (
	"strings"

	"idlc/internal/ast"
	"idlc/internal/diag"
)

// Table is the qualified-name index of a compilation unit.
// Modules are merge points: every module declaration with the same name
// shares one namespace and never conflicts with another module declaration.
type Table struct {
	ast *ast.Ast
	// определения (типы, модули, исключения) и члены (поля, операции, параметры) раздельно:
	// поиск типа сначала смотрит определения по всей цепочке областей
	defs    map[string]ast.Index
	members map[string]ast.Index
	modules map[string][]ast.Index
}

// Build registers every named node in arena order and reports redefinitions
// (at the later declaration, with a note at the earlier one).
func Build(a *ast.Ast, r diag.Reporter) *Table {
	t := &Table{
		ast:     a,
		defs:    make(map[string]ast.Index),
		members: make(map[string]ast.Index),
		modules: make(map[string][]ast.Index),
	}
	for _, idx := range a.Indices() {
		t.declare(idx, a.Resolve(idx), r)
	}
	return t
}

func (t *Table) declare(idx ast.Index, n ast.Node, r diag.Reporter) {
	switch n := n.(type) {
	case *ast.Primitive:
		t.defs[n.Name()] = idx
		return
	case *ast.Sequence, *ast.Dictionary:
		return
	case *ast.Parameter:
		// возвращаемые значения живут в своём пространстве имён, проверяет validate
		if n.IsReturn {
			return
		}
	}
	e := ast.EntityOf(n)
	if e == nil || e.Name() == "" {
		return
	}
	name := e.QualifiedName()

	if _, isModule := n.(*ast.Module); isModule {
		if prev, ok := t.defs[name]; ok {
			t.reportRedefinition(r, name, idx, prev)
			return
		}
		t.modules[name] = append(t.modules[name], idx)
		return
	}

	target := t.defs
	if isMember(n) {
		target = t.members
	}
	if prev, ok := target[name]; ok {
		t.reportRedefinition(r, name, idx, prev)
		return
	}
	if mods := t.modules[name]; len(mods) > 0 {
		t.reportRedefinition(r, name, idx, mods[0])
		return
	}
	target[name] = idx
}

func (t *Table) reportRedefinition(r diag.Reporter, name string, idx, prev ast.Index) {
	if r == nil {
		return
	}
	cur := ast.EntityOf(t.ast.Resolve(idx))
	prevNode := t.ast.Resolve(prev)
	if p, ok := prevNode.(*ast.Primitive); ok {
		diag.ReportError(r, diag.SemaRedefinition, cur.Ident.Span,
			"'"+name+"' redefines the builtin type '"+p.Name()+"'").Emit()
		return
	}
	prevEntity := ast.EntityOf(prevNode)
	diag.ReportError(r, diag.SemaRedefinition, cur.Ident.Span,
		"redefinition of '"+name+"'").
		WithNote(prevEntity.Ident.Span, "'"+name+"' was previously defined here").
		Emit()
}

func isMember(n ast.Node) bool {
	switch n.(type) {
	case *ast.Field, *ast.Parameter, *ast.Operation, *ast.Enumerator:
		return true
	}
	return false
}

// Lookup resolves a written name from scope. Relative names are tried from
// the innermost scope outward; absolute names only at the root. Definitions
// anywhere on the scope chain win over members, so a field named like a type
// does not hide the type.
func (t *Table) Lookup(name string, absolute bool, scope string) (ast.Index, bool) {
	candidates := candidateNames(name, absolute, scope)
	for _, c := range candidates {
		if idx, ok := t.defs[c]; ok {
			return idx, true
		}
		if mods := t.modules[c]; len(mods) > 0 {
			return mods[0], true
		}
	}
	for _, c := range candidates {
		if idx, ok := t.members[c]; ok {
			return idx, true
		}
	}
	return ast.NoIndex, false
}

// Find returns the node registered under an exact qualified name.
func (t *Table) Find(qualified string) (ast.Index, bool) {
	return t.Lookup(strings.TrimPrefix(qualified, "::"), true, "")
}

// Modules returns every declaration of the module with the given qualified name.
func (t *Table) Modules(qualified string) []ast.Index {
	return t.modules[qualified]
}

func candidateNames(name string, absolute bool, scope string) []string {
	if absolute || scope == "" {
		return []string{name}
	}
	out := make([]string, 0, strings.Count(scope, "::")+2)
	for s := scope; ; {
		out = append(out, ast.JoinScope(s, name))
		i := strings.LastIndex(s, "::")
		if i < 0 {
			break
		}
		s = s[:i]
	}
	return append(out, name)
}

// Package sema patches type references and checks the resolved model.
package sema

import (
	"idlc/internal/ast"
	"idlc/internal/diag"
	"idlc/internal/symbols"
)

// Options configure a semantic pass over the compilation unit.
type Options struct {
	Reporter diag.Reporter
	// Symbols is built (and its redefinitions reported) when nil.
	Symbols *symbols.Table
}

// Result stores what the checker learned about the model.
type Result struct {
	Symbols    *symbols.Table
	Unresolved int
	// Cycles lists every reported value-containment cycle, rotated so the
	// smallest index comes first.
	Cycles [][]ast.Index
}

// Check resolves every type reference in arena order and then runs the
// structural checks. Findings are flushed ordered by the arena index of the
// definition that triggered them.
func Check(a *ast.Ast, opts Options) Result {
	res := Result{Symbols: opts.Symbols}
	if a == nil {
		return res
	}
	if res.Symbols == nil {
		res.Symbols = symbols.Build(a, opts.Reporter)
	}

	c := checker{
		ast:      a,
		symbols:  res.Symbols,
		result:   &res,
		resolved: make(map[ast.Index]bool),
	}
	c.run()
	c.out.Flush(opts.Reporter)
	return res
}

type checker struct {
	ast     *ast.Ast
	symbols *symbols.Table
	result  *Result
	out     diag.Deferred
	// узлы, чьи ссылки уже обработаны; псевдонимы иногда разрешаются раньше очереди
	resolved map[ast.Index]bool
}

func (c *checker) run() {
	// сначала все ссылки, иначе проверки наследования и циклов увидят половину графа
	for _, idx := range c.ast.Indices() {
		c.resolveNode(idx)
	}
	c.checkInheritance()
	c.checkContainment()
	for _, idx := range c.ast.Indices() {
		c.checkDoc(idx, c.ast.Resolve(idx))
	}
}

func key(idx ast.Index) uint32 { return uint32(idx) }

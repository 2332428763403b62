package sema

import (
	"strings"

	"idlc/internal/ast"
	"idlc/internal/diag"
)

// checkDoc cross-checks doc-comment tags against the definition they document.
// Problems are warnings; doc comments never make a compilation fail on their own.
func (c *checker) checkDoc(idx ast.Index, n ast.Node) {
	e := ast.EntityOf(n)
	if e == nil || e.Doc == nil {
		return
	}
	doc := e.Doc
	op, isOp := n.(*ast.Operation)

	for _, p := range doc.Params {
		if !isOp || !c.hasParam(op, p.Name) {
			c.out.Warning(key(idx), diag.SemaDocParamUnknown, p.Span,
				"doc comment describes a parameter '"+p.Name+"' that '"+e.Name()+"' does not have")
		}
	}
	if len(doc.Returns) > 0 && (!isOp || len(op.Returns) == 0) {
		c.out.Warning(key(idx), diag.SemaDocReturnsNoReturn, doc.Returns[0].Span,
			"'@returns' on '"+e.Name()+"', which returns nothing")
	}
	for i := range doc.Throws {
		link := &doc.Throws[i]
		if !isOp || len(op.Throws) == 0 {
			c.out.Warning(key(idx), diag.SemaDocThrowsNoThrows, link.Span,
				"'@throws' on '"+e.Name()+"', which does not throw")
			continue
		}
		target, ok := c.lookupLink(link.Name, e.Scope)
		if !ok {
			c.out.Warning(key(idx), diag.SemaDocSeeUnresolved, link.Span,
				"doc comment names '"+link.Name+"', which does not exist")
			continue
		}
		if _, real := c.ast.Unalias(target); real.Kind() != ast.KindException {
			c.out.Warning(key(idx), diag.SemaDocThrowsNotException, link.Span,
				"'@throws "+link.Name+"' names "+article(real.Kind())+" "+real.Kind().String()+", not an exception")
			continue
		}
		link.Target = target
	}
	for i := range doc.See {
		link := &doc.See[i]
		target, ok := c.lookupLink(link.Name, e.Scope)
		if !ok {
			c.out.Warning(key(idx), diag.SemaDocSeeUnresolved, link.Span,
				"'@see "+link.Name+"' does not name a definition")
			continue
		}
		link.Target = target
	}
}

func (c *checker) hasParam(op *ast.Operation, name string) bool {
	for _, p := range op.Params {
		if ast.EntityOf(c.ast.Resolve(p)).Name() == name {
			return true
		}
	}
	return false
}

// lookupLink resolves a doc link relative to the scope of the documented entity.
func (c *checker) lookupLink(name, scope string) (ast.Index, bool) {
	absolute := strings.HasPrefix(name, "::")
	return c.symbols.Lookup(strings.TrimPrefix(name, "::"), absolute, scope)
}

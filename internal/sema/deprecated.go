package sema

import (
	"idlc/internal/ast"
	"idlc/internal/diag"
)

// checkDeprecated warns when a non-deprecated context names a deprecated definition.
func (c *checker) checkDeprecated(owner, target ast.Index, ref *ast.TypeRef) {
	e := ast.EntityOf(c.ast.Resolve(target))
	if e == nil {
		return
	}
	reason, deprecated := e.Deprecated()
	if !deprecated || c.inDeprecatedContext(owner) {
		return
	}
	msg := "'" + e.QualifiedName() + "' is deprecated"
	if reason != "" {
		msg += ": " + reason
	}
	c.out.Warning(key(owner), diag.SemaDeprecatedUsage, ref.Span, msg).
		AddNote(e.Ident.Span, "'"+e.QualifiedName()+"' was marked deprecated here")
}

// inDeprecatedContext reports whether idx or any enclosing definition is deprecated.
func (c *checker) inDeprecatedContext(idx ast.Index) bool {
	for idx != ast.NoIndex {
		e := ast.EntityOf(c.ast.Resolve(idx))
		if e == nil {
			return false
		}
		if _, ok := e.Deprecated(); ok {
			return true
		}
		idx = e.Parent
	}
	return false
}

package sema

import (
	"fmt"

	"idlc/internal/ast"
	"idlc/internal/diag"
)

// position is what a reference is used as; it decides which kinds are legal.
type position uint8

const (
	posDataType position = iota
	posClassBase
	posExceptionBase
	posInterfaceBase
	posThrows
	posUnderlying
)

func (c *checker) resolveNode(idx ast.Index) {
	if c.resolved[idx] {
		return
	}
	c.resolved[idx] = true
	switch n := c.ast.Resolve(idx).(type) {
	case *ast.Exception:
		if n.Base != nil {
			c.resolveRef(idx, n.Base, posExceptionBase)
		}
	case *ast.Class:
		if n.Base != nil {
			c.resolveRef(idx, n.Base, posClassBase)
		}
	case *ast.Interface:
		for i := range n.Bases {
			c.resolveRef(idx, &n.Bases[i], posInterfaceBase)
		}
	case *ast.Enum:
		if n.Underlying != nil {
			c.resolveRef(idx, n.Underlying, posUnderlying)
		}
	case *ast.TypeAlias:
		c.resolveRef(idx, &n.Underlying, posDataType)
	case *ast.Field:
		c.resolveRef(idx, &n.Type, posDataType)
	case *ast.Parameter:
		c.resolveRef(idx, &n.Type, posDataType)
	case *ast.Operation:
		for i := range n.Throws {
			c.resolveRef(idx, &n.Throws[i], posThrows)
		}
	}
	// Sequence и Dictionary разрешаются через своего владельца
}

// resolveRef patches ref in place. A name that does not resolve, or resolves
// to the wrong kind of definition, is reported and left unresolved.
func (c *checker) resolveRef(owner ast.Index, ref *ast.TypeRef, pos position) {
	if idx, ok := ref.Index(); ok {
		switch n := c.ast.Resolve(idx).(type) {
		case *ast.Sequence:
			c.resolveRef(owner, &n.Element, posDataType)
		case *ast.Dictionary:
			c.resolveRef(owner, &n.Key, posDataType)
			c.resolveRef(owner, &n.Value, posDataType)
		}
		if pos != posDataType {
			c.out.Error(key(owner), c.positionCode(pos), ref.Span,
				fmt.Sprintf("'%s' cannot be used %s", c.ast.DisplayName(idx), positionText(pos)))
		}
		return
	}
	u, ok := ref.Def.(ast.Unresolved)
	if !ok {
		return
	}
	target, found := c.symbols.Lookup(u.Name, u.Absolute, u.Scope)
	if !found {
		c.result.Unresolved++
		c.out.Error(key(owner), diag.SemaUnknownType, ref.Span,
			fmt.Sprintf("no type named '%s' in scope", ref.WrittenName()))
		return
	}
	if !c.acceptable(owner, target, pos, ref) {
		c.result.Unresolved++
		return
	}
	ref.Patch(target)
	c.checkDeprecated(owner, target, ref)
}

func (c *checker) acceptable(owner, target ast.Index, pos position, ref *ast.TypeRef) bool {
	n := c.ast.Resolve(target)
	name := c.ast.DisplayName(target)
	if pos == posDataType {
		if ast.IsType(n.Kind()) {
			return true
		}
		d := c.out.Error(key(owner), diag.SemaNotAType, ref.Span,
			fmt.Sprintf("'%s' is %s %s, not a type", name, article(n.Kind()), n.Kind()))
		c.noteDefinition(d, n, name)
		return false
	}

	_, real := c.unalias(target)
	want := map[position]ast.NodeKind{
		posClassBase:     ast.KindClass,
		posExceptionBase: ast.KindException,
		posInterfaceBase: ast.KindInterface,
		posThrows:        ast.KindException,
	}
	if pos == posUnderlying {
		if p, ok := real.(*ast.Primitive); ok && p.Prim.IsIntegral() {
			return true
		}
		c.out.Error(key(owner), diag.SemaInvalidUnderlying, ref.Span,
			fmt.Sprintf("'%s' is not an integral type and cannot be an enum's underlying type", name))
		return false
	}
	if real.Kind() == want[pos] {
		return true
	}
	d := c.out.Error(key(owner), c.positionCode(pos), ref.Span,
		fmt.Sprintf("'%s' is %s %s and cannot be used %s", name, article(real.Kind()), real.Kind(), positionText(pos)))
	c.noteDefinition(d, real, name)
	return false
}

func (c *checker) noteDefinition(d *diag.Diagnostic, n ast.Node, name string) {
	if e := ast.EntityOf(n); e != nil {
		d.AddNote(e.Ident.Span, "'"+name+"' is defined here")
	}
}

func (c *checker) positionCode(pos position) diag.Code {
	switch pos {
	case posThrows:
		return diag.SemaInvalidThrows
	case posUnderlying:
		return diag.SemaInvalidUnderlying
	case posDataType:
		return diag.SemaNotAType
	}
	return diag.SemaInvalidBase
}

func positionText(pos position) string {
	switch pos {
	case posClassBase:
		return "as the base of a class"
	case posExceptionBase:
		return "as the base of an exception"
	case posInterfaceBase:
		return "as a base interface"
	case posThrows:
		return "in a throws clause"
	case posUnderlying:
		return "as an enum underlying type"
	}
	return "as a type"
}

func article(k ast.NodeKind) string {
	switch k {
	case ast.KindInterface, ast.KindException, ast.KindEnum, ast.KindEnumerator, ast.KindOperation:
		return "an"
	}
	return "a"
}

// unalias resolves the alias chain starting at idx on demand and follows it.
func (c *checker) unalias(idx ast.Index) (ast.Index, ast.Node) {
	seen := make(map[ast.Index]bool)
	for cur := idx; !seen[cur]; {
		seen[cur] = true
		alias, ok := c.ast.Resolve(cur).(*ast.TypeAlias)
		if !ok {
			break
		}
		c.resolveNode(cur)
		next, ok := alias.Underlying.Index()
		if !ok {
			break
		}
		cur = next
	}
	return c.ast.Unalias(idx)
}

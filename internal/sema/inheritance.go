package sema

import (
	"strconv"
	"strings"

	"idlc/internal/ast"
	"idlc/internal/diag"
)

// bases returns the resolved inheritance edges of classes, exceptions and interfaces.
func (c *checker) bases(n ast.Node) []*ast.TypeRef {
	switch n := n.(type) {
	case *ast.Class:
		if n.Base != nil {
			return []*ast.TypeRef{n.Base}
		}
	case *ast.Exception:
		if n.Base != nil {
			return []*ast.TypeRef{n.Base}
		}
	case *ast.Interface:
		out := make([]*ast.TypeRef, len(n.Bases))
		for i := range n.Bases {
			out[i] = &n.Bases[i]
		}
		return out
	}
	return nil
}

// baseTarget follows aliases so `class C : Alias` inherits from the aliased class.
func (c *checker) baseTarget(ref *ast.TypeRef) (ast.Index, bool) {
	idx, ok := ref.Index()
	if !ok {
		return ast.NoIndex, false
	}
	real, _ := c.ast.Unalias(idx)
	return real, true
}

// checkInheritance reports self-inheritance, duplicate bases and inheritance cycles.
func (c *checker) checkInheritance() {
	const (
		white = iota
		gray
		black
	)
	state := make(map[ast.Index]int)
	reported := make(map[string]bool)
	var stack []ast.Index

	var visit func(idx ast.Index)
	visit = func(idx ast.Index) {
		state[idx] = gray
		stack = append(stack, idx)
		for _, ref := range c.bases(c.ast.Resolve(idx)) {
			next, ok := c.baseTarget(ref)
			if !ok || next == idx {
				continue
			}
			switch state[next] {
			case white:
				visit(next)
			case gray:
				c.reportInheritanceCycle(cycleFrom(stack, next), reported)
			}
		}
		stack = stack[:len(stack)-1]
		state[idx] = black
	}

	for _, idx := range c.ast.Indices() {
		n := c.ast.Resolve(idx)
		refs := c.bases(n)
		if len(refs) == 0 {
			continue
		}
		seen := make(map[ast.Index]bool, len(refs))
		for _, ref := range refs {
			target, ok := c.baseTarget(ref)
			if !ok {
				continue
			}
			name := ast.EntityOf(n).QualifiedName()
			if target == idx {
				c.out.Error(key(idx), diag.SemaSelfInheritance, ref.Span,
					"'"+name+"' cannot inherit from itself")
				continue
			}
			if seen[target] {
				c.out.Error(key(idx), diag.SemaDuplicateBase, ref.Span,
					"'"+c.ast.DisplayName(target)+"' is listed more than once as a base of '"+name+"'")
			}
			seen[target] = true
		}
		if state[idx] == white {
			visit(idx)
		}
	}
}

func (c *checker) reportInheritanceCycle(cycle []ast.Index, reported map[string]bool) {
	cycle = canonicalCycle(cycle)
	k := cycleKey(cycle)
	if reported[k] {
		return
	}
	reported[k] = true
	first := ast.EntityOf(c.ast.Resolve(cycle[0]))
	c.out.Error(key(cycle[0]), diag.SemaInheritanceCycle, first.Ident.Span,
		"inheritance cycle: "+c.cyclePath(cycle))
}

// cycleFrom returns the part of the DFS stack starting at the gray node.
func cycleFrom(stack []ast.Index, start ast.Index) []ast.Index {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == start {
			return append([]ast.Index(nil), stack[i:]...)
		}
	}
	return nil
}

// canonicalCycle rotates the cycle so the smallest index comes first.
func canonicalCycle(cycle []ast.Index) []ast.Index {
	if len(cycle) == 0 {
		return cycle
	}
	minAt := 0
	for i, idx := range cycle {
		if idx < cycle[minAt] {
			minAt = i
		}
	}
	out := make([]ast.Index, 0, len(cycle))
	out = append(out, cycle[minAt:]...)
	return append(out, cycle[:minAt]...)
}

func cycleKey(cycle []ast.Index) string {
	var sb strings.Builder
	for _, idx := range cycle {
		sb.WriteString(strconv.FormatUint(uint64(idx), 10))
		sb.WriteByte(',')
	}
	return sb.String()
}

// cyclePath renders "A -> B -> A".
func (c *checker) cyclePath(cycle []ast.Index) string {
	names := make([]string, 0, len(cycle)+1)
	for _, idx := range cycle {
		names = append(names, c.ast.DisplayName(idx))
	}
	names = append(names, c.ast.DisplayName(cycle[0]))
	return strings.Join(names, " -> ")
}

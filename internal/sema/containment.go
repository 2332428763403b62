package sema

import (
	"idlc/internal/ast"
	"idlc/internal/diag"
	"idlc/internal/source"
)

// edge is a contains-by-value relation introduced by one member.
type edge struct {
	to     ast.Index
	member ast.Index // поле или NoIndex для раскрытия псевдонима
	span   source.Span
}

// valueEdges lists what a definition stores by value. Optional members,
// sequences, dictionaries, classes and interface proxies are indirections and
// break containment; inheritance is not containment.
func (c *checker) valueEdges(idx ast.Index) []edge {
	var out []edge
	fields := func(list []ast.Index) {
		for _, f := range list {
			field := ast.MustAs[*ast.Field](c.ast, f)
			if to, ok := c.storedByValue(&field.Type); ok {
				out = append(out, edge{to: to, member: f, span: field.Ident.Span})
			}
		}
	}
	switch n := c.ast.Resolve(idx).(type) {
	case *ast.Struct:
		fields(n.Fields)
	case *ast.Exception:
		fields(n.Fields)
	case *ast.Enum:
		for _, en := range n.Enumerators {
			fields(ast.MustAs[*ast.Enumerator](c.ast, en).Fields)
		}
	case *ast.TypeAlias:
		if to, ok := c.storedByValue(&n.Underlying); ok {
			out = append(out, edge{to: to, span: n.Underlying.Span})
		}
	}
	return out
}

func (c *checker) storedByValue(ref *ast.TypeRef) (ast.Index, bool) {
	if ref.Optional {
		return ast.NoIndex, false
	}
	idx, ok := ref.Index()
	if !ok {
		return ast.NoIndex, false
	}
	switch c.ast.Resolve(idx).(type) {
	case *ast.Struct, *ast.Exception, *ast.Enum, *ast.TypeAlias:
		return idx, true
	}
	return ast.NoIndex, false
}

// checkContainment enumerates every elementary value-containment cycle.
// A cycle is found from its smallest-index definition only: the walk from a
// root never enters definitions with a smaller index, so overlapping cycles
// through a shared node are each reported once.
func (c *checker) checkContainment() {
	var roots []ast.Index
	graph := make(map[ast.Index][]edge)
	for _, idx := range c.ast.Indices() {
		switch c.ast.Resolve(idx).(type) {
		case *ast.Struct, *ast.Exception, *ast.Enum, *ast.TypeAlias:
			roots = append(roots, idx)
			graph[idx] = c.valueEdges(idx)
		}
	}

	reported := make(map[string]bool)
	for _, root := range roots {
		var (
			path   []ast.Index
			via    []edge // via[i] ведёт из path[i] в path[i+1]
			onPath = make(map[ast.Index]bool)
		)
		var walk func(idx ast.Index)
		walk = func(idx ast.Index) {
			onPath[idx] = true
			path = append(path, idx)
			for _, e := range graph[idx] {
				switch {
				case e.to == root:
					nodes := append([]ast.Index(nil), path...)
					edges := append(append([]edge(nil), via...), e)
					c.reportContainmentCycle(nodes, edges, reported)
				case e.to > root && !onPath[e.to]:
					via = append(via, e)
					walk(e.to)
					via = via[:len(via)-1]
				}
			}
			path = path[:len(path)-1]
			onPath[idx] = false
		}
		walk(root)
	}
}

func (c *checker) reportContainmentCycle(nodes []ast.Index, edges []edge, reported map[string]bool) {
	minAt := 0
	for i, idx := range nodes {
		if idx < nodes[minAt] {
			minAt = i
		}
	}
	nodes = append(append([]ast.Index(nil), nodes[minAt:]...), nodes[:minAt]...)
	edges = append(append([]edge(nil), edges[minAt:]...), edges[:minAt]...)
	k := cycleKey(nodes)
	if reported[k] {
		return
	}
	reported[k] = true
	c.result.Cycles = append(c.result.Cycles, nodes)

	first := ast.EntityOf(c.ast.Resolve(nodes[0]))
	d := c.out.Error(key(nodes[0]), diag.SemaCyclicValueContainment, first.Ident.Span,
		"'"+first.QualifiedName()+"' contains itself by value: "+c.cyclePath(nodes))
	for _, e := range edges {
		target := c.ast.DisplayName(e.to)
		if e.member == ast.NoIndex {
			d.AddNote(e.span, "alias expands to '"+target+"'")
			continue
		}
		name := ast.EntityOf(c.ast.Resolve(e.member)).QualifiedName()
		d.AddNote(e.span, "'"+name+"' stores '"+target+"' by value")
	}
	d.AddNote(first.Ident.Span, "make a member optional or use a sequence to break the cycle")
}

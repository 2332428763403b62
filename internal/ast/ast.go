package ast

import (
	"idlc/internal/source"
)

// Ast owns every node of a compilation unit.
type Ast struct {
	nodes      *Arena[Node]
	files      []*File
	byFile     map[source.FileID]*File
	qualified  map[string]Index // первое определение для каждого имени
	primitives map[PrimitiveKind]Index
}

// New creates an arena pre-populated with the builtin primitive nodes.
func New() *Ast {
	a := &Ast{
		nodes:      NewArena[Node](256),
		byFile:     make(map[source.FileID]*File),
		qualified:  make(map[string]Index),
		primitives: make(map[PrimitiveKind]Index, len(PrimitiveKinds)),
	}
	for _, k := range PrimitiveKinds {
		idx := a.nodes.Allocate(&Primitive{Prim: k})
		a.primitives[k] = idx
		a.qualified[k.String()] = idx
	}
	return a
}

// Allocate stores n and returns its index. Indices are never reused.
func (a *Ast) Allocate(n Node) Index {
	if n == nil {
		panic(internalf("allocate of nil node"))
	}
	idx := a.nodes.Allocate(n)
	if e := EntityOf(n); e != nil && e.Name() != "" {
		if _, seen := a.qualified[e.QualifiedName()]; !seen {
			a.qualified[e.QualifiedName()] = idx
		}
	}
	return idx
}

// Get returns the node at idx, or false for an invalid index.
func (a *Ast) Get(idx Index) (Node, bool) {
	return a.nodes.Get(idx)
}

// Resolve returns the node at idx. An invalid index is an internal error.
func (a *Ast) Resolve(idx Index) Node {
	n, ok := a.nodes.Get(idx)
	if !ok {
		panic(internalf("invalid arena index %d (len %d)", idx, a.nodes.Len()))
	}
	return n
}

// FindByQualifiedName returns the first definition with the given qualified name.
// A leading "::" is ignored.
func (a *Ast) FindByQualifiedName(name string) (Index, bool) {
	if len(name) > 2 && name[:2] == "::" {
		name = name[2:]
	}
	idx, ok := a.qualified[name]
	return idx, ok
}

// Primitive returns the builtin node for k.
func (a *Ast) Primitive(k PrimitiveKind) Index {
	return a.primitives[k]
}

// Len returns the number of allocated nodes.
func (a *Ast) Len() int { return a.nodes.Len() }

// Indices yields every valid index in allocation order.
func (a *Ast) Indices() []Index {
	out := make([]Index, a.nodes.Len())
	for i := range out {
		out[i] = Index(i + 1)
	}
	return out
}

// AddFile registers a lowered file.
func (a *Ast) AddFile(f *File) {
	a.files = append(a.files, f)
	a.byFile[f.ID] = f
}

// Files returns lowered files in load order.
func (a *Ast) Files() []*File { return a.files }

// File returns the lowered file with the given source id.
func (a *Ast) File(id source.FileID) (*File, bool) {
	f, ok := a.byFile[id]
	return f, ok
}

// MustAs returns the node at idx as T; a kind mismatch is an internal error.
func MustAs[T Node](a *Ast, idx Index) T {
	n := a.Resolve(idx)
	t, ok := n.(T)
	if !ok {
		var want T
		panic(internalf("node %d is %s, not %T", idx, n.Kind(), want))
	}
	return t
}

// Target returns the node a resolved reference points at.
func (a *Ast) Target(ref *TypeRef) Node {
	return a.Resolve(ref.MustIndex())
}

// Unalias follows type aliases from idx to the first non-alias node.
// Unresolved or cyclic alias chains return the last node reached.
func (a *Ast) Unalias(idx Index) (Index, Node) {
	seen := map[Index]bool{}
	for {
		n := a.Resolve(idx)
		alias, ok := n.(*TypeAlias)
		if !ok || seen[idx] {
			return idx, n
		}
		seen[idx] = true
		next, ok := alias.Underlying.Index()
		if !ok {
			return idx, n
		}
		idx = next
	}
}

// DisplayName renders a type for messages: qualified name, or Sequence<...> etc.
func (a *Ast) DisplayName(idx Index) string {
	n, ok := a.Get(idx)
	if !ok {
		return "<invalid>"
	}
	switch n := n.(type) {
	case *Primitive:
		return n.Name()
	case *Sequence:
		return "Sequence<" + a.RefName(&n.Element) + ">"
	case *Dictionary:
		return "Dictionary<" + a.RefName(&n.Key) + ", " + a.RefName(&n.Value) + ">"
	}
	if e := EntityOf(n); e != nil {
		return e.QualifiedName()
	}
	return n.Kind().String()
}

// RefName renders a reference whether or not it is resolved.
func (a *Ast) RefName(ref *TypeRef) string {
	s := ref.WrittenName()
	if idx, ok := ref.Index(); ok {
		s = a.DisplayName(idx)
	}
	if ref.Optional {
		s += "?"
	}
	return s
}

package ast

import "idlc/internal/source"

// TypeRefDef is either Unresolved or Resolved.
type TypeRefDef interface {
	typeRefDef()
}

// Unresolved is a type reference that still carries only its written name.
type Unresolved struct {
	Name     string // без ведущего "::"
	Absolute bool
	Scope    string // область, из которой выполняется относительный поиск
	Span     source.Span
}

// Resolved points at the referenced node.
type Resolved struct {
	Index Index
}

func (Unresolved) typeRefDef() {}
func (Resolved) typeRefDef()   {}

// TypeRef is a use of a type together with its optional modifier.
type TypeRef struct {
	Def      TypeRefDef
	Optional bool
	Span     source.Span
}

// IsResolved reports whether the reference has been patched.
func (r *TypeRef) IsResolved() bool {
	_, ok := r.Def.(Resolved)
	return ok
}

// Index returns the target index and true if resolved.
func (r *TypeRef) Index() (Index, bool) {
	if res, ok := r.Def.(Resolved); ok {
		return res.Index, true
	}
	return NoIndex, false
}

// MustIndex dereferences a resolved reference. Dereferencing an unresolved
// reference is an internal invariant violation and panics with InternalError.
func (r *TypeRef) MustIndex() Index {
	if res, ok := r.Def.(Resolved); ok {
		return res.Index
	}
	if u, ok := r.Def.(Unresolved); ok {
		panic(internalf("dereference of unresolved type reference %q at %s", u.Name, u.Span))
	}
	panic(internalf("dereference of empty type reference at %s", r.Span))
}

// WrittenName returns the name as written ("::A::B" for absolute references).
func (r *TypeRef) WrittenName() string {
	if u, ok := r.Def.(Unresolved); ok {
		if u.Absolute {
			return "::" + u.Name
		}
		return u.Name
	}
	return ""
}

// Patch replaces the definition with a resolved index.
func (r *TypeRef) Patch(idx Index) {
	r.Def = Resolved{Index: idx}
}

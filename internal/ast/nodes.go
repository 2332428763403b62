package ast

import "idlc/internal/source"

type Module struct {
	Entity
	Members []Index
}

type Struct struct {
	Entity
	Compact bool
	Fields  []Index
}

type Exception struct {
	Entity
	Base   *TypeRef
	Fields []Index
}

type Class struct {
	Entity
	CompactID *Literal
	Base      *TypeRef
	Fields    []Index
}

type Interface struct {
	Entity
	Bases      []TypeRef
	Operations []Index
}

type Enum struct {
	Entity
	Unchecked   bool
	Underlying  *TypeRef
	Enumerators []Index
}

// Enumerator's Value is explicit (Explicit) or one more than its predecessor.
type Enumerator struct {
	Entity
	Value     int64
	ValueOK   bool
	Explicit  *Literal
	Tag       *Literal
	HasFields bool
	Fields    []Index
}

type CustomType struct {
	Entity
}

type TypeAlias struct {
	Entity
	Underlying TypeRef
}

type Operation struct {
	Entity
	Idempotent  bool
	Params      []Index
	Returns     []Index
	ReturnTuple bool
	Throws      []TypeRef
	ThrowsSpan  source.Span
}

// Parameter is an operation parameter or return member.
type Parameter struct {
	Entity
	Type     TypeRef
	Tag      *Literal
	Stream   bool
	IsReturn bool
}

// Field is a data member of a struct, class, exception or enumerator.
type Field struct {
	Entity
	Type TypeRef
	Tag  *Literal
}

// Primitive is a builtin type. Primitives are allocated before any file is added.
type Primitive struct {
	Prim PrimitiveKind
}

type Sequence struct {
	Element TypeRef
	Loc     source.Span
}

type Dictionary struct {
	Key   TypeRef
	Value TypeRef
	Loc   source.Span
}

func (*Module) Kind() NodeKind     { return KindModule }
func (*Interface) Kind() NodeKind  { return KindInterface }
func (*Class) Kind() NodeKind      { return KindClass }
func (*Struct) Kind() NodeKind     { return KindStruct }
func (*Exception) Kind() NodeKind  { return KindException }
func (*Enum) Kind() NodeKind       { return KindEnum }
func (*Enumerator) Kind() NodeKind { return KindEnumerator }
func (*CustomType) Kind() NodeKind { return KindCustomType }
func (*TypeAlias) Kind() NodeKind  { return KindTypeAlias }
func (*Operation) Kind() NodeKind  { return KindOperation }
func (*Parameter) Kind() NodeKind  { return KindParameter }
func (*Field) Kind() NodeKind      { return KindField }
func (*Primitive) Kind() NodeKind  { return KindPrimitive }
func (*Sequence) Kind() NodeKind   { return KindSequence }
func (*Dictionary) Kind() NodeKind { return KindDictionary }

func (*Module) sealed()     {}
func (*Interface) sealed()  {}
func (*Class) sealed()      {}
func (*Struct) sealed()     {}
func (*Exception) sealed()  {}
func (*Enum) sealed()       {}
func (*Enumerator) sealed() {}
func (*CustomType) sealed() {}
func (*TypeAlias) sealed()  {}
func (*Operation) sealed()  {}
func (*Parameter) sealed()  {}
func (*Field) sealed()      {}
func (*Primitive) sealed()  {}
func (*Sequence) sealed()   {}
func (*Dictionary) sealed() {}

func (*Primitive) Span() source.Span    { return source.Span{} }
func (s *Sequence) Span() source.Span   { return s.Loc }
func (d *Dictionary) Span() source.Span { return d.Loc }

// Members returns the ordered child indices of a container node, or nil.
func Members(n Node) []Index {
	switch n := n.(type) {
	case *Module:
		return n.Members
	case *Struct:
		return n.Fields
	case *Exception:
		return n.Fields
	case *Class:
		return n.Fields
	case *Interface:
		return n.Operations
	case *Enum:
		return n.Enumerators
	case *Enumerator:
		return n.Fields
	case *Operation:
		out := make([]Index, 0, len(n.Params)+len(n.Returns))
		out = append(out, n.Params...)
		return append(out, n.Returns...)
	}
	return nil
}

// IsType reports whether the node kind may be referenced where a data type is expected.
func IsType(k NodeKind) bool {
	switch k {
	case KindStruct, KindClass, KindEnum, KindInterface, KindCustomType,
		KindTypeAlias, KindPrimitive, KindSequence, KindDictionary:
		return true
	}
	return false
}

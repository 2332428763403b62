package ast

import (
	"idlc/internal/source"
)

type NodeKind uint8

const (
	KindModule NodeKind = iota + 1
	KindInterface
	KindClass
	KindStruct
	KindException
	KindEnum
	KindEnumerator
	KindCustomType
	KindTypeAlias
	KindOperation
	KindParameter
	KindField
	KindPrimitive
	KindSequence
	KindDictionary
)

var kindNames = map[NodeKind]string{
	KindModule:     "module",
	KindInterface:  "interface",
	KindClass:      "class",
	KindStruct:     "struct",
	KindException:  "exception",
	KindEnum:       "enum",
	KindEnumerator: "enumerator",
	KindCustomType: "custom type",
	KindTypeAlias:  "type alias",
	KindOperation:  "operation",
	KindParameter:  "parameter",
	KindField:      "field",
	KindPrimitive:  "primitive",
	KindSequence:   "sequence",
	KindDictionary: "dictionary",
}

func (k NodeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Node is implemented only by the node types of this package.
type Node interface {
	Kind() NodeKind
	Span() source.Span
	sealed()
}

// Identifier is a name as declared. Value never contains the escape prefix.
type Identifier struct {
	Value string
	Raw   string
	Span  source.Span
}

type LiteralKind uint8

const (
	LiteralInt LiteralKind = iota
	LiteralString
	LiteralIdent
)

// Literal is an integer or string constant with its span.
// For integers Int holds the value when IntOK; an overflowing literal keeps IntOK false.
type Literal struct {
	Kind  LiteralKind
	Text  string
	Int   int64
	IntOK bool
	Str   string
	Span  source.Span
}

// Attribute is `[name(args)]` attached to a definition or file.
type Attribute struct {
	Directive string
	Args      []Literal
	Span      source.Span
}

// Entity carries what every named definition shares.
type Entity struct {
	Ident  Identifier
	Scope  string // квалифицированное имя объемлющей области, "" — глобальная
	Parent Index
	File   source.FileID
	Doc    *DocComment
	Attrs  []Attribute
	Loc    source.Span
}

func (e *Entity) Name() string { return e.Ident.Value }

// QualifiedName returns Scope::Name.
func (e *Entity) QualifiedName() string {
	return JoinScope(e.Scope, e.Ident.Value)
}

func (e *Entity) Span() source.Span { return e.Loc }

// Attribute returns the first attribute with the given directive.
func (e *Entity) Attribute(directive string) (*Attribute, bool) {
	for i := range e.Attrs {
		if e.Attrs[i].Directive == directive {
			return &e.Attrs[i], true
		}
	}
	return nil, false
}

// Deprecated reports the [deprecated] attribute or @deprecated doc tag and its reason.
func (e *Entity) Deprecated() (string, bool) {
	if a, ok := e.Attribute(AttrDeprecated); ok {
		if len(a.Args) > 0 {
			return a.Args[0].Str, true
		}
		return "", true
	}
	if e.Doc != nil && e.Doc.Deprecated != nil {
		return e.Doc.Deprecated.Text, true
	}
	return "", false
}

func (e *Entity) entity() *Entity { return e }

// Named is implemented by every node that has an Entity.
type Named interface {
	Node
	entity() *Entity
}

// EntityOf returns the entity of a named node, or nil for anonymous nodes.
func EntityOf(n Node) *Entity {
	if nn, ok := n.(Named); ok {
		return nn.entity()
	}
	return nil
}

// Known attribute directives.
const (
	AttrDeprecated = "deprecated"
	AttrOneway     = "oneway"
	AttrCompress   = "compress"
	AttrAllow      = "allow"
	AttrFormat     = "format"
)

// KnownAttributes maps directives to the number of arguments they accept (-1 — any).
var KnownAttributes = map[string]int{
	AttrDeprecated: 1,
	AttrOneway:     0,
	AttrCompress:   -1,
	AttrAllow:      -1,
	AttrFormat:     -1,
}

// JoinScope appends name to a qualified scope.
func JoinScope(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "::" + name
}

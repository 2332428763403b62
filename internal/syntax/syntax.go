// Package syntax holds the raw parse tree of a single IDL file.
//
// Nodes carry spans and unprocessed names; nothing here is resolved or
// validated. The tree is produced by internal/parser (or built directly by
// tests) and lowered into the grammar model by internal/ast.Builder.
package syntax

import "idlc/internal/source"

// File is one parsed source file.
type File struct {
	ID         source.FileID
	Mode       *ModeDecl
	Attributes []Attribute // [[...]]
	Items      []Item
	Span       source.Span
}

// ModeDecl is `mode = Slice1;` or the legacy `encoding = 1;`.
type ModeDecl struct {
	Value  string
	Legacy bool
	Span   source.Span
}

// Ident is an identifier as written. Value is the normalized form without the escape prefix.
type Ident struct {
	Raw   string
	Value string
	Span  source.Span
}

type LitKind uint8

const (
	LitInt LitKind = iota
	LitString
	LitIdent
)

// Literal keeps the source text; integer text may carry a leading '-'.
type Literal struct {
	Kind LitKind
	Text string
	Span source.Span
}

// Attribute is `[name(args)]` or, at file level, `[[name(args)]]`.
type Attribute struct {
	Name Ident
	Args []Literal
	Span source.Span
}

// DocLine is one `///` line with the marker stripped.
type DocLine struct {
	Text string
	Span source.Span
}

// Decl is shared by every declaration-like node.
type Decl struct {
	Doc   []DocLine
	Attrs []Attribute
	Span  source.Span
}

func (d *Decl) decl() *Decl { return d }

// Item is a definition that can appear at module scope.
type Item interface {
	decl() *Decl
	itemName() Ident
}

// ItemDecl exposes the shared declaration data of an item.
func ItemDecl(it Item) *Decl { return it.decl() }

// ItemName returns the declared name of an item. For modules it is the last path segment.
func ItemName(it Item) Ident { return it.itemName() }

type Module struct {
	Decl
	Path  []Ident // A::B::C
	Items []Item
}

type Struct struct {
	Decl
	Name    Ident
	Compact bool
	Fields  []*Field
}

type Exception struct {
	Decl
	Name   Ident
	Base   *TypeExpr
	Fields []*Field
}

type Class struct {
	Decl
	Name      Ident
	CompactID *Literal
	Base      *TypeExpr
	Fields    []*Field
}

type Interface struct {
	Decl
	Name       Ident
	Bases      []*TypeExpr
	Operations []*Operation
}

type Enum struct {
	Decl
	Name        Ident
	Unchecked   bool
	Underlying  *TypeExpr
	Enumerators []*Enumerator
}

type Enumerator struct {
	Decl
	Name      Ident
	Value     *Literal
	Tag       *Literal // недопустим, но разбирается ради диагностики
	HasFields bool
	Fields    []*Field
}

type CustomType struct {
	Decl
	Name Ident
}

type TypeAlias struct {
	Decl
	Name Ident
	Type *TypeExpr
}

type Operation struct {
	Decl
	Name        Ident
	Idempotent  bool
	Params      []*Field
	Returns     []*Field // пусто — нет возвращаемого значения
	ReturnTuple bool
	Throws      []*TypeExpr
	ThrowsSpan  source.Span
}

// Field is a data member, a parameter or a return member.
type Field struct {
	Decl
	Name   Ident // пустое для безымянного возвращаемого значения
	Type   *TypeExpr
	Tag    *Literal
	Stream bool
}

type TypeKind uint8

const (
	TypeNamed TypeKind = iota
	TypePrimitive
	TypeSequence
	TypeDictionary
)

// TypeExpr is a type as written.
type TypeExpr struct {
	Kind     TypeKind
	Path     []Ident // TypeNamed; TypePrimitive keeps its name in Path[0]
	Absolute bool    // ::A::B
	Args     []*TypeExpr
	Optional bool
	Span     source.Span
}

// Name renders the written name ("::A::B", "int32", "Sequence<T>").
func (t *TypeExpr) Name() string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case TypeSequence:
		return "Sequence<" + t.argName(0) + ">"
	case TypeDictionary:
		return "Dictionary<" + t.argName(0) + ", " + t.argName(1) + ">"
	}
	s := ""
	if t.Absolute {
		s = "::"
	}
	for i, seg := range t.Path {
		if i > 0 {
			s += "::"
		}
		s += seg.Value
	}
	return s
}

func (t *TypeExpr) argName(i int) string {
	if i < len(t.Args) {
		return t.Args[i].Name()
	}
	return "?"
}

func (m *Module) itemName() Ident {
	if len(m.Path) == 0 {
		return Ident{}
	}
	return m.Path[len(m.Path)-1]
}
func (s *Struct) itemName() Ident     { return s.Name }
func (e *Exception) itemName() Ident  { return e.Name }
func (c *Class) itemName() Ident      { return c.Name }
func (i *Interface) itemName() Ident  { return i.Name }
func (e *Enum) itemName() Ident       { return e.Name }
func (c *CustomType) itemName() Ident { return c.Name }
func (a *TypeAlias) itemName() Ident  { return a.Name }

// Unquote returns the value of a string literal as written in source ("a\n" -> a<LF>).
// Unknown escapes are kept verbatim; the lexer has already reported them.
func Unquote(text string) string {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' || i+1 == len(text) {
			out = append(out, c)
			continue
		}
		i++
		switch text[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case '0':
			out = append(out, 0)
		case '"', '\\':
			out = append(out, text[i])
		default:
			out = append(out, '\\', text[i])
		}
	}
	return string(out)
}

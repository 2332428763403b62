package ast

import (
	"math"
	"strconv"
	"strings"

	"idlc/internal/diag"
	"idlc/internal/source"
	"idlc/internal/syntax"
)

// Builder lowers raw parse trees into the arena. References stay unresolved.
type Builder struct {
	Ast         *Ast
	DefaultMode Mode
	reporter    diag.Reporter
	file        source.FileID
}

func NewBuilder(a *Ast, r diag.Reporter) *Builder {
	return &Builder{Ast: a, DefaultMode: DefaultMode, reporter: r}
}

// AddFile lowers one parsed file and registers it with the arena.
func (b *Builder) AddFile(f *syntax.File, path string, reference bool) *File {
	b.file = f.ID
	out := &File{
		ID:        f.ID,
		Path:      path,
		Mode:      b.lowerMode(f.Mode),
		Attrs:     b.lowerAttrs(f.Attributes),
		Reference: reference,
	}
	for _, it := range f.Items {
		out.Items = append(out.Items, b.lowerItem(it, "", NoIndex))
	}
	b.Ast.AddFile(out)
	return out
}

func (b *Builder) lowerMode(m *syntax.ModeDecl) FileCompilationMode {
	if m == nil {
		return FileCompilationMode{Mode: b.DefaultMode, Known: true}
	}
	mode, ok := ParseMode(m.Value, m.Legacy)
	if !ok {
		mode = b.DefaultMode
	}
	return FileCompilationMode{
		Mode:     mode,
		Declared: true,
		Raw:      m.Value,
		Known:    ok,
		Legacy:   m.Legacy,
		Span:     m.Span,
	}
}

func (b *Builder) entity(d *syntax.Decl, name syntax.Ident, scope string, parent Index) Entity {
	return Entity{
		Ident:  Identifier{Value: name.Value, Raw: name.Raw, Span: name.Span},
		Scope:  scope,
		Parent: parent,
		File:   b.file,
		Doc:    b.lowerDoc(d.Doc),
		Attrs:  b.lowerAttrs(d.Attrs),
		Loc:    d.Span,
	}
}

func (b *Builder) lowerItem(it syntax.Item, scope string, parent Index) Index {
	switch it := it.(type) {
	case *syntax.Module:
		return b.lowerModule(it, scope, parent)
	case *syntax.Struct:
		s := &Struct{Entity: b.entity(&it.Decl, it.Name, scope, parent), Compact: it.Compact}
		idx := b.Ast.Allocate(s)
		s.Fields = b.lowerFields(it.Fields, s.QualifiedName(), idx)
		return idx
	case *syntax.Exception:
		e := &Exception{Entity: b.entity(&it.Decl, it.Name, scope, parent)}
		e.Base = b.lowerOptType(it.Base, scope)
		idx := b.Ast.Allocate(e)
		e.Fields = b.lowerFields(it.Fields, e.QualifiedName(), idx)
		return idx
	case *syntax.Class:
		c := &Class{Entity: b.entity(&it.Decl, it.Name, scope, parent)}
		c.Base = b.lowerOptType(it.Base, scope)
		if it.CompactID != nil {
			lit := b.lowerLiteral(*it.CompactID)
			c.CompactID = &lit
		}
		idx := b.Ast.Allocate(c)
		c.Fields = b.lowerFields(it.Fields, c.QualifiedName(), idx)
		return idx
	case *syntax.Interface:
		in := &Interface{Entity: b.entity(&it.Decl, it.Name, scope, parent)}
		for _, base := range it.Bases {
			in.Bases = append(in.Bases, b.lowerType(base, scope))
		}
		idx := b.Ast.Allocate(in)
		for _, op := range it.Operations {
			in.Operations = append(in.Operations, b.lowerOperation(op, in.QualifiedName(), idx))
		}
		return idx
	case *syntax.Enum:
		return b.lowerEnum(it, scope, parent)
	case *syntax.CustomType:
		return b.Ast.Allocate(&CustomType{Entity: b.entity(&it.Decl, it.Name, scope, parent)})
	case *syntax.TypeAlias:
		a := &TypeAlias{Entity: b.entity(&it.Decl, it.Name, scope, parent)}
		a.Underlying = b.lowerType(it.Type, scope)
		return b.Ast.Allocate(a)
	}
	panic(internalf("unexpected syntax item %T", it))
}

// module A::B { ... } становится одним узлом с именем B в области A.
func (b *Builder) lowerModule(it *syntax.Module, scope string, parent Index) Index {
	for _, seg := range it.Path[:len(it.Path)-1] {
		scope = JoinScope(scope, seg.Value)
	}
	last := it.Path[len(it.Path)-1]
	m := &Module{Entity: b.entity(&it.Decl, last, scope, parent)}
	if len(it.Path) > 1 {
		m.Ident.Span = it.Path[0].Span.Cover(last.Span)
	}
	idx := b.Ast.Allocate(m)
	inner := m.QualifiedName()
	for _, child := range it.Items {
		m.Members = append(m.Members, b.lowerItem(child, inner, idx))
	}
	return idx
}

func (b *Builder) lowerEnum(it *syntax.Enum, scope string, parent Index) Index {
	e := &Enum{Entity: b.entity(&it.Decl, it.Name, scope, parent), Unchecked: it.Unchecked}
	e.Underlying = b.lowerOptType(it.Underlying, scope)
	idx := b.Ast.Allocate(e)
	inner := e.QualifiedName()

	var next int64
	nextOK := true
	for _, en := range it.Enumerators {
		node := &Enumerator{
			Entity:    b.entity(&en.Decl, en.Name, inner, idx),
			HasFields: en.HasFields,
		}
		if en.Tag != nil {
			tag := b.lowerLiteral(*en.Tag)
			node.Tag = &tag
		}
		if en.Value != nil {
			lit := b.lowerLiteral(*en.Value)
			node.Explicit = &lit
			node.Value, node.ValueOK = lit.Int, lit.IntOK
		} else {
			node.Value, node.ValueOK = next, nextOK
		}
		nextOK = node.ValueOK && node.Value < math.MaxInt64
		next = node.Value + 1
		enIdx := b.Ast.Allocate(node)
		node.Fields = b.lowerFields(en.Fields, node.QualifiedName(), enIdx)
		e.Enumerators = append(e.Enumerators, enIdx)
	}
	return idx
}

func (b *Builder) lowerOperation(op *syntax.Operation, scope string, parent Index) Index {
	o := &Operation{
		Entity:      b.entity(&op.Decl, op.Name, scope, parent),
		Idempotent:  op.Idempotent,
		ReturnTuple: op.ReturnTuple,
		ThrowsSpan:  op.ThrowsSpan,
	}
	idx := b.Ast.Allocate(o)
	inner := o.QualifiedName()
	for _, p := range op.Params {
		o.Params = append(o.Params, b.lowerParam(p, inner, idx, false))
	}
	for _, r := range op.Returns {
		o.Returns = append(o.Returns, b.lowerParam(r, inner, idx, true))
	}
	for _, t := range op.Throws {
		o.Throws = append(o.Throws, b.lowerType(t, scope))
	}
	return idx
}

func (b *Builder) lowerParam(f *syntax.Field, scope string, parent Index, isReturn bool) Index {
	p := &Parameter{
		Entity:   b.entity(&f.Decl, f.Name, scope, parent),
		Stream:   f.Stream,
		IsReturn: isReturn,
	}
	p.Type = b.lowerType(f.Type, scope)
	if f.Tag != nil {
		tag := b.lowerLiteral(*f.Tag)
		p.Tag = &tag
	}
	return b.Ast.Allocate(p)
}

func (b *Builder) lowerFields(fields []*syntax.Field, scope string, parent Index) []Index {
	out := make([]Index, 0, len(fields))
	for _, f := range fields {
		field := &Field{Entity: b.entity(&f.Decl, f.Name, scope, parent)}
		field.Type = b.lowerType(f.Type, scope)
		if f.Tag != nil {
			tag := b.lowerLiteral(*f.Tag)
			field.Tag = &tag
		}
		out = append(out, b.Ast.Allocate(field))
	}
	return out
}

func (b *Builder) lowerOptType(t *syntax.TypeExpr, scope string) *TypeRef {
	if t == nil {
		return nil
	}
	ref := b.lowerType(t, scope)
	return &ref
}

// lowerType records the reference unresolved. Sequence and Dictionary become
// anonymous arena nodes and are referenced by index straight away.
func (b *Builder) lowerType(t *syntax.TypeExpr, scope string) TypeRef {
	ref := TypeRef{Optional: t.Optional, Span: t.Span}
	switch t.Kind {
	case syntax.TypePrimitive:
		ref.Def = Unresolved{Name: t.Path[0].Value, Absolute: true, Scope: scope, Span: t.Span}
	case syntax.TypeNamed:
		names := make([]string, len(t.Path))
		for i, seg := range t.Path {
			names[i] = seg.Value
		}
		ref.Def = Unresolved{Name: strings.Join(names, "::"), Absolute: t.Absolute, Scope: scope, Span: t.Span}
	case syntax.TypeSequence:
		seq := &Sequence{Element: b.lowerType(t.Args[0], scope), Loc: t.Span}
		ref.Def = Resolved{Index: b.Ast.Allocate(seq)}
	case syntax.TypeDictionary:
		dict := &Dictionary{Key: b.lowerType(t.Args[0], scope), Value: b.lowerType(t.Args[1], scope), Loc: t.Span}
		ref.Def = Resolved{Index: b.Ast.Allocate(dict)}
	default:
		panic(internalf("unexpected type kind %d", t.Kind))
	}
	return ref
}

func (b *Builder) lowerAttrs(attrs []syntax.Attribute) []Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attribute, 0, len(attrs))
	for _, a := range attrs {
		attr := Attribute{Directive: a.Name.Value, Span: a.Span}
		for _, arg := range a.Args {
			attr.Args = append(attr.Args, b.lowerLiteral(arg))
		}
		out = append(out, attr)
	}
	return out
}

func (b *Builder) lowerLiteral(l syntax.Literal) Literal {
	lit := Literal{Text: l.Text, Span: l.Span}
	switch l.Kind {
	case syntax.LitString:
		lit.Kind = LiteralString
		lit.Str = syntax.Unquote(l.Text)
	case syntax.LitIdent:
		lit.Kind = LiteralIdent
		lit.Str = l.Text
	default:
		lit.Kind = LiteralInt
		lit.Int, lit.IntOK = ParseInt(l.Text)
	}
	return lit
}

func (b *Builder) lowerDoc(lines []syntax.DocLine) *DocComment {
	doc, problems := ParseDocComment(lines)
	for _, p := range problems {
		if b.reporter != nil {
			diag.ReportWarning(b.reporter, diag.SemaDocMalformed, p.Span, p.Msg).Emit()
		}
	}
	return doc
}

// ParseInt parses a decimal, 0x, 0o or 0b literal with optional '-' and '_' separators.
func ParseInt(text string) (int64, bool) {
	s := strings.ReplaceAll(text, "_", "")
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	base := 10
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			s = s[2:]
		}
	}
	u, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		if u > 1<<63 {
			return 0, false
		}
		return int64(-u), true //nolint:gosec // -2^63 fits
	}
	if u > math.MaxInt64 {
		return 0, false
	}
	return int64(u), true
}

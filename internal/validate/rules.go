package validate

import (
	"fmt"
	"math"

	"idlc/internal/ast"
	"idlc/internal/diag"
	"idlc/internal/dialect"
)

// maxTag and maxCompactID are the largest encodable values (2^31-1).
const (
	maxTag       = math.MaxInt32
	maxCompactID = math.MaxInt32
)

// member is the part of Field and Parameter the rules look at.
type member struct {
	idx  ast.Index
	name string
	ref  *ast.TypeRef
	tag  *ast.Literal
}

func (v *validator) members(list []ast.Index) []member {
	out := make([]member, 0, len(list))
	for _, idx := range list {
		switch n := v.ast.Resolve(idx).(type) {
		case *ast.Field:
			out = append(out, member{idx: idx, name: n.Name(), ref: &n.Type, tag: n.Tag})
		case *ast.Parameter:
			out = append(out, member{idx: idx, name: n.Name(), ref: &n.Type, tag: n.Tag})
		}
	}
	return out
}

func (v *validator) fields(list []ast.Index) {
	ms := v.members(list)
	for _, idx := range list {
		v.attributes(idx, ast.EntityOf(v.ast.Resolve(idx)).Attrs, false)
	}
	v.memberList(ms)
}

// memberList applies the tag rules to one container and checks every type use.
func (v *validator) memberList(ms []member) {
	tags := make(map[int64]member)
	for _, m := range ms {
		v.typeUse(m.idx, m.ref, m.tag != nil)
		if m.tag == nil {
			continue
		}
		if !m.ref.Optional {
			v.out.Error(key(m.idx), diag.SemaTagOnRequired, m.tag.Span,
				fmt.Sprintf("tagged member '%s' must have an optional type", m.name)).
				AddNote(m.ref.Span, "hint: change the type to '"+v.ast.RefName(m.ref)+"?'")
		}
		if !m.tag.IntOK || m.tag.Int < 0 || m.tag.Int > maxTag {
			v.out.Error(key(m.idx), diag.SemaTagOutOfRange, m.tag.Span,
				fmt.Sprintf("tag value '%s' is out of range; tags must be between 0 and %d", m.tag.Text, maxTag))
			continue
		}
		if prev, dup := tags[m.tag.Int]; dup {
			v.out.Error(key(m.idx), diag.SemaDuplicateTag, m.tag.Span,
				fmt.Sprintf("tag %d is already used by '%s'", m.tag.Int, prev.name)).
				AddNote(prev.tag.Span, "previous use of the tag")
			continue
		}
		tags[m.tag.Int] = m
		if v.isClass(m.ref) {
			v.violation(m.idx, dialect.ConstructTaggedClass, m.tag.Span, "'"+m.name+"'")
		}
	}
}

func (v *validator) structDef(idx ast.Index, s *ast.Struct) {
	if s.Compact {
		if len(s.Fields) == 0 {
			v.out.Error(key(idx), diag.SemaCompactStructEmpty, s.Ident.Span,
				fmt.Sprintf("compact struct '%s' must contain at least one field", s.QualifiedName()))
		}
		for _, m := range v.members(s.Fields) {
			if m.tag != nil {
				v.out.Error(key(m.idx), diag.SemaCompactStructTagged, m.tag.Span,
					fmt.Sprintf("field '%s' of compact struct '%s' cannot be tagged", m.name, s.QualifiedName()))
			}
		}
	}
	v.fields(s.Fields)
}

func (v *validator) classDef(idx ast.Index, c *ast.Class) {
	v.violation(idx, dialect.ConstructClass, c.Ident.Span, "'"+c.QualifiedName()+"'")
	if c.CompactID != nil {
		id := c.CompactID
		v.violation(idx, dialect.ConstructCompactID, id.Span, "'"+c.QualifiedName()+"'")
		switch {
		case !id.IntOK || id.Int < 0 || id.Int > maxCompactID:
			v.out.Error(key(idx), diag.SemaCompactIDOutOfRange, id.Span,
				fmt.Sprintf("compact type id '%s' is out of range; ids must be between 0 and %d", id.Text, maxCompactID))
		default:
			if prev, dup := v.compactIDs[id.Int]; dup {
				other := ast.MustAs[*ast.Class](v.ast, prev)
				v.out.Error(key(idx), diag.SemaDuplicateCompactID, id.Span,
					fmt.Sprintf("compact type id %d is already used by '%s'", id.Int, other.QualifiedName())).
					AddNote(other.CompactID.Span, "previous use of the id")
			} else {
				v.compactIDs[id.Int] = idx
			}
		}
	}
	v.fields(c.Fields)
}

func (v *validator) enumDef(idx ast.Index, e *ast.Enum) {
	name := e.QualifiedName()
	if len(e.Enumerators) == 0 && !e.Unchecked {
		v.out.Error(key(idx), diag.SemaEnumEmpty, e.Ident.Span,
			fmt.Sprintf("enum '%s' must contain at least one enumerator", name))
	}
	lo, hi := ast.PrimInt32.Range()
	underlying := "int32"
	if e.Underlying != nil {
		v.violation(idx, dialect.ConstructEnumUnderlying, e.Underlying.Span, "'"+name+"'")
		if target, ok := e.Underlying.Index(); ok {
			if _, real := v.ast.Unalias(target); real.Kind() == ast.KindPrimitive {
				p := real.(*ast.Primitive)
				lo, hi = p.Prim.Range()
				underlying = p.Name()
				v.primitive(idx, p.Prim, e.Underlying.Span)
			}
		}
	}

	values := make(map[int64]*ast.Enumerator)
	for _, enIdx := range e.Enumerators {
		en := ast.MustAs[*ast.Enumerator](v.ast, enIdx)
		v.attributes(enIdx, en.Attrs, false)
		if en.Tag != nil {
			v.out.Error(key(enIdx), diag.SemaTagNotAllowed, en.Tag.Span,
				fmt.Sprintf("enumerator '%s' cannot be tagged; tags apply to optional fields and parameters", en.Name()))
		}
		if en.HasFields {
			v.violation(enIdx, dialect.ConstructEnumFields, en.Ident.Span, "'"+en.QualifiedName()+"'")
			if en.Explicit != nil {
				v.out.Error(key(enIdx), diag.SemaEnumValueNotAllowed, en.Explicit.Span,
					fmt.Sprintf("enumerator '%s' has fields and cannot have an explicit value", en.Name()))
			}
			v.fields(en.Fields)
		}
		sp := en.Ident.Span
		if en.Explicit != nil {
			sp = en.Explicit.Span
		}
		if !en.ValueOK || en.Value < lo || en.Value > hi {
			text := fmt.Sprint(en.Value)
			if en.Explicit != nil {
				text = en.Explicit.Text
			}
			v.out.Error(key(enIdx), diag.SemaEnumValueOutOfRange, sp,
				fmt.Sprintf("value %s of enumerator '%s' does not fit in %s (%d..%d)", text, en.Name(), underlying, lo, hi))
			continue
		}
		if prev, dup := values[en.Value]; dup {
			v.out.Error(key(enIdx), diag.SemaEnumDuplicateValue, sp,
				fmt.Sprintf("enumerator '%s' has the same value %d as '%s'", en.Name(), en.Value, prev.Name())).
				AddNote(prev.Ident.Span, "'"+prev.Name()+"' is declared here")
			continue
		}
		values[en.Value] = en
	}
}

func (v *validator) operation(idx ast.Index, op *ast.Operation) {
	if len(op.Throws) > 1 {
		v.violation(idx, dialect.ConstructMultipleThrows, op.ThrowsSpan, "'"+op.QualifiedName()+"'")
	}
	if _, oneway := op.Attribute(ast.AttrOneway); oneway && len(op.Returns) > 0 {
		v.out.Error(key(idx), diag.SemaAttrInvalidArgs, op.Ident.Span,
			fmt.Sprintf("oneway operation '%s' cannot return a value", op.Name()))
	}
	for _, list := range [][]ast.Index{op.Params, op.Returns} {
		for _, p := range list {
			v.attributes(p, ast.EntityOf(v.ast.Resolve(p)).Attrs, false)
		}
		v.memberList(v.members(list))
		v.streams(list)
	}

	names := make(map[string]*ast.Parameter)
	for _, r := range op.Returns {
		ret := ast.MustAs[*ast.Parameter](v.ast, r)
		if ret.Name() == "" {
			continue
		}
		if prev, dup := names[ret.Name()]; dup {
			v.out.Error(key(r), diag.SemaDuplicateMember, ret.Ident.Span,
				fmt.Sprintf("return member '%s' is declared more than once", ret.Name())).
				AddNote(prev.Ident.Span, "previous declaration is here")
			continue
		}
		names[ret.Name()] = ret
	}
}

// streams: at most one streamed member, and it must be last.
func (v *validator) streams(list []ast.Index) {
	var first *ast.Parameter
	for i, idx := range list {
		p := ast.MustAs[*ast.Parameter](v.ast, idx)
		if !p.Stream {
			continue
		}
		v.violation(idx, dialect.ConstructStream, p.Ident.Span, "'"+p.Name()+"'")
		if first != nil {
			v.out.Error(key(idx), diag.SemaMultipleStreams, p.Ident.Span,
				fmt.Sprintf("'%s' is a second streamed member; only one is allowed", p.Name())).
				AddNote(first.Ident.Span, "first streamed member")
			continue
		}
		first = p
		if i != len(list)-1 {
			v.out.Error(key(idx), diag.SemaStreamNotLast, p.Ident.Span,
				fmt.Sprintf("streamed member '%s' must be the last one", p.Name()))
		}
	}
}

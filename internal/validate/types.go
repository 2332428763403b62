package validate

import (
	"fmt"

	"idlc/internal/ast"
	"idlc/internal/diag"
	"idlc/internal/dialect"
	"idlc/internal/source"
)

// typeUse checks one use of a type: the optional rules of the mode, the types
// reachable through sequences and dictionaries, and dictionary key legality.
// Unresolved references were already reported by the resolver and are skipped.
func (v *validator) typeUse(owner ast.Index, ref *ast.TypeRef, tagged bool) {
	target, ok := ref.Index()
	if !ok {
		return
	}
	if ref.Optional && !tagged && !v.isNullable(target) {
		v.violation(owner, dialect.ConstructUntaggedOptional, ref.Span, "'"+v.ast.RefName(ref)+"'")
	}
	v.typeTarget(owner, target, ref.Span)
}

func (v *validator) typeTarget(owner, target ast.Index, sp source.Span) {
	if alias, ok := v.ast.Resolve(target).(*ast.TypeAlias); ok {
		// псевдоним из файла того же режима уже проверен на месте определения
		if f, ok := v.ast.File(alias.File); ok && f.Mode.Mode == v.mode {
			return
		}
		target, _ = v.ast.Unalias(target)
	}
	switch n := v.ast.Resolve(target).(type) {
	case *ast.Primitive:
		v.primitive(owner, n.Prim, sp)
	case *ast.Class:
		v.violation(owner, dialect.ConstructClass, sp, "'"+n.QualifiedName()+"'")
	case *ast.CustomType:
		v.crossMode(owner, target, sp)
	case *ast.Enum:
		v.crossMode(owner, target, sp)
	case *ast.Sequence:
		v.typeUse(owner, &n.Element, false)
	case *ast.Dictionary:
		v.dictionaryKey(owner, &n.Key)
		v.typeUse(owner, &n.Key, false)
		v.typeUse(owner, &n.Value, false)
	}
}

func (v *validator) primitive(owner ast.Index, k ast.PrimitiveKind, sp source.Span) {
	if k == ast.PrimAnyClass {
		v.violation(owner, dialect.ConstructAnyClass, sp, "")
		return
	}
	if !dialect.AllowsPrimitive(k, ast.ModeSlice1) {
		v.evidence.Add(dialect.ConstructPrimitive, sp)
	}
	if dialect.AllowsPrimitive(k, v.mode) {
		return
	}
	v.result.Violations++
	r := dialect.Lookup(dialect.ConstructPrimitive)
	v.out.Error(key(owner), r.Code, sp,
		fmt.Sprintf("'%s' is not supported by the %s encoding", k, v.mode)).
		AddNote(sp, "hint: "+r.Hint)
}

// crossMode reports a definition that is illegal in the using file's mode and
// was declared in a file compiled under another mode. Definitions in the same
// file are reported once, at the definition.
func (v *validator) crossMode(owner, target ast.Index, sp source.Span) {
	def := ast.EntityOf(v.ast.Resolve(target))
	f, ok := v.ast.File(def.File)
	if !ok || f.Mode.Mode == v.mode {
		return
	}
	if v.legalIn(target, v.mode) {
		return
	}
	v.result.Violations++
	v.out.Error(key(owner), diag.EncIncompatibleDefinition, sp,
		fmt.Sprintf("'%s' is defined in a %s file and cannot be used by the %s encoding", def.QualifiedName(), f.Mode.Mode, v.mode)).
		AddNote(def.Ident.Span, "'"+def.QualifiedName()+"' is defined here")
}

// legalIn reports whether a user-defined type can be encoded under mode.
func (v *validator) legalIn(target ast.Index, mode ast.Mode) bool {
	switch n := v.ast.Resolve(target).(type) {
	case *ast.CustomType:
		return dialect.Allows(dialect.ConstructCustomType, mode)
	case *ast.Enum:
		if n.Underlying != nil && !dialect.Allows(dialect.ConstructEnumUnderlying, mode) {
			return false
		}
		for _, en := range n.Enumerators {
			if ast.MustAs[*ast.Enumerator](v.ast, en).HasFields && !dialect.Allows(dialect.ConstructEnumFields, mode) {
				return false
			}
		}
	}
	return true
}

// isNullable reports types that Slice1 may mark optional without a tag.
func (v *validator) isNullable(target ast.Index) bool {
	_, n := v.ast.Unalias(target)
	switch n := n.(type) {
	case *ast.Class, *ast.Interface:
		return true
	case *ast.Primitive:
		return n.Prim == ast.PrimAnyClass
	}
	return false
}

func (v *validator) isClass(ref *ast.TypeRef) bool {
	target, ok := ref.Index()
	if !ok {
		return false
	}
	_, n := v.ast.Unalias(target)
	return n.Kind() == ast.KindClass || (n.Kind() == ast.KindPrimitive && n.(*ast.Primitive).Prim == ast.PrimAnyClass)
}

// dictionaryKey rejects key types without a stable equality: optionals,
// floating point, collections, classes and proxies. Structs are allowed when
// every field is itself a valid key.
func (v *validator) dictionaryKey(owner ast.Index, ref *ast.TypeRef) {
	target, ok := ref.Index()
	if !ok {
		return
	}
	if reason := v.keyProblem(ref, target, map[ast.Index]bool{}); reason != "" {
		v.out.Error(key(owner), diag.SemaInvalidDictionaryKey, ref.Span,
			fmt.Sprintf("'%s' cannot be used as a dictionary key: %s", v.ast.RefName(ref), reason))
	}
}

func (v *validator) keyProblem(ref *ast.TypeRef, target ast.Index, visiting map[ast.Index]bool) string {
	if ref.Optional {
		return "optional types are not allowed"
	}
	_, n := v.ast.Unalias(target)
	switch n := n.(type) {
	case *ast.Primitive:
		switch {
		case n.Prim.IsFloat():
			return "floating point types are not allowed"
		case n.Prim == ast.PrimAnyClass:
			return "classes are not allowed"
		}
	case *ast.Sequence:
		return "sequences are not allowed"
	case *ast.Dictionary:
		return "dictionaries are not allowed"
	case *ast.Class:
		return "classes are not allowed"
	case *ast.Interface:
		return "interfaces are not allowed"
	case *ast.TypeAlias:
		return "the alias does not resolve"
	case *ast.Struct:
		idx := target
		if visiting[idx] {
			return ""
		}
		visiting[idx] = true
		for _, f := range n.Fields {
			field := ast.MustAs[*ast.Field](v.ast, f)
			fieldTarget, ok := field.Type.Index()
			if !ok {
				continue
			}
			if reason := v.keyProblem(&field.Type, fieldTarget, visiting); reason != "" {
				return fmt.Sprintf("field '%s' of '%s' is not a valid key (%s)", field.Name(), n.QualifiedName(), reason)
			}
		}
	}
	return ""
}

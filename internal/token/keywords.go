package token

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var keywords = map[string]Kind{
	"module":     KwModule,
	"struct":     KwStruct,
	"compact":    KwCompact,
	"exception":  KwException,
	"class":      KwClass,
	"interface":  KwInterface,
	"enum":       KwEnum,
	"unchecked":  KwUnchecked,
	"custom":     KwCustom,
	"typealias":  KwTypeAlias,
	"idempotent": KwIdempotent,
	"stream":     KwStream,
	"tag":        KwTag,
	"throws":     KwThrows,
	"Sequence":   KwSequence,
	"Dictionary": KwDictionary,
	"mode":       KwMode,
	"encoding":   KwEncoding,
}

// Primitives lists builtin type names in their canonical order.
var Primitives = []string{
	"bool",
	"int8", "uint8",
	"int16", "uint16",
	"int32", "uint32", "varint32", "varuint32",
	"int64", "uint64", "varint62", "varuint62",
	"float32", "float64",
	"string",
	"AnyClass",
}

var primitiveSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Primitives))
	for _, p := range Primitives {
		m[p] = struct{}{}
	}
	return m
}()

// LookupKeyword возвращает тип и bool если это ключевое слово или примитив.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	if k, ok := keywords[ident]; ok {
		return k, true
	}
	if _, ok := primitiveSet[ident]; ok {
		return Primitive, true
	}
	return Invalid, false
}

// IsPrimitive reports whether name is a builtin type name.
func IsPrimitive(name string) bool {
	_, ok := primitiveSet[name]
	return ok
}

// NormalizeIdent strips the escape prefix and returns the NFC form of an identifier.
func NormalizeIdent(raw string) string {
	s := strings.TrimPrefix(raw, `\`)
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

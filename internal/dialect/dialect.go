package dialect

import (
	"fmt"

	"idlc/internal/ast"
	"idlc/internal/diag"
)

// Construct is a language feature whose legality depends on the mode.
type Construct uint8

const (
	ConstructUnknown Construct = iota
	ConstructClass
	ConstructAnyClass
	ConstructCompactID
	ConstructExceptionInheritance
	ConstructMultipleThrows
	ConstructCustomType
	ConstructEnumUnderlying
	ConstructEnumFields
	ConstructStream
	ConstructPrimitive
	ConstructUntaggedOptional
	ConstructTaggedClass

	constructCount
)

// Rule is one row of the legality table.
type Rule struct {
	Construct Construct
	Code      diag.Code
	Name      string
	Plural    bool
	Slice1    bool
	Slice2    bool
	Hint      string
}

var rules = [constructCount]Rule{
	ConstructClass: {
		Code: diag.EncClassNotSupported, Name: "classes", Plural: true, Slice1: true,
		Hint: "use a struct, or compile this file with 'mode = Slice1;'",
	},
	ConstructAnyClass: {
		Code: diag.EncAnyClassNotSupported, Name: "'AnyClass'", Slice1: true,
		Hint: "'AnyClass' requires 'mode = Slice1;'",
	},
	ConstructCompactID: {
		Code: diag.EncClassNotSupported, Name: "compact type ids", Plural: true, Slice1: true,
		Hint: "compact type ids exist only on classes, which require 'mode = Slice1;'",
	},
	ConstructExceptionInheritance: {
		Code: diag.EncExceptionInheritance, Name: "exception inheritance", Slice1: true,
		Hint: "copy the base fields into the exception, or compile this file with 'mode = Slice1;'",
	},
	ConstructMultipleThrows: {
		Code: diag.EncMultipleThrows, Name: "throwing more than one exception", Slice1: true,
		Hint: "throw a single exception type, or compile this file with 'mode = Slice1;'",
	},
	ConstructCustomType: {
		Code: diag.EncCustomTypeNotSupported, Name: "custom types", Plural: true, Slice2: true,
		Hint: "custom types require 'mode = Slice2;'",
	},
	ConstructEnumUnderlying: {
		Code: diag.EncEnumUnderlyingNotSupported, Name: "enums with an underlying type", Plural: true, Slice2: true,
		Hint: "remove the underlying type, or compile this file with 'mode = Slice2;'",
	},
	ConstructEnumFields: {
		Code: diag.EncEnumFieldsNotSupported, Name: "enumerators with fields", Plural: true, Slice2: true,
		Hint: "enumerators with fields require 'mode = Slice2;'",
	},
	ConstructStream: {
		Code: diag.EncStreamNotSupported, Name: "streamed parameters", Plural: true, Slice2: true,
		Hint: "remove 'stream', or compile this file with 'mode = Slice2;'",
	},
	ConstructPrimitive: {
		Code: diag.EncPrimitiveNotSupported, Name: "this primitive type", Slice2: true,
		Hint: "use one of bool, uint8, int16, int32, int64, float32, float64 or string",
	},
	ConstructUntaggedOptional: {
		Code: diag.EncOptionalNotSupported, Name: "optional types on untagged members", Plural: true, Slice2: true,
		Hint: "add a tag to the member, or compile this file with 'mode = Slice2;'",
	},
	ConstructTaggedClass: {
		Code: diag.EncTaggedClassNotSupported, Name: "tagged members of class type", Plural: true, Slice2: true,
		Hint: "remove the tag; class members are already nullable",
	},
}

func init() {
	for i := range rules {
		rules[i].Construct = Construct(i)
	}
}

// Lookup returns the rule for c.
func Lookup(c Construct) Rule {
	if c >= constructCount {
		return Rule{}
	}
	return rules[c]
}

// Allows reports whether mode accepts the construct.
func Allows(c Construct, mode ast.Mode) bool {
	r := Lookup(c)
	switch mode {
	case ast.ModeSlice1:
		return r.Slice1
	case ast.ModeSlice2:
		return r.Slice2
	}
	return false
}

// slice1Primitives are the primitive types with a Slice1 encoding.
var slice1Primitives = map[ast.PrimitiveKind]bool{
	ast.PrimBool:     true,
	ast.PrimUInt8:    true,
	ast.PrimInt16:    true,
	ast.PrimInt32:    true,
	ast.PrimInt64:    true,
	ast.PrimFloat32:  true,
	ast.PrimFloat64:  true,
	ast.PrimString:   true,
	ast.PrimAnyClass: true,
}

// AllowsPrimitive reports whether mode can encode the primitive.
func AllowsPrimitive(k ast.PrimitiveKind, mode ast.Mode) bool {
	switch mode {
	case ast.ModeSlice1:
		return slice1Primitives[k]
	case ast.ModeSlice2:
		return k != ast.PrimAnyClass
	}
	return false
}

// Message names the construct and the active mode.
func (r Rule) Message(mode ast.Mode) string {
	verb := "is"
	if r.Plural {
		verb = "are"
	}
	return fmt.Sprintf("%s %s not supported by the %s encoding", r.Name, verb, mode)
}

package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005
	LexBadIdentifierEscape      Code = 1006

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnclosedDelimiter  Code = 2002
	SynExpectSemicolon    Code = 2003
	SynUnexpectedTopLevel Code = 2004
	SynExpectIdentifier   Code = 2005
	SynExpectType         Code = 2006
	SynExpectColon        Code = 2007
	SynExpectLiteral      Code = 2008
	SynModeNotFirst       Code = 2009
	SynDuplicateMode      Code = 2010
	SynFileAttrPosition   Code = 2011
	SynEmptyTypeList      Code = 2012
	SynModifierNotAllowed Code = 2013

	// Семантические
	SemaInfo                   Code = 3000
	SemaError                  Code = 3001
	SemaRedefinition           Code = 3002
	SemaDuplicateMember        Code = 3003
	SemaUnknownType            Code = 3005
	SemaNotAType               Code = 3006
	SemaInvalidBase            Code = 3007
	SemaInvalidThrows          Code = 3008
	SemaInvalidUnderlying      Code = 3009
	SemaInheritanceCycle       Code = 3010
	SemaSelfInheritance        Code = 3011
	SemaDuplicateBase          Code = 3012
	SemaTagOnRequired          Code = 3020
	SemaTagNotAllowed          Code = 3021
	SemaTagOutOfRange          Code = 3022
	SemaDuplicateTag           Code = 3023
	SemaCompactStructEmpty     Code = 3030
	SemaCompactStructTagged    Code = 3031
	SemaEnumEmpty              Code = 3040
	SemaEnumDuplicateValue     Code = 3041
	SemaEnumValueOutOfRange    Code = 3042
	SemaEnumValueNotAllowed    Code = 3043
	SemaCompactIDOutOfRange    Code = 3050
	SemaDuplicateCompactID     Code = 3051
	SemaInvalidDictionaryKey   Code = 3060
	SemaStreamNotLast          Code = 3061
	SemaMultipleStreams        Code = 3062
	SemaUnknownAttribute       Code = 3070
	SemaAttrInvalidArgs        Code = 3071
	SemaDocParamUnknown        Code = 3080
	SemaDocReturnsNoReturn     Code = 3081
	SemaDocThrowsNoThrows      Code = 3082
	SemaDocThrowsNotException  Code = 3083
	SemaDocSeeUnresolved       Code = 3084
	SemaDocMalformed           Code = 3085
	SemaCyclicValueContainment Code = 3126
	SemaDeprecatedUsage        Code = 3127

	// IO
	IOLoadFileError Code = 4001
	IONoInputs      Code = 4002

	// Проектные
	ProjInfo            Code = 5000
	ProjInvalidManifest Code = 5001
	ProjDuplicateInput  Code = 5002

	// Кодировки (диалекты)
	EncInfo                       Code = 6000
	EncUnknownMode                Code = 6001
	EncClassNotSupported          Code = 6010
	EncAnyClassNotSupported       Code = 6011
	EncExceptionInheritance       Code = 6012
	EncMultipleThrows             Code = 6013
	EncCustomTypeNotSupported     Code = 6014
	EncEnumUnderlyingNotSupported Code = 6015
	EncEnumFieldsNotSupported     Code = 6016
	EncStreamNotSupported         Code = 6017
	EncPrimitiveNotSupported      Code = 6018
	EncOptionalNotSupported       Code = 6019
	EncTaggedClassNotSupported    Code = 6020
	EncIncompatibleDefinition     Code = 6030
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                   "Unknown error",
		LexInfo:                       "Lexical information",
		LexUnknownChar:                "Unknown character",
		LexUnterminatedString:         "Unterminated string literal",
		LexUnterminatedBlockComment:   "Unterminated block comment",
		LexBadNumber:                  "Malformed integer literal",
		LexBadEscape:                  "Invalid escape sequence",
		LexBadIdentifierEscape:        "Escape prefix must be followed by an identifier",
		SynInfo:                       "Syntax information",
		SynUnexpectedToken:            "Unexpected token",
		SynUnclosedDelimiter:          "Unclosed delimiter",
		SynExpectSemicolon:            "Expected ';'",
		SynUnexpectedTopLevel:         "Unexpected item at top level",
		SynExpectIdentifier:           "Expected identifier",
		SynExpectType:                 "Expected type",
		SynExpectColon:                "Expected ':'",
		SynExpectLiteral:              "Expected literal",
		SynModeNotFirst:               "Compilation mode must precede definitions",
		SynDuplicateMode:              "Compilation mode declared twice",
		SynFileAttrPosition:           "File attribute after definitions",
		SynEmptyTypeList:              "Empty type list",
		SynModifierNotAllowed:         "Modifier not allowed here",
		SemaInfo:                      "Semantic information",
		SemaError:                     "Semantic error",
		SemaRedefinition:              "Redefinition of symbol",
		SemaDuplicateMember:           "Duplicate member name",
		SemaUnknownType:               "Unknown type",
		SemaNotAType:                  "Definition is not a type",
		SemaInvalidBase:               "Invalid base type",
		SemaInvalidThrows:             "Only exceptions can be thrown",
		SemaInvalidUnderlying:         "Enum underlying type must be integral",
		SemaInheritanceCycle:          "Inheritance cycle",
		SemaSelfInheritance:           "Type inherits from itself",
		SemaDuplicateBase:             "Base listed more than once",
		SemaTagOnRequired:             "Tagged member must be optional",
		SemaTagNotAllowed:             "Tag not allowed here",
		SemaTagOutOfRange:             "Tag value out of range",
		SemaDuplicateTag:              "Duplicate tag value",
		SemaCompactStructEmpty:        "Compact struct must not be empty",
		SemaCompactStructTagged:       "Compact struct cannot contain tagged fields",
		SemaEnumEmpty:                 "Enum must contain at least one enumerator",
		SemaEnumDuplicateValue:        "Duplicate enumerator value",
		SemaEnumValueOutOfRange:       "Enumerator value out of range",
		SemaEnumValueNotAllowed:       "Enumerator with fields cannot have an explicit value",
		SemaCompactIDOutOfRange:       "Compact type id out of range",
		SemaDuplicateCompactID:        "Duplicate compact type id",
		SemaInvalidDictionaryKey:      "Invalid dictionary key type",
		SemaStreamNotLast:             "Stream parameter must be last",
		SemaMultipleStreams:           "Only one stream parameter is allowed",
		SemaUnknownAttribute:          "Unknown attribute",
		SemaAttrInvalidArgs:           "Invalid attribute arguments",
		SemaDocParamUnknown:           "Doc comment names unknown parameter",
		SemaDocReturnsNoReturn:        "Doc comment describes missing return",
		SemaDocThrowsNoThrows:         "Doc comment describes missing throws",
		SemaDocThrowsNotException:     "Doc comment throws a non-exception",
		SemaDocSeeUnresolved:          "Doc comment link does not resolve",
		SemaDocMalformed:              "Malformed doc comment",
		SemaCyclicValueContainment:    "Type contains itself by value",
		SemaDeprecatedUsage:           "Usage of deprecated element",
		IOLoadFileError:               "I/O load file error",
		IONoInputs:                    "No input files",
		ProjInfo:                      "Project information",
		ProjInvalidManifest:           "Invalid project manifest",
		ProjDuplicateInput:            "Input given more than once",
		EncInfo:                       "Encoding information",
		EncUnknownMode:                "Unknown compilation mode",
		EncClassNotSupported:          "Classes are not supported by this mode",
		EncAnyClassNotSupported:       "AnyClass is not supported by this mode",
		EncExceptionInheritance:       "Exception inheritance is not supported by this mode",
		EncMultipleThrows:             "Throwing several exceptions is not supported by this mode",
		EncCustomTypeNotSupported:     "Custom types are not supported by this mode",
		EncEnumUnderlyingNotSupported: "Enum underlying types are not supported by this mode",
		EncEnumFieldsNotSupported:     "Enumerators with fields are not supported by this mode",
		EncStreamNotSupported:         "Streamed parameters are not supported by this mode",
		EncPrimitiveNotSupported:      "Primitive type is not supported by this mode",
		EncOptionalNotSupported:       "Optional type is not supported here by this mode",
		EncTaggedClassNotSupported:    "Tagged class members are not supported by this mode",
		EncIncompatibleDefinition:     "Definition is not usable from this mode",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("ENC%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	// Primitive is a builtin type name such as int32 or AnyClass.
	Primitive
	IntLit
	StringLit

	KwModule     // module
	KwStruct     // struct
	KwCompact    // compact
	KwException  // exception
	KwClass      // class
	KwInterface  // interface
	KwEnum       // enum
	KwUnchecked  // unchecked
	KwCustom     // custom
	KwTypeAlias  // typealias
	KwIdempotent // idempotent
	KwStream     // stream
	KwTag        // tag
	KwThrows     // throws
	KwSequence   // Sequence
	KwDictionary // Dictionary
	KwMode       // mode
	KwEncoding   // encoding

	LBrace         // {
	RBrace         // }
	LParen         // (
	RParen         // )
	LBracket       // [
	LDoubleBracket // [[
	RBracket       // ]
	Lt             // <
	Gt             // >
	Comma          // ,
	Semicolon      // ;
	Colon          // :
	ColonColon     // ::
	Assign         // =
	Question       // ?
	Arrow          // ->
	Minus          // -
)

var kindNames = [...]string{
	Invalid:        "invalid",
	EOF:            "end of file",
	Ident:          "identifier",
	Primitive:      "primitive type",
	IntLit:         "integer literal",
	StringLit:      "string literal",
	KwModule:       "'module'",
	KwStruct:       "'struct'",
	KwCompact:      "'compact'",
	KwException:    "'exception'",
	KwClass:        "'class'",
	KwInterface:    "'interface'",
	KwEnum:         "'enum'",
	KwUnchecked:    "'unchecked'",
	KwCustom:       "'custom'",
	KwTypeAlias:    "'typealias'",
	KwIdempotent:   "'idempotent'",
	KwStream:       "'stream'",
	KwTag:          "'tag'",
	KwThrows:       "'throws'",
	KwSequence:     "'Sequence'",
	KwDictionary:   "'Dictionary'",
	KwMode:         "'mode'",
	KwEncoding:     "'encoding'",
	LBrace:         "'{'",
	RBrace:         "'}'",
	LParen:         "'('",
	RParen:         "')'",
	LBracket:       "'['",
	LDoubleBracket: "'[['",
	RBracket:       "']'",
	Lt:             "'<'",
	Gt:             "'>'",
	Comma:          "','",
	Semicolon:      "';'",
	Colon:          "':'",
	ColonColon:     "'::'",
	Assign:         "'='",
	Question:       "'?'",
	Arrow:          "'->'",
	Minus:          "'-'",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Package token defines lexical token kinds and trivia for the IDL compiler.
// Invariants:
//   - Token.Text is a slice of the original source.
//   - Token.Span matches Text exactly (Begin..End).
//   - Primitive type names (int32, string, AnyClass, ...) are lexed as Primitive;
//     the arena owns a builtin node per primitive and resolves them like any other name.
//   - Escaped identifiers (\module) are lexed as Ident with the backslash kept in Text;
//     NormalizeIdent strips it.
//   - Doc comments (/// ...) are represented as leading Trivia (TriviaDocLine) and
//     never appear in the main token stream.
package token

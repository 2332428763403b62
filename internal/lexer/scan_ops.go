package lexer

import (
	"idlc/internal/diag"
	"idlc/internal/token"
)

// Двухсимвольные сначала: "[[", "::", "->".
// ">>" намеренно не склеивается: Dictionary<K, Sequence<V>>.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch b0, b1 := lx.cursor.Peek(), lx.cursor.PeekAt(1); {
	case b0 == '[' && b1 == '[':
		lx.cursor.Bump()
		lx.cursor.Bump()
		return lx.emit(token.LDoubleBracket, start)
	case b0 == ':' && b1 == ':':
		lx.cursor.Bump()
		lx.cursor.Bump()
		return lx.emit(token.ColonColon, start)
	case b0 == '-' && b1 == '>':
		lx.cursor.Bump()
		lx.cursor.Bump()
		return lx.emit(token.Arrow, start)
	}

	var kind token.Kind
	switch lx.cursor.Peek() {
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case '<':
		kind = token.Lt
	case '>':
		kind = token.Gt
	case ',':
		kind = token.Comma
	case ';':
		kind = token.Semicolon
	case ':':
		kind = token.Colon
	case '=':
		kind = token.Assign
	case '?':
		kind = token.Question
	case '-':
		kind = token.Minus
	default:
		// неизвестный символ: съедаем целую руну
		lx.bumpRune()
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character '"+tok.Text+"'")
		return tok
	}
	lx.cursor.Bump()
	return lx.emit(kind, start)
}

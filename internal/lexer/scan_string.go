package lexer

import (
	"idlc/internal/diag"
	"idlc/internal/token"
)

// "..." с escape \" \\ \n \t \r \0; остальные escape — ошибка, но строка дочитывается.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); b {
		case '"':
			lx.cursor.Bump()
			return lx.emit(token.StringLit, start)
		case '\\':
			esc := lx.cursor.Mark()
			lx.cursor.Bump()
			switch lx.cursor.Peek() {
			case '"', '\\', 'n', 't', 'r', '0':
				lx.cursor.Bump()
			case '\n', 0:
				// разберётся ветка ниже
			default:
				lx.cursor.Bump()
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(esc), "unknown escape sequence")
			}
		case '\n':
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexUnterminatedString, tok.Span, "newline in string literal")
			return tok
		default:
			lx.cursor.Bump()
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

package lexer

import (
	"idlc/internal/diag"
	"idlc/internal/token"
)

// Поддержка: 0, 123, 1_000, 0b1010, 0o17, 0xFF.
// Знак минус — отдельный токен; парсер склеивает его с литералом.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	digit := isDec
	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) {
		case 'x', 'X':
			digit = isHex
		case 'o', 'O':
			digit = isOct
		case 'b', 'B':
			digit = isBin
		}
	}

	if lx.cursor.Peek() == '0' && isRadixMarker(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		lx.cursor.Bump()
		digits := 0
		for b := lx.cursor.Peek(); digit(b) || b == '_'; b = lx.cursor.Peek() {
			if b != '_' {
				digits++
			}
			lx.cursor.Bump()
		}
		if digits == 0 {
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexBadNumber, tok.Span, "expected digits after radix prefix")
			return tok
		}
	} else {
		for b := lx.cursor.Peek(); isDec(b) || b == '_'; b = lx.cursor.Peek() {
			lx.cursor.Bump()
		}
	}

	// хвост вида 12abc — одна ошибка на весь литерал
	if isIdentContinueByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexBadNumber, tok.Span, "malformed integer literal '"+tok.Text+"'")
		return tok
	}
	return lx.emit(token.IntLit, start)
}

func isRadixMarker(b byte) bool {
	switch b {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}
	return false
}

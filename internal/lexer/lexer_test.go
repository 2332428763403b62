package lexer

import (
	"testing"

	"idlc/internal/diag"
	"idlc/internal/source"
	"idlc/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.idl", []byte(src))
	bag := diag.NewBag(0)
	lx := New(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx.All(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func expectKinds(t *testing.T, src string, want ...token.Kind) []token.Token {
	t.Helper()
	toks, bag := lexAll(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics for %q: %+v", src, bag.Items())
	}
	got := kinds(toks)
	want = append(want, token.EOF)
	if len(got) != len(want) {
		t.Fatalf("%q: want %v, got %v", src, want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d: want %v, got %v", src, i, want[i], got[i])
		}
	}
	return toks
}

func TestStructHeader(t *testing.T) {
	expectKinds(t, "compact struct Point { x: int32, tag(1) y: string? }",
		token.KwCompact, token.KwStruct, token.Ident, token.LBrace,
		token.Ident, token.Colon, token.Primitive, token.Comma,
		token.KwTag, token.LParen, token.IntLit, token.RParen, token.Ident, token.Colon, token.Primitive, token.Question,
		token.RBrace)
}

func TestNestedGenericsDoNotMergeAngles(t *testing.T) {
	expectKinds(t, "Dictionary<string, Sequence<int8>>",
		token.KwDictionary, token.Lt, token.Primitive, token.Comma,
		token.KwSequence, token.Lt, token.Primitive, token.Gt, token.Gt)
}

func TestOperationPunctuation(t *testing.T) {
	expectKinds(t, "op(x: ::A::B) -> int32 throws E;",
		token.Ident, token.LParen, token.Ident, token.Colon, token.ColonColon, token.Ident,
		token.ColonColon, token.Ident, token.RParen, token.Arrow, token.Primitive,
		token.KwThrows, token.Ident, token.Semicolon)
}

func TestAttributesAndNegativeNumbers(t *testing.T) {
	expectKinds(t, `[[deprecated]] [deprecated("x")] A = -0x1F`,
		token.LDoubleBracket, token.Ident, token.RBracket, token.RBracket,
		token.LBracket, token.Ident, token.LParen, token.StringLit, token.RParen, token.RBracket,
		token.Ident, token.Assign, token.Minus, token.IntLit)
}

func TestEscapedKeywordIsIdent(t *testing.T) {
	toks := expectKinds(t, `\module module`, token.Ident, token.KwModule)
	if toks[0].Text != `\module` {
		t.Fatalf("escaped identifier text must keep the backslash, got %q", toks[0].Text)
	}
}

func TestDocCommentsAreLeadingTrivia(t *testing.T) {
	toks := expectKinds(t, "/// Summary.\n/// @param x: value\n// plain\nstruct", token.KwStruct)
	var doc, plain int
	for _, tv := range toks[0].Leading {
		switch tv.Kind {
		case token.TriviaDocLine:
			doc++
		case token.TriviaLineComment:
			plain++
		}
	}
	if doc != 2 || plain != 1 {
		t.Fatalf("want 2 doc lines and 1 comment, got %d and %d", doc, plain)
	}
	if len(toks[0].DocLines()) != 0 {
		t.Fatalf("plain comment between doc and token must detach the doc comment")
	}
}

func TestNestedBlockComment(t *testing.T) {
	expectKinds(t, "/* outer /* inner */ still */ enum", token.KwEnum)
}

func TestLexicalErrors(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
	}{
		{`"abc`, diag.LexUnterminatedString},
		{"\"a\nb\"", diag.LexUnterminatedString},
		{`"\q"`, diag.LexBadEscape},
		{"0x", diag.LexBadNumber},
		{"12ab", diag.LexBadNumber},
		{"#", diag.LexUnknownChar},
		{`\ 1`, diag.LexBadIdentifierEscape},
		{"/* open", diag.LexUnterminatedBlockComment},
	}
	for _, tc := range cases {
		_, bag := lexAll(t, tc.src)
		if bag.Len() == 0 || bag.Items()[0].Code != tc.code {
			t.Fatalf("%q: want %s, got %+v", tc.src, tc.code.ID(), bag.Items())
		}
	}
}

func TestSpansMatchText(t *testing.T) {
	src := "module A::B { custom Time; }"
	toks, _ := lexAll(t, src)
	for _, tok := range toks {
		if got := src[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Fatalf("span %v covers %q, text is %q", tok.Span, got, tok.Text)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	lx := New(fs.Get(fs.AddVirtual("p.idl", []byte("a b"))), Options{})
	if lx.Peek().Text != "a" || lx.Next().Text != "a" || lx.Next().Text != "b" {
		t.Fatalf("peek/next mismatch")
	}
	if lx.Next().Kind != token.EOF || lx.Next().Kind != token.EOF {
		t.Fatalf("EOF must be sticky")
	}
}

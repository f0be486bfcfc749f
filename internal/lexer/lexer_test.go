package lexer

import "testing"

func TestNextTokenBasic(t *testing.T) {
	input := `(claim id (Pi ((A U) (x A)) A)) ; comment
(define id (lambda (A x) x))
(check-same Nat ((id Nat) zero) 'ok)`

	tests := []struct {
		typ TokenType
		lit string
	}{
		{LPAREN, "("}, {SYMBOL, "claim"}, {SYMBOL, "id"},
		{LPAREN, "("}, {SYMBOL, "Pi"},
		{LPAREN, "("}, {LPAREN, "("}, {SYMBOL, "A"}, {SYMBOL, "U"}, {RPAREN, ")"},
		{LPAREN, "("}, {SYMBOL, "x"}, {SYMBOL, "A"}, {RPAREN, ")"}, {RPAREN, ")"},
		{SYMBOL, "A"}, {RPAREN, ")"}, {RPAREN, ")"},
		{LPAREN, "("}, {SYMBOL, "define"}, {SYMBOL, "id"},
		{LPAREN, "("}, {SYMBOL, "lambda"}, {LPAREN, "("}, {SYMBOL, "A"}, {SYMBOL, "x"}, {RPAREN, ")"},
		{SYMBOL, "x"}, {RPAREN, ")"}, {RPAREN, ")"},
		{LPAREN, "("}, {SYMBOL, "check-same"}, {SYMBOL, "Nat"},
		{LPAREN, "("}, {LPAREN, "("}, {SYMBOL, "id"}, {SYMBOL, "Nat"}, {RPAREN, ")"}, {SYMBOL, "zero"}, {RPAREN, ")"},
		{TICK, "ok"}, {RPAREN, ")"},
		{EOF, ""},
	}

	l := New(input, "test.pie")
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.typ || tok.Literal != tt.lit {
			t.Fatalf("token %d: got %s(%q), want %s(%q)", i, tok.Type, tok.Literal, tt.typ, tt.lit)
		}
	}
}

func TestNextTokenNatLiteral(t *testing.T) {
	l := New("42", "t")
	tok := l.NextToken()
	if tok.Type != NAT || tok.Literal != "42" {
		t.Fatalf("got %v, want NAT 42", tok)
	}
}

func TestNextTokenOperatorSymbols(t *testing.T) {
	for _, lit := range []string{"->", "::", "vec::", "=", "λ", "Σ", "Π", "→"} {
		l := New(lit, "t")
		tok := l.NextToken()
		if tok.Type != SYMBOL || tok.Literal != lit {
			t.Fatalf("lexing %q: got %v", lit, tok)
		}
	}
}

func TestTokensTrailingEOF(t *testing.T) {
	toks := Tokens("(U)", "t")
	if toks[len(toks)-1].Type != EOF {
		t.Fatalf("last token should be EOF, got %v", toks[len(toks)-1])
	}
}

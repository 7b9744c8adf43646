package lexer

import "testing"

func collect(l *Lexer) []Token {
	var toks []Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Type == EOF {
			return toks
		}
	}
}

func TestBasicTokens(t *testing.T) {
	l := New(`var x = 1 + 2 * 3;`, "<test>")
	toks := collect(l)
	want := []TokenType{Keyword, IDENT, Operator, INT, Operator, INT, Operator, INT, Punctuation, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestPositions(t *testing.T) {
	l := New("var x\n= 1;", "<test>")
	varTok := l.Next()
	if varTok.Pos.Line != 1 || varTok.Pos.Column != 1 {
		t.Errorf("var token pos = %+v", varTok.Pos)
	}
	l.Next() // x
	eq := l.Next()
	if eq.Pos.Line != 2 {
		t.Errorf("= token should be on line 2, got %d", eq.Pos.Line)
	}
}

func TestStringEscapes(t *testing.T) {
	l := New(`"a\nb"`, "<test>")
	tok := l.Next()
	if tok.Type != STRING {
		t.Fatalf("got %s, want STRING", tok.Type)
	}
	if tok.Value.AsString() != "a\nb" {
		t.Errorf("got %q", tok.Value.AsString())
	}
}

func TestNumberLiterals(t *testing.T) {
	cases := map[string]TokenType{"123": INT, "1.5": FLOAT, "1e10": FLOAT, "0xFF": INT}
	for src, want := range cases {
		l := New(src, "<test>")
		tok := l.Next()
		if tok.Type != want {
			t.Errorf("%s: got %s, want %s", src, tok.Type, want)
		}
	}
}

func TestSyntheticNoopAfterShr(t *testing.T) {
	l := New("a >> b", "<test>")
	// Next() must transparently skip the synthetic token.
	toks := collect(l)
	if toks[1].Type != Operator || toks[1].Literal != ">>" {
		t.Fatalf("expected >> operator, got %+v", toks[1])
	}
	// But Peek with skipSynthetic=false must still see it in the raw stream.
	l2 := New("a >> b", "<test>")
	l2.Next() // a
	raw := l2.Peek(1, false)
	if raw.Type != Noop {
		t.Errorf("expected synthetic Noop at raw offset 1, got %+v", raw)
	}
}

func TestPeekBackward(t *testing.T) {
	l := New("a + b", "<test>")
	l.Next()
	l.Next()
	l.Next()
	back := l.Peek(-1, true)
	if back.Literal != "b" {
		t.Errorf("peek(-1) = %+v, want b", back)
	}
}

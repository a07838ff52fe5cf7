package calc

import "testing"

func TestOpTable(t *testing.T) {
	cases := []struct {
		op    Op
		prec  int
		right bool
		glyph string
	}{
		{Add, 0, false, "+"},
		{Subtract, 0, false, "-"},
		{Negate, 1, true, "-"},
		{Multiply, 2, false, "*"},
		{Divide, 2, false, "/"},
		{Power, 3, true, "^"},
	}
	for _, c := range cases {
		if got := c.op.Precedence(); got != c.prec {
			t.Errorf("%#v: want precedence %d, got %d", OpToken(c.op), c.prec, got)
		}
		if got := c.op.RightAssoc(); got != c.right {
			t.Errorf("%#v: want right associative %t, got %t", OpToken(c.op), c.right, got)
		}
		if got := c.op.String(); got != c.glyph {
			t.Errorf("%#v: want glyph %q, got %q", OpToken(c.op), c.glyph, got)
		}
	}
}

func TestLookupFunc(t *testing.T) {
	cases := []struct {
		name  string
		f     Func
		arity int
	}{
		{"abs", Abs, 1},
		{"sin", Sin, 1},
		{"COS", Cos, 1},
		{"Tan", Tan, 1},
		{"pow", Pow, 2},
		{"ln", Ln, 1},
		{"sqrt", Sqrt, 1},
		{"log", FuncNone, 1},
		{"", FuncNone, 1},
	}
	for _, c := range cases {
		f := LookupFunc(c.name)
		if f != c.f {
			t.Errorf("%q: want %v, got %v", c.name, c.f, f)
		}
		if f != FuncNone && f.Arity() != c.arity {
			t.Errorf("%q: want arity %d, got %d", c.name, c.arity, f.Arity())
		}
	}
}

func TestTokenPredicates(t *testing.T) {
	cases := []struct {
		tok   Token
		value bool
		s     string
	}{
		{NumToken("1.5"), true, "1.5"},
		{IdentToken("x", 0), true, "x"},
		{CloseToken, true, ")"},
		{OpenToken, false, "("},
		{OpToken(Negate), false, "-"},
		{OpToken(Power), false, "^"},
		{FuncToken(Sqrt), false, "sqrt"},
		{Token{Kind: KindComma}, false, ","},
		{Token{Kind: KindEOF}, false, ""},
	}
	for _, c := range cases {
		if got := c.tok.IsValue(); got != c.value {
			t.Errorf("%#v: want IsValue %t, got %t", c.tok, c.value, got)
		}
		if got := c.tok.String(); got != c.s {
			t.Errorf("%#v: want %q, got %q", c.tok, c.s, got)
		}
	}
	if !OpToken(Negate).IsOp(Negate) || OpToken(Negate).IsOp(Subtract) {
		t.Error("IsOp does not distinguish negation from subtraction")
	}
	if !FuncToken(Pow).IsFunc(Pow) || NumToken("1").IsFunc(FuncNone) {
		t.Error("IsFunc is wrong")
	}
}

func TestTokenGoString(t *testing.T) {
	cases := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: KindOperator, Op: Negate, Pos: 3}, "Operator:neg@3"},
		{Token{Kind: KindOperator, Op: Subtract}, "Operator:sub"},
		{Token{Kind: KindNumber, Text: "12", Pos: 1}, "Number:12@1"},
		{FuncToken(Ln), "Function:ln"},
		{CloseToken, "Close"},
	}
	for _, c := range cases {
		if got := c.tok.GoString(); got != c.want {
			t.Errorf("want %q, got %q", c.want, got)
		}
	}
}

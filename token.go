package calc

import (
	"strconv"
	"strings"
)

// Token is a lexical token. Tokens are values; the only one whose contents
// change after lexing is a number being edited by a builder.
type Token struct {
	// Kind is the token type.
	Kind Kind
	// Op is the operator of a KindOperator token.
	Op Op
	// Func is the function of a KindFunction token.
	Func Func
	// Text is the literal text of a number or the name of an identifier.
	Text string
	// Slot is the variable slot of an identifier.
	Slot int
	// Pos is the 1-based rune column where the token starts, or 0 for tokens
	// that did not come from a lexer.
	Pos int
}

// Kind is a token type.
type Kind int8

const (
	KindNone Kind = iota
	// KindEOF indicates the end of the input.
	KindEOF
	// KindNumber is a numeric literal.
	KindNumber
	// KindIdent is a variable name.
	KindIdent
	// KindOperator is an arithmetic operator.
	KindOperator
	// KindFunction is a predefined function name.
	KindFunction
	// KindOpen is an open parenthesis.
	KindOpen
	// KindClose is a close parenthesis.
	KindClose
	// KindComma separates function arguments.
	KindComma
)

var kindNames = [...]string{
	KindNone:     "None",
	KindEOF:      "EOF",
	KindNumber:   "Number",
	KindIdent:    "Ident",
	KindOperator: "Operator",
	KindFunction: "Function",
	KindOpen:     "Open",
	KindClose:    "Close",
	KindComma:    "Comma",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Op is an arithmetic operator.
type Op int8

const (
	OpNone Op = iota
	Add
	Subtract
	Multiply
	Divide
	Power
	// Negate is unary minus. It is written the same as Subtract; the lexer
	// decides which one a - means.
	Negate
)

type opinfo struct {
	glyph string
	name  string
	prec  int8
	right bool
}

var ops = [...]opinfo{
	OpNone:   {"", "none", -1, false},
	Add:      {"+", "add", 0, false},
	Subtract: {"-", "sub", 0, false},
	Negate:   {"-", "neg", 1, true},
	Multiply: {"*", "mul", 2, false},
	Divide:   {"/", "div", 2, false},
	Power:    {"^", "pow", 3, true},
}

// Precedence returns the binding strength of the operator. Higher binds
// tighter.
func (o Op) Precedence() int {
	return int(ops[o].prec)
}

// RightAssoc returns whether the operator is right-associative. Only Negate
// and Power are.
func (o Op) RightAssoc() bool {
	return ops[o].right
}

// Unary returns whether the operator takes one operand.
func (o Op) Unary() bool {
	return o == Negate
}

// String returns the operator's glyph.
func (o Op) String() string {
	if o < 0 || int(o) >= len(ops) {
		return "Op(" + strconv.Itoa(int(o)) + ")"
	}
	return ops[o].glyph
}

// Func is a predefined function.
type Func int8

const (
	FuncNone Func = iota
	Abs
	Sin
	Cos
	Tan
	Pow
	Ln
	Sqrt
)

var funcNames = [...]string{
	FuncNone: "",
	Abs:      "abs",
	Sin:      "sin",
	Cos:      "cos",
	Tan:      "tan",
	Pow:      "pow",
	Ln:       "ln",
	Sqrt:     "sqrt",
}

// LookupFunc finds a predefined function by name, ignoring case. The result
// is FuncNone if there is no such function.
func LookupFunc(name string) Func {
	name = strings.ToLower(name)
	for f, s := range funcNames {
		if f != int(FuncNone) && s == name {
			return Func(f)
		}
	}
	return FuncNone
}

// Arity returns the number of arguments the function takes.
func (f Func) Arity() int {
	if f == Pow {
		return 2
	}
	return 1
}

// String returns the function's name.
func (f Func) String() string {
	if f < 0 || int(f) >= len(funcNames) {
		return "Func(" + strconv.Itoa(int(f)) + ")"
	}
	return funcNames[f]
}

// Convenience constructors for tokens that do not come from a lexer.

// OpToken creates an operator token.
func OpToken(op Op) Token { return Token{Kind: KindOperator, Op: op} }

// FuncToken creates a function token.
func FuncToken(f Func) Token { return Token{Kind: KindFunction, Func: f} }

// NumToken creates a number token with the given literal text.
func NumToken(text string) Token { return Token{Kind: KindNumber, Text: text} }

// IdentToken creates an identifier token.
func IdentToken(name string, slot int) Token {
	return Token{Kind: KindIdent, Text: name, Slot: slot}
}

var (
	// OpenToken is an open parenthesis.
	OpenToken = Token{Kind: KindOpen}
	// CloseToken is a close parenthesis.
	CloseToken = Token{Kind: KindClose}
)

func (t Token) IsNumber() bool   { return t.Kind == KindNumber }
func (t Token) IsIdent() bool    { return t.Kind == KindIdent }
func (t Token) IsOperator() bool { return t.Kind == KindOperator }
func (t Token) IsFunction() bool { return t.Kind == KindFunction }
func (t Token) IsOpen() bool     { return t.Kind == KindOpen }
func (t Token) IsClose() bool    { return t.Kind == KindClose }
func (t Token) IsEOF() bool      { return t.Kind == KindEOF }

// IsOp returns whether the token is the given operator.
func (t Token) IsOp(op Op) bool {
	return t.Kind == KindOperator && t.Op == op
}

// IsFunc returns whether the token is the given function.
func (t Token) IsFunc(f Func) bool {
	return t.Kind == KindFunction && t.Func == f
}

// IsValue returns whether the token can end an operand: a number, an
// identifier, or a close parenthesis.
func (t Token) IsValue() bool {
	switch t.Kind {
	case KindNumber, KindIdent, KindClose:
		return true
	}
	return false
}

// String returns the token's display text. Concatenating the display text of
// a token sequence gives text that lexes back to the same sequence.
func (t Token) String() string {
	switch t.Kind {
	case KindNumber, KindIdent:
		return t.Text
	case KindOperator:
		return t.Op.String()
	case KindFunction:
		return t.Func.String()
	case KindOpen:
		return "("
	case KindClose:
		return ")"
	case KindComma:
		return ","
	case KindEOF, KindNone:
		return ""
	default:
		panic("calc: invalid token kind " + t.Kind.String())
	}
}

// GoString describes the token for diagnostics.
func (t Token) GoString() string {
	s := t.Kind.String()
	switch t.Kind {
	case KindOperator:
		s += ":" + ops[t.Op].name
	case KindNumber, KindIdent, KindFunction:
		s += ":" + t.String()
	}
	if t.Pos > 0 {
		s += "@" + strconv.Itoa(t.Pos)
	}
	return s
}

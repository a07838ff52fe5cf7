package calc

import (
	"strconv"
	"strings"
	"unicode"
)

// Lexer splits an expression into tokens. It resolves function names against
// the predefined functions and assigns each distinct variable name a slot, so
// every occurrence of "x" in one expression refers to the same variable.
type Lexer struct {
	src  *strings.Reader
	buf  strings.Builder
	rune int
	// prev is the last token returned. It decides whether - is subtraction
	// or negation.
	prev Token
	eof  bool

	names map[string]int
	vars  []string
}

// NewLexer creates a lexer over text. The text is trimmed and lowercased
// before scanning.
func NewLexer(text string) *Lexer {
	text = strings.ToLower(strings.TrimSpace(text))
	return &Lexer{
		src:   strings.NewReader(text),
		rune:  1,
		names: make(map[string]int),
	}
}

// Vars returns the variable names seen so far, in slot order.
func (l *Lexer) Vars() []string {
	return append([]string(nil), l.vars...)
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *Lexer) readRune() (rune, error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *Lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// Next scans the next token. Once the input is exhausted, Next returns an EOF
// token on every call.
func (l *Lexer) Next() (Token, error) {
	if l.eof {
		return Token{Kind: KindEOF, Pos: l.rune}, nil
	}
	defer l.buf.Reset()
	tok := Token{Pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			// strings.Reader only fails at the end.
			tok.Kind = KindEOF
			l.eof = true
			l.prev = tok
			return tok, nil
		}
		switch {
		case unicode.IsSpace(r):
			tok.Pos++
			continue
		case '0' <= r && r <= '9':
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			tok.Kind = KindNumber
			tok.Text = l.buf.String()
		case unicode.IsLetter(r):
			l.unreadRune()
			l.scanIdent()
			name := l.buf.String()
			if f := LookupFunc(name); f != FuncNone {
				tok.Kind = KindFunction
				tok.Func = f
			} else {
				tok.Kind = KindIdent
				tok.Text = name
				tok.Slot = l.slot(name)
			}
		default:
			if !l.symbol(r, &tok) {
				// Write the rune so that it shows up in the error message.
				l.buf.WriteRune(r)
				return tok, l.error("")
			}
		}
		l.prev = tok
		return tok, nil
	}
}

// symbol fills tok for a single-rune token. Returns false if r is not one.
func (l *Lexer) symbol(r rune, tok *Token) bool {
	switch r {
	case '+':
		*tok = Token{Kind: KindOperator, Op: Add, Pos: tok.Pos}
	case '-':
		op := Negate
		switch l.prev.Kind {
		case KindNumber, KindIdent, KindClose:
			op = Subtract
		}
		*tok = Token{Kind: KindOperator, Op: op, Pos: tok.Pos}
	case '*':
		*tok = Token{Kind: KindOperator, Op: Multiply, Pos: tok.Pos}
	case '/':
		*tok = Token{Kind: KindOperator, Op: Divide, Pos: tok.Pos}
	case '^':
		*tok = Token{Kind: KindOperator, Op: Power, Pos: tok.Pos}
	case '(':
		tok.Kind = KindOpen
	case ')':
		tok.Kind = KindClose
	case ',':
		tok.Kind = KindComma
	default:
		return false
	}
	return true
}

// slot gets the variable slot for name, creating one if needed.
func (l *Lexer) slot(name string) int {
	if k, ok := l.names[name]; ok {
		return k
	}
	k := len(l.vars)
	l.names[name] = k
	l.vars = append(l.vars, name)
	return k
}

func (l *Lexer) scanNum() error {
	var dot bool
	for {
		r, err := l.readRune()
		if err != nil {
			return nil
		}
		switch {
		case '0' <= r && r <= '9':
			l.buf.WriteRune(r)
		case r == '.':
			l.buf.WriteRune(r)
			if dot {
				return l.error("number")
			}
			dot = true
		case r == 'e', r == 'E':
			l.buf.WriteRune(r)
			return l.scanExp()
		default:
			l.unreadRune()
			return nil
		}
	}
}

// scanExp scans the exponent of a number in scientific notation. The sign is
// required: 1e+10 is a number, but 1e10 is an error.
func (l *Lexer) scanExp() error {
	r, err := l.readRune()
	if err != nil {
		return l.error("scientific notation")
	}
	l.buf.WriteRune(r)
	if r != '+' && r != '-' {
		return l.error("scientific notation")
	}
	n := 0
	for {
		r, err := l.readRune()
		if err != nil {
			break
		}
		if r < '0' || r > '9' {
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
		n++
	}
	if n == 0 {
		return l.error("scientific notation")
	}
	return nil
}

func (l *Lexer) scanIdent() {
	for {
		r, err := l.readRune()
		if err != nil {
			// Next unreads the rune that decides ident scanning before
			// calling scanIdent, so we have scanned at least one rune.
			return
		}
		if !unicode.IsLetter(r) {
			l.unreadRune()
			return
		}
		l.buf.WriteRune(r)
	}
}

func (l *Lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune - 1,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "scientific notation", or the empty string (if a token kind hadn't been
	// decided).
	Kind string
	// Col is the number of runes scanned by the lexer up to and including
	// this error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + strconv.Quote(err.Text)
	}
	return "invalid " + err.Kind + " at " + pos + ": " + strconv.Quote(err.Text)
}

func (err *LexError) Pos() int {
	return err.Col
}

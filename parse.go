package calc

import (
	"strings"
	"unicode/utf8"
)

// StackSize is the capacity of the evaluation stack. Parse rejects
// expressions that would need more.
const StackSize = 4096

// MaxInput is the longest input, in runes, that Parse accepts.
const MaxInput = 1 << 16

// Program is a parsed expression in postfix order. A Program is immutable and
// may be compiled for any number of precisions.
type Program struct {
	// postfix is the token sequence in evaluation order.
	postfix []Token
	// names is the list of variable names, indexed by slot.
	names []string
	// depth is the most values the program holds on the stack at once.
	depth int
}

// Parse converts an infix expression to a postfix Program using the
// shunting-yard algorithm.
func Parse(text string) (*Program, error) {
	if n := utf8.RuneCountInString(text); n > MaxInput {
		return nil, &LengthError{Len: n}
	}
	scan := NewLexer(text)
	var p shunter
	for {
		tok, err := scan.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEOF {
			if err := p.drain(); err != nil {
				return nil, err
			}
			prog := Program{postfix: p.out, names: scan.Vars(), depth: depth(p.out)}
			if prog.depth > StackSize {
				return nil, &DepthError{Col: tok.Pos, Depth: prog.depth}
			}
			return &prog, nil
		}
		if err := p.shunt(tok); err != nil {
			return nil, err
		}
	}
}

// FromPostfix creates a Program directly from a postfix token sequence.
// Identifier slots are reassigned by order of first appearance of each name.
// The tokens are not checked for well-formedness; evaluating a malformed
// sequence returns an EvalError. Parenthesis and comma tokens are rejected
// at evaluation as well.
func FromPostfix(postfix []Token) (*Program, error) {
	prog := Program{postfix: make([]Token, len(postfix))}
	names := make(map[string]int)
	for i, t := range postfix {
		if t.Kind == KindIdent {
			t.Text = strings.ToLower(t.Text)
			k, ok := names[t.Text]
			if !ok {
				k = len(prog.names)
				names[t.Text] = k
				prog.names = append(prog.names, t.Text)
			}
			t.Slot = k
		}
		prog.postfix[i] = t
	}
	prog.depth = depth(prog.postfix)
	if prog.depth > StackSize {
		return nil, &DepthError{Depth: prog.depth}
	}
	return &prog, nil
}

// shunter holds the state of the shunting-yard algorithm.
type shunter struct {
	out   []Token
	stack []Token
}

func (p *shunter) push(tok Token) {
	p.stack = append(p.stack, tok)
}

func (p *shunter) top() Token {
	return p.stack[len(p.stack)-1]
}

func (p *shunter) pop() Token {
	tok := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	return tok
}

// emit moves the top of the operator stack to the output.
func (p *shunter) emit() {
	p.out = append(p.out, p.pop())
}

// popToOpen emits operators until an open parenthesis is on top of the stack.
// Returns false if the stack runs out first.
func (p *shunter) popToOpen() bool {
	for len(p.stack) > 0 {
		if p.top().Kind == KindOpen {
			return true
		}
		p.emit()
	}
	return false
}

// shunt handles one token.
func (p *shunter) shunt(tok Token) error {
	switch tok.Kind {
	case KindNumber, KindIdent:
		p.out = append(p.out, tok)
	case KindFunction, KindOpen:
		p.push(tok)
	case KindComma:
		if !p.popToOpen() {
			return &SeparatorError{Col: tok.Pos}
		}
	case KindOperator:
		if !tok.Op.Unary() {
			// A prefix operator has no left operand, so there is nothing for
			// it to finish.
			for len(p.stack) > 0 && p.top().Kind == KindOperator && yields(tok.Op, p.top().Op) {
				p.emit()
			}
		}
		p.push(tok)
	case KindClose:
		if !p.popToOpen() {
			return &BracketError{Col: tok.Pos, Right: ")"}
		}
		p.pop()
		if len(p.stack) > 0 && p.top().Kind == KindFunction {
			p.emit()
		}
	default:
		panic("calc: unexpected token " + tok.GoString())
	}
	return nil
}

// yields returns whether o2, on the stack, must be emitted before o1 is
// pushed.
func yields(o1, o2 Op) bool {
	if o1.RightAssoc() {
		return o1.Precedence() < o2.Precedence()
	}
	return o1.Precedence() <= o2.Precedence()
}

// drain emits everything left on the stack at the end of input.
func (p *shunter) drain() error {
	for len(p.stack) > 0 {
		if tok := p.top(); tok.Kind == KindOpen {
			return &BracketError{Col: tok.Pos, Left: "("}
		}
		p.emit()
	}
	return nil
}

// depth computes the largest number of values a postfix sequence keeps on the
// evaluation stack.
func depth(postfix []Token) int {
	d, most := 0, 0
	for _, t := range postfix {
		switch t.Kind {
		case KindNumber, KindIdent:
			d++
		case KindOperator:
			if !t.Op.Unary() {
				d--
			}
		case KindFunction:
			d -= t.Func.Arity() - 1
		}
		if d > most {
			most = d
		}
	}
	return most
}

// Postfix returns a copy of the program's tokens in postfix order.
func (p *Program) Postfix() []Token {
	return append([]Token(nil), p.postfix...)
}

// Vars returns the variable names used in the expression, in slot order.
func (p *Program) Vars() []string {
	return append([]string(nil), p.names...)
}

// Slot returns the slot of a variable, ignoring case.
func (p *Program) Slot(name string) (int, bool) {
	name = strings.ToLower(name)
	for k, v := range p.names {
		if v == name {
			return k, true
		}
	}
	return -1, false
}

// Depth returns the most values the program keeps on the evaluation stack.
func (p *Program) Depth() int {
	return p.depth
}

// String renders the program in postfix order with tokens separated by
// spaces. Negation is written "neg" to tell it apart from subtraction.
func (p *Program) String() string {
	var b strings.Builder
	for i, t := range p.postfix {
		if i > 0 {
			b.WriteByte(' ')
		}
		if t.IsOp(Negate) {
			b.WriteString("neg")
			continue
		}
		b.WriteString(t.String())
	}
	return b.String()
}

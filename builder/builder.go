// Package builder edits calculator expressions one key at a time.
//
// A Builder holds the expression shown on a calculator display as a list of
// tokens. Each edit checks only the tail of the list, and edits that would
// make the expression malformed are ignored, so the text is always a prefix
// of some valid expression. Build closes any open parentheses to produce text
// for calc.Parse.
package builder

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/zephyrtronium/calc"
)

// Builder is an incremental expression editor. The zero value is an empty
// expression ready to use.
type Builder struct {
	// list is the expression. Number tokens hold literal text being typed,
	// or arbitrary text from SetExpression.
	list []calc.Token
}

// New creates an empty builder.
func New() *Builder {
	return &Builder{}
}

func (b *Builder) empty() bool {
	return len(b.list) == 0
}

func (b *Builder) tail() calc.Token {
	if b.empty() {
		return calc.Token{}
	}
	return b.list[len(b.list)-1]
}

func (b *Builder) push(tok calc.Token) {
	b.list = append(b.list, tok)
}

func (b *Builder) pop() calc.Token {
	tok := b.tail()
	b.list = b.list[:len(b.list)-1]
	return tok
}

// tailNumber returns the number at the tail of the list for editing, or nil
// if the tail is not a number.
func (b *Builder) tailNumber() *calc.Token {
	if b.empty() || !b.list[len(b.list)-1].IsNumber() {
		return nil
	}
	return &b.list[len(b.list)-1]
}

// endsClosed returns whether t ends with a close parenthesis, either as a
// close token or as text from SetExpression.
func endsClosed(t calc.Token) bool {
	return t.IsClose() || t.IsNumber() && strings.HasSuffix(t.Text, ")")
}

// implicitMul inserts a multiplication if the tail is a value that the next
// token would otherwise be juxtaposed with.
func (b *Builder) implicitMul(numbers bool) {
	t := b.tail()
	if endsClosed(t) || numbers && t.IsNumber() {
		b.push(calc.OpToken(calc.Multiply))
	}
}

// AppendDigit appends a decimal digit. It extends the number at the tail, or
// starts a new one. A digit after a close parenthesis multiplies. Panics if d
// is not in 0 through 9.
func (b *Builder) AppendDigit(d int) {
	if d < 0 || d > 9 {
		panic("builder: invalid digit " + strconv.Itoa(d))
	}
	if n := b.tailNumber(); n != nil && !endsClosed(*n) {
		n.Text += strconv.Itoa(d)
		return
	}
	b.implicitMul(false)
	b.push(calc.NumToken(strconv.Itoa(d)))
}

// AppendDecimal adds a decimal point to the number at the tail if it does not
// already have one.
func (b *Builder) AppendDecimal() {
	if n := b.tailNumber(); n != nil && !endsClosed(*n) && !strings.Contains(n.Text, ".") {
		n.Text += "."
	}
}

// AppendOperator appends an operator. Subtraction and negation are always
// accepted, so a minus can start an operand. Other operators need a
// preceding operand: they are ignored on an empty expression or after another
// operator or an open parenthesis.
func (b *Builder) AppendOperator(op calc.Op) {
	if op != calc.Subtract && op != calc.Negate {
		t := b.tail()
		if b.empty() || t.IsOperator() || t.IsOpen() {
			return
		}
	}
	b.push(calc.OpToken(op))
}

// AppendSquare appends ^2 after a complete operand.
func (b *Builder) AppendSquare() {
	if !b.complete() {
		return
	}
	b.push(calc.OpToken(calc.Power))
	b.push(calc.NumToken("2"))
}

// AppendFunction appends a function call with its open parenthesis. A
// function after a number or a close parenthesis multiplies.
func (b *Builder) AppendFunction(f calc.Func) {
	b.implicitMul(true)
	b.push(calc.FuncToken(f))
	b.push(calc.OpenToken)
}

// AppendOpen appends an open parenthesis. An open parenthesis after a number
// or a close parenthesis multiplies.
func (b *Builder) AppendOpen() {
	b.implicitMul(true)
	b.push(calc.OpenToken)
}

// AppendClose appends a close parenthesis if it completes an operand and
// matches an open one.
func (b *Builder) AppendClose() {
	if !b.complete() {
		return
	}
	if open, closed := b.count(); open > closed {
		b.push(calc.CloseToken)
	}
}

// ToggleSign adds or removes a leading minus on the number at the tail.
func (b *Builder) ToggleSign() {
	n := b.tailNumber()
	if n == nil {
		return
	}
	if strings.HasPrefix(n.Text, "-") {
		n.Text = n.Text[1:]
	} else {
		n.Text = "-" + n.Text
	}
}

// Delete removes the last character of the number at the tail, or the whole
// token otherwise. Deleting the parenthesis of a function call also removes
// the function.
func (b *Builder) Delete() {
	if b.empty() {
		return
	}
	if n := b.tailNumber(); n != nil {
		_, size := utf8.DecodeLastRuneInString(n.Text)
		n.Text = n.Text[:len(n.Text)-size]
		if n.Text == "" {
			b.pop()
		}
		return
	}
	if b.pop().IsOpen() && b.tail().IsFunction() {
		b.pop()
	}
}

// Clear empties the expression.
func (b *Builder) Clear() {
	b.list = b.list[:0]
}

// SetExpression replaces the expression with text, e.g. a result or a stored
// expression. The text is kept as a single token: the next digit, decimal
// point, sign toggle, or delete edits its end as if it were a number.
func (b *Builder) SetExpression(text string) {
	b.Clear()
	if text != "" {
		b.push(calc.NumToken(text))
	}
}

// Build finishes the expression for evaluation and returns its text. If
// parentheses are left open and the expression ends with a complete operand,
// Build closes them. The closes become part of the expression.
func (b *Builder) Build() string {
	open, closed := b.count()
	switch need := open - closed; {
	case need > 0:
		if b.complete() {
			for i := 0; i < need; i++ {
				b.push(calc.CloseToken)
			}
		}
	case need < 0:
		// Only text from SetExpression can have too many closes.
		opens := make([]calc.Token, -need, len(b.list)-need)
		for i := range opens {
			opens[i] = calc.OpenToken
		}
		b.list = append(opens, b.list...)
	}
	return b.String()
}

// String returns the current text of the expression.
func (b *Builder) String() string {
	var s strings.Builder
	for _, t := range b.list {
		s.WriteString(t.String())
	}
	return s.String()
}

// IsEmpty returns whether the expression is empty.
func (b *Builder) IsEmpty() bool {
	return b.empty()
}

// Tokens returns a copy of the expression's tokens.
func (b *Builder) Tokens() []calc.Token {
	return append([]calc.Token(nil), b.list...)
}

// complete returns whether the expression ends with a complete operand, so
// that a close parenthesis or a postfix operator may follow.
func (b *Builder) complete() bool {
	if b.empty() {
		return false
	}
	t := b.tail()
	return !t.IsOperator() && !t.IsOpen() && !t.IsFunction()
}

// count counts open and close parentheses, including those in text from
// SetExpression.
func (b *Builder) count() (open, closed int) {
	for _, t := range b.list {
		switch {
		case t.IsOpen():
			open++
		case t.IsClose():
			closed++
		case t.IsNumber():
			open += strings.Count(t.Text, "(")
			closed += strings.Count(t.Text, ")")
		}
	}
	return open, closed
}

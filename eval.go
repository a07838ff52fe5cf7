package calc

import (
	"errors"
	"math/big"
	"strconv"
)

// Handle refers to a variable of an Evaluator.
type Handle int

// Evaluator evaluates a Program using one numeric backend. Literals are
// converted once, when the evaluator is compiled, so evaluating the same
// program for many variable bindings does no parsing. It is not safe to use an
// Evaluator concurrently.
type Evaluator[T any] struct {
	prog  *Program
	arith Arith[T]
	// nums holds the value of each number token, indexed like the postfix.
	nums []T
	// vars holds the value of each variable, indexed by slot.
	vars  []T
	stack []T
	// check is the backend's Checker, if it has one.
	check func(T) error
}

// Compile prepares p for evaluation with a. An error is returned if a literal
// in p cannot be converted by a; the error is a *LexError, or a *DomainError
// if the literal is outside the backend's range.
func Compile[T any](p *Program, a Arith[T]) (*Evaluator[T], error) {
	e := Evaluator[T]{
		prog:  p,
		arith: a,
		nums:  make([]T, len(p.postfix)),
		vars:  make([]T, len(p.names)),
		stack: make([]T, 0, min(p.depth, StackSize)),
	}
	if c, ok := any(a).(Checker[T]); ok {
		e.check = c.Check
	}
	for i, t := range p.postfix {
		if t.Kind != KindNumber {
			continue
		}
		v, err := a.Parse(t.Text)
		if err != nil {
			var de *DomainError
			if errors.As(err, &de) {
				return nil, err
			}
			return nil, &LexError{Text: t.Text, Kind: "number", Col: t.Pos}
		}
		if err := e.checked(v); err != nil {
			return nil, err
		}
		e.nums[i] = v
	}
	for i := range e.vars {
		e.vars[i] = a.Zero()
	}
	return &e, nil
}

// Program returns the program the evaluator evaluates.
func (e *Evaluator[T]) Program() *Program {
	return e.prog
}

// Lookup finds the handle of a variable, ignoring case.
func (e *Evaluator[T]) Lookup(name string) (Handle, bool) {
	k, ok := e.prog.Slot(name)
	return Handle(k), ok
}

// Bind sets the value of a variable. Panics if h is not a handle from e.
func (e *Evaluator[T]) Bind(h Handle, v T) {
	e.vars[h] = v
}

// Value returns the current value of a variable. Unbound variables are zero.
func (e *Evaluator[T]) Value(h Handle) T {
	return e.vars[h]
}

// Reset unbinds all variables.
func (e *Evaluator[T]) Reset() {
	for i := range e.vars {
		e.vars[i] = e.arith.Zero()
	}
}

// Eval evaluates the program with the current variable bindings. A program
// that does not leave exactly one value returns an *EvalError. Results that
// the backend cannot represent return a *DomainError.
func (e *Evaluator[T]) Eval() (r T, err error) {
	defer func() {
		if err != nil {
			e.stack = e.stack[:0]
		}
	}()
	defer e.recoverBig(&err)
	e.stack = e.stack[:0]
	a := e.arith
	for i, t := range e.prog.postfix {
		switch t.Kind {
		case KindNumber:
			e.push(e.nums[i])
		case KindIdent:
			e.push(e.vars[t.Slot])
		case KindOperator:
			if t.Op == Negate {
				x, ok := e.pop()
				if !ok {
					return r, e.malformed(i)
				}
				e.push(a.Neg(x))
				continue
			}
			y, ok1 := e.pop()
			x, ok2 := e.pop()
			if !ok1 || !ok2 {
				return r, e.malformed(i)
			}
			v, err := e.binary(t.Op, x, y)
			if err == nil {
				err = e.checked(v)
			}
			if err != nil {
				return r, err
			}
			e.push(v)
		case KindFunction:
			v, ok, err := e.call(t.Func)
			if !ok {
				return r, e.malformed(i)
			}
			if err != nil {
				return r, err
			}
			e.push(v)
		default:
			// Parentheses and commas never reach the output of Parse.
			return r, e.malformed(i)
		}
	}
	if len(e.stack) != 1 {
		return r, e.malformed(len(e.prog.postfix))
	}
	return e.stack[0], nil
}

func (e *Evaluator[T]) binary(op Op, x, y T) (T, error) {
	a := e.arith
	switch op {
	case Add:
		return a.Add(x, y), nil
	case Subtract:
		return a.Sub(x, y), nil
	case Multiply:
		return a.Mul(x, y), nil
	case Divide:
		return a.Quo(x, y)
	case Power:
		return a.Pow(x, y)
	default:
		panic("calc: invalid operator " + op.String())
	}
}

func (e *Evaluator[T]) checked(v T) error {
	if e.check == nil {
		return nil
	}
	return e.check(v)
}

// call applies a function to its arguments on the stack. ok is false if there
// are not enough arguments.
func (e *Evaluator[T]) call(f Func) (r T, ok bool, err error) {
	a := e.arith
	if f == Pow {
		y, ok1 := e.pop()
		x, ok2 := e.pop()
		if !ok1 || !ok2 {
			return r, false, nil
		}
		r, err = a.Pow(x, y)
		return r, true, err
	}
	x, ok := e.pop()
	if !ok {
		return r, false, nil
	}
	switch f {
	case Abs:
		return a.Abs(x), true, nil
	case Sin:
		r, err = a.Sin(x)
	case Cos:
		r, err = a.Cos(x)
	case Tan:
		r, err = a.Tan(x)
	case Ln:
		r, err = a.Ln(x)
	case Sqrt:
		r, err = a.Sqrt(x)
	default:
		panic("calc: invalid function " + f.String())
	}
	return r, true, err
}

// push pushes a value. Parse bounds the stack depth of every program, so
// overflow means the evaluator and parser disagree.
func (e *Evaluator[T]) push(v T) {
	if len(e.stack) >= StackSize {
		panic("calc: evaluation stack overflow (bad program depth?)")
	}
	e.stack = append(e.stack, v)
}

func (e *Evaluator[T]) pop() (T, bool) {
	if len(e.stack) == 0 {
		var zero T
		return zero, false
	}
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v, true
}

func (e *Evaluator[T]) malformed(i int) error {
	err := EvalError{Index: i, Depth: len(e.stack)}
	if i < len(e.prog.postfix) {
		err.Token = e.prog.postfix[i]
	} else {
		err.Token = Token{Kind: KindEOF}
	}
	return &err
}

// recoverBig converts big.ErrNaN panics, which big.Float arithmetic raises for
// results like inf-inf, into DomainErrors.
func (e *Evaluator[T]) recoverBig(err *error) {
	r := recover()
	if r == nil {
		return
	}
	nan, ok := r.(big.ErrNaN)
	if !ok {
		panic(r)
	}
	*err = &DomainError{X: nan.Error()}
}

// EvalError is an error indicating a program that does not describe a single
// value, e.g. one built by FromPostfix with an operator missing an operand.
// Programs from Parse produce EvalErrors only when an expression is
// incomplete, like "2+" or "()".
type EvalError struct {
	// Index is the position in the postfix program where evaluation failed.
	// It is the program length if the stack did not hold exactly one value at
	// the end.
	Index int
	// Token is the token at Index, or an EOF token at the end.
	Token Token
	// Depth is the number of values on the stack when evaluation failed.
	Depth int
}

func (err *EvalError) Error() string {
	if err.Token.Kind == KindEOF {
		return "malformed expression: " + strconv.Itoa(err.Depth) + " values at end, want 1"
	}
	return "malformed expression: " + strconv.Quote(err.Token.String()) + " at " + strconv.Itoa(err.Index) + " missing operands"
}

// IsEvalError returns whether err is or wraps an *EvalError.
func IsEvalError(err error) bool {
	var ee *EvalError
	return errors.As(err, &ee)
}

// Eval parses text and evaluates it with a. Variables are zero.
func Eval[T any](text string, a Arith[T]) (T, error) {
	var zero T
	p, err := Parse(text)
	if err != nil {
		return zero, err
	}
	e, err := Compile(p, a)
	if err != nil {
		return zero, err
	}
	return e.Eval()
}

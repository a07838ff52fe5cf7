package calc

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Result is the result of Evaluate.
type Result struct {
	// Value is the result in the representation of its precision: float32,
	// float64, decimal.Decimal, or *big.Float.
	Value any

	prec Precision
	f64  float64
	text string
}

// Precision returns the precision the result was computed with.
func (r Result) Precision() Precision {
	return r.prec
}

// Float64 approximates the result as a float64.
func (r Result) Float64() float64 {
	return r.f64
}

// String formats the result in its precision's own notation.
func (r Result) String() string {
	return r.text
}

func result[T any](a Arith[T], p Precision, v T) Result {
	return Result{Value: v, prec: p, f64: a.Float64(v), text: a.Format(v)}
}

// Evaluate parses and evaluates text under the given precision. Errors are
// InputErrors for text that is not an expression, *EvalError for incomplete
// expressions, *DomainError for results the precision cannot represent, and
// *BindError for bad variable values.
func Evaluate(text string, p Precision, opts ...EvalOption) (Result, error) {
	prog, err := Parse(text)
	if err != nil {
		return Result{}, err
	}
	return EvaluateProgram(prog, p, opts...)
}

// EvaluateProgram evaluates a parsed program under the given precision.
func EvaluateProgram(prog *Program, p Precision, opts ...EvalOption) (Result, error) {
	ctx := newEvalctx(opts)
	switch p {
	case Float32:
		return run[float32](prog, FloatArith[float32]{}, p, ctx)
	case Float64:
		return run[float64](prog, FloatArith[float64]{}, p, ctx)
	case Decimal:
		return run[decimal.Decimal](prog, DecimalArith{}, p, ctx)
	case BigFloat:
		return run[*big.Float](prog, BigFloatArith{Bits: ctx.bits}, p, ctx)
	default:
		return Result{}, &PrecisionError{Name: p.String()}
	}
}

func run[T any](prog *Program, a Arith[T], p Precision, ctx evalctx) (Result, error) {
	e, err := Compile(prog, a)
	if err != nil {
		return Result{}, err
	}
	if err := bind(e, a, ctx.vars); err != nil {
		return Result{}, err
	}
	v, err := e.Eval()
	if err != nil {
		return Result{}, err
	}
	return result(a, p, v), nil
}

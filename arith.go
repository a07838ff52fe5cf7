package calc

import (
	"strconv"
	"strings"
)

// Arith is the set of numeric operations the evaluator needs from a precision
// backend. Operations that cannot produce a value of type T, such as a
// decimal division by zero, return a *DomainError. Operations that can return
// an error but never do for a given backend return a nil error.
type Arith[T any] interface {
	// Parse converts a number literal as produced by the lexer.
	Parse(lit string) (T, error)
	// Zero returns the value of an unbound variable.
	Zero() T

	Neg(x T) T
	Abs(x T) T
	Add(x, y T) T
	Sub(x, y T) T
	Mul(x, y T) T
	Quo(x, y T) (T, error)
	Pow(x, y T) (T, error)

	Sin(x T) (T, error)
	Cos(x T) (T, error)
	Tan(x T) (T, error)
	Ln(x T) (T, error)
	Sqrt(x T) (T, error)

	// Float64 approximates x as a float64.
	Float64(x T) float64
	// Format converts x to text that the lexer can read back when x is
	// finite and non-negative. Negative values begin with -.
	Format(x T) string
}

// Checker is implemented by backends whose values have limits that their
// operations do not enforce. The evaluator checks each literal and each result
// of a binary operator, and fails with Check's error.
type Checker[T any] interface {
	Check(x T) error
}

// Precision names a numeric backend.
type Precision int8

const (
	PrecisionNone Precision = iota
	// Float32 evaluates with IEEE single precision.
	Float32
	// Float64 evaluates with IEEE double precision.
	Float64
	// Decimal evaluates with arbitrary-precision decimals. Transcendental
	// functions and inexact division go through float64.
	Decimal
	// BigFloat evaluates with big.Float at a chosen number of bits.
	BigFloat
)

var precNames = [...]string{
	PrecisionNone: "none",
	Float32:       "float32",
	Float64:       "float64",
	Decimal:       "decimal",
	BigFloat:      "bigfloat",
}

// Precisions lists every backend.
var Precisions = []Precision{Float32, Float64, Decimal, BigFloat}

func (p Precision) String() string {
	if p < 0 || int(p) >= len(precNames) {
		return "Precision(" + strconv.Itoa(int(p)) + ")"
	}
	return precNames[p]
}

// ParsePrecision finds a precision by name, ignoring case. "float" and
// "double" are accepted for Float32 and Float64, and "big" for BigFloat.
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "float32", "float", "f32":
		return Float32, nil
	case "float64", "double", "f64":
		return Float64, nil
	case "decimal", "dec", "bigdecimal":
		return Decimal, nil
	case "bigfloat", "big":
		return BigFloat, nil
	}
	return PrecisionNone, &PrecisionError{Name: s}
}

// PrecisionError is an error indicating an unknown precision name.
type PrecisionError struct {
	Name string
}

func (err *PrecisionError) Error() string {
	return "unknown precision " + strconv.Quote(err.Name) + " (want float32, float64, decimal, or bigfloat)"
}

// DomainError is an error returned when an operation's result cannot be
// represented by the backend, e.g. a decimal division by zero or the log of
// a negative big.Float.
type DomainError struct {
	// X is the out-of-domain argument as text.
	X string
	// Func is a name identifying the operation.
	Func string
}

func (err *DomainError) Error() string {
	r := err.X + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	return r
}

// normalizeLiteral drops a trailing decimal point from the mantissa of a
// literal, which an editor produces while a number is being typed: "5." is 5
// and "5.e+3" is 5e+3.
func normalizeLiteral(lit string) string {
	m, exp := lit, ""
	if k := strings.IndexAny(lit, "eE"); k >= 0 {
		m, exp = lit[:k], lit[k:]
	}
	if strings.HasSuffix(m, ".") {
		return m[:len(m)-1] + exp
	}
	return lit
}

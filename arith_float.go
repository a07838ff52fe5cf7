package calc

import (
	"errors"
	"math"
	"strconv"
)

// FloatArith evaluates with native floating point. Every operation follows
// IEEE semantics: division by zero and out-of-domain functions produce
// infinities and NaN rather than errors.
type FloatArith[F float32 | float64] struct{}

func (FloatArith[F]) bits() int {
	var x F
	if _, ok := any(x).(float32); ok {
		return 32
	}
	return 64
}

// Parse parses a literal, rounding it once to the nearest F.
func (a FloatArith[F]) Parse(lit string) (F, error) {
	v, err := strconv.ParseFloat(normalizeLiteral(lit), a.bits())
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	// Out of range literals are infinities.
	return F(v), nil
}

func (FloatArith[F]) Zero() F               { return 0 }
func (FloatArith[F]) Neg(x F) F             { return -x }
func (FloatArith[F]) Abs(x F) F             { return F(math.Abs(float64(x))) }
func (FloatArith[F]) Add(x, y F) F          { return x + y }
func (FloatArith[F]) Sub(x, y F) F          { return x - y }
func (FloatArith[F]) Mul(x, y F) F          { return x * y }
func (FloatArith[F]) Quo(x, y F) (F, error) { return x / y, nil }

func (FloatArith[F]) Pow(x, y F) (F, error) {
	return F(math.Pow(float64(x), float64(y))), nil
}

func (FloatArith[F]) Sin(x F) (F, error)  { return F(math.Sin(float64(x))), nil }
func (FloatArith[F]) Cos(x F) (F, error)  { return F(math.Cos(float64(x))), nil }
func (FloatArith[F]) Tan(x F) (F, error)  { return F(math.Tan(float64(x))), nil }
func (FloatArith[F]) Ln(x F) (F, error)   { return F(math.Log(float64(x))), nil }
func (FloatArith[F]) Sqrt(x F) (F, error) { return F(math.Sqrt(float64(x))), nil }

func (FloatArith[F]) Float64(x F) float64 { return float64(x) }

// Format formats x in the shortest form that reads back as the same value.
// Scientific notation always carries an exponent sign, as the lexer requires.
func (a FloatArith[F]) Format(x F) string {
	return strconv.FormatFloat(float64(x), 'g', -1, a.bits())
}

package calc

import (
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// DecimalArith evaluates with arbitrary-precision decimals. Addition,
// subtraction, multiplication, negation, and absolute value are exact.
// Division is exact when the quotient has a terminating decimal expansion;
// otherwise the quotient is computed in float64, so 1/3 is 0.3333333333333333.
// Powers and the transcendental functions are computed in float64 as well.
//
// Results that float64 gives as infinities or NaN, such as division by zero or
// the log of a negative number, are DomainErrors.
type DecimalArith struct{}

// MaxDecimalExp bounds the decimal exponents of Decimal values. Values of
// magnitude 10^MaxDecimalExp or more, or with digits below 10^-MaxDecimalExp,
// are DomainErrors.
const MaxDecimalExp = 1 << 16

func (DecimalArith) Parse(lit string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(normalizeLiteral(lit))
	if err != nil {
		return d, err
	}
	if d.IsZero() {
		// Drop the exponent of e.g. 0e+99999999, which would otherwise be
		// carried into sums.
		return decimal.Zero, nil
	}
	return d, nil
}

// Check returns a DomainError if x is outside the range of MaxDecimalExp.
func (DecimalArith) Check(x decimal.Decimal) error {
	exp := int64(x.Exponent())
	// The coefficient has about this many digits past its first.
	top := exp + int64(float64(x.Coefficient().BitLen()-1)*math.Log10(2))
	if x.IsZero() {
		top = exp
	}
	switch {
	case top >= MaxDecimalExp:
		return &DomainError{X: "1e+" + strconv.FormatInt(top, 10), Func: "decimal range"}
	case exp <= -MaxDecimalExp:
		return &DomainError{X: "1e" + strconv.FormatInt(exp, 10), Func: "decimal range"}
	}
	return nil
}

func (DecimalArith) Zero() decimal.Decimal                 { return decimal.Zero }
func (DecimalArith) Neg(x decimal.Decimal) decimal.Decimal { return x.Neg() }
func (DecimalArith) Abs(x decimal.Decimal) decimal.Decimal { return x.Abs() }

func (DecimalArith) Add(x, y decimal.Decimal) decimal.Decimal { return x.Add(y) }
func (DecimalArith) Sub(x, y decimal.Decimal) decimal.Decimal { return x.Sub(y) }
func (DecimalArith) Mul(x, y decimal.Decimal) decimal.Decimal { return x.Mul(y) }

func (DecimalArith) Quo(x, y decimal.Decimal) (decimal.Decimal, error) {
	if y.IsZero() {
		return fromFloat(x.InexactFloat64()/y.InexactFloat64(), x, "/")
	}
	q := new(big.Rat).Quo(x.Rat(), y.Rat())
	if places, ok := terminates(q.Denom()); ok {
		return x.DivRound(y, places), nil
	}
	return fromFloat(x.InexactFloat64()/y.InexactFloat64(), x, "/")
}

var big5 = big.NewInt(5)

// terminates returns whether a fraction with the reduced denominator den has a
// terminating decimal expansion, and if so, the number of decimal places it
// needs.
func terminates(den *big.Int) (int32, bool) {
	d := new(big.Int).Set(den)
	var twos, fives int32
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		twos++
	}
	var m big.Int
	for {
		var q big.Int
		q.QuoRem(d, big5, &m)
		if m.Sign() != 0 {
			break
		}
		d.Set(&q)
		fives++
	}
	if d.Cmp(big.NewInt(1)) != 0 {
		return 0, false
	}
	if twos > fives {
		return twos, true
	}
	return fives, true
}

func (DecimalArith) Pow(x, y decimal.Decimal) (decimal.Decimal, error) {
	return fromFloat(math.Pow(x.InexactFloat64(), y.InexactFloat64()), x, "^")
}

func (DecimalArith) Sin(x decimal.Decimal) (decimal.Decimal, error) {
	return fromFloat(math.Sin(x.InexactFloat64()), x, "sin")
}

func (DecimalArith) Cos(x decimal.Decimal) (decimal.Decimal, error) {
	return fromFloat(math.Cos(x.InexactFloat64()), x, "cos")
}

func (DecimalArith) Tan(x decimal.Decimal) (decimal.Decimal, error) {
	return fromFloat(math.Tan(x.InexactFloat64()), x, "tan")
}

func (DecimalArith) Ln(x decimal.Decimal) (decimal.Decimal, error) {
	return fromFloat(math.Log(x.InexactFloat64()), x, "ln")
}

func (DecimalArith) Sqrt(x decimal.Decimal) (decimal.Decimal, error) {
	return fromFloat(math.Sqrt(x.InexactFloat64()), x, "sqrt")
}

func (DecimalArith) Float64(x decimal.Decimal) float64 { return x.InexactFloat64() }

// Format formats x without an exponent.
func (DecimalArith) Format(x decimal.Decimal) string { return x.String() }

// fromFloat converts the float64 result of fn applied to x back to a decimal.
func fromFloat(f float64, x decimal.Decimal, fn string) (decimal.Decimal, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero, &DomainError{X: x.String(), Func: fn}
	}
	return decimal.NewFromFloat(f), nil
}

package calc

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// DefaultBits is the precision of a BigFloatArith with zero Bits.
const DefaultBits = 64

// BigFloatArith evaluates with big.Float at a fixed number of mantissa bits.
// Arithmetic, square roots, powers, and logarithms are computed to that
// precision. Trigonometric functions go through float64.
//
// Operations that big.Float cannot represent, such as 0/0, inf-inf, or the
// square root of a negative number, are DomainErrors. Results may share
// storage with neither operand.
type BigFloatArith struct {
	// Bits is the mantissa precision of results. If zero, DefaultBits is used.
	Bits uint
}

func (a BigFloatArith) prec() uint {
	if a.Bits == 0 {
		return DefaultBits
	}
	return a.Bits
}

func (a BigFloatArith) new() *big.Float {
	return new(big.Float).SetPrec(a.prec())
}

func (a BigFloatArith) Parse(lit string) (*big.Float, error) {
	r, _, err := a.new().Parse(normalizeLiteral(lit), 10)
	switch {
	case err == nil:
		return r, nil
	case err.Error() == "exponent overflow",
		strings.HasSuffix(err.Error(), ": value out of range"):
		// Literals are never negative, so overflow is always +inf.
		return a.new().SetInf(false), nil
	default:
		return nil, err
	}
}

func (a BigFloatArith) Zero() *big.Float            { return a.new() }
func (a BigFloatArith) Neg(x *big.Float) *big.Float { return a.new().Neg(x) }
func (a BigFloatArith) Abs(x *big.Float) *big.Float { return a.new().Abs(x) }

// Add, Sub, and Mul panic with big.ErrNaN when the result is undefined. The
// evaluator reports those panics as DomainErrors.

func (a BigFloatArith) Add(x, y *big.Float) *big.Float { return a.new().Add(x, y) }
func (a BigFloatArith) Sub(x, y *big.Float) *big.Float { return a.new().Sub(x, y) }
func (a BigFloatArith) Mul(x, y *big.Float) *big.Float { return a.new().Mul(x, y) }

func (a BigFloatArith) Quo(x, y *big.Float) (*big.Float, error) {
	// Guard against invalid divisions, 0/0 or inf/inf.
	if x.Sign() == 0 && y.Sign() == 0 || x.IsInf() && y.IsInf() {
		return nil, &DomainError{X: y.Text('g', -1), Func: "/"}
	}
	return a.new().Quo(x, y), nil
}

func (a BigFloatArith) Pow(x, y *big.Float) (r *big.Float, err error) {
	switch {
	case x.Sign() == 0:
		switch y.Sign() {
		case 1:
			return a.new(), nil
		case 0:
			return a.new().SetInt64(1), nil
		default:
			return a.new().SetInf(false), nil
		}
	case x.Signbit(), x.IsInf(), y.IsInf():
		// bigfloat only handles finite positive bases. Negative bases
		// with integer exponents are still real, so use float64 for the
		// cases it doesn't cover.
		xf, _ := x.Float64()
		yf, _ := y.Float64()
		return a.fromFloat(math.Pow(xf, yf), x, "^")
	}
	defer recoverNaN(&err, x, "^")
	return bigfloat.Pow(a.new(), x, y), nil
}

func (a BigFloatArith) Sin(x *big.Float) (*big.Float, error) { return a.float(math.Sin, x, "sin") }
func (a BigFloatArith) Cos(x *big.Float) (*big.Float, error) { return a.float(math.Cos, x, "cos") }
func (a BigFloatArith) Tan(x *big.Float) (*big.Float, error) { return a.float(math.Tan, x, "tan") }

func (a BigFloatArith) Ln(x *big.Float) (r *big.Float, err error) {
	switch {
	case x.Signbit() && x.Sign() != 0:
		return nil, &DomainError{X: x.Text('g', -1), Func: "ln"}
	case x.Sign() == 0:
		return a.new().SetInf(true), nil
	case x.IsInf():
		return a.new().SetInf(false), nil
	}
	defer recoverNaN(&err, x, "ln")
	return bigfloat.Log(a.new(), x), nil
}

func (a BigFloatArith) Sqrt(x *big.Float) (r *big.Float, err error) {
	if x.Sign() < 0 {
		return nil, &DomainError{X: x.Text('g', -1), Func: "sqrt"}
	}
	if x.IsInf() {
		return a.new().SetInf(false), nil
	}
	defer recoverNaN(&err, x, "sqrt")
	return a.new().Sqrt(x), nil
}

func (BigFloatArith) Float64(x *big.Float) float64 {
	f, _ := x.Float64()
	return f
}

// Format formats x in the shortest decimal form that reads back as x at its
// own precision. Values with binary exponents beyond ±shortExp are instead
// formatted in scientific notation with every digit the precision holds, since
// the shortest form needs the exact decimal expansion of the whole value.
func (BigFloatArith) Format(x *big.Float) string {
	if x.IsInf() || x.Sign() == 0 {
		return x.Text('g', -1)
	}
	if e := x.MantExp(nil); e > -shortExp && e < shortExp {
		return x.Text('g', -1)
	}
	return sciText(x)
}

// shortExp bounds the binary exponents that Format expands exactly.
const shortExp = 1 << 12

// sciText formats a finite nonzero x as d.ddde±n by scaling it by a power of
// ten into [1, 10).
func sciText(x *big.Float) string {
	prec := x.Prec() + 64
	m := new(big.Float).SetPrec(prec).Abs(x)
	// x is in [2^(e-1), 2^e), so k is within one of its decimal exponent.
	k := int64(math.Floor(float64(x.MantExp(nil)-1) * math.Log10(2)))
	// Scale in two halves so that no power of ten leaves the exponent range
	// when x is near its limits.
	for _, h := range [2]int64{k / 2, k - k/2} {
		if h >= 0 {
			m.Quo(m, pow10(uint64(h), prec))
		} else {
			m.Mul(m, pow10(uint64(-h), prec))
		}
	}
	digits := max(1, int(float64(x.Prec())*math.Log10(2)))
	t := m.Text('e', digits-1)
	mant, exp, ok := strings.Cut(t, "e")
	n, err := strconv.ParseInt(exp, 10, 64)
	if !ok || err != nil {
		return t
	}
	n += k
	if strings.Contains(mant, ".") {
		mant = strings.TrimRight(strings.TrimRight(mant, "0"), ".")
	}
	sign := ""
	if x.Signbit() {
		sign = "-"
	}
	if n < 0 {
		return sign + mant + "e-" + strconv.FormatInt(-n, 10)
	}
	return sign + mant + "e+" + strconv.FormatInt(n, 10)
}

// pow10 computes 10^n at prec bits by repeated squaring.
func pow10(n uint64, prec uint) *big.Float {
	r := new(big.Float).SetPrec(prec).SetInt64(1)
	b := new(big.Float).SetPrec(prec).SetInt64(10)
	for n > 0 {
		if n&1 != 0 {
			r.Mul(r, b)
		}
		n >>= 1
		if n > 0 {
			b.Mul(b, b)
		}
	}
	return r
}

// float applies a float64 function to x.
func (a BigFloatArith) float(f func(float64) float64, x *big.Float, fn string) (*big.Float, error) {
	xf, _ := x.Float64()
	return a.fromFloat(f(xf), x, fn)
}

// fromFloat converts the float64 result of fn applied to x to a big.Float.
func (a BigFloatArith) fromFloat(f float64, x *big.Float, fn string) (*big.Float, error) {
	switch {
	case math.IsNaN(f):
		return nil, &DomainError{X: x.Text('g', -1), Func: fn}
	case math.IsInf(f, 0):
		return a.new().SetInf(f < 0), nil
	}
	return a.new().SetFloat64(f), nil
}

// recoverNaN converts a big.ErrNaN panic into a DomainError. Other panics
// continue.
func recoverNaN(err *error, x *big.Float, fn string) {
	r := recover()
	if r == nil {
		return
	}
	e, ok := r.(error)
	if !ok || !errors.As(e, &big.ErrNaN{}) {
		panic(r)
	}
	*err = &DomainError{X: x.Text('g', -1), Func: fn}
}

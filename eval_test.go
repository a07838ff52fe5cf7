package calc_test

import (
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zephyrtronium/calc"
)

func TestEval(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    float64
	}{
		{"num", "1", 1},
		{"frac", "0.5", 0.5},
		{"trailing-dot", "5.", 5},
		{"sci", "1.5e+3", 1500},
		{"sci-neg", "2.5e-1", 0.25},
		{"unbound", "x", 0},
		{"add", "4+5+6", 4 + 5 + 6},
		{"sub", "4-5-6", 4 - 5 - 6},
		{"mul", "4*5*6", 4 * 5 * 6},
		{"div", "4/5/6", 4.0 / 5.0 / 6.0},
		{"pow", "4^3^2", 262144},
		{"neg", "-4", -4},
		{"neg-pow", "-3^2", -9},
		{"neg-paren-pow", "(-3)^2", 9},
		{"neg-base-odd", "(-2)^3", -8},
		{"mul-neg", "2*-3", -6},
		{"pow-neg", "2^-1", 0.5},
		{"sub-neg", "1--1", 2},
		{"parens", "(1+2)*3", 9},
		{"prec", "1+2*3", 7},
		{"abs", "abs(-2)", 2},
		{"sqrt", "sqrt(16)", 4},
		{"ln", "ln(1)", 0},
		{"sin", "sin(0)", 0},
		{"cos", "cos(0)", 1},
		{"tan", "tan(0)", 0},
		{"pow-func", "pow(2, 10)", 1024},
		{"nested", "pow(abs(cos(0) + cos(0)), 0.5)", math.Sqrt2},
		{"case", "SQRT(4) + ABS(-1)", 3},
		{"spaces", "  1 +\t2  ", 3},
	}
	for _, prec := range calc.Precisions {
		for _, c := range cases {
			t.Run(prec.String()+"/"+c.name, func(t *testing.T) {
				r, err := calc.Evaluate(c.src, prec)
				if err != nil {
					t.Fatalf("%q failed: %v", c.src, err)
				}
				if r.Precision() != prec {
					t.Errorf("wrong precision: want %v, got %v", prec, r.Precision())
				}
				got := r.Float64()
				if math.Abs(got-c.r) > 1e-6*math.Max(1, math.Abs(c.r)) {
					t.Errorf("%q: want %g, got %g (%s)", c.src, c.r, got, r)
				}
			})
		}
	}
}

func TestEvalGeneric(t *testing.T) {
	f, err := calc.Eval[float64]("x^y^2", calc.FloatArith[float64]{})
	if err != nil {
		t.Fatal(err)
	}
	// x and y are unbound, so 0^0^2 = 0^0 = 1.
	if f != 1 {
		t.Errorf("want 1, got %g", f)
	}
	d, err := calc.Eval[decimal.Decimal]("0.1+0.2", calc.DecimalArith{})
	if err != nil {
		t.Fatal(err)
	}
	if !d.Equal(decimal.RequireFromString("0.3")) {
		t.Errorf("want exactly 0.3, got %v", d)
	}
}

func TestEvalFormat(t *testing.T) {
	cases := []struct {
		name string
		src  string
		prec calc.Precision
		want string
	}{
		{"float32-third", "1/3", calc.Float32, "0.33333334"},
		{"float64-third", "1/3", calc.Float64, "0.3333333333333333"},
		{"float64-inf", "1/0", calc.Float64, "+Inf"},
		{"float64-neg-inf", "-1/0", calc.Float64, "-Inf"},
		{"float64-nan", "0/0", calc.Float64, "NaN"},
		{"float64-sqrt-neg", "sqrt(-1)", calc.Float64, "NaN"},
		{"float64-ln-zero", "ln(0)", calc.Float64, "-Inf"},
		{"float64-overflow", "1e+400", calc.Float64, "+Inf"},
		{"float32-overflow", "1e+40", calc.Float32, "+Inf"},
		{"decimal-quarter", "1/4", calc.Decimal, "0.25"},
		{"decimal-eighth", "1/8", calc.Decimal, "0.125"},
		{"decimal-exact", "10/4", calc.Decimal, "2.5"},
		{"decimal-fifth", "1/5", calc.Decimal, "0.2"},
		{"decimal-third", "1/3", calc.Decimal, "0.3333333333333333"},
		{"decimal-sum", "0.1+0.2", calc.Decimal, "0.3"},
		{"decimal-sci", "1.5e+3", calc.Decimal, "1500"},
		{"decimal-product", "123456789012345678901234567890*10", calc.Decimal, "1234567890123456789012345678900"},
		{"decimal-neg", "-2.50", calc.Decimal, "-2.5"},
		{"bigfloat-half", "1/2", calc.BigFloat, "0.5"},
		{"bigfloat-inf", "1/0", calc.BigFloat, "+Inf"},
		{"bigfloat-ln-zero", "ln(0)", calc.BigFloat, "-Inf"},
		{"bigfloat-zero-pow", "0^-1", calc.BigFloat, "+Inf"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.Evaluate(c.src, c.prec)
			if err != nil {
				t.Fatalf("%q failed: %v", c.src, err)
			}
			if got := r.String(); got != c.want {
				t.Errorf("%q: want %q, got %q", c.src, c.want, got)
			}
		})
	}
}

func TestEvalHugeExponents(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		prec   calc.Precision
		want   string
		domain bool
	}{
		{"float32-big", "1e+99999999", calc.Float32, "+Inf", false},
		{"float32-tiny", "1e-99999999", calc.Float32, "0", false},
		{"float64-big", "1e+99999999", calc.Float64, "+Inf", false},
		{"float64-tiny", "1e-99999999", calc.Float64, "0", false},
		{"float64-neg-big", "-1e+99999999", calc.Float64, "-Inf", false},
		{"bigfloat-big", "1e+99999999", calc.BigFloat, "1e+99999999", false},
		{"bigfloat-tiny", "1e-99999999", calc.BigFloat, "1e-99999999", false},
		{"bigfloat-neg-big", "-2.5e+99999999", calc.BigFloat, "-2.5e+99999999", false},
		{"bigfloat-just-big", "1e+2000", calc.BigFloat, "1e+2000", false},
		{"decimal-big", "1e+99999999", calc.Decimal, "", true},
		{"decimal-tiny", "1e-99999999", calc.Decimal, "", true},
		{"decimal-product", "1e+40000*1e+40000", calc.Decimal, "", true},
		{"decimal-zero", "0e+99999999 + 1", calc.Decimal, "1", false},
		{"decimal-in-range", "1e+40000/1e+40000", calc.Decimal, "1", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			type result struct {
				r   calc.Result
				err error
			}
			done := make(chan result, 1)
			go func() {
				r, err := calc.Evaluate(c.src, c.prec)
				done <- result{r, err}
			}()
			var got result
			select {
			case got = <-done:
			case <-time.After(10 * time.Second):
				t.Fatalf("%q under %v did not finish", c.src, c.prec)
			}
			if c.domain {
				var de *calc.DomainError
				if !errors.As(got.err, &de) {
					t.Errorf("%q: want DomainError, got %v, %v", c.src, got.r, got.err)
				}
				return
			}
			if got.err != nil {
				t.Fatalf("%q failed: %v", c.src, got.err)
			}
			if s := got.r.String(); s != c.want {
				t.Errorf("%q: want %q, got %q", c.src, c.want, s)
			}
		})
	}
}

func TestEvalDomain(t *testing.T) {
	cases := []struct {
		name string
		src  string
		prec calc.Precision
	}{
		{"decimal-div-zero", "1/0", calc.Decimal},
		{"decimal-zero-div-zero", "0/0", calc.Decimal},
		{"decimal-ln-neg", "ln(-1)", calc.Decimal},
		{"decimal-ln-zero", "ln(0)", calc.Decimal},
		{"decimal-sqrt-neg", "sqrt(-4)", calc.Decimal},
		{"decimal-pow-neg", "(-8)^0.5", calc.Decimal},
		{"bigfloat-zero-div-zero", "0/0", calc.BigFloat},
		{"bigfloat-sqrt-neg", "sqrt(-4)", calc.BigFloat},
		{"bigfloat-ln-neg", "ln(-1)", calc.BigFloat},
		{"bigfloat-pow-neg", "(-8)^0.5", calc.BigFloat},
		{"bigfloat-inf-inf", "1/0 - 1/0", calc.BigFloat},
		{"bigfloat-zero-inf", "0 * (1/0)", calc.BigFloat},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.Evaluate(c.src, c.prec)
			var de *calc.DomainError
			if !errors.As(err, &de) {
				t.Fatalf("%q: want DomainError, got %v (%v)", c.src, err, r)
			}
			if calc.IsParseError(err) || calc.IsEvalError(err) {
				t.Errorf("%q: domain error %v is also a parse or eval error", c.src, err)
			}
		})
	}
}

func TestEvalBigFloatBits(t *testing.T) {
	r, err := calc.Evaluate("1/3", calc.BigFloat, calc.Bits(200))
	if err != nil {
		t.Fatal(err)
	}
	v := r.Value.(*big.Float)
	if v.Prec() != 200 {
		t.Errorf("wrong precision: want 200, got %d", v.Prec())
	}
	if s := r.String(); len(s) < 50 || !strings.HasPrefix(s, "0.3333333333") {
		t.Errorf("not enough digits: %s", s)
	}
	r, err = calc.Evaluate("2^0.5", calc.BigFloat, calc.Bits(100))
	if err != nil {
		t.Fatal(err)
	}
	if f := r.Float64(); math.Abs(f-math.Sqrt2) > 1e-15 {
		t.Errorf("wrong result: want %g, got %g", math.Sqrt2, f)
	}
}

func TestEvalVars(t *testing.T) {
	r, err := calc.Evaluate("x*y + z", calc.Decimal, calc.Var("X", "-2"), calc.Vars(map[string]string{"y": "1.5", "w": "9"}))
	if err != nil {
		t.Fatal(err)
	}
	if got := r.String(); got != "-3" {
		t.Errorf("want -3, got %s", got)
	}
	_, err = calc.Evaluate("x", calc.Float64, calc.Var("x", "one"))
	var be *calc.BindError
	if !errors.As(err, &be) {
		t.Fatalf("want BindError, got %v", err)
	}
	if be.Name != "x" {
		t.Errorf("wrong name: %q", be.Name)
	}
}

func TestEvaluatorBind(t *testing.T) {
	p, err := calc.Parse("x^2 + X*y")
	if err != nil {
		t.Fatal(err)
	}
	e, err := calc.Compile[float64](p, calc.FloatArith[float64]{})
	if err != nil {
		t.Fatal(err)
	}
	hx, ok := e.Lookup("x")
	if !ok {
		t.Fatal("no handle for x")
	}
	hy, ok := e.Lookup("Y")
	if !ok {
		t.Fatal("no handle for y")
	}
	if _, ok := e.Lookup("z"); ok {
		t.Error("found handle for unused variable z")
	}
	cases := []struct {
		x, y, r float64
	}{
		{0, 0, 0},
		{1, 0, 1},
		{2, 3, 10},
		{-1, 4, -3},
	}
	for _, c := range cases {
		e.Bind(hx, c.x)
		e.Bind(hy, c.y)
		r, err := e.Eval()
		if err != nil {
			t.Fatalf("x=%g y=%g: %v", c.x, c.y, err)
		}
		if r != c.r {
			t.Errorf("x=%g y=%g: want %g, got %g", c.x, c.y, c.r, r)
		}
		if v := e.Value(hx); v != c.x {
			t.Errorf("x=%g: Value returned %g", c.x, v)
		}
	}
	e.Reset()
	if r, err := e.Eval(); err != nil || r != 0 {
		t.Errorf("after Reset: want 0, got %g, %v", r, err)
	}
}

func TestEvalMalformed(t *testing.T) {
	one, two := calc.NumToken("1"), calc.NumToken("2")
	cases := []struct {
		name    string
		postfix []calc.Token
		index   int
		depth   int
	}{
		{"empty", nil, 0, 0},
		{"two-values", []calc.Token{one, two}, 2, 2},
		{"three-values", []calc.Token{one, two, one, calc.OpToken(calc.Add)}, 4, 2},
		{"add-one", []calc.Token{one, calc.OpToken(calc.Add)}, 1, 0},
		{"add-none", []calc.Token{calc.OpToken(calc.Multiply)}, 0, 0},
		{"neg-none", []calc.Token{calc.OpToken(calc.Negate)}, 0, 0},
		{"func-none", []calc.Token{calc.FuncToken(calc.Sin)}, 0, 0},
		{"pow-one", []calc.Token{one, calc.FuncToken(calc.Pow)}, 1, 0},
		{"paren", []calc.Token{one, calc.OpenToken}, 1, 1},
		{"close", []calc.Token{calc.CloseToken, one}, 0, 0},
	}
	for _, prec := range calc.Precisions {
		for _, c := range cases {
			t.Run(prec.String()+"/"+c.name, func(t *testing.T) {
				p, err := calc.FromPostfix(c.postfix)
				if err != nil {
					t.Fatal(err)
				}
				// Evaluate twice to check that the evaluator recovers.
				for i := 0; i < 2; i++ {
					_, err = calc.EvaluateProgram(p, prec)
					var ee *calc.EvalError
					if !errors.As(err, &ee) {
						t.Fatalf("want EvalError, got %v", err)
					}
					if ee.Index != c.index || ee.Depth != c.depth {
						t.Errorf("wrong error: want index %d depth %d, got %d %d (%v)", c.index, c.depth, ee.Index, ee.Depth, err)
					}
					if calc.IsParseError(err) {
						t.Errorf("eval error %v is a parse error", err)
					}
				}
			})
		}
	}
}

func TestEvalIncomplete(t *testing.T) {
	for _, src := range []string{"", "2+", "()", "sin", "pow(2)", "1 2"} {
		_, err := calc.Evaluate(src, calc.Float64)
		if !calc.IsEvalError(err) {
			t.Errorf("%q: want EvalError, got %v", src, err)
		}
	}
}

func TestEvalParseErrors(t *testing.T) {
	for _, src := range []string{"1.5e10", "1e", "(1", "1)", "1,2", "x$"} {
		for _, prec := range calc.Precisions {
			_, err := calc.Evaluate(src, prec)
			if !calc.IsParseError(err) {
				t.Errorf("%q under %v: want parse error, got %v", src, prec, err)
			}
		}
	}
}

func TestCompileBadLiteral(t *testing.T) {
	p, err := calc.FromPostfix([]calc.Token{calc.NumToken("1.2.3")})
	if err != nil {
		t.Fatal(err)
	}
	_, err = calc.Compile[float64](p, calc.FloatArith[float64]{})
	var le *calc.LexError
	if !errors.As(err, &le) {
		t.Fatalf("want LexError, got %v", err)
	}
	if le.Kind != "number" || le.Text != "1.2.3" {
		t.Errorf("wrong error: %#v", le)
	}
}

func TestEvaluateBadPrecision(t *testing.T) {
	_, err := calc.Evaluate("1", calc.PrecisionNone)
	var pe *calc.PrecisionError
	if !errors.As(err, &pe) {
		t.Errorf("want PrecisionError, got %v", err)
	}
}

func TestParsePrecision(t *testing.T) {
	cases := []struct {
		in   string
		want calc.Precision
	}{
		{"float32", calc.Float32},
		{"Float", calc.Float32},
		{"f64", calc.Float64},
		{"double", calc.Float64},
		{" decimal ", calc.Decimal},
		{"BigDecimal", calc.Decimal},
		{"bigfloat", calc.BigFloat},
		{"big", calc.BigFloat},
	}
	for _, c := range cases {
		got, err := calc.ParsePrecision(c.in)
		if err != nil {
			t.Errorf("%q: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("%q: want %v, got %v", c.in, c.want, got)
		}
	}
	for _, p := range calc.Precisions {
		got, err := calc.ParsePrecision(p.String())
		if err != nil || got != p {
			t.Errorf("%v does not round trip: got %v, %v", p, got, err)
		}
	}
	if _, err := calc.ParsePrecision("quad"); err == nil {
		t.Error("no error for unknown precision")
	}
}

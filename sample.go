package calc

import (
	"errors"
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// Samples is the result of evaluating one program over a grid of variable
// values under every precision.
type Samples struct {
	// Size is the side length of the grid.
	Size int
	// Ref holds the Float64 result at each point, indexed Ref[y][x]. Points
	// where Float64 evaluation failed are NaN.
	Ref [][]float64
	// Diffs compares each other precision to Float64, in the order of
	// Precisions.
	Diffs []Diff
}

// Diff summarizes the disagreement between one precision and Float64.
type Diff struct {
	Precision Precision
	// MaxAbs is the largest absolute difference from the Float64 result.
	MaxAbs float64
	// MaxRel is the largest difference relative to the magnitude of the
	// Float64 result, or to 1 for results smaller than 1.
	MaxRel float64
	// X and Y locate the point where MaxAbs occurs.
	X, Y int
	// Skipped counts points that were not compared because either result was
	// not finite or a precision could not represent it.
	Skipped int
}

// Within returns whether every precision agrees with Float64 to within tol,
// in absolute terms for small results and relative terms for large ones.
func (s *Samples) Within(tol float64) bool {
	for _, d := range s.Diffs {
		if d.MaxRel > tol {
			return false
		}
	}
	return true
}

// Sample evaluates p at every point of an n×n grid, with the variables x and
// y bound to the integers 0 through n-1, under every precision. Programs that
// use neither variable are evaluated at every point regardless. Other
// variables are zero unless set with Var or Vars.
func Sample(p *Program, n int, opts ...EvalOption) (*Samples, error) {
	if n <= 0 {
		return nil, errors.New("calc: sample size must be positive, not " + strconv.Itoa(n))
	}
	ctx := newEvalctx(opts)
	var fns []pointFunc
	for _, prec := range Precisions {
		var f pointFunc
		var err error
		switch prec {
		case Float32:
			f, err = sampler[float32](p, FloatArith[float32]{}, ctx)
		case Float64:
			f, err = sampler[float64](p, FloatArith[float64]{}, ctx)
		case Decimal:
			f, err = sampler[decimal.Decimal](p, DecimalArith{}, ctx)
		case BigFloat:
			f, err = sampler[*big.Float](p, BigFloatArith{Bits: ctx.bits}, ctx)
		}
		if err != nil {
			return nil, err
		}
		fns = append(fns, f)
	}

	s := Samples{Size: n, Ref: make([][]float64, n)}
	ref := -1
	for i, prec := range Precisions {
		if prec == Float64 {
			ref = i
			continue
		}
		s.Diffs = append(s.Diffs, Diff{Precision: prec})
	}
	for y := 0; y < n; y++ {
		s.Ref[y] = make([]float64, n)
		for x := 0; x < n; x++ {
			want, err := fns[ref](x, y)
			if err != nil && !isDomain(err) {
				return nil, err
			}
			if err != nil {
				want = math.NaN()
			}
			s.Ref[y][x] = want
			k := 0
			for i, f := range fns {
				if i == ref {
					continue
				}
				d := &s.Diffs[k]
				k++
				got, err := f(x, y)
				if err != nil && !isDomain(err) {
					return nil, err
				}
				if err != nil || !finite(got) || !finite(want) {
					d.Skipped++
					continue
				}
				abs := math.Abs(got - want)
				if abs > d.MaxAbs {
					d.MaxAbs, d.X, d.Y = abs, x, y
				}
				if rel := abs / math.Max(1, math.Abs(want)); rel > d.MaxRel {
					d.MaxRel = rel
				}
			}
		}
	}
	return &s, nil
}

// pointFunc evaluates a program at one grid point.
type pointFunc func(x, y int) (float64, error)

func sampler[T any](p *Program, a Arith[T], ctx evalctx) (pointFunc, error) {
	e, err := Compile(p, a)
	if err != nil {
		if isDomain(err) {
			// A literal out of the backend's range fails at every point.
			return func(x, y int) (float64, error) { return 0, err }, nil
		}
		return nil, err
	}
	if err := bind(e, a, ctx.vars); err != nil {
		return nil, err
	}
	hx, okx := e.Lookup("x")
	hy, oky := e.Lookup("y")
	f := func(x, y int) (float64, error) {
		if okx {
			e.Bind(hx, integer(a, x))
		}
		if oky {
			e.Bind(hy, integer(a, y))
		}
		v, err := e.Eval()
		if err != nil {
			return 0, err
		}
		return a.Float64(v), nil
	}
	return f, nil
}

// integer converts a non-negative integer to T.
func integer[T any](a Arith[T], n int) T {
	v, err := a.Parse(strconv.Itoa(n))
	if err != nil {
		panic("calc: backend cannot parse integer " + strconv.Itoa(n) + ": " + err.Error())
	}
	return v
}

func isDomain(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

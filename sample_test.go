package calc_test

import (
	"math"
	"testing"

	"github.com/zephyrtronium/calc"
)

// resolution is the grid size for cross-precision checks.
const resolution = 32

func TestSampleAgreement(t *testing.T) {
	cases := []string{
		"x + y",
		"sin(y) + cos(x)",
		"pow(abs(cos(x) + cos(y)), 0.5)",
		"x ^ y",
		"abs(cos(x) + cos(y)) ^ 0.5",
		"x^y^2",
		"x^2 * y^2",
		"-3^2",
		"(x - y) / (x + 1)",
		"sqrt(x) * ln(y + 1) - tan(x / 8)",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			p, err := calc.Parse(src)
			if err != nil {
				t.Fatal(err)
			}
			s, err := calc.Sample(p, resolution)
			if err != nil {
				t.Fatal(err)
			}
			if !s.Within(0.001) {
				for _, d := range s.Diffs {
					t.Errorf("%v disagrees by %g (relative %g) at x=%d y=%d", d.Precision, d.MaxAbs, d.MaxRel, d.X, d.Y)
				}
			}
		})
	}
}

func TestSampleGrid(t *testing.T) {
	p, err := calc.Parse("x*10 + y")
	if err != nil {
		t.Fatal(err)
	}
	s, err := calc.Sample(p, 4)
	if err != nil {
		t.Fatal(err)
	}
	if s.Size != 4 || len(s.Ref) != 4 {
		t.Fatalf("wrong size: %d with %d rows", s.Size, len(s.Ref))
	}
	for y, row := range s.Ref {
		for x, v := range row {
			if want := float64(x*10 + y); v != want {
				t.Errorf("x=%d y=%d: want %g, got %g", x, y, want, v)
			}
		}
	}
	want := []calc.Precision{calc.Float32, calc.Decimal, calc.BigFloat}
	if len(s.Diffs) != len(want) {
		t.Fatalf("wrong number of diffs: %d", len(s.Diffs))
	}
	for i, d := range s.Diffs {
		if d.Precision != want[i] {
			t.Errorf("diff %d: want %v, got %v", i, want[i], d.Precision)
		}
		if d.MaxAbs != 0 || d.Skipped != 0 {
			t.Errorf("%v: integers should agree exactly, got %+v", d.Precision, d)
		}
	}
}

func TestSampleSkips(t *testing.T) {
	p, err := calc.Parse("1/x")
	if err != nil {
		t.Fatal(err)
	}
	s, err := calc.Sample(p, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(s.Ref[0][0], 1) {
		t.Errorf("want +Inf at x=0, got %g", s.Ref[0][0])
	}
	for _, d := range s.Diffs {
		// x=0 in each of the three rows.
		if d.Skipped != 3 {
			t.Errorf("%v: want 3 skipped, got %d", d.Precision, d.Skipped)
		}
	}
	if !s.Within(0.001) {
		t.Errorf("finite points disagree: %+v", s.Diffs)
	}
}

func TestSampleVars(t *testing.T) {
	p, err := calc.Parse("x + k")
	if err != nil {
		t.Fatal(err)
	}
	s, err := calc.Sample(p, 2, calc.Var("k", "0.5"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Ref[1][1] != 1.5 {
		t.Errorf("want 1.5, got %g", s.Ref[1][1])
	}
}

func TestSampleErrors(t *testing.T) {
	p, err := calc.Parse("x")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := calc.Sample(p, 0); err == nil {
		t.Error("no error for empty grid")
	}
	p, err = calc.Parse("x y")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := calc.Sample(p, 2); !calc.IsEvalError(err) {
		t.Errorf("want EvalError, got %v", err)
	}
}

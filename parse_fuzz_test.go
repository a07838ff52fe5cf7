package calc_test

import (
	"testing"

	"github.com/zephyrtronium/calc"
)

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1*2")
	f.Add("(a+b)*(5-x)/(-y-2)")
	f.Add("1.5e+10")
	f.Fuzz(func(t *testing.T, s string) {
		p, err := calc.Parse(s)
		if err != nil {
			if !calc.IsParseError(err) {
				t.Errorf("%q: error %v is not a parse error", s, err)
			}
			return
		}
		if p.Depth() > calc.StackSize {
			t.Errorf("%q: depth %d exceeds stack", s, p.Depth())
		}
	})
}

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc"
)

func newSampleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample <expr>",
		Short: "Compare every precision over a grid of x and y",
		Long: `Evaluate an expression with x and y bound to each integer point of a
size×size grid under every precision, and report how far each precision
strays from float64.

The tolerance applies to the difference divided by the larger of 1 and the
magnitude of the float64 result: it is absolute for results within [-1, 1]
and relative beyond.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runSample,
	}
	cmd.Flags().IntP("size", "n", 0, "grid side length (default from config)")
	cmd.Flags().Float64P("tolerance", "t", 0, "largest allowed difference, relative to max(1, |float64 result|) (default from config)")
	cmd.Flags().Uint("bits", 0, "mantissa bits for bigfloat (default from config)")
	cmd.Flags().StringArray("given", nil, "name=value definition for variables other than x and y (repeatable)")
	return cmd
}

func (a *app) runSample(cmd *cobra.Command, args []string) error {
	text := args[0]
	size := a.cfg.Sample.Size
	if cmd.Flags().Changed("size") {
		size, _ = cmd.Flags().GetInt("size")
	}
	tol := a.cfg.Sample.Tolerance
	if cmd.Flags().Changed("tolerance") {
		tol, _ = cmd.Flags().GetFloat64("tolerance")
	}
	bits := a.cfg.BigFloatBits
	if cmd.Flags().Changed("bits") {
		bits, _ = cmd.Flags().GetUint("bits")
	}
	defs, _ := cmd.Flags().GetStringArray("given")
	vars, err := givens(defs)
	if err != nil {
		return err
	}

	p, err := calc.Parse(text)
	if err != nil {
		describe(cmd.ErrOrStderr(), text, err)
		return exitError(exitInput, "invalid expression")
	}
	s, err := calc.Sample(p, size, calc.Bits(bits), calc.Vars(vars))
	if err != nil {
		return exitError(exitFailure, "sampling %s: %v", text, err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "PRECISION\tMAX ABS\tMAX REL\tAT\tSKIPPED")
	for _, d := range s.Diffs {
		fmt.Fprintf(w, "%v\t%.3g\t%.3g\t(%d,%d)\t%d\n", d.Precision, d.MaxAbs, d.MaxRel, d.X, d.Y, d.Skipped)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	a.log.WithField("expr", text).WithField("size", size).Debug("sampled")
	if !s.Within(tol) {
		return exitError(exitMismatch, "precisions disagree by more than %g", tol)
	}
	return nil
}

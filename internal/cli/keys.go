package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/keypad"
)

func newKeysCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys <key>...",
		Short: "Press calculator keys and print the display",
		Long: `Press each key in order on a fresh calculator and print the display.
Keys are 0-9 . + - * / ^ ( ) x2 sqrt ln sin cos tan abs +/- del ce ac =.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runKeys,
	}
	addPrecisionFlags(cmd)
	cmd.Flags().Bool("trace", false, "print the display after every key")
	return cmd
}

func (a *app) runKeys(cmd *cobra.Command, args []string) error {
	prec, bits, err := a.precision(cmd)
	if err != nil {
		return err
	}
	s := keypad.New(prec, a.log, calc.Bits(bits))
	out := cmd.OutOrStdout()
	if trace, _ := cmd.Flags().GetBool("trace"); trace {
		for _, k := range args {
			if err := s.Press(k); err != nil {
				return exitError(exitInput, "%v", err)
			}
			fmt.Fprintf(out, "%-4s %s\n", k, s.Text())
		}
		return nil
	}
	text, err := s.Run(args)
	if err != nil {
		return exitError(exitInput, "%v", err)
	}
	fmt.Fprintln(out, text)
	return nil
}

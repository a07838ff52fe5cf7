package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc"
)

func newPostfixCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "postfix <expr>",
		Short: "Print the postfix form of an expression",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runPostfix,
	}
	cmd.Flags().BoolP("verbose", "v", false, "also print variables and stack depth")
	return cmd
}

func (a *app) runPostfix(cmd *cobra.Command, args []string) error {
	text := args[0]
	p, err := calc.Parse(text)
	if err != nil {
		describe(cmd.ErrOrStderr(), text, err)
		return exitError(exitInput, "invalid expression")
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, p)
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		fmt.Fprintf(out, "vars: %s\n", strings.Join(p.Vars(), " "))
		fmt.Fprintf(out, "depth: %d\n", p.Depth())
	}
	return nil
}

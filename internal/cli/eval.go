package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc"
)

func newEvalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [expr...]",
		Short: "Evaluate expressions",
		Long: `Evaluate each argument as an expression and print its result.
With no arguments, evaluate each non-blank line of the input file or stdin.`,
		RunE: a.runEval,
	}
	addPrecisionFlags(cmd)
	cmd.Flags().StringP("in", "i", "", "input file (default stdin if no args given)")
	cmd.Flags().StringArray("given", nil, "name=value variable definition (repeatable)")
	cmd.Flags().Bool("echo", false, "print the postfix form before each result")
	return cmd
}

func (a *app) runEval(cmd *cobra.Command, args []string) error {
	prec, bits, err := a.precision(cmd)
	if err != nil {
		return err
	}
	defs, _ := cmd.Flags().GetStringArray("given")
	vars, err := givens(defs)
	if err != nil {
		return err
	}
	echo, _ := cmd.Flags().GetBool("echo")
	inname, _ := cmd.Flags().GetString("in")

	exprs := args
	if len(args) == 0 || inname != "" {
		lines, err := readLines(cmd, inname)
		if err != nil {
			return err
		}
		exprs = append(lines, args...)
	}

	out, errw := cmd.OutOrStdout(), cmd.ErrOrStderr()
	failed, invalid := 0, 0
	for _, text := range exprs {
		log := a.log.WithFields(logrus.Fields{"expr": text, "precision": prec.String()})
		p, err := calc.Parse(text)
		if err != nil {
			log.WithError(err).Debug("parse failed")
			describe(errw, text, err)
			failed++
			invalid++
			continue
		}
		r, err := calc.EvaluateProgram(p, prec, calc.Bits(bits), calc.Vars(vars))
		if err != nil {
			log.WithError(err).Debug("evaluation failed")
			fmt.Fprintf(errw, "%s: %v\n", text, err)
			failed++
			continue
		}
		if echo {
			fmt.Fprintf(out, "%v : ", p)
		}
		fmt.Fprintln(out, r)
	}
	switch {
	case failed == 0:
		return nil
	case invalid == failed:
		return exitError(exitInput, "%d of %d expressions are invalid", failed, len(exprs))
	default:
		return exitError(exitFailure, "%d of %d expressions failed", failed, len(exprs))
	}
}

// readLines reads the non-blank lines of the named file, or the command's
// input if name is empty or -.
func readLines(cmd *cobra.Command, name string) ([]string, error) {
	var r io.Reader = cmd.InOrStdin()
	if name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, exitError(exitFileNotFound, "file not found: %s", name)
			}
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
	}
	var lines []string
	sc := bufio.NewScanner(r)
	// Allow lines past the input limit so Parse reports them.
	sc.Buffer(nil, 2*calc.MaxInput)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return lines, nil
}

// Package cli implements the calc command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/config"
	"github.com/zephyrtronium/calc/internal/logging"
)

// app is the state shared by the commands of one command tree.
type app struct {
	configPath string
	cfg        *config.Config
	log        *logrus.Logger
	done       func()
}

// NewRootCmd creates the calc command with all subcommands.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "calc",
		Short:        "Evaluate arithmetic expressions",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default calc.yaml in . or $HOME/.config/calc)")

	root.AddCommand(newEvalCmd(a))
	root.AddCommand(newPostfixCmd(a))
	root.AddCommand(newSampleCmd(a))
	root.AddCommand(newKeysCmd(a))
	root.AddCommand(newScriptCmd(a))
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return exitError(exitFailure, "%v", err)
	}
	log, done, err := logging.New(cfg.Logger)
	if err != nil {
		return exitError(exitFailure, "%v", err)
	}
	a.cfg, a.log, a.done = cfg, log, done
	log.WithField("config", cfg.Viper.ConfigFileUsed()).Debug("loaded config")
	return nil
}

func (a *app) close() {
	if a.done != nil {
		a.done()
		a.done = nil
	}
}

// addPrecisionFlags adds the flags that choose how to evaluate.
func addPrecisionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("precision", "p", "", "precision: float32 | float64 | decimal | bigfloat (default from config)")
	cmd.Flags().Uint("bits", 0, "mantissa bits for bigfloat (default from config)")
}

// precision resolves the precision flags against the config.
func (a *app) precision(cmd *cobra.Command) (calc.Precision, uint, error) {
	prec := a.cfg.Precision
	if cmd.Flags().Changed("precision") {
		s, _ := cmd.Flags().GetString("precision")
		p, err := calc.ParsePrecision(s)
		if err != nil {
			return calc.PrecisionNone, 0, exitError(exitFailure, "%v", err)
		}
		prec = p
	}
	bits := a.cfg.BigFloatBits
	if cmd.Flags().Changed("bits") {
		bits, _ = cmd.Flags().GetUint("bits")
		if bits == 0 {
			return calc.PrecisionNone, 0, exitError(exitFailure, "--bits must be positive")
		}
	}
	return prec, bits, nil
}

// givens parses name=value variable definitions.
func givens(defs []string) (map[string]string, error) {
	vars := make(map[string]string, len(defs))
	for _, d := range defs {
		name, value, ok := strings.Cut(d, "=")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if !ok || name == "" {
			return nil, exitError(exitFailure, `variable definitions must be "name=value", not %q`, d)
		}
		vars[name] = value
	}
	return vars, nil
}

// describe writes err with a marker under the column of text it refers to.
// Error columns count from the first non-space character.
func describe(w io.Writer, text string, err error) {
	var ie calc.InputError
	body := strings.TrimLeftFunc(text, unicode.IsSpace)
	lead := strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}
		return ' '
	}, text[:len(text)-len(body)])
	if errors.As(err, &ie) && ie.Pos() >= 1 && ie.Pos() <= utf8.RuneCountInString(body)+1 {
		fmt.Fprintf(w, "%s\n%s%s^ %v\n", text, lead, strings.Repeat(" ", ie.Pos()-1), err)
		return
	}
	fmt.Fprintf(w, "%s: %v\n", text, err)
}

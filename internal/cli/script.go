package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/keypad"
)

// Script is a file of key sequences and the displays they should produce.
type Script struct {
	// Precision is the default precision for cases. If empty, the configured
	// precision is used.
	Precision string       `yaml:"precision"`
	Cases     []ScriptCase `yaml:"cases"`
}

// ScriptCase is one key sequence run on a fresh calculator.
type ScriptCase struct {
	Name string `yaml:"name"`
	// Keys is a space-separated list of key names.
	Keys      string `yaml:"keys"`
	Display   string `yaml:"display"`
	Precision string `yaml:"precision"`
}

func newScriptCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script <file>",
		Short: "Check key sequences from a YAML script",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runScript,
	}
	cmd.Flags().Uint("bits", 0, "mantissa bits for bigfloat (default from config)")
	return cmd
}

func loadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, exitError(exitFileNotFound, "file not found: %s", path)
		}
		return nil, fmt.Errorf("reading script %q: %w", path, err)
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, exitError(exitInput, "parsing script %q: %v", path, err)
	}
	return &s, nil
}

func (a *app) runScript(cmd *cobra.Command, args []string) error {
	s, err := loadScript(args[0])
	if err != nil {
		return err
	}
	bits := a.cfg.BigFloatBits
	if cmd.Flags().Changed("bits") {
		bits, _ = cmd.Flags().GetUint("bits")
	}
	def := a.cfg.Precision
	if s.Precision != "" {
		if def, err = calc.ParsePrecision(s.Precision); err != nil {
			return exitError(exitInput, "script precision: %v", err)
		}
	}

	out := cmd.OutOrStdout()
	failed := 0
	for i, c := range s.Cases {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("case %d", i+1)
		}
		prec := def
		if c.Precision != "" {
			if prec, err = calc.ParsePrecision(c.Precision); err != nil {
				return exitError(exitInput, "%s: %v", name, err)
			}
		}
		k := keypad.New(prec, a.log, calc.Bits(bits))
		got, err := k.Run(strings.Fields(c.Keys))
		if err != nil {
			return exitError(exitInput, "%s: %v", name, err)
		}
		if got != c.Display {
			fmt.Fprintf(out, "FAIL %s: want %q, got %q\n", name, c.Display, got)
			failed++
			continue
		}
		fmt.Fprintf(out, "ok   %s\n", name)
	}
	if failed > 0 {
		return exitError(exitMismatch, "%d of %d cases failed", failed, len(s.Cases))
	}
	return nil
}

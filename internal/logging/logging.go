// Package logging builds the calculator's logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/zephyrtronium/calc/internal/config"
)

// New creates a logger from c. The returned function closes any log file and
// must be called when the logger is no longer needed.
func New(c *config.Logger) (*logrus.Logger, func(), error) {
	l := logrus.New()
	lvl := c.Level
	if lvl == "" {
		lvl = "info"
	}
	level, err := logrus.ParseLevel(lvl)
	if err != nil {
		return nil, nil, fmt.Errorf("logger level: %w", err)
	}
	l.SetLevel(level)

	switch c.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{})
	default:
		return nil, nil, fmt.Errorf("unknown logger format %q (want text or json)", c.Format)
	}

	var f *os.File
	switch c.Output {
	case "stdout":
		l.SetOutput(os.Stdout)
	case "", "stderr":
		l.SetOutput(os.Stderr)
	case "file":
		if c.OutputFile == "" {
			return nil, nil, fmt.Errorf("logger output is file but output_file is empty")
		}
		f, err = openLog(c.OutputFile)
		if err != nil {
			return nil, nil, err
		}
		l.SetOutput(f)
	case "discard":
		l.SetOutput(io.Discard)
	default:
		return nil, nil, fmt.Errorf("unknown logger output %q (want stdout, stderr, file, or discard)", c.Output)
	}

	return l, func() {
		if f != nil {
			_ = f.Close()
		}
	}, nil
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0666)
}

// Discard returns a logger that writes nothing.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

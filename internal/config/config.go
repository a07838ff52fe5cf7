// Package config loads calculator settings from a file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zephyrtronium/calc"
)

// Config holds the calculator's settings.
type Config struct {
	// Precision is the default precision for evaluation.
	Precision calc.Precision
	// BigFloatBits is the mantissa precision for BigFloat evaluation.
	BigFloatBits uint
	Logger       *Logger
	Sample       *Sample
	Viper        *viper.Viper
}

// Logger configures logging.
type Logger struct {
	Level      string
	Format     string
	Output     string
	OutputFile string
}

// Sample configures cross-precision sampling.
type Sample struct {
	Size      int
	Tolerance float64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("precision", "decimal")
	v.SetDefault("bigfloat_bits", calc.DefaultBits)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.output_file", "")
	v.SetDefault("sample.size", 16)
	v.SetDefault("sample.tolerance", 0.001)
}

// Load reads the configuration. If path is empty, Load searches for calc.yaml
// (or another format viper knows) in the working directory and
// $HOME/.config/calc, and a missing file leaves the defaults. An explicit path
// must exist. Environment variables prefixed with CALC_ override both, with
// nested keys joined by _, e.g. CALC_LOGGER_LEVEL.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("calc")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("calc")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/calc")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &nf) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	prec, err := calc.ParsePrecision(v.GetString("precision"))
	if err != nil {
		return nil, fmt.Errorf("config precision: %w", err)
	}
	bits := v.GetUint("bigfloat_bits")
	if bits == 0 {
		return nil, fmt.Errorf("config bigfloat_bits must be positive")
	}
	cfg := &Config{
		Precision:    prec,
		BigFloatBits: bits,
		Logger:       getLoggerConfig(v),
		Sample:       getSampleConfig(v),
		Viper:        v,
	}
	if cfg.Sample.Size <= 0 {
		return nil, fmt.Errorf("config sample.size must be positive, not %d", cfg.Sample.Size)
	}
	return cfg, nil
}

func getLoggerConfig(v *viper.Viper) *Logger {
	return &Logger{
		Level:      v.GetString("logger.level"),
		Format:     v.GetString("logger.format"),
		Output:     v.GetString("logger.output"),
		OutputFile: v.GetString("logger.output_file"),
	}
}

func getSampleConfig(v *viper.Viper) *Sample {
	return &Sample{
		Size:      v.GetInt("sample.size"),
		Tolerance: v.GetFloat64("sample.tolerance"),
	}
}

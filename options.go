package calc

import "strings"

// EvalOption is an option for Evaluate and Sample.
type EvalOption interface {
	evalOption(evalctx) evalctx
}

type (
	bitsopt uint
	varopt  struct {
		name string
		lit  string
	}
	varsopt map[string]string
)

// evalctx holds the settings for one evaluation.
type evalctx struct {
	// bits is the mantissa precision of BigFloat evaluation.
	bits uint
	// vars maps variable names to value literals.
	vars map[string]string
}

func newEvalctx(opts []EvalOption) evalctx {
	ctx := evalctx{bits: DefaultBits}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		ctx = opt.evalOption(ctx)
	}
	return ctx
}

// Bits sets the number of mantissa bits used for BigFloat evaluation. It has
// no effect on other precisions. Zero means DefaultBits.
func Bits(n uint) EvalOption {
	return bitsopt(n)
}

func (o bitsopt) evalOption(ctx evalctx) evalctx {
	ctx.bits = uint(o)
	if ctx.bits == 0 {
		ctx.bits = DefaultBits
	}
	return ctx
}

// Var sets a variable to the value of a number literal, which may begin with
// a -. The literal is converted by the chosen precision.
func Var(name, lit string) EvalOption {
	return varopt{name, lit}
}

func (o varopt) evalOption(ctx evalctx) evalctx {
	ctx.vars = ctx.copyVars(1)
	ctx.vars[strings.ToLower(o.name)] = o.lit
	return ctx
}

// Vars sets any number of variables to the values of number literals.
func Vars(vars map[string]string) EvalOption {
	return varsopt(vars)
}

func (o varsopt) evalOption(ctx evalctx) evalctx {
	ctx.vars = ctx.copyVars(len(o))
	for k, v := range o {
		ctx.vars[strings.ToLower(k)] = v
	}
	return ctx
}

// copyVars copies the variable map so that options never modify each other's
// maps.
func (ctx evalctx) copyVars(extra int) map[string]string {
	m := make(map[string]string, len(ctx.vars)+extra)
	for k, v := range ctx.vars {
		m[k] = v
	}
	return m
}

// bind sets the variables in ctx on e. Variables that p does not use are
// ignored.
func bind[T any](e *Evaluator[T], a Arith[T], vars map[string]string) error {
	for name, lit := range vars {
		h, ok := e.Lookup(name)
		if !ok {
			continue
		}
		neg := strings.HasPrefix(lit, "-")
		v, err := a.Parse(strings.TrimPrefix(lit, "-"))
		if err != nil {
			return &BindError{Name: name, Lit: lit, Err: err}
		}
		if err := e.checked(v); err != nil {
			return &BindError{Name: name, Lit: lit, Err: err}
		}
		if neg {
			v = a.Neg(v)
		}
		e.Bind(h, v)
	}
	return nil
}

// BindError is an error indicating a variable value that is not a number.
type BindError struct {
	Name string
	Lit  string
	Err  error
}

func (err *BindError) Error() string {
	return "bad value for " + err.Name + ": " + err.Lit + ": " + err.Err.Error()
}

func (err *BindError) Unwrap() error {
	return err.Err
}

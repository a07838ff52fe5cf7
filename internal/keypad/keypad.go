// Package keypad runs a calculator session driven by key presses.
package keypad

import (
	"errors"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/builder"
)

// State is the state of a session's display.
type State int8

const (
	// Display shows a result or recalled expression. Starting a new number
	// replaces it; operators continue from it.
	Display State = iota
	// Edit shows an expression being typed.
	Edit
	// Error shows an evaluation failure until ce or ac.
	Error
)

func (s State) String() string {
	switch s {
	case Display:
		return "display"
	case Edit:
		return "edit"
	case Error:
		return "error"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// ErrorText is the display text in the Error state.
const ErrorText = "Error"

// Session is one calculator: an expression being edited, the results of
// previous evaluations, and the precision to evaluate with.
type Session struct {
	b       *builder.Builder
	state   State
	prec    calc.Precision
	opts    []calc.EvalOption
	log     *logrus.Logger
	answers []calc.Result
}

// New creates a session that evaluates under prec with opts. If log is nil,
// the session logs to the logrus standard logger.
func New(prec calc.Precision, log *logrus.Logger, opts ...calc.EvalOption) *Session {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{b: builder.New(), prec: prec, opts: opts, log: log}
}

// command is the action for one key.
type command struct {
	run func(s *Session)
	// inError allows the command to run in the Error state.
	inError bool
}

var commands = map[string]command{
	".":    {run: func(s *Session) { s.fresh(); s.b.AppendDecimal() }},
	"+":    {run: op(calc.Add)},
	"-":    {run: op(calc.Subtract)},
	"*":    {run: op(calc.Multiply)},
	"/":    {run: op(calc.Divide)},
	"^":    {run: op(calc.Power)},
	"(":    {run: func(s *Session) { s.fresh(); s.b.AppendOpen() }},
	")":    {run: func(s *Session) { s.fresh(); s.b.AppendClose() }},
	"x2":   {run: func(s *Session) { s.edit(); s.b.AppendSquare() }},
	"+/-":  {run: func(s *Session) { s.edit(); s.b.ToggleSign() }},
	"del":  {run: func(s *Session) { s.fresh(); s.b.Delete() }},
	"sqrt": {run: function(calc.Sqrt)},
	"ln":   {run: function(calc.Ln)},
	"sin":  {run: function(calc.Sin)},
	"cos":  {run: function(calc.Cos)},
	"tan":  {run: function(calc.Tan)},
	"abs":  {run: function(calc.Abs)},
	"=":    {run: (*Session).equals},
	"ce":   {run: (*Session).clear, inError: true},
	"ac":   {run: (*Session).allClear, inError: true},
}

func init() {
	for d := 0; d <= 9; d++ {
		commands[strconv.Itoa(d)] = command{run: func(s *Session) { s.fresh(); s.b.AppendDigit(d) }}
	}
}

func op(o calc.Op) func(*Session) {
	return func(s *Session) {
		s.edit()
		s.b.AppendOperator(o)
	}
}

func function(f calc.Func) func(*Session) {
	return func(s *Session) {
		if s.state == Display && !s.b.IsEmpty() {
			s.state = Edit
			s.b.SetExpression(f.String() + "(" + s.b.String() + ")")
			return
		}
		s.edit()
		s.b.AppendFunction(f)
	}
}

// IsKey returns whether key names a key.
func IsKey(key string) bool {
	_, ok := commands[key]
	return ok
}

// KeyError is an error indicating an unknown key name.
type KeyError struct {
	Key string
}

func (err *KeyError) Error() string {
	return "unknown key " + strconv.Quote(err.Key)
}

// Press applies one key. Keys other than ce and ac are ignored in the Error
// state.
func (s *Session) Press(key string) error {
	c, ok := commands[key]
	if !ok {
		return &KeyError{Key: key}
	}
	if s.state == Error && !c.inError {
		return nil
	}
	c.run(s)
	return nil
}

// Run applies a sequence of keys and returns the resulting display text. If
// any key is unknown, Run applies none of them.
func (s *Session) Run(keys []string) (string, error) {
	for _, k := range keys {
		if !IsKey(k) {
			return s.Text(), &KeyError{Key: k}
		}
	}
	for _, k := range keys {
		s.Press(k)
	}
	return s.Text(), nil
}

// Text returns the display text.
func (s *Session) Text() string {
	if s.state == Error {
		return ErrorText
	}
	return s.b.String()
}

// State returns the display state.
func (s *Session) State() State {
	return s.state
}

// Precision returns the precision the session evaluates with.
func (s *Session) Precision() calc.Precision {
	return s.prec
}

// Answers returns the results of successful evaluations since the last ac,
// oldest first.
func (s *Session) Answers() []calc.Result {
	return append([]calc.Result(nil), s.answers...)
}

// edit enters the Edit state, keeping the displayed expression.
func (s *Session) edit() {
	s.state = Edit
}

// fresh enters the Edit state, discarding a displayed expression.
func (s *Session) fresh() {
	if s.state == Display {
		s.b.Clear()
	}
	s.state = Edit
}

func (s *Session) clear() {
	s.b.Clear()
	s.state = Display
}

func (s *Session) allClear() {
	s.clear()
	s.answers = nil
}

// equals finishes the expression. If finishing changed it, e.g. by closing
// parentheses, the finished text is displayed for review. Otherwise it is
// evaluated and replaced by the result.
func (s *Session) equals() {
	text := s.b.String()
	if text == "" {
		return
	}
	s.state = Display
	if s.b.Build() != text {
		return
	}
	log := s.log.WithFields(logrus.Fields{"expr": text, "precision": s.prec.String()})
	r, err := calc.Evaluate(text, s.prec, s.opts...)
	if err != nil {
		s.state = Error
		var ee *calc.EvalError
		var de *calc.DomainError
		switch {
		case calc.IsParseError(err):
			log.WithError(err).Debug("expression does not parse")
		case errors.As(err, &ee):
			log.WithError(err).Warn("malformed expression")
		case errors.As(err, &de):
			log.WithError(err).Info("result out of domain")
		default:
			log.WithError(err).Warn("evaluation failed")
		}
		return
	}
	log.WithField("result", r.String()).Debug("evaluated")
	s.answers = append(s.answers, r)
	s.b.SetExpression(r.String())
}

package cli

import "fmt"

// Exit codes.
const (
	exitFailure      = 1
	exitMismatch     = 2
	exitFileNotFound = 3
	exitInput        = 4
)

// ExitError is an error that carries a specific process exit code.
// Commands return it to tell main how to exit.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func exitError(code int, format string, args ...any) *ExitError {
	return &ExitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

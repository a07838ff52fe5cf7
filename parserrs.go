package calc

import (
	"errors"
	"strconv"
)

// BracketError is an error indicating mismatched parentheses in the input.
// It implements InputError.
type BracketError struct {
	// Col is the position of the unmatched parenthesis.
	Col int
	// Left is "(" for an open parenthesis with no close.
	Left string
	// Right is ")" for a close parenthesis with no open.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "mismatched parenthesis: close "+err.Right+" with no open")
	}
	return errpos(err.Col, "mismatched parenthesis: open "+err.Left+" with no close")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// SeparatorError is an error indicating a comma outside of a function's
// argument list. It implements InputError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "misplaced comma or mismatched parenthesis")
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

// DepthError is an error indicating an expression that would need more than
// StackSize values on the evaluation stack at once. It implements InputError.
type DepthError struct {
	// Col is the position of the end of the input.
	Col int
	// Depth is the stack depth the expression needs.
	Depth int
}

func (err *DepthError) Error() string {
	return errpos(err.Col, "expression too deep: needs "+strconv.Itoa(err.Depth)+" stack slots, limit "+strconv.Itoa(StackSize))
}

func (err *DepthError) Pos() int {
	return err.Col
}

// LengthError is an error indicating an input longer than MaxInput runes.
// It implements InputError.
type LengthError struct {
	// Len is the length of the input in runes.
	Len int
}

func (err *LengthError) Error() string {
	return errpos(MaxInput+1, "input too long: "+strconv.Itoa(err.Len)+" runes, limit "+strconv.Itoa(MaxInput))
}

func (err *LengthError) Pos() int {
	return MaxInput + 1
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// text that is not a valid expression implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

// IsParseError returns whether err is or wraps an InputError, meaning the
// text was not a valid expression. Errors from evaluation are not parse
// errors.
func IsParseError(err error) bool {
	var ie InputError
	return errors.As(err, &ie)
}

var (
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*DepthError)(nil)
	_ InputError = (*LengthError)(nil)
	_ InputError = (*LexError)(nil)
)

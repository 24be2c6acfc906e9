package shell

import (
	"errors"
	"fmt"
)

// Exit codes reported through $? and to the calling process.
const (
	ExitSuccess     = 0
	ExitFailure     = 1
	ExitSyntaxError = 2
	ExitNotFound    = 127
)

// ParseError reports malformed control-flow syntax. Execution never proceeds
// on a partial parse; callers surface the message to the user.
type ParseError struct {
	Message string
	// Line is the 1-based line number within the parsed block, or 0 when
	// unknown.
	Line int
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("syntax error: %s (line %d)", e.Message, e.Line)
	}
	return "syntax error: " + e.Message
}

// ArithmeticError reports a malformed $((...)) expression or division by
// zero.
type ArithmeticError struct {
	Expr    string
	Message string
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("arithmetic error: %s: %q", e.Message, e.Expr)
}

// UndefinedVariableError is returned by the expander in strict mode when a
// referenced variable is not set. In the default mode undefined variables
// expand to the empty string.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return e.Name + ": unbound variable"
}

// ExitCode maps an error to the shell exit code convention.
func ExitCode(err error) int {
	var parseErr *ParseError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &parseErr):
		return ExitSyntaxError
	default:
		return ExitFailure
	}
}

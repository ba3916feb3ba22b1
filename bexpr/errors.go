package bexpr

import (
	"errors"
	"fmt"
	"strconv"
)

// Reason classifies a GrammarError.
type Reason int

const (
	ReasonEmpty           Reason = iota + 1 // nothing to parse
	ReasonUnknownToken                      // character outside the vocabulary
	ReasonUnbalancedParen                   // ( without ) or ) without (
	ReasonMissingOperand                    // operator or paren with nothing to apply to
	ReasonUnexpectedToken                   // token in a place the grammar does not allow
	ReasonBadAssignment                     // misplaced or malformed "name ="
)

func (r Reason) String() string {
	switch r {
	case ReasonEmpty:
		return "empty expression"
	case ReasonUnknownToken:
		return "unknown token"
	case ReasonUnbalancedParen:
		return "unbalanced parentheses"
	case ReasonMissingOperand:
		return "missing operand"
	case ReasonUnexpectedToken:
		return "unexpected token"
	case ReasonBadAssignment:
		return "bad assignment"
	default:
		return "grammar error"
	}
}

// InputError is an error with position information. Every grammar failure
// implements InputError.
type InputError interface {
	error
	// Pos returns the 0-based rune offset of the offending token.
	Pos() int
}

// GrammarError reports a malformed equation. It carries the data needed to
// render a caret diagnostic but does no rendering itself.
type GrammarError struct {
	Reason Reason
	// Msg is the human readable description.
	Msg string
	// Expr is the equation text that failed to parse.
	Expr string
	// Offset is the 0-based rune offset of the offending token.
	Offset int
}

func newGrammarError(reason Reason, expr string, pos int, format string, args ...any) *GrammarError {
	return &GrammarError{
		Reason: reason,
		Msg:    fmt.Sprintf(format, args...),
		Expr:   expr,
		Offset: pos,
	}
}

func (err *GrammarError) Error() string {
	return strconv.Itoa(err.Offset) + ": " + err.Msg
}

func (err *GrammarError) Pos() int {
	return err.Offset
}

// TooManySymbolsError reports an equation whose truth table would be too
// large to enumerate.
type TooManySymbolsError struct {
	Count int
	Max   int
}

func (err *TooManySymbolsError) Error() string {
	return fmt.Sprintf("too many symbols: %d exceeds the limit of %d", err.Count, err.Max)
}

// InvalidArgumentTypeError reports a value that is neither an *Expression nor
// an equation string.
type InvalidArgumentTypeError struct {
	// Got is the Go type of the rejected value.
	Got string
}

func (err *InvalidArgumentTypeError) Error() string {
	return "expected an equation string or *bexpr.Expression, got " + err.Got
}

// InvalidArgumentError reports an argument of the right type with an unusable
// value, e.g. an incomplete assignment or an unknown pass name.
type InvalidArgumentError struct {
	Arg string
	Msg string
}

func (err *InvalidArgumentError) Error() string {
	return "invalid " + err.Arg + ": " + err.Msg
}

// InternalError wraps a failure that valid input can never cause. Seeing one
// means a bug in this package, not bad input.
type InternalError struct {
	Op    string
	Cause error
}

func (err *InternalError) Error() string {
	return "bexpr: internal error in " + err.Op + ": " + err.Cause.Error()
}

func (err *InternalError) Unwrap() error {
	return err.Cause
}

// IsInputError reports whether err is one of the expected, recoverable
// conditions caused by the caller's input.
func IsInputError(err error) bool {
	var (
		ge *GrammarError
		ts *TooManySymbolsError
		it *InvalidArgumentTypeError
		ia *InvalidArgumentError
	)
	return errors.As(err, &ge) || errors.As(err, &ts) || errors.As(err, &it) || errors.As(err, &ia)
}

// guard converts a panic escaping a core operation into an *InternalError.
// Use as: defer guard("op", &err).
func guard(op string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	cause, ok := r.(error)
	if !ok {
		cause = fmt.Errorf("%v", r)
	}
	*err = &InternalError{Op: op, Cause: cause}
}

var (
	_ InputError = (*GrammarError)(nil)
	_ error      = (*TooManySymbolsError)(nil)
	_ error      = (*InvalidArgumentTypeError)(nil)
	_ error      = (*InvalidArgumentError)(nil)
	_ error      = (*InternalError)(nil)
)

package error

import (
	"errors"
	"fmt"
	"strings"
)

// SyntaxError reports a malformed regular expression. Pos is the rune offset of
// the token the parser stopped at.
type SyntaxError struct {
	Pattern string
	Pos     int
	Cause   error
	Detail  string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: error: %v", e.Pos, e.Cause)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %v", e.Detail)
	}
	if e.Pattern != "" {
		fmt.Fprintf(&b, "\n    %v\n    %v^", e.Pattern, strings.Repeat(" ", caretOffset(e.Pattern, e.Pos)))
	}
	return b.String()
}

func (e *SyntaxError) Unwrap() error {
	return e.Cause
}

// caretOffset converts a rune offset into a column of the printed pattern.
func caretOffset(pattern string, pos int) int {
	n := 0
	for range pattern {
		if n == pos {
			break
		}
		n++
	}
	return n
}

// GrammarError reports an ill-formed grammar. Symbol names the offending symbol
// and Production the offending production when there is one.
type GrammarError struct {
	Cause      error
	Symbol     string
	Production string
}

func (e *GrammarError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "error: %v", e.Cause)
	if e.Symbol != "" {
		fmt.Fprintf(&b, ": %v", e.Symbol)
	}
	if e.Production != "" {
		fmt.Fprintf(&b, "\n    %v", e.Production)
	}
	return b.String()
}

func (e *GrammarError) Unwrap() error {
	return e.Cause
}

var ErrInvalidState = errors.New("invalid state")

// InvalidStateError reports a state ID that the automaton it was passed to does
// not own.
type InvalidStateError struct {
	State int
	Count int
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%v: %v (the automaton has %v states)", ErrInvalidState, e.State, e.Count)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// SpecErrors aggregates the errors found while validating one input.
type SpecErrors []error

func (e SpecErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%v", e[0])
	for _, err := range e[1:] {
		fmt.Fprintf(&b, "\n%v", err)
	}
	return b.String()
}

func (e SpecErrors) Unwrap() []error {
	return e
}

// Err returns nil when no error was collected.
func (e SpecErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

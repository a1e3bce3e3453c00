package parser

import (
	"fmt"
	"runtime"
	"strings"
)

type stack *[]uintptr

// getCurrentStack creates a new stack without the last three frames, because they are from the internal calls (e.g. to
// this function) and therefore irrelevant to the function creating the error.
func getCurrentStack() stack {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	var st = pcs[0:n]
	return &st
}

func getPrintableStackTrace(stack stack) string {
	var sb strings.Builder

	for _, pc := range *stack {
		f := runtime.FuncForPC(pc)
		file, line := f.FileLine(pc)
		sb.WriteString(fmt.Sprintf("%s\n\t%s:%d\n", f.Name(), file, line))
	}

	return sb.String()
}

func formatWithStack(s fmt.State, verb rune, err error, stack stack) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s\n%s", err.Error(), getPrintableStackTrace(stack))
			return
		}
		fmt.Fprintf(s, "%s", err.Error())
	case 's':
		fmt.Fprintf(s, "%s", err.Error())
	case 'q':
		fmt.Fprintf(s, "%q", err.Error())
	}
}

// PlaceholderConflictError is returned when a query uses positional ("?") and named (":name") placeholders at the same
// time. It's detected before the query is tokenized.
type PlaceholderConflictError struct {
	Message string `json:"message"`
	stack   stack
}

func NewPlaceholderConflictError() *PlaceholderConflictError {
	return &PlaceholderConflictError{
		Message: "Cannot mix named and positional placeholders in one query.",
		stack:   getCurrentStack(),
	}
}

func (e *PlaceholderConflictError) Format(s fmt.State, verb rune) {
	formatWithStack(s, verb, e, e.stack)
}

func (e *PlaceholderConflictError) Error() string {
	return e.Message
}

// SyntaxError models the typical "Expected foo, got bar" error of the parser. When the token stream ended, EndOfString
// is set and Found as well as Position are empty.
type SyntaxError struct {
	Message     string    `json:"message"`
	Expected    string    `json:"expected"`
	Found       string    `json:"found,omitempty"`
	FoundKind   TokenKind `json:"found-kind,omitempty"`
	Position    int       `json:"position"`
	EndOfString bool      `json:"end-of-string"`
	stack       stack
}

func NewSyntaxError(expected string, found *Token) *SyntaxError {
	if found == nil {
		return &SyntaxError{
			Message:     fmt.Sprintf("Expected %s, got end of string.", expected),
			Expected:    expected,
			Position:    -1,
			EndOfString: true,
			stack:       getCurrentStack(),
		}
	}

	return &SyntaxError{
		Message:   fmt.Sprintf("Expected %s, got '%s' at position %d.", expected, found.lexeme, found.startPosition),
		Expected:  expected,
		Found:     found.lexeme,
		FoundKind: found.kind,
		Position:  found.startPosition,
		stack:     getCurrentStack(),
	}
}

func (e *SyntaxError) Format(s fmt.State, verb rune) {
	formatWithStack(s, verb, e, e.stack)
}

func (e *SyntaxError) Error() string {
	return e.Message
}

// LexicalError is returned by the lexer when the remaining input can't be turned into a token, e.g. because a string
// literal is not terminated.
type LexicalError struct {
	Message  string `json:"message"`
	Reason   string `json:"reason"`
	Position int    `json:"position"`
	stack    stack
}

func NewLexicalError(position int, format string, args ...any) *LexicalError {
	reason := fmt.Sprintf(format, args...)
	return &LexicalError{
		Message:  fmt.Sprintf("Lexical error: %s at position %d.", reason, position),
		Reason:   reason,
		Position: position,
		stack:    getCurrentStack(),
	}
}

func (e *LexicalError) Format(s fmt.State, verb rune) {
	formatWithStack(s, verb, e, e.stack)
}

func (e *LexicalError) Error() string {
	return e.Message
}

// ValueError is returned when a value can't be coerced, which happens when a "json:" value is no valid JSON.
type ValueError struct {
	Message  string `json:"message"`
	Field    string `json:"field"`
	Value    string `json:"value"`
	Position int    `json:"position"`
	cause    error
	stack    stack
}

func NewValueError(field string, value string, position int, cause error) *ValueError {
	return &ValueError{
		Message:  fmt.Sprintf("Invalid JSON in value %q of field '%s' at position %d: %s", value, field, position, cause.Error()),
		Field:    field,
		Value:    value,
		Position: position,
		cause:    cause,
		stack:    getCurrentStack(),
	}
}

func (e *ValueError) Format(s fmt.State, verb rune) {
	formatWithStack(s, verb, e, e.stack)
}

func (e *ValueError) Error() string {
	return e.Message
}

func (e *ValueError) Unwrap() error {
	return e.cause
}

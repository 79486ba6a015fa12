package jsstack

import "fmt"

// Location is a position in the parsed text. Line starts at 1, Column at 0.
type Location struct {
	Line   int
	Column int
}

func startLocation() Location {
	return Location{Line: 1}
}

// advance moves the location over text, following line terminators
func (l *Location) advance(text string) {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			l.Line++
			l.Column = 0
		} else {
			l.Column++
		}
	}
}

func (l *Location) nextLine() {
	l.Line++
	l.Column = 0
}

// ParseError reports where and why parsing a stack trace failed
type ParseError struct {
	Location
	Message string
	// Cause is set when the error wraps a dialect-specific failure
	Cause error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d:%d: %s: %v", e.Line, e.Column, e.Message, e.Cause)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Unwrap returns the underlying dialect error, if any
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// failAt records the failure column and builds the error
func (l *Location) failAt(column int, message string) *ParseError {
	l.Column = column
	return &ParseError{Location: *l, Message: message}
}

func (l *Location) fail(message string) *ParseError {
	return &ParseError{Location: *l, Message: message}
}

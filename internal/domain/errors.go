package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so callers can act on the category without
// parsing message text.
type ErrorKind string

const (
	// KindInput marks a missing or unreadable input file, detected before any
	// model work is attempted.
	KindInput ErrorKind = "input"
	// KindDependency marks a missing runtime dependency: model weights, the
	// onnxruntime shared library, or the tesseract engine.
	KindDependency ErrorKind = "dependency"
	// KindModel marks a model or inference failure (corrupt image,
	// unsupported format, session error). Never retried.
	KindModel ErrorKind = "model"
	// KindFormat marks a malformed serialized-embedding input.
	KindFormat ErrorKind = "format"
)

// Error is a classified failure. All tool errors are terminal for the
// invocation: the message becomes the single JSON error line on stdout.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds a classified error. If the final argument is an error it is
// retained for unwrapping, mirroring fmt.Errorf's %w.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	var wrapped error
	if n := len(args); n > 0 {
		if err, ok := args[n-1].(error); ok {
			wrapped = err
		}
	}
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     wrapped,
	}
}

// KindOf reports the classification of err, or empty string when err carries
// no *Error in its chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

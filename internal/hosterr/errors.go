// Package hosterr defines the error taxonomy shared by the plugins and the
// host boundary. Errors are tagged with a Kind so callers can branch with
// errors.Is without string matching.
package hosterr

import "fmt"

// Kind classifies an error. Kind itself implements error so it can be used
// as an errors.Is target.
type Kind string

const (
	// NotFound means a token matched no known environment name or prefix.
	NotFound Kind = "environment not found"
	// IOFailure means the marker or ledger could not be read or written.
	IOFailure Kind = "i/o failure"
	// Blocked means a pre-command gate intentionally aborted a host operation.
	Blocked Kind = "operation blocked"
)

func (k Kind) Error() string { return string(k) }

// Error is a tagged error with an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports a match when the target is this error's Kind, so
// errors.Is(err, hosterr.Blocked) works across wrapping.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// NotFoundf builds a NotFound error.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

// IO wraps an underlying filesystem error as an IOFailure.
func IO(cause error, format string, args ...any) error {
	return &Error{Kind: IOFailure, Message: fmt.Sprintf(format, args...), Err: cause}
}

// Blockedf builds a Blocked error. The message must name the environment and
// the command that removes the flag; it is shown to the user verbatim.
func Blockedf(format string, args ...any) error {
	return &Error{Kind: Blocked, Message: fmt.Sprintf(format, args...)}
}

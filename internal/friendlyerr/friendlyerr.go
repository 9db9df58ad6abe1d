// Package friendlyerr wraps an error with a short, user-facing message
// distinct from its technical Error() text, for tools (the CLI, the REPL)
// that want to show a person something friendlier than a Go error string
// while keeping the technical detail available for logs.
package friendlyerr

import "fmt"

// compileError is a pattern-compile failure with both a short user-facing
// message and a technical one.
type compileError struct {
	technical string
	user      string
	wrap      error
}

func (e *compileError) Error() string {
	return e.technical
}

// UserMessage returns the message that should be shown to a person, as
// opposed to the technical Error() text.
func (e *compileError) UserMessage() string {
	return e.user
}

func (e *compileError) Unwrap() error {
	return e.wrap
}

// Wrap returns a new error pairing userMsg (shown to a person) with the
// technical cause of the failure.
func Wrap(cause error, userMsg string) error {
	return &compileError{
		technical: fmt.Sprintf("%s: %v", userMsg, cause),
		user:      userMsg,
		wrap:      cause,
	}
}

// UserMessage returns the message that should be shown to a person for err.
// If err was not built with Wrap, its own Error() text is returned.
func UserMessage(err error) string {
	if fe, ok := err.(*compileError); ok {
		return fe.UserMessage()
	}
	return err.Error()
}

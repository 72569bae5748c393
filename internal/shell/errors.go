package shell

import (
	"errors"

	"github.com/amsmath/ams/internal/auth"
	"github.com/amsmath/ams/internal/feedback"
	"github.com/amsmath/ams/internal/overlay"
	"github.com/amsmath/ams/internal/solve"
)

// GenericMessage is shown for failures the user cannot act on.
const GenericMessage = "Something went wrong. Please try again."

// ActionError is a failed user action together with the text shown for it.
type ActionError struct {
	Err     error
	Message string
	// Internal marks failures of the shell itself rather than of the
	// user's input.
	Internal bool
}

func (e *ActionError) Error() string { return e.Message }

func (e *ActionError) Unwrap() error { return e.Err }

// UserMessage returns the text to show for err.
func UserMessage(err error) string {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Message
	}
	msg, _ := userMessage(err)
	return msg
}

func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, solve.ErrEmptyExpression):
		return solve.EmptyExpressionPrompt, false
	case errors.Is(err, solve.ErrBusy):
		return "A calculation is already in progress.", false
	case errors.Is(err, overlay.ErrUnknownPanel):
		return "Unknown panel.", false
	}
	if msg, ok := auth.Lookup(err); ok {
		return msg, false
	}
	if msg, ok := feedback.Lookup(err); ok {
		return msg, false
	}
	return GenericMessage, true
}

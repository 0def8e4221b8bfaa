package session

import (
	"errors"
	"fmt"
)

// ErrSuperseded is returned by Login or Register when a logout or forced
// sign-out happened while the request was in flight. Nothing was stored.
var ErrSuperseded = errors.New("session changed while request was in flight")

// Fallback messages when the backend gives no reason
const (
	LoginFailedMessage    = "Login failed"
	RegisterFailedMessage = "Registration failed"
)

// ActionError is a failed login or registration. Message is safe to display.
type ActionError struct {
	Op      string
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	return e.Message
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// userMessenger is implemented by backend errors that carry display text
type userMessenger interface {
	UserMessage() string
}

func newActionError(op, fallback string, err error) *ActionError {
	msg := fallback
	var um userMessenger
	if errors.As(err, &um) && um.UserMessage() != "" {
		msg = um.UserMessage()
	}
	return &ActionError{Op: op, Message: msg, Err: fmt.Errorf("%s: %w", op, err)}
}

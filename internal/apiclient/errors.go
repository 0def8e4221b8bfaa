package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mcoot/blogfront/internal/model"
)

// APIError is a non-2xx response from the backend.
// Message is empty when the body carried none.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return e.Message
}

// Is lets callers match APIErrors against model sentinels
func (e *APIError) Is(target error) bool {
	switch target {
	case model.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case model.ErrForbidden:
		return e.Status == http.StatusForbidden
	case model.ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// TransportError is a request that produced no response
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Temporary marks the failure as saying nothing about the credential
func (e *TransportError) Temporary() bool {
	return true
}

// errorBody covers the error shapes the backend produces
type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

// decodeError builds an APIError, preferring the body's error field, then message
func decodeError(status int, body []byte) error {
	apiErr := &APIError{Status: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		apiErr.Message = errorText(eb.Error)
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(eb.Message)
		}
	}
	return apiErr
}

// errorText reads "error" as either a string or an object with a message
func errorText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.Message)
	}
	return ""
}

// StatusOf returns the HTTP status of an APIError, or 0
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Message returns text suitable for display, or fallback when err carries none
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.UserMessage() != "" {
		return apiErr.UserMessage()
	}
	return fallback
}

// UserMessage is the backend's own explanation, empty if it gave none
func (e *APIError) UserMessage() string {
	return e.Message
}

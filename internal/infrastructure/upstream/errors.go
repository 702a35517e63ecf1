package upstream

import (
	"fmt"
	"net/http"
)

// Error is a failed backend call. Status is zero when no response arrived.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("upstream: %s %s: %v", e.Method, e.Path, e.Err)
	case e.Message != "":
		return fmt.Sprintf("upstream: %s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	default:
		return fmt.Sprintf("upstream: %s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PublicMessage is the backend's own explanation, shown to the user as is
func (e *Error) PublicMessage() string {
	return e.Message
}

// FieldMessages are the backend's per-field validation messages
func (e *Error) FieldMessages() map[string]string {
	return e.Fields
}

// NotFound reports whether the backend answered 404
func (e *Error) NotFound() bool {
	return e.Status == http.StatusNotFound
}

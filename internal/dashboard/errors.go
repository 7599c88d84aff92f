package dashboard

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is a non-2xx response from the dashboard, carrying the decoded
// error messages when the body follows the standard {"errors": [...]} shape.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Messages   []string
}

func (e *APIError) Error() string {
	msg := strings.Join(e.Messages, "; ")
	if msg == "" {
		msg = "no error detail"
	}
	return fmt.Sprintf("dashboard %s %s: %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

// IsNotFound reports whether err is a dashboard 404.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == 404
}

// newAPIError decodes the error body, falling back to the raw text.
func newAPIError(status int, method, path string, body []byte) *APIError {
	e := &APIError{StatusCode: status, Method: method, Path: path}

	var wire struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(body, &wire); err == nil && len(wire.Errors) > 0 {
		e.Messages = wire.Errors
		return e
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		e.Messages = []string{text}
	}
	return e
}

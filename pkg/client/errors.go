package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnauthorized is wrapped into the error returned for a 401 on a request
// that carried a token. The session has already been cleared.
var ErrUnauthorized = errors.New("session expired, please log in again")

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// IsCode returns true if err (or any wrapped error) is an HTTPError carrying
// the given backend error code, e.g. "TRIP_007".
func IsCode(err error, code string) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code == code
	}
	return false
}

// Message returns the backend message from err if it is an HTTPError,
// otherwise err.Error(). Used for inline error text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUnauthorized) {
		return ErrUnauthorized.Error()
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	return err.Error()
}

// parseErrorBody decodes the error shapes the backend uses:
//
//	{"error": "message"}
//	{"code": "X", "message": "message"}
//	{"error": {"code": "X", "message": "message"}}
func parseErrorBody(status int, body []byte) *HTTPError {
	var raw struct {
		Error   json.RawMessage `json:"error"`
		Code    string          `json:"code"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &raw) != nil {
		return &HTTPError{StatusCode: status, Message: string(body)}
	}

	if len(raw.Error) > 0 {
		var msg string
		if json.Unmarshal(raw.Error, &msg) == nil && msg != "" {
			return &HTTPError{StatusCode: status, Code: raw.Code, Message: msg}
		}
		var nested struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw.Error, &nested) == nil && (nested.Code != "" || nested.Message != "") {
			return &HTTPError{StatusCode: status, Code: nested.Code, Message: nested.Message}
		}
	}
	if raw.Code != "" || raw.Message != "" {
		return &HTTPError{StatusCode: status, Code: raw.Code, Message: raw.Message}
	}
	return &HTTPError{StatusCode: status, Message: string(body)}
}

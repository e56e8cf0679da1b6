package shopsdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNoToken is returned by a TokenSource when no session exists.
	ErrNoToken = errors.New("shopsdk: no session token")

	ErrStateMismatch = errors.New("shopsdk: oauth state mismatch")
	ErrNoCallback    = errors.New("shopsdk: callback carries neither token nor code")
)

// APIError describes any failed backend call. StatusCode is zero when no
// response was received.
type APIError struct {
	StatusCode int
	Code       string
	Message    string

	// Authenticated is true when the request carried a bearer token.
	Authenticated bool

	// Handled is true when the client's ErrorInterceptor resolved the error
	// (for example by ending the session). Callers may skip their own
	// reporting.
	Handled bool

	Err error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("shopsdk: network error: %v", e.Err)
		}
		return "shopsdk: network error"
	}
	if e.Code != "" {
		return fmt.Sprintf("shopsdk: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("shopsdk: %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsNetwork reports whether no response was received.
func (e *APIError) IsNetwork() bool { return e.StatusCode == 0 }

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// StatusCode returns the HTTP status of err, or zero.
func StatusCode(err error) int {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.StatusCode
	}
	return 0
}

// CallbackError is returned when the OAuth2 provider redirected back with an
// error instead of a token or code.
type CallbackError struct {
	Code        string
	Description string
}

func (e *CallbackError) Error() string {
	if e.Description == "" {
		return "authorization error: " + e.Code
	}
	return fmt.Sprintf("authorization error: %s - %s", e.Code, e.Description)
}

// errorBody covers the error shapes the backend produces: its own
// {status, code, message} and the OAuth2 {error, error_description}.
type errorBody struct {
	Status           int    `json:"status"`
	Code             string `json:"code"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// parseErrorResponse maps a non-2xx response to an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		apiErr.Code = eb.Code
		if apiErr.Code == "" {
			apiErr.Code = eb.Error
		}
		apiErr.Message = firstNonEmpty(eb.Message, eb.ErrorDescription)
		if apiErr.Message == "" && eb.Code == "" {
			apiErr.Message = eb.Error
		}
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 {
		apiErr.Message = text
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func networkError(err error) *APIError {
	return &APIError{Message: err.Error(), Err: err}
}

// isCancelled is true when the caller gave up, which is never reported to
// the interceptor.
func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Package errors provides custom error types for the webhook chat client.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Sentinel errors for common cases
var (
	ErrNotConfigured    = errors.New("webhook URL not set")
	ErrEmptySubmission  = errors.New("empty submission")
	ErrRequestFailed    = errors.New("failed to get AI response")
	ErrPlaybackRejected = errors.New("playback rejected")
)

// ConfigError represents a missing or invalid configuration value.
// The webhook endpoint is the only setting a request cannot do without.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Message == "" {
		return ErrNotConfigured.Error()
	}
	return e.Message
}

// Is allows comparison with sentinel errors
func (e *ConfigError) Is(target error) bool {
	if target == ErrNotConfigured {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok
}

// NewConfigError creates a new ConfigError
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// APIError represents a webhook response with a non-success status.
// Endpoint is kept for logging only; webhook URLs usually embed a secret,
// so it never appears in Error().
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = ErrRequestFailed.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	return msg
}

// Is allows comparison with sentinel errors
func (e *APIError) Is(target error) bool {
	if target == ErrRequestFailed {
		return true
	}
	_, ok := target.(*APIError)
	return ok
}

// Detail extracts a human readable reason from the response body.
// Automation platforms answer failures with JSON such as {"message": "..."}
// or {"error": "..."}; plain text bodies are returned trimmed and truncated.
func (e *APIError) Detail() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return ""
	}

	if gjson.Valid(body) {
		for _, path := range []string{"message", "error.message", "error", "detail"} {
			if v := gjson.Get(body, path); v.Exists() && v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
	}

	if len(body) > 200 {
		return body[:200] + "..."
	}
	return body
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorWithBody creates a new APIError carrying the response body
func NewAPIErrorWithBody(statusCode int, endpoint, message, body string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
		Body:       body,
	}
}

// NetworkError represents a transport failure (DNS, connection refused, TLS, timeout...)
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Operation)
	}
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *NetworkError) Is(target error) bool {
	if target == ErrRequestFailed {
		return true
	}
	_, ok := target.(*NetworkError)
	return ok
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Err: err}
}

// NewNetworkErrorWithEndpoint creates a new NetworkError and records the endpoint
func NewNetworkErrorWithEndpoint(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// PlaybackError represents an audio clip the player refused to start.
// It is logged and resets playback state; it never reaches the conversation.
type PlaybackError struct {
	Source string
	Err    error
}

func (e *PlaybackError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("playback of %s rejected", e.Source)
	}
	return fmt.Sprintf("playback of %s rejected: %v", e.Source, e.Err)
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *PlaybackError) Is(target error) bool {
	if target == ErrPlaybackRejected {
		return true
	}
	_, ok := target.(*PlaybackError)
	return ok
}

// NewPlaybackError creates a new PlaybackError
func NewPlaybackError(source string, err error) *PlaybackError {
	return &PlaybackError{Source: source, Err: err}
}

// IsConfigError reports whether err is (or wraps) a ConfigError
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// IsNetworkError reports whether err is (or wraps) a NetworkError
func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

// IsPlaybackError reports whether err is (or wraps) a PlaybackError
func IsPlaybackError(err error) bool {
	var target *PlaybackError
	return errors.As(err, &target)
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetDetail returns the response detail carried by err, or ""
func GetDetail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail()
	}
	return ""
}

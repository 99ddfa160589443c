package github

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/go-github/v66/github"
)

// ErrorType represents different categories of GitHub API errors
type ErrorType string

const (
	ErrorTypeAuth       ErrorType = "authentication"
	ErrorTypePermission ErrorType = "permission"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeServer     ErrorType = "server"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeEncryption ErrorType = "encryption"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// APIError is returned for any response GitHub did not answer with an
// expected status. StatusCode is zero when no response was received.
type APIError struct {
	Type       ErrorType `json:"type"`
	StatusCode int       `json:"status_code"`
	Body       string    `json:"body,omitempty"`
	Resource   string    `json:"resource,omitempty"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Type))
	b.WriteString(" error")
	if e.Resource != "" {
		b.WriteString(" for ")
		b.WriteString(e.Resource)
	}
	b.WriteString(": ")

	switch {
	case e.StatusCode != 0:
		fmt.Fprintf(&b, "%d", e.StatusCode)
		if e.Body != "" {
			b.WriteString(" ")
			b.WriteString(e.Body)
		}
	case e.Cause != nil:
		b.WriteString(e.Cause.Error())
	default:
		b.WriteString("no response")
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *APIError) Unwrap() error {
	return e.Cause
}

// Hint returns troubleshooting guidance for the error type, or an empty string
func (e *APIError) Hint() string {
	switch e.Type {
	case ErrorTypeAuth:
		return "Invalid or expired GitHub token. Update GITHUB_TOKEN, pass --token, or run 'ghenv auth login'"
	case ErrorTypePermission:
		return "Insufficient permissions. The token needs the repo scope, or Environments and Variables/Secrets write access for fine-grained tokens"
	case ErrorTypeRateLimit:
		return "GitHub API rate limit exceeded. Wait for the limit to reset before retrying"
	case ErrorTypeNotFound:
		if strings.HasPrefix(e.Resource, "repository") {
			return "Repository not found. Check the repository name and your access permissions"
		}
		return "Resource not found. Check the repository and environment names"
	case ErrorTypeNetwork:
		return "Network error occurred. Please check your connection and the API URL"
	case ErrorTypeServer:
		return "GitHub API is temporarily unavailable. Please try again later"
	}
	return ""
}

// UsageError reports invalid input detected before any request is sent
type UsageError struct {
	Message string
}

// Error implements the error interface
func (e *UsageError) Error() string {
	return e.Message
}

// NewUsageError creates a UsageError with a formatted message
func NewUsageError(format string, args ...any) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// AsAPIError extracts an APIError from an error chain
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUsageError reports whether err is a UsageError
func IsUsageError(err error) bool {
	var usageErr *UsageError
	return errors.As(err, &usageErr)
}

// IsNotFound reports whether err is an APIError for a 404 response
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by err, or zero
func StatusCode(err error) int {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.StatusCode
	}
	return 0
}

// newAPIError converts a go-github response and error into an APIError.
// err may be nil when the response was a 2xx the caller did not expect.
func newAPIError(resp *github.Response, err error, resource string) *APIError {
	if resp == nil || resp.Response == nil {
		return &APIError{
			Type:     ErrorTypeNetwork,
			Resource: resource,
			Cause:    err,
		}
	}

	status := resp.StatusCode
	body := responseBody(resp, err)

	apiErr := &APIError{
		Type:       classifyStatus(status, body),
		StatusCode: status,
		Body:       body,
		Resource:   resource,
		Cause:      err,
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		apiErr.Type = ErrorTypeRateLimit
	}

	return apiErr
}

// responseBody returns the error body text. go-github repopulates the body
// after decoding an ErrorResponse and leaves it open on failure.
func responseBody(resp *github.Response, err error) string {
	if err == nil || resp.Body == nil {
		return ""
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)
	if readErr == nil && len(data) > 0 {
		return strings.TrimSpace(string(data))
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Message != "" {
		return ghErr.Message
	}
	return ""
}

func classifyStatus(status int, body string) ErrorType {
	switch {
	case status == http.StatusUnauthorized:
		return ErrorTypeAuth
	case status == http.StatusForbidden:
		if strings.Contains(strings.ToLower(body), "rate limit") {
			return ErrorTypeRateLimit
		}
		return ErrorTypePermission
	case status == http.StatusNotFound:
		return ErrorTypeNotFound
	case status == http.StatusConflict:
		return ErrorTypeConflict
	case status == http.StatusUnprocessableEntity:
		return ErrorTypeValidation
	case status == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case status >= 500:
		return ErrorTypeServer
	default:
		return ErrorTypeUnknown
	}
}

// newEncryptionError wraps a sealing failure. No request is sent after it.
func newEncryptionError(err error, resource string) *APIError {
	return &APIError{
		Type:     ErrorTypeEncryption,
		Resource: resource,
		Cause:    err,
	}
}

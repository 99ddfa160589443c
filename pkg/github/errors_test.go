package github

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status   int
		body     string
		expected ErrorType
	}{
		{status: http.StatusUnauthorized, expected: ErrorTypeAuth},
		{status: http.StatusForbidden, body: `{"message":"Resource not accessible by integration"}`, expected: ErrorTypePermission},
		{status: http.StatusForbidden, body: `{"message":"API rate limit exceeded"}`, expected: ErrorTypeRateLimit},
		{status: http.StatusNotFound, expected: ErrorTypeNotFound},
		{status: http.StatusConflict, expected: ErrorTypeConflict},
		{status: http.StatusUnprocessableEntity, expected: ErrorTypeValidation},
		{status: http.StatusTooManyRequests, expected: ErrorTypeRateLimit},
		{status: http.StatusBadGateway, expected: ErrorTypeServer},
		{status: http.StatusOK, expected: ErrorTypeUnknown},
		{status: http.StatusTeapot, expected: ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d %s", tt.status, tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyStatus(tt.status, tt.body))
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{
			name: "status and body",
			err: &APIError{
				Type:       ErrorTypeNotFound,
				StatusCode: 404,
				Body:       `{"message":"Not Found"}`,
				Resource:   "variable DEBUG in acme/widgets/prod",
			},
			expected: `not_found error for variable DEBUG in acme/widgets/prod: 404 {"message":"Not Found"}`,
		},
		{
			name: "network without status",
			err: &APIError{
				Type:  ErrorTypeNetwork,
				Cause: errors.New("dial tcp: connection refused"),
			},
			expected: "network error: dial tcp: connection refused",
		},
		{
			name:     "nothing known",
			err:      &APIError{Type: ErrorTypeUnknown},
			expected: "unknown error: no response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAPIErrorUnwrapAndHelpers(t *testing.T) {
	cause := errors.New("boom")
	apiErr := &APIError{Type: ErrorTypeNotFound, StatusCode: http.StatusNotFound, Cause: cause}
	wrapped := fmt.Errorf("failed to delete variable before update: %w", apiErr)

	assert.True(t, errors.Is(wrapped, cause))
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, http.StatusNotFound, StatusCode(wrapped))

	got, ok := AsAPIError(wrapped)
	assert.True(t, ok)
	assert.Same(t, apiErr, got)

	assert.False(t, IsNotFound(errors.New("plain")))
	assert.Zero(t, StatusCode(errors.New("plain")))
}

func TestAPIErrorHint(t *testing.T) {
	assert.Contains(t, (&APIError{Type: ErrorTypeAuth}).Hint(), "GITHUB_TOKEN")
	assert.Contains(t, (&APIError{Type: ErrorTypePermission}).Hint(), "repo scope")
	assert.Contains(t, (&APIError{Type: ErrorTypeNotFound, Resource: "repository acme/widgets"}).Hint(), "Repository not found")
	assert.Contains(t, (&APIError{Type: ErrorTypeNotFound, Resource: "secret X"}).Hint(), "environment names")
	assert.Empty(t, (&APIError{Type: ErrorTypeConflict}).Hint())
}

func TestUsageError(t *testing.T) {
	err := NewUsageError("invalid repository %q", "x")
	assert.Equal(t, `invalid repository "x"`, err.Error())
	assert.True(t, IsUsageError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsUsageError(&APIError{}))
}

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			err:      New(CodeNotFound, "object not found"),
			expected: "[NOT_FOUND] object not found",
		},
		{
			name:     "with underlying error",
			err:      Wrap(CodeSnapshotError, "load failed", errors.New("unexpected EOF")),
			expected: "[SNAPSHOT_ERROR] load failed: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := Wrap(CodeSnapshotError, "load failed", underlying)

	unwrapped := err.Unwrap()
	assert.Equal(t, underlying, unwrapped)
}

func TestAppError_Is(t *testing.T) {
	err1 := New(CodeNotFound, "error 1")
	err2 := New(CodeNotFound, "error 2")
	err3 := New(CodeInvalidInput, "error 3")

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "not-found error",
			err:      ErrNotFound,
			expected: true,
		},
		{
			name:     "wrapped not-found error",
			err:      Wrap(CodeNotFound, "object not found", errors.New("id 42")),
			expected: true,
		},
		{
			name:     "deeply wrapped not-found error",
			err:      fmt.Errorf("resolve: %w", New(CodeNotFound, "gone")),
			expected: true,
		},
		{
			name:     "other error",
			err:      ErrInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFound(tt.err))
		})
	}
}

func TestIsInvalidInput(t *testing.T) {
	assert.True(t, IsInvalidInput(ErrInvalidInput))
	assert.True(t, IsInvalidInput(New(CodeInvalidInput, "bad range")))
	assert.False(t, IsInvalidInput(ErrNotFound))
}

func TestIsTooManyReferers(t *testing.T) {
	assert.True(t, IsTooManyReferers(ErrTooManyReferers))
	assert.False(t, IsTooManyReferers(ErrSnapshotError))
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "app error",
			err:      New(CodeSnapshotError, "load failed"),
			expected: CodeSnapshotError,
		},
		{
			name:     "wrapped app error",
			err:      Wrap(CodeConfigError, "bad config", errors.New("inner")),
			expected: CodeConfigError,
		},
		{
			name:     "standard error",
			err:      errors.New("standard error"),
			expected: CodeUnknown,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: CodeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorCode(tt.err))
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "app error",
			err:      New(CodeNotFound, "object not found"),
			expected: "object not found",
		},
		{
			name:     "standard error",
			err:      errors.New("standard error"),
			expected: "standard error",
		},
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorMessage(tt.err))
		})
	}
}

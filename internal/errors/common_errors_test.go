package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "missing input", errType: ErrTypeMissingInput, expected: "MISSING_INPUT"},
		{name: "malformed record", errType: ErrTypeMalformed, expected: "MALFORMED_RECORD"},
		{name: "degenerate statistics", errType: ErrTypeDegenerate, expected: "DEGENERATE_STATISTICS"},
		{name: "parsing", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "storage", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "validation", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "not found", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "config", errType: ErrTypeConfig, expected: "CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeMissingInput,
				Message: "missing input for chunk demo1",
			},
			wantMessage: "[MISSING_INPUT] missing input for chunk demo1",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeStorage,
				Message: "failed to write chunk table",
				Cause:   fmt.Errorf("disk full"),
			},
			wantMessage: "[STORAGE] failed to write chunk table: disk full",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type: ErrTypeValidation,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("original error")
	err := NewParsingError("bad float", cause)

	assert.Same(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
	assert.Nil(t, NewAppValidationError("x").Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeMalformed, Message: "bad line"}
	err.WithContext("line", 3).WithContext("file", "demo1_spikes_raw.txt")

	require.NotNil(t, err.Context)
	assert.Equal(t, 3, err.Context["line"])
	assert.Equal(t, "demo1_spikes_raw.txt", err.Context["file"])
}

func TestNewMissingInputError(t *testing.T) {
	err := NewMissingInputError("demo1", "/data/demo1_noise_stats.txt")

	assert.Equal(t, ErrTypeMissingInput, err.Type)
	assert.Equal(t, "demo1", err.Context["chunk"])
	assert.Equal(t, "/data/demo1_noise_stats.txt", err.Context["path"])
	assert.Contains(t, err.Error(), "demo1")
	assert.Contains(t, err.Error(), "demo1_noise_stats.txt")
}

func TestIsType(t *testing.T) {
	inner := NewMalformedRecordError("bad line", nil)
	outer := NewParsingError("stats file", inner)
	wrapped := fmt.Errorf("chunk demo1: %w", outer)

	tests := []struct {
		name    string
		err     error
		errType ErrorType
		want    bool
	}{
		{name: "direct match", err: inner, errType: ErrTypeMalformed, want: true},
		{name: "outer match through fmt wrap", err: wrapped, errType: ErrTypeParsing, want: true},
		{name: "inner match through chain", err: wrapped, errType: ErrTypeMalformed, want: true},
		{name: "no match", err: wrapped, errType: ErrTypeStorage, want: false},
		{name: "plain error", err: errors.New("plain"), errType: ErrTypeParsing, want: false},
		{name: "nil error", err: nil, errType: ErrTypeParsing, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsType(tt.err, tt.errType))
		})
	}
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrTypeConfig, TypeOf(fmt.Errorf("load: %w", NewConfigError("bad", nil))))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
	assert.Equal(t, ErrTypeNotFound, TypeOf(NewAppError(ErrTypeNotFound, "chunk demo1 not found", nil)))
	assert.Equal(t, ErrTypeDegenerate, TypeOf(NewDegenerateError("zero variance")))
}

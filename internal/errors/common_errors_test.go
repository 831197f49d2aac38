package errors

import (
	"errors"
	"fmt"
	"io/fs"
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
		{name: "file discovery", errType: ErrTypeFileDiscovery, expected: "FILE_DISCOVERY"},
		{name: "missing column", errType: ErrTypeMissingColumn, expected: "MISSING_COLUMN"},
		{name: "timestamp parse", errType: ErrTypeTimestampParse, expected: "TIMESTAMP_PARSE"},
		{name: "invalid dataset", errType: ErrTypeInvalidDataset, expected: "INVALID_DATASET"},
		{name: "storage", errType: ErrTypeStorage, expected: "STORAGE"},
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
			name:        "error without cause",
			appError:    &AppError{Type: ErrTypeMissingColumn, Message: "'timestamp' column missing in a.csv"},
			wantMessage: "[MISSING_COLUMN] 'timestamp' column missing in a.csv",
		},
		{
			name:        "error with cause",
			appError:    &AppError{Type: ErrTypeStorage, Message: "write dataset", Cause: fmt.Errorf("disk full")},
			wantMessage: "[STORAGE] write dataset: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_IsSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{"file discovery matches", NewFileDiscoveryError("data/v0", "*.csv", nil), ErrFileDiscovery, true},
		{"missing column matches", NewMissingColumnError("close", "a.csv"), ErrMissingColumn, true},
		{"invalid dataset matches", NewInvalidDatasetError("missing target"), ErrInvalidDataset, true},
		{"different type does not match", NewMissingColumnError("close", "a.csv"), ErrFileDiscovery, false},
		{"wrapped error matches", fmt.Errorf("process folder: %w", NewFileDiscoveryError("v1", "*.csv", nil)), ErrFileDiscovery, true},
		{"plain error does not match", errors.New("boom"), ErrStorage, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.sentinel))
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("bad layout")
	err := NewTimestampParseError("yesterday", 3, cause)

	assert.True(t, errors.Is(err, cause))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeTimestampParse, appErr.Type)
	assert.Equal(t, 3, appErr.Context["row"])
}

func TestNewFileDiscoveryError_Context(t *testing.T) {
	err := NewFileDiscoveryError("StockAnalyticaData/v0", "*.csv", nil)

	assert.Equal(t, "StockAnalyticaData/v0", err.Context["folder"])
	assert.Equal(t, "*.csv", err.Context["pattern"])
	assert.Contains(t, err.Error(), "StockAnalyticaData/v0")
	assert.Nil(t, err.Unwrap())
}

func TestNewFileDiscoveryError_Cause(t *testing.T) {
	cause := fmt.Errorf("read dir: %w", fs.ErrNotExist)
	err := NewFileDiscoveryError("StockAnalyticaData/v9", "*.csv", cause)

	assert.True(t, errors.Is(err, ErrFileDiscovery))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "cannot list")
	assert.Equal(t, "StockAnalyticaData/v9", err.Context["folder"])
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeConfig, Message: "bad"}
	err.WithContext("field", "window")

	require.NotNil(t, err.Context)
	assert.Equal(t, "window", err.Context["field"])
}

package errors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_PARAMETER", "chunk id is empty")
	assert.Equal(t, "chunk id is empty", err.Error())
}

func TestAPIError_Render(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/v1/chunks/demo1/snr", nil)

	assert.NoError(t, ErrRateLimitExceeded.Render(w, r))
}

func TestFromAppError(t *testing.T) {
	tests := []struct {
		name       string
		appErr     *AppError
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing input maps to 404",
			appErr:     NewMissingInputError("demo1", "/x/demo1_snr_final.csv"),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "malformed record maps to 422",
			appErr:     NewMalformedRecordError("bad row", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "DATA_CORRUPTED",
		},
		{
			name:       "validation maps to 400",
			appErr:     NewAppValidationError("bad chunk id"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "storage maps to 500",
			appErr:     NewStorageError("read failed", nil),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromAppError(tt.appErr)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantCode, got.ErrorCode)
			assert.Equal(t, tt.appErr.Message, got.Message)
		})
	}
}

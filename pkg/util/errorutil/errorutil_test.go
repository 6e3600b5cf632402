package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{
			name:       "validation",
			err:        NewValidationError("bad", nil),
			wantCode:   CodeValidationFailed,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("lookup: %w", NewNotFound("ticket", nil)),
			wantCode:   CodeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "configuration",
			err:        NewConfigurationError("notion database not configured"),
			wantCode:   CodeMirrorNotConfigured,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantCode:   CodeInternal,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.HTTPStatus != tt.wantStatus {
				t.Errorf("status = %d, want %d", got.HTTPStatus, tt.wantStatus)
			}
		})
	}

	if ToDomainError(nil) != nil {
		t.Error("nil error should map to nil")
	}
}

func TestStoreErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreError("insert", cause)
	if !errors.Is(err, cause) {
		t.Fatal("store error should unwrap to its cause")
	}
	if IsNotFound(err) {
		t.Error("store error is not a not-found error")
	}
	if !HasCode(err, CodeInternal) {
		t.Error("store error should carry INTERNAL_ERROR")
	}
}

package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperr "github.com/matzehuels/glitchid/pkg/errors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code apperr.Code
		want int
	}{
		{apperr.ErrCodeInvalidInput, http.StatusBadRequest},
		{apperr.ErrCodeInvalidSeed, http.StatusBadRequest},
		{apperr.ErrCodeInvalidFormat, http.StatusBadRequest},
		{apperr.ErrCodeSourceTooLarge, http.StatusRequestEntityTooLarge},
		{apperr.ErrCodeNotFound, http.StatusNotFound},
		{apperr.ErrCodeCapability, http.StatusServiceUnavailable},
		{apperr.ErrCodeNetwork, http.StatusBadGateway},
		{apperr.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.code); got != tt.want {
			t.Errorf("StatusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", apperr.New(apperr.ErrCodeInvalidSeed, "bad seed"))
	if got := CodeOf(wrapped); got != apperr.ErrCodeInvalidSeed {
		t.Errorf("CodeOf(wrapped) = %q", got)
	}
	if got := CodeOf(&apperr.TooLargeError{Limit: 10}); got != apperr.ErrCodeSourceTooLarge {
		t.Errorf("CodeOf(TooLargeError) = %q", got)
	}
	if got := CodeOf(errors.New("boom")); got != apperr.ErrCodeInternal {
		t.Errorf("CodeOf(plain) = %q", got)
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   apperr.Code
		wantMsg    string
	}{
		{"coded", apperr.New(apperr.ErrCodeInvalidSeed, "seed must be an unsigned integer"), 400, apperr.ErrCodeInvalidSeed, "seed must be an unsigned integer"},
		{"too large", &apperr.TooLargeError{Limit: 1024}, 413, apperr.ErrCodeSourceTooLarge, "source too large: limit is 1024 bytes"},
		{"internal hides cause", errors.New("disk on fire"), 500, apperr.ErrCodeInternal, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if got := WriteError(rec, tt.err); got != tt.wantStatus {
				t.Errorf("WriteError returned %d", got)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Error.Code != tt.wantCode || body.Error.Message != tt.wantMsg {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

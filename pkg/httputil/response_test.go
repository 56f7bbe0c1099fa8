package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/pipeviz/pkg/errors"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid format", errors.New(errors.ErrCodeInvalidFormat, "bad"), http.StatusBadRequest},
		{"invalid routing", errors.New(errors.ErrCodeInvalidRoutingMode, "bad"), http.StatusBadRequest},
		{"invalid config", errors.New(errors.ErrCodeInvalidConfig, "bad"), http.StatusBadRequest},
		{"not found", errors.New(errors.ErrCodeNotFound, "missing"), http.StatusNotFound},
		{"unsupported", errors.New(errors.ErrCodeUnsupported, "no rsvg"), http.StatusNotImplemented},
		{"internal", errors.New(errors.ErrCodeInternal, "boom"), http.StatusInternalServerError},
		{"plain", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", errors.New(errors.ErrCodeNotFound, "x")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	status := WriteError(rec, errors.New(errors.ErrCodeNotFound, "unknown example %q", "foo"))

	if status != http.StatusNotFound || rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d/%d, want 404", status, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != errors.ErrCodeNotFound {
		t.Errorf("code = %q", body.Code)
	}
	if body.Error != `unknown example "foo"` {
		t.Errorf("error = %q", body.Error)
	}
}

func TestWriteErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("disk path /secret failed"))

	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "Internal Server Error" {
		t.Errorf("error = %q, want generic message", body.Error)
	}
	if body.Code != errors.ErrCodeInternal {
		t.Errorf("code = %q, want %q", body.Code, errors.ErrCodeInternal)
	}
}

package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusBadRequest)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeConflict,
				Message: "dates overlap",
			},
			expected: "CONFLICT: dates overlap",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_UnwrapMatchesSentinel(t *testing.T) {
	sentinel := errors.New("booking dates overlap")
	appErr := Conflict("overlap").WithCause(sentinel)

	if !errors.Is(appErr, sentinel) {
		t.Error("errors.Is should match the attached cause")
	}
	if errors.Unwrap(appErr) != sentinel {
		t.Error("Unwrap() should return the attached cause")
	}
}

func TestConstructors_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
	}{
		{"validation", Validation("bad", nil), http.StatusBadRequest},
		{"invalid input", InvalidInput("bad"), http.StatusBadRequest},
		{"invalid range", InvalidRange("bad"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("no"), http.StatusUnauthorized},
		{"forbidden", Forbidden("no"), http.StatusForbidden},
		{"conflict", Conflict("no"), http.StatusConflict},
		{"unsupported media", UnsupportedMediaType("no"), http.StatusUnsupportedMediaType},
		{"too many requests", TooManyRequests("slow down"), http.StatusTooManyRequests},
		{"timeout", Timeout("late"), http.StatusServiceUnavailable},
		{"internal", Internal("boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.StatusCode() != tt.status {
				t.Errorf("StatusCode() = %d, want %d", tt.err.StatusCode(), tt.status)
			}
		})
	}
}

func TestAsAppError(t *testing.T) {
	t.Run("passes app errors through", func(t *testing.T) {
		original := Conflict("taken")
		if got := AsAppError(original); got != original {
			t.Error("expected the same AppError back")
		}
	})

	t.Run("finds wrapped app errors", func(t *testing.T) {
		original := Forbidden("nope")
		wrapped := errors.Join(errors.New("context"), original)
		if got := AsAppError(wrapped); got != original {
			t.Error("expected the wrapped AppError back")
		}
	})

	t.Run("converts plain errors to internal", func(t *testing.T) {
		got := AsAppError(errors.New("boom"))
		if got.Code != CodeInternal {
			t.Errorf("expected code %s, got %s", CodeInternal, got.Code)
		}
	})
}

func TestWriteError_Payload(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantError   string
		wantMessage string
	}{
		{
			name:        "conflict",
			err:         Conflict("Booking dates overlap with existing booking"),
			wantStatus:  http.StatusConflict,
			wantError:   "Conflict",
			wantMessage: "Booking dates overlap with existing booking",
		},
		{
			name:        "internal error hides cause",
			err:         Internal("Failed to save booking", errors.New("mongo: connection refused")),
			wantStatus:  http.StatusInternalServerError,
			wantError:   "Internal Server Error",
			wantMessage: internalMessage,
		},
		{
			name:        "plain error becomes opaque internal",
			err:         errors.New("secret detail"),
			wantStatus:  http.StatusInternalServerError,
			wantError:   "Internal Server Error",
			wantMessage: internalMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/hotels/HOTEL_001/bookings", nil)
			w := httptest.NewRecorder()

			if err := WriteError(w, req, tt.err); err != nil {
				t.Fatalf("WriteError returned error: %v", err)
			}

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected application/json, got %s", ct)
			}

			var body ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("body status = %d, want %d", body.Status, tt.wantStatus)
			}
			if body.Error != tt.wantError {
				t.Errorf("body error = %q, want %q", body.Error, tt.wantError)
			}
			if body.Message != tt.wantMessage {
				t.Errorf("body message = %q, want %q", body.Message, tt.wantMessage)
			}
			if body.Path != "/api/hotels/HOTEL_001/bookings" {
				t.Errorf("body path = %q", body.Path)
			}
			if body.Timestamp.IsZero() {
				t.Error("expected timestamp to be set")
			}
		})
	}
}

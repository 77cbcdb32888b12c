package app

import (
	"encoding/json"
	"hotelbook/internal/bookings/handler"
	"hotelbook/internal/bookings/lock"
	"hotelbook/internal/bookings/repository"
	"hotelbook/internal/bookings/service"
	"hotelbook/internal/bookings/validator"
	"hotelbook/internal/health"
	"hotelbook/internal/notifications"
	"hotelbook/pkg/auth"
	"hotelbook/pkg/config"
	apperrors "hotelbook/pkg/errors"
	"hotelbook/pkg/logger"
	"hotelbook/pkg/model"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestApplication(t *testing.T) (*Application, string) {
	t.Helper()
	log := logger.NewNop()
	cfg := &config.Config{
		Log:                log,
		Port:               "8080",
		RateLimitRequests:  100,
		RateLimitWindow:    time.Minute,
		RequestTimeout:     5 * time.Second,
		IdempotencyTTL:     time.Hour,
		IdempotencyBackend: config.IdempotencyMemory,
		MaxRequestSize:     1 << 20,
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       5 * time.Second,
		IdleTimeout:        time.Minute,
		ShutdownTimeout:    5 * time.Second,
	}

	dispatcher := notifications.NewDispatcher(notifications.NewLogSender(log), notifications.DispatcherConfig{
		Workers:     1,
		QueueSize:   8,
		Timeout:     time.Second,
		MaxAttempts: 1,
	}, log)
	svc := service.NewBookingService(
		repository.NewMemoryBookingRepository(),
		lock.NewMemoryLocker(),
		validator.NewBookingValidator(log),
		dispatcher,
		cfg,
	)
	gate := auth.NewJWTAuthenticator(testSecret)

	a := NewApplication()
	a.OnShutdown("dispatcher", dispatcher)
	a.SetApp(cfg, health.NewHealthHandler(log), gate, handler.NewBookingHandler(svc, gate, log))
	t.Cleanup(func() {
		a.idempotencyStore.Stop()
		a.rateLimiter.Stop()
	})

	token, err := auth.NewTokenIssuer(testSecret, time.Hour).Issue("staff-1", auth.RoleStaff, "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return a, token
}

func serve(a *Application, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	return rec
}

func TestApplication_UniformErrors(t *testing.T) {
	a, token := newTestApplication(t)

	tests := []struct {
		name       string
		req        func() *http.Request
		wantStatus int
	}{
		{
			name:       "unknown route",
			req:        func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/nothing", nil) },
			wantStatus: http.StatusNotFound,
		},
		{
			name: "method not allowed",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodDelete, "/api/hotels/HOTEL_001/bookings", nil)
			},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name: "non json body",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/api/hotels/HOTEL_001/bookings", strings.NewReader("guest=Asha"))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				r.Header.Set("Authorization", "Bearer "+token)
				return r
			},
			wantStatus: http.StatusUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(a, tt.req())
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body apperrors.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid error body %q: %v", rec.Body.String(), err)
			}
			if body.Status != tt.wantStatus || body.Error != http.StatusText(tt.wantStatus) || body.Timestamp.IsZero() {
				t.Errorf("error body = %+v", body)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("missing request id header")
			}
		})
	}
}

func TestApplication_IdempotentCreate(t *testing.T) {
	a, token := newTestApplication(t)
	body := `{"guestName":"Asha","guestEmail":"asha@example.com","startDate":"2025-12-10","endDate":"2025-12-12"}`

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/hotels/HOTEL_001/bookings", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Idempotency-Key", "retry-1")
		return serve(a, req)
	}

	first, second := post(), post()
	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("statuses = %d, %d; want 201 twice", first.Code, second.Code)
	}

	var b1, b2 model.Booking
	_ = json.Unmarshal(first.Body.Bytes(), &b1)
	_ = json.Unmarshal(second.Body.Bytes(), &b2)
	if b1.ID == "" || b1.ID != b2.ID {
		t.Errorf("replayed booking id = %q, want %q", b2.ID, b1.ID)
	}

	list := serve(a, httptest.NewRequest(http.MethodGet, "/api/hotels/HOTEL_001/bookings", nil))
	var bookings []model.Booking
	if err := json.Unmarshal(list.Body.Bytes(), &bookings); err != nil {
		t.Fatalf("invalid list body: %v", err)
	}
	if len(bookings) != 1 {
		t.Errorf("bookings = %d, want 1", len(bookings))
	}
}

func TestApplication_Health(t *testing.T) {
	a, _ := newTestApplication(t)

	for _, path := range []string{"/health", "/ready"} {
		rec := serve(a, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}

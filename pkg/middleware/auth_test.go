package middleware

import (
	"hotelbook/pkg/auth"
	"hotelbook/pkg/logger"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestAuthenticated(t *testing.T) {
	issuer := auth.NewTokenIssuer(testSecret, time.Hour)
	staff, err := issuer.Issue("staff-1", auth.RoleStaff, "staff@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	guest, err := issuer.Issue("user-1", auth.RoleUser, "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	foreign, err := auth.NewTokenIssuer("ffffffffffffffffffffffffffffffff", time.Hour).Issue("staff-1", auth.RoleStaff, "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	var got auth.Principal
	protect := Authenticated(auth.NewJWTAuthenticator(testSecret), logger.NewNop(), auth.RoleStaff, auth.RoleReception)
	router := httprouter.New()
	router.POST("/api/hotels/:hotelId/bookings", protect(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params, p auth.Principal) {
		got = p
		w.WriteHeader(http.StatusCreated)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"staff allowed", "Bearer " + staff, http.StatusCreated},
		{"lowercase scheme", "bearer " + staff, http.StatusCreated},
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"wrong role", "Bearer " + guest, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = auth.Principal{}
			req := httptest.NewRequest(http.MethodPost, "/api/hotels/HOTEL_001/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusCreated && got.Subject != "staff-1" {
				t.Errorf("principal = %+v", got)
			}
			if tt.wantStatus != http.StatusCreated {
				if body := decodeError(t, rec); body.Path != "/api/hotels/HOTEL_001/bookings" {
					t.Errorf("path = %q", body.Path)
				}
			}
		})
	}
}

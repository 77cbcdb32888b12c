//go:build integration

package integrationtests

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"hotelbook/pkg/auth"
	"hotelbook/pkg/client"
	"hotelbook/pkg/model"
	"hotelbook/test/integration/testutil"

	"github.com/google/uuid"
)

const hotelID = "HOTEL_001"

func newRequest(guest, start, end string) *model.BookingRequest {
	s := model.MustParseDate(start)
	e := model.MustParseDate(end)
	return &model.BookingRequest{
		GuestName:  guest,
		GuestEmail: "guest@example.com",
		StartDate:  &s,
		EndDate:    &e,
	}
}

func setup(t *testing.T) (*testutil.TestEnv, *testutil.MongoHelper, *client.HttpClient) {
	t.Helper()
	env := testutil.NewTestEnv()
	mongo, anonymous := env.Setup(t)
	t.Cleanup(func() { env.Cleanup(t, mongo) })
	return env, mongo, anonymous
}

func TestCreateThenConflict(t *testing.T) {
	env, mongo, anonymous := setup(t)
	staff := env.ClientAs(t, "staff-1", auth.RoleStaff)
	ctx := context.Background()

	booking, err := staff.CreateBooking(ctx, hotelID, newRequest("Asha", "2025-12-10", "2025-12-12"), "")
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if booking.ID == "" || booking.CreatedBy != "staff-1" {
		t.Errorf("booking = %+v", booking)
	}

	_, err = staff.CreateBooking(ctx, hotelID, newRequest("Ben", "2025-12-11", "2025-12-13"), "")
	if client.StatusOf(err) != http.StatusConflict {
		t.Fatalf("overlapping booking: err = %v, want 409", err)
	}

	// Check-out day is free for the next guest.
	if _, err := staff.CreateBooking(ctx, hotelID, newRequest("Cleo", "2025-12-12", "2025-12-14"), ""); err != nil {
		t.Fatalf("adjacent booking failed: %v", err)
	}

	bookings, err := anonymous.ListBookings(ctx, hotelID)
	if err != nil {
		t.Fatalf("ListBookings() error = %v", err)
	}
	if len(bookings) != 2 || bookings[0].GuestName != "Asha" || bookings[1].GuestName != "Cleo" {
		t.Errorf("bookings = %+v", bookings)
	}
	if got := mongo.CountBookings(t, hotelID); got != 2 {
		t.Errorf("stored bookings = %d, want 2", got)
	}
}

func TestConcurrentOverlappingRequests(t *testing.T) {
	env, mongo, _ := setup(t)
	staff := env.ClientAs(t, "staff-1", auth.RoleStaff)

	const attempts = 10
	var wg sync.WaitGroup
	statuses := make(chan int, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := staff.CreateBooking(context.Background(), hotelID, newRequest("Asha", "2026-02-01", "2026-02-05"), "")
			if err != nil {
				statuses <- client.StatusOf(err)
				return
			}
			statuses <- http.StatusCreated
		}()
	}
	wg.Wait()
	close(statuses)

	created, conflicts := 0, 0
	for status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		default:
			t.Errorf("unexpected status %d", status)
		}
	}
	if created != 1 || conflicts != attempts-1 {
		t.Errorf("created = %d, conflicts = %d", created, conflicts)
	}
	if got := mongo.CountBookings(t, hotelID); got != 1 {
		t.Errorf("stored bookings = %d, want 1", got)
	}
}

func TestIdempotentRetry(t *testing.T) {
	env, mongo, _ := setup(t)
	staff := env.ClientAs(t, "staff-1", auth.RoleStaff)
	ctx := context.Background()
	req := newRequest("Asha", "2026-03-01", "2026-03-03")
	key := uuid.NewString()

	first, err := staff.CreateBooking(ctx, hotelID, req, key)
	if err != nil {
		t.Fatalf("first attempt failed: %v", err)
	}
	second, err := staff.CreateBooking(ctx, hotelID, req, key)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("retry returned %s, want %s", second.ID, first.ID)
	}
	if got := mongo.CountBookings(t, hotelID); got != 1 {
		t.Errorf("stored bookings = %d, want 1", got)
	}
}

func TestCreateRejections(t *testing.T) {
	env, _, anonymous := setup(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		caller *client.HttpClient
		req    *model.BookingRequest
		want   int
	}{
		{"no token", anonymous, newRequest("Asha", "2026-04-01", "2026-04-02"), http.StatusUnauthorized},
		{"guest role", env.ClientAs(t, "user-1", auth.RoleUser), newRequest("Asha", "2026-04-01", "2026-04-02"), http.StatusForbidden},
		{"end before start", env.ClientAs(t, "staff-1", auth.RoleStaff), newRequest("Asha", "2026-04-05", "2026-04-01"), http.StatusBadRequest},
		{"zero nights", env.ClientAs(t, "staff-1", auth.RoleStaff), newRequest("Asha", "2026-04-05", "2026-04-05"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.caller.CreateBooking(ctx, hotelID, tt.req, "")
			if client.StatusOf(err) != tt.want {
				t.Errorf("err = %v, want status %d", err, tt.want)
			}
		})
	}
}

func TestMalformedBody(t *testing.T) {
	env, _, _ := setup(t)
	staff := env.ClientAs(t, "staff-1", auth.RoleStaff)

	resp, err := staff.Do(context.Background(), http.MethodPost, "/api/hotels/"+hotelID+"/bookings", []byte(`{"guestName":`), nil)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400. Body: %s", resp.StatusCode, resp.Body)
	}

	var apiErr client.APIError
	if err := resp.DecodeJSON(&apiErr); err != nil {
		t.Fatalf("error payload is not JSON: %v", err)
	}
	if apiErr.Path != "/api/hotels/"+hotelID+"/bookings" || apiErr.Timestamp == "" {
		t.Errorf("error payload = %+v", apiErr)
	}
}

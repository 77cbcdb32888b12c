package repository

import (
	"context"
	"hotelbook/pkg/model"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryBookingRepository struct {
	mu       sync.RWMutex
	bookings []model.Booking
}

// NewMemoryBookingRepository returns a process-local store with the same
// ordering and overlap semantics as the Mongo store.
func NewMemoryBookingRepository() BookingRepository {
	return &memoryBookingRepository{}
}

func (r *memoryBookingRepository) ListByHotel(ctx context.Context, hotelID string) ([]*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Booking, 0)
	for i := range r.bookings {
		if r.bookings[i].HotelID == hotelID {
			b := r.bookings[i]
			result = append(result, &b)
		}
	}
	sortByStartDate(result)
	return result, nil
}

func (r *memoryBookingRepository) FindOverlapping(ctx context.Context, hotelID string, start, end model.Date) ([]*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Booking, 0)
	for i := range r.bookings {
		if r.bookings[i].HotelID == hotelID && r.bookings[i].Overlaps(start, end) {
			b := r.bookings[i]
			result = append(result, &b)
		}
	}
	sortByStartDate(result)
	return result, nil
}

func (r *memoryBookingRepository) Save(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	saved := *booking
	saved.ID = uuid.NewString()

	r.mu.Lock()
	r.bookings = append(r.bookings, saved)
	r.mu.Unlock()

	return &saved, nil
}

func sortByStartDate(bookings []*model.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].StartDate.Before(bookings[j].StartDate)
	})
}

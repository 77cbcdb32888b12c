package notifications

import (
	"hotelbook/pkg/model"
	"time"
)

const (
	EventBookingCreated = "booking.created"
	EventSchemaVersion  = "1"
	EventSource         = "hotelbook-bookings"
)

// BookingCreatedEvent is the payload published to message brokers.
type BookingCreatedEvent struct {
	BookingID  string     `json:"bookingId"`
	HotelID    string     `json:"hotelId"`
	CreatedBy  string     `json:"createdBy"`
	GuestName  string     `json:"guestName"`
	GuestEmail string     `json:"guestEmail"`
	StartDate  model.Date `json:"startDate"`
	EndDate    model.Date `json:"endDate"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func NewBookingCreatedEvent(b *model.Booking) BookingCreatedEvent {
	return BookingCreatedEvent{
		BookingID:  b.ID,
		HotelID:    b.HotelID,
		CreatedBy:  b.CreatedBy,
		GuestName:  b.GuestName,
		GuestEmail: b.GuestEmail,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		CreatedAt:  b.CreatedAt,
	}
}

func (e BookingCreatedEvent) Booking() *model.Booking {
	return &model.Booking{
		ID:         e.BookingID,
		HotelID:    e.HotelID,
		CreatedBy:  e.CreatedBy,
		GuestName:  e.GuestName,
		GuestEmail: e.GuestEmail,
		StartDate:  e.StartDate,
		EndDate:    e.EndDate,
		CreatedAt:  e.CreatedAt,
	}
}

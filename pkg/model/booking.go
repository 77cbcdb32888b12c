package model

import (
	"time"
)

type Booking struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	HotelID    string    `json:"hotelId" bson:"hotel_id"`
	CreatedBy  string    `json:"createdBy" bson:"created_by"`
	GuestName  string    `json:"guestName" bson:"guest_name"`
	GuestEmail string    `json:"guestEmail" bson:"guest_email"`
	StartDate  Date      `json:"startDate" bson:"start_date"`
	EndDate    Date      `json:"endDate" bson:"end_date"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
}

// Overlaps reports whether b and the half-open range [start, end) share at least one night.
func (b *Booking) Overlaps(start, end Date) bool {
	return Overlaps(b.StartDate, b.EndDate, start, end)
}

// Overlaps reports whether [start1, end1) and [start2, end2) intersect.
// Adjacent ranges, where one ends on the day the other starts, do not.
func Overlaps(start1, end1, start2, end2 Date) bool {
	return start1.Before(end2) && start2.Before(end1)
}

type BookingRequest struct {
	GuestName  string `json:"guestName" validate:"required,max=200"`
	GuestEmail string `json:"guestEmail" validate:"required,email,max=254"`
	StartDate  *Date  `json:"startDate" validate:"required"`
	EndDate    *Date  `json:"endDate" validate:"required"`
}

// Package notifications delivers best-effort "booking created" notices off
// the request path. Failures are logged and never reach the booking caller.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"hotelbook/pkg/model"
)

var ErrDelivery = errors.New("booking notification delivery failed")

// Notifier accepts a committed booking for asynchronous delivery.
// Notify must not block and never reports failure to the caller.
type Notifier interface {
	Notify(booking *model.Booking)
}

// Sender performs one delivery attempt over a concrete transport.
type Sender interface {
	Name() string
	Send(ctx context.Context, booking *model.Booking) error
}

type NotificationError struct {
	BookingID string
	Sender    string
	Attempts  int
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("%v: booking %s via %s after %d attempt(s): %v", ErrDelivery, e.BookingID, e.Sender, e.Attempts, e.Err)
}

func (e *NotificationError) Unwrap() []error {
	return []error{ErrDelivery, e.Err}
}

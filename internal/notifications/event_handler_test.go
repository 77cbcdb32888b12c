package notifications

import (
	"context"
	"errors"
	"hotelbook/pkg/kafka"
	"hotelbook/pkg/logger"
	"hotelbook/pkg/model"
	"testing"
)

func bookingMessage(t *testing.T, eventType string, value any) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().
		WithKey("HOTEL_001").
		WithValue(value).
		WithEventType(eventType).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return msg
}

func TestBookingEventHandler(t *testing.T) {
	booking := testBooking("b-1")

	t.Run("delivers", func(t *testing.T) {
		sender := &mockSender{}
		handle := NewBookingEventHandler(sender, logger.NewNop())

		if err := handle(context.Background(), bookingMessage(t, EventBookingCreated, NewBookingCreatedEvent(booking))); err != nil {
			t.Fatalf("handler error = %v", err)
		}
		if got := sender.delivered(); len(got) != 1 || got[0] != "b-1" {
			t.Errorf("delivered = %v", got)
		}
	})

	t.Run("foreign event is permanent", func(t *testing.T) {
		handle := NewBookingEventHandler(&mockSender{}, logger.NewNop())
		err := handle(context.Background(), bookingMessage(t, "booking.cancelled", NewBookingCreatedEvent(booking)))
		if kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
			t.Errorf("error = %v, want permanent", err)
		}
	})

	t.Run("missing ids is permanent", func(t *testing.T) {
		handle := NewBookingEventHandler(&mockSender{}, logger.NewNop())
		err := handle(context.Background(), bookingMessage(t, EventBookingCreated, map[string]string{"guestName": "Asha"}))
		if kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
			t.Errorf("error = %v, want permanent", err)
		}
	})

	t.Run("send failure is retried", func(t *testing.T) {
		boom := errors.New("smtp down")
		sender := &mockSender{SendFunc: func(context.Context, *model.Booking) error { return boom }}
		handle := NewBookingEventHandler(sender, logger.NewNop())

		err := handle(context.Background(), bookingMessage(t, EventBookingCreated, NewBookingCreatedEvent(booking)))
		if kafka.ClassifyError(err) != kafka.ErrorTypeTransient {
			t.Errorf("error = %v, want transient", err)
		}
		if !errors.Is(err, ErrDelivery) || !errors.Is(err, boom) {
			t.Errorf("error = %v, want ErrDelivery wrapping the cause", err)
		}
	})
}

package notifications

import (
	"context"
	"fmt"
	"hotelbook/pkg/kafka"
	"hotelbook/pkg/logger"
)

// NewBookingEventHandler delivers booking.created events consumed from
// Kafka through sender. Undecodable or foreign events are permanent
// failures and go to the dead-letter topic; delivery failures are retried.
func NewBookingEventHandler(sender Sender, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		if eventType := msg.GetEventType(); eventType != "" && eventType != EventBookingCreated {
			return kafka.NewPermanentError(fmt.Sprintf("unexpected event type %q", eventType), nil)
		}

		var event BookingCreatedEvent
		if err := msg.DecodeValue(&event); err != nil {
			return kafka.NewPermanentError("decode booking event", err)
		}
		if event.BookingID == "" || event.HotelID == "" {
			return kafka.NewPermanentError("booking event is missing ids", nil)
		}

		if err := sender.Send(ctx, event.Booking()); err != nil {
			return kafka.NewTransientError("deliver booking notification", &NotificationError{
				BookingID: event.BookingID,
				Sender:    sender.Name(),
				Attempts:  msg.GetRetryCount() + 1,
				Err:       err,
			})
		}

		log.Info("Booking notification delivered",
			"booking_id", event.BookingID,
			"hotel_id", event.HotelID,
			"transport", sender.Name(),
		)
		return nil
	}
}

package notifications

import (
	"context"
	"fmt"
	"hotelbook/pkg/kafka"
	"hotelbook/pkg/model"
)

type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaSender publishes a booking.created event keyed by hotel, so events
// of one hotel stay ordered within a partition.
type KafkaSender struct {
	producer publisher
}

func NewKafkaSender(producer *kafka.Producer) *KafkaSender {
	return &KafkaSender{producer: producer}
}

func (s *KafkaSender) Name() string { return "kafka" }

func (s *KafkaSender) Send(ctx context.Context, b *model.Booking) error {
	msg, err := kafka.NewMessage().
		WithKey(b.HotelID).
		WithValue(NewBookingCreatedEvent(b)).
		WithEventType(EventBookingCreated).
		WithSchemaVersion(EventSchemaVersion).
		WithSource(EventSource).
		WithCorrelationID(b.ID).
		Build()
	if err != nil {
		return fmt.Errorf("build booking event: %w", err)
	}
	return s.producer.Publish(ctx, msg)
}

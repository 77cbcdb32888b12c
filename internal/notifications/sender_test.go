package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"hotelbook/pkg/kafka"
	"hotelbook/pkg/logger"
	"strings"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

func TestFormatEmail(t *testing.T) {
	subject, body := FormatEmail(testBooking("b1"))

	if subject != "New Booking Created" {
		t.Errorf("subject = %q", subject)
	}
	want := "New booking created.\n\nHotel ID: HOTEL_001\nGuest Name: Asha\nGuest Email: asha@example.com\nBooked By (Staff ID): staff-1\nDates: 2025-12-10 -> 2025-12-12"
	if body != want {
		t.Errorf("body =\n%s\nwant\n%s", body, want)
	}
}

func TestLogSender(t *testing.T) {
	if err := NewLogSender(logger.NewNop()).Send(context.Background(), testBooking("b1")); err != nil {
		t.Errorf("Send() error = %v", err)
	}
}

type fakePublisher struct {
	msgs []kafka.Message
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, msg kafka.Message) error {
	p.msgs = append(p.msgs, msg)
	return p.err
}

func TestKafkaSender_Send(t *testing.T) {
	pub := &fakePublisher{}
	s := &KafkaSender{producer: pub}

	if err := s.Send(context.Background(), testBooking("b1")); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(pub.msgs) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.msgs))
	}

	msg := pub.msgs[0]
	if msg.Key != "HOTEL_001" {
		t.Errorf("key = %q, want hotel id", msg.Key)
	}
	if msg.GetEventType() != EventBookingCreated {
		t.Errorf("event type = %q", msg.GetEventType())
	}

	var event BookingCreatedEvent
	if err := msg.DecodeValue(&event); err != nil {
		t.Fatalf("DecodeValue() error = %v", err)
	}
	if event.BookingID != "b1" || event.StartDate.String() != "2025-12-10" {
		t.Errorf("event = %+v", event)
	}
	if got := event.Booking(); got.GuestEmail != "asha@example.com" {
		t.Errorf("event.Booking() = %+v", got)
	}
}

func TestKafkaSender_PropagatesPublishError(t *testing.T) {
	boom := errors.New("broker down")
	s := &KafkaSender{producer: &fakePublisher{err: boom}}

	if err := s.Send(context.Background(), testBooking("b1")); !errors.Is(err, boom) {
		t.Errorf("Send() error = %v, want %v", err, boom)
	}
}

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	err       error
	closed    bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestAMQPSender_Send(t *testing.T) {
	ch := &fakeChannel{}
	dials := 0
	s := &AMQPSender{queue: "booking.created", dial: func(url, queue string) (amqpChannel, func() error, error) {
		dials++
		return ch, func() error { return nil }, nil
	}}

	for i := 0; i < 2; i++ {
		if err := s.Send(context.Background(), testBooking("b1")); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
	}

	if dials != 1 {
		t.Errorf("dialed %d times, want channel reuse", dials)
	}
	if len(ch.published) != 2 || ch.keys[0] != "booking.created" {
		t.Fatalf("published = %d to %v", len(ch.published), ch.keys)
	}
	pub := ch.published[0]
	if pub.DeliveryMode != amqp.Persistent || pub.ContentType != "application/json" {
		t.Errorf("publishing = %+v", pub)
	}
	var event BookingCreatedEvent
	if err := json.Unmarshal(pub.Body, &event); err != nil || event.HotelID != "HOTEL_001" {
		t.Errorf("body = %s, err = %v", pub.Body, err)
	}
}

func TestAMQPSender_ReconnectsAfterFailure(t *testing.T) {
	broken := &fakeChannel{err: errors.New("channel closed")}
	healthy := &fakeChannel{}
	channels := []*fakeChannel{broken, healthy}
	s := &AMQPSender{queue: "q", dial: func(url, queue string) (amqpChannel, func() error, error) {
		ch := channels[0]
		channels = channels[1:]
		return ch, func() error { return nil }, nil
	}}

	if err := s.Send(context.Background(), testBooking("b1")); err == nil || !strings.Contains(err.Error(), "channel closed") {
		t.Fatalf("first Send() error = %v", err)
	}
	if !broken.closed {
		t.Error("broken channel not closed")
	}
	if err := s.Send(context.Background(), testBooking("b1")); err != nil {
		t.Fatalf("second Send() error = %v", err)
	}
	if len(healthy.published) != 1 {
		t.Error("second Send() did not use a fresh channel")
	}
}

func TestAMQPSender_DialError(t *testing.T) {
	s := &AMQPSender{queue: "q", dial: func(url, queue string) (amqpChannel, func() error, error) {
		return nil, nil, errors.New("dial refused")
	}}
	if err := s.Send(context.Background(), testBooking("b1")); err == nil {
		t.Error("Send() should fail when dial fails")
	}
}

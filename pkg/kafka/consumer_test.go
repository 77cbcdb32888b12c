package kafka

import (
	"context"
	"errors"
	"hotelbook/pkg/logger"
	"testing"
)

func newTestConsumer(handler MessageHandler, dlq messageWriter) *Consumer {
	return &Consumer{
		dlqWriter:  dlq,
		topic:      "booking.created",
		groupID:    "hotelbook-notifier",
		maxRetries: 2,
		handler:    handler,
		log:        logger.NewNop(),
	}
}

func TestConsumer_ProcessSuccess(t *testing.T) {
	calls := 0
	c := newTestConsumer(func(ctx context.Context, msg Message) error {
		calls++
		return nil
	}, nil)

	if err := c.process(context.Background(), Message{Headers: map[string]string{}}); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
}

func TestConsumer_ProcessRetriesTransientThenDeadLetters(t *testing.T) {
	calls := 0
	dlq := &fakeWriter{}
	c := newTestConsumer(func(ctx context.Context, msg Message) error {
		calls++
		return NewTransientError("smtp unavailable", nil)
	}, dlq)

	err := c.process(context.Background(), Message{Key: "HOTEL_001", Headers: map[string]string{}})
	if err == nil {
		t.Fatal("process() should return the handler error")
	}
	if calls != 3 {
		t.Errorf("handler called %d times, want 3 (1 + 2 retries)", calls)
	}
	if len(dlq.messages) != 1 {
		t.Fatalf("dead-lettered %d messages, want 1", len(dlq.messages))
	}
	if got := header(dlq.messages[0], HeaderDLQGroup); got != "hotelbook-notifier" {
		t.Errorf("dlq group header = %q", got)
	}
	if got := header(dlq.messages[0], HeaderRetryCount); got != "2" {
		t.Errorf("retry-count header = %q, want 2", got)
	}
}

func TestConsumer_ProcessPermanentSkipsRetry(t *testing.T) {
	calls := 0
	c := newTestConsumer(func(ctx context.Context, msg Message) error {
		calls++
		return NewPermanentError("bad payload", errors.New("json"))
	}, nil)

	if err := c.process(context.Background(), Message{Headers: map[string]string{}}); err == nil {
		t.Fatal("process() should fail")
	}
	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
}

func TestConsumer_MiddlewareOrder(t *testing.T) {
	var order []string
	c := newTestConsumer(func(ctx context.Context, msg Message) error {
		order = append(order, "handler")
		return nil
	}, nil)
	c.Use(func(ctx context.Context, msg Message, next MessageHandler) error {
		order = append(order, "first")
		return next(ctx, msg)
	})
	c.Use(func(ctx context.Context, msg Message, next MessageHandler) error {
		order = append(order, "second")
		return next(ctx, msg)
	})

	_ = c.process(context.Background(), Message{Headers: map[string]string{}})

	want := []string{"first", "second", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

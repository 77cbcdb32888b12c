package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"hotelbook/pkg/model"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type amqpDialer func(url, queue string) (amqpChannel, func() error, error)

// AMQPSender publishes to a durable queue on the default exchange. The
// channel is opened on first use and reopened after a failed publish.
type AMQPSender struct {
	url   string
	queue string
	dial  amqpDialer

	mu        sync.Mutex
	channel   amqpChannel
	closeConn func() error
}

func NewAMQPSender(url, queue string) *AMQPSender {
	return &AMQPSender{url: url, queue: queue, dial: dialAMQP}
}

func dialAMQP(url, queue string) (amqpChannel, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("amqp queue declare %s: %w", queue, err)
	}
	return ch, conn.Close, nil
}

func (s *AMQPSender) Name() string { return "amqp" }

func (s *AMQPSender) Send(ctx context.Context, b *model.Booking) error {
	body, err := json.Marshal(NewBookingCreatedEvent(b))
	if err != nil {
		return fmt.Errorf("encode booking event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.channel == nil {
		ch, closeConn, err := s.dial(s.url, s.queue)
		if err != nil {
			return err
		}
		s.channel, s.closeConn = ch, closeConn
	}

	err = s.channel.PublishWithContext(ctx, "", s.queue, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     uuid.NewString(),
		CorrelationId: b.ID,
		Type:          EventBookingCreated,
		AppId:         EventSource,
		Timestamp:     time.Now().UTC(),
		Body:          body,
	})
	if err != nil {
		s.resetLocked()
		return fmt.Errorf("amqp publish to %s: %w", s.queue, err)
	}
	return nil
}

func (s *AMQPSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetLocked()
}

func (s *AMQPSender) resetLocked() error {
	var err error
	if s.channel != nil {
		err = s.channel.Close()
	}
	if s.closeConn != nil {
		if cerr := s.closeConn(); err == nil {
			err = cerr
		}
	}
	s.channel, s.closeConn = nil, nil
	return err
}

package notifications

import (
	"context"
	"fmt"
	"hotelbook/pkg/logger"
	"hotelbook/pkg/model"
	"sync"
	"time"
)

type DispatcherConfig struct {
	Workers     int
	QueueSize   int
	Timeout     time.Duration
	MaxAttempts int
	// Backoff is multiplied by the attempt number between retries.
	Backoff time.Duration
}

// Dispatcher queues bookings and delivers them from a fixed worker pool.
// A full queue drops the notification rather than blocking the request.
type Dispatcher struct {
	sender Sender
	cfg    DispatcherConfig
	log    *logger.Logger

	queue  chan model.Booking
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender, cfg DispatcherConfig, log *logger.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	d := &Dispatcher{
		sender: sender,
		cfg:    cfg,
		log:    log.With("component", "notifications", "sender", sender.Name()),
		queue:  make(chan model.Booking, cfg.QueueSize),
	}

	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.worker()
	}
	return d
}

func (d *Dispatcher) Notify(booking *model.Booking) {
	if booking == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("Notification dropped, dispatcher stopped", "booking_id", booking.ID)
		return
	}

	select {
	case d.queue <- *booking:
	default:
		d.log.Warn("Notification dropped, queue full", "booking_id", booking.ID, "queue_size", d.cfg.QueueSize)
	}
}

// Stop refuses new notifications and waits for queued ones to be delivered
// or for ctx to end.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.log.Info("Notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("notification dispatcher stop: %w", ctx.Err())
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for booking := range d.queue {
		d.deliver(&booking)
	}
}

func (d *Dispatcher) deliver(booking *model.Booking) {
	var err error
	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		if err = d.sendOnce(booking); err == nil {
			d.log.Info("Booking notification delivered", "booking_id", booking.ID, "hotel_id", booking.HotelID, "attempt", attempt)
			return
		}
		if attempt < d.cfg.MaxAttempts && d.cfg.Backoff > 0 {
			time.Sleep(d.cfg.Backoff * time.Duration(attempt))
		}
	}

	nerr := &NotificationError{
		BookingID: booking.ID,
		Sender:    d.sender.Name(),
		Attempts:  d.cfg.MaxAttempts,
		Err:       err,
	}
	d.log.Error("Booking notification failed", "booking_id", booking.ID, "hotel_id", booking.HotelID, "error", nerr)
}

func (d *Dispatcher) sendOnce(booking *model.Booking) (err error) {
	ctx := context.Background()
	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sender panic: %v", r)
		}
	}()

	return d.sender.Send(ctx, booking)
}

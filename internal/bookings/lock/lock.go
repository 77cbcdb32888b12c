// Package lock serializes booking creation per hotel so that the overlap
// check and the insert run as one critical section.
package lock

import (
	"context"
	"fmt"
	bookingserrors "hotelbook/internal/bookings/errors"
	"time"
)

const (
	minBackoff = 5 * time.Millisecond
	maxBackoff = 200 * time.Millisecond
)

// Unlock releases a held lock. Calling it more than once is a no-op.
type Unlock func()

type Locker interface {
	// Lock blocks until the hotel's lock is held or ctx is done. Work done
	// under the lock must use the returned context: it is canceled by
	// Unlock and, for leased backends, reaches its deadline before the
	// lease can expire and be taken over by another holder.
	Lock(ctx context.Context, hotelID string) (context.Context, Unlock, error)
}

// leaseContext bounds ctx by a lease of ttl taken at acquiredAt, minus a
// tenth of the lease as margin for clock drift and the release round trip.
func leaseContext(ctx context.Context, acquiredAt time.Time, ttl time.Duration) (context.Context, context.CancelFunc) {
	return context.WithDeadline(ctx, acquiredAt.Add(ttl-ttl/10))
}

func lockKey(hotelID string) string {
	return "hotel_lock_" + hotelID
}

// acquireWithBackoff calls try until it reports success, returns an error,
// or ctx ends. Waits between attempts double up to maxBackoff.
func acquireWithBackoff(ctx context.Context, hotelID string, try func(context.Context) (bool, error)) error {
	backoff := minBackoff
	for {
		ok, err := try(ctx)
		if err != nil {
			return fmt.Errorf("%w: hotel %s: %w", bookingserrors.ErrLockUnavailable, hotelID, err)
		}
		if ok {
			return nil
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: hotel %s: %w", bookingserrors.ErrLockUnavailable, hotelID, ctx.Err())
		case <-timer.C:
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

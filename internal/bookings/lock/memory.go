package lock

import (
	"context"
	"fmt"
	bookingserrors "hotelbook/internal/bookings/errors"
	"sync"
)

type memoryEntry struct {
	held chan struct{}
	refs int
}

// MemoryLocker holds one mutex per hotel inside the current process.
// Entries are dropped once no goroutine holds or waits on them.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*memoryEntry
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*memoryEntry)}
}

// Lock never expires on its own, so the returned context only ends with
// ctx or Unlock.
func (l *MemoryLocker) Lock(ctx context.Context, hotelID string) (context.Context, Unlock, error) {
	entry := l.acquireEntry(hotelID)

	select {
	case entry.held <- struct{}{}:
	case <-ctx.Done():
		l.releaseEntry(hotelID, entry)
		return nil, nil, fmt.Errorf("%w: hotel %s: %w", bookingserrors.ErrLockUnavailable, hotelID, ctx.Err())
	}

	heldCtx, cancel := context.WithCancel(ctx)
	var once sync.Once
	return heldCtx, func() {
		once.Do(func() {
			cancel()
			<-entry.held
			l.releaseEntry(hotelID, entry)
		})
	}, nil
}

func (l *MemoryLocker) acquireEntry(hotelID string) *memoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.locks[hotelID]
	if !ok {
		entry = &memoryEntry{held: make(chan struct{}, 1)}
		l.locks[hotelID] = entry
	}
	entry.refs++
	return entry
}

func (l *MemoryLocker) releaseEntry(hotelID string, entry *memoryEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, hotelID)
	}
}

func (l *MemoryLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

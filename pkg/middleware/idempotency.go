package middleware

import (
	"bytes"
	"context"
	apperrors "hotelbook/pkg/errors"
	"net/http"
	"sync"
	"time"
)

const (
	DefaultIdempotencyHeader = "Idempotency-Key"

	// pendingTTL caps how long a request that never finished (a crashed
	// replica) keeps its key reserved.
	pendingTTL          = time.Minute
	pendingPollInterval = 25 * time.Millisecond
)

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*CachedResponse, bool)
	Set(ctx context.Context, key string, response *CachedResponse)
	// Reserve marks key as in flight. It returns false while another
	// request holds the reservation or a response is already stored.
	Reserve(ctx context.Context, key string) bool
	// Release drops a reservation that will not produce a stored response.
	Release(ctx context.Context, key string)
	Stop() // Stop cleanup goroutines and release resources
}

type CachedResponse struct {
	StatusCode int         `json:"status_code"`
	Headers    http.Header `json:"headers"`
	Body       []byte      `json:"body"`
	CreatedAt  time.Time   `json:"created_at"`
}

type InMemoryIdempotencyStore struct {
	mu       sync.RWMutex
	store    map[string]*CachedResponse
	pending  map[string]time.Time // key -> reservation expiry
	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		store:   make(map[string]*CachedResponse),
		pending: make(map[string]time.Time),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go store.cleanup()

	return store
}

func (s *InMemoryIdempotencyStore) Get(_ context.Context, key string) (*CachedResponse, bool) {
	s.mu.RLock()
	response, exists := s.store[key]
	s.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Since(response.CreatedAt) > s.ttl {
		s.mu.Lock()
		delete(s.store, key)
		s.mu.Unlock()
		return nil, false
	}

	return response, true
}

func (s *InMemoryIdempotencyStore) Set(_ context.Context, key string, response *CachedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	response.CreatedAt = time.Now()
	s.store[key] = response
	delete(s.pending, key)
}

func (s *InMemoryIdempotencyStore) Reserve(_ context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if response, exists := s.store[key]; exists && now.Sub(response.CreatedAt) <= s.ttl {
		return false
	}
	if expiry, held := s.pending[key]; held && now.Before(expiry) {
		return false
	}
	s.pending[key] = now.Add(pendingTTL)
	return true
}

func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.pending, key)
	s.mu.Unlock()
}

func (s *InMemoryIdempotencyStore) cleanup() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			for key, response := range s.store {
				if time.Since(response.CreatedAt) > s.ttl {
					delete(s.store, key)
				}
			}
			now := time.Now()
			for key, expiry := range s.pending {
				if now.After(expiry) {
					delete(s.pending, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *InMemoryIdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

type responseCapture struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (rc *responseCapture) WriteHeader(statusCode int) {
	rc.statusCode = statusCode
	rc.ResponseWriter.WriteHeader(statusCode)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}

// Idempotency replays the first successful response for a repeated key.
// Keys are scoped to the method, path and Authorization header so two
// callers cannot read each other's responses. A key is reserved before the
// handler runs; a duplicate arriving meanwhile waits for the first response
// and is answered with 409 if its context ends first.
func Idempotency(store IdempotencyStore, headerName string) func(http.Handler) http.Handler {
	if headerName == "" {
		headerName = DefaultIdempotencyHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := idempotencyKey(r, headerName)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			for {
				if cached, found := store.Get(ctx, key); found {
					replayCachedResponse(w, cached)
					return
				}
				if store.Reserve(ctx, key) {
					break
				}
				select {
				case <-ctx.Done():
					_ = apperrors.WriteError(w, r, apperrors.Conflict("A request with this Idempotency-Key is still in progress").WithCause(ctx.Err()))
					return
				case <-time.After(pendingPollInterval):
				}
			}

			// Outlives the request so a timed-out handler still frees its key.
			storeCtx := context.WithoutCancel(ctx)
			stored := false
			defer func() {
				if !stored {
					store.Release(storeCtx, key)
				}
			}()

			// The first request may have finished between Get and Reserve.
			if cached, found := store.Get(ctx, key); found {
				replayCachedResponse(w, cached)
				return
			}

			capture := &responseCapture{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				body:           &bytes.Buffer{},
			}
			next.ServeHTTP(capture, r)

			if capture.statusCode >= 200 && capture.statusCode < 300 {
				store.Set(storeCtx, key, &CachedResponse{
					StatusCode: capture.statusCode,
					Headers:    w.Header().Clone(),
					Body:       capture.body.Bytes(),
				})
				stored = true
			}
		})
	}
}

func idempotencyKey(r *http.Request, headerName string) string {
	raw := r.Header.Get(headerName)
	if raw == "" || r.Method == http.MethodGet || r.Method == http.MethodHead {
		return ""
	}
	return r.Method + " " + r.URL.Path + " " + r.Header.Get("Authorization") + " " + raw
}

func replayCachedResponse(w http.ResponseWriter, cached *CachedResponse) {
	for key, values := range cached.Headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(cached.StatusCode)
	_, _ = w.Write(cached.Body)
}

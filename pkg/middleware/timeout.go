package middleware

import (
	"bytes"
	"context"
	apperrors "hotelbook/pkg/errors"
	"net/http"
	"sync"
	"time"
)

// timeoutWriter buffers the handler's response so nothing reaches the client
// once the deadline has fired.
type timeoutWriter struct {
	mu         sync.Mutex
	header     http.Header
	body       bytes.Buffer
	statusCode int
	timedOut   bool
	written    bool
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.header
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut || tw.written {
		return
	}
	tw.statusCode = code
	tw.written = true
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.written {
		tw.statusCode = http.StatusOK
		tw.written = true
	}
	return tw.body.Write(b)
}

func (tw *timeoutWriter) flushTo(w http.ResponseWriter) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	dst := w.Header()
	for key, values := range tw.header {
		dst[key] = values
	}
	if !tw.written {
		tw.statusCode = http.StatusOK
	}
	w.WriteHeader(tw.statusCode)
	_, _ = w.Write(tw.body.Bytes())
}

func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)
			tw := &timeoutWriter{header: make(http.Header)}

			done := make(chan struct{})
			panicked := make(chan any, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case p := <-panicked:
				panic(p)
			case <-done:
				tw.flushTo(w)
			case <-ctx.Done():
				tw.mu.Lock()
				tw.timedOut = true
				tw.mu.Unlock()
				_ = apperrors.WriteError(w, r, apperrors.Timeout("Request timed out"))
			}
		})
	}
}

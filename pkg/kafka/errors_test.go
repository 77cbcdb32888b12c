package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"explicit transient", NewTransientError("smtp down", errors.New("x")), ErrorTypeTransient},
		{"explicit permanent", NewPermanentError("bad payload", errors.New("x")), ErrorTypePermanent},
		{"wrapped transient", fmt.Errorf("deliver: %w", NewTransientError("smtp down", nil)), ErrorTypeTransient},
		{"deadline", fmt.Errorf("send: %w", context.DeadlineExceeded), ErrorTypeTransient},
		{"connection refused", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"broker leader election", fmt.Errorf("write: %w", kafkago.LeaderNotAvailable), ErrorTypeTransient},
		{"broker timeout", kafkago.RequestTimedOut, ErrorTypeTransient},
		{"oversized message", fmt.Errorf("write: %w", kafkago.MessageSizeTooLarge), ErrorTypePermanent},
		{"unknown", errors.New("something odd"), ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := NewTransientError("down", nil)

	if !ShouldRetry(transient, 0, 3) {
		t.Error("transient error on first attempt should retry")
	}
	if ShouldRetry(transient, 3, 3) {
		t.Error("retry budget exhausted should not retry")
	}
	if ShouldRetry(errors.New("bad"), 0, 3) {
		t.Error("permanent error should not retry")
	}
	if ShouldRetry(nil, 0, 3) {
		t.Error("nil error should not retry")
	}
}

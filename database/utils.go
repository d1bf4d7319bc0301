package database

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup by key matches no document
var ErrNotFound = errors.New("not found")

// ContextWithTimeout creates a context with timeout and cancel function
func ContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Common timeout durations for database operations
const (
	// ShortTimeout for single-document reads and writes
	ShortTimeout = 5 * time.Second

	// MediumTimeout for queries returning many documents
	MediumTimeout = 10 * time.Second

	// LongTimeout for bulk writes and aggregations
	LongTimeout = 30 * time.Second
)

// WithShortTimeout creates a context with ShortTimeout (5 seconds)
func WithShortTimeout() (context.Context, context.CancelFunc) {
	return ContextWithTimeout(ShortTimeout)
}

// WithMediumTimeout creates a context with MediumTimeout (10 seconds)
func WithMediumTimeout() (context.Context, context.CancelFunc) {
	return ContextWithTimeout(MediumTimeout)
}

// WithLongTimeout creates a context with LongTimeout (30 seconds)
func WithLongTimeout() (context.Context, context.CancelFunc) {
	return ContextWithTimeout(LongTimeout)
}

// boundedContext narrows ctx to at most timeout, keeping the caller's
// cancellation and any earlier deadline.
func boundedContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

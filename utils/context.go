package utils

import (
	"context"
	"time"
)

const (
	// DefaultTimeout bounds a single repository call or blob delete.
	DefaultTimeout = 10 * time.Second
	// LongTimeout covers image uploads and the sentence export.
	LongTimeout = 30 * time.Second
	// ShortTimeout covers rate limiter round trips to Redis.
	ShortTimeout = 2 * time.Second
)

func WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, DefaultTimeout)
}

func WithLongTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, LongTimeout)
}

func WithShortTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, ShortTimeout)
}

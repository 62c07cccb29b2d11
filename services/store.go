package services

import (
	"context"
	"time"
)

// KVStore is the slice of the key-value store the rate limiter and the price
// cache depend on. RedisService implements it; tests substitute an in-memory
// fake.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error

	// IncrementWithExpiry atomically increments the counter at key and, when
	// the increment creates the key, sets its expiry in the same store-side
	// operation. Returns the post-increment count.
	IncrementWithExpiry(ctx context.Context, key string, expiration time.Duration) (int64, error)
}

// ListStore is the list slice used by the chat history service.
type ListStore interface {
	ListRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// ListAppendTrim appends values to the list at key and trims it to the
	// last keep entries in one round trip.
	ListAppendTrim(ctx context.Context, key string, keep int64, values ...interface{}) error
}

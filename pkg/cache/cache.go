package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache: key not found")

// Service defines cache operations. Values are opaque byte payloads; use
// GetTyped/SetTyped for JSON round-trips.
type Service interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// GetTyped retrieves a key and unmarshals the JSON payload into T.
func GetTyped[T any](ctx context.Context, c Service, key string) (T, error) {
	var obj T
	b, err := c.Get(ctx, key)
	if err != nil {
		return obj, err
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return obj, err
	}
	return obj, nil
}

// SetTyped marshals value to JSON and stores it under key.
func SetTyped(ctx context.Context, c Service, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, b, ttl)
}

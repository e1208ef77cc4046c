// Package cache stores small JSON values with a TTL. Reads are best effort:
// callers treat any error as a miss.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get decodes the value stored at key into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

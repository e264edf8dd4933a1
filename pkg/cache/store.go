// Package cache provides the bounded response cache used by the answer
// pipeline. Entries carry a TTL; when the store is full the oldest insert
// is evicted regardless of remaining lifetime.
package cache

import (
	"context"
	"crypto/md5"
	"fmt"
	"strings"
	"time"
)

type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Len() int
}

// Key builds a deterministic cache key from a prefix and its arguments.
func Key(prefix string, args ...string) string {
	raw := prefix + ":" + strings.Join(args, "|")
	return fmt.Sprintf("%x", md5.Sum([]byte(raw)))
}

package cache

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// Store is a TTL key-value store backing fetch memoization. Implementations
// must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key builds a cache key from an operation id and its argument tuple.
// The unit separator keeps distinct argument lists from colliding.
func Key(op string, args ...string) string {
	if len(args) == 0 {
		return op
	}
	return op + "\x1f" + strings.Join(args, "\x1f")
}

// GetOrFetch returns the cached value for key if a live entry exists,
// otherwise invokes fn, stores the result, and returns it. Concurrent
// calls for the same key are coalesced into a single fetch. A failed
// fetch is never cached; the next call invokes fn again.
func GetOrFetch[T any](
	ctx context.Context,
	store Store,
	group *singleflight.Group,
	key string,
	ttl time.Duration,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	var zero T

	if v, ok := lookup[T](ctx, store, key); ok {
		return v, nil
	}

	result, err, _ := group.Do(key, func() (interface{}, error) {
		// A coalesced waiter may arrive after the leader stored the entry.
		if v, ok := lookup[T](ctx, store, key); ok {
			return v, nil
		}

		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(v)
		if err != nil {
			log.Printf("cache marshal error for %q: %v", key, err)
			return v, nil
		}
		if err := store.Set(ctx, key, data, ttl); err != nil {
			log.Printf("cache write error for %q: %v", key, err)
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

func lookup[T any](ctx context.Context, store Store, key string) (T, bool) {
	var zero T
	data, ok, err := store.Get(ctx, key)
	if err != nil {
		log.Printf("cache read error for %q: %v", key, err)
		return zero, false
	}
	if !ok {
		return zero, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("cache decode error for %q: %v", key, err)
		return zero, false
	}
	return v, true
}

package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetJSON reads key from store and unmarshals it into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, store Store, key string, dest any) (bool, error) {
	if store == nil {
		return false, nil
	}
	b, found, err := store.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and stores it under key with ttl.
func SetJSON(ctx context.Context, store Store, key string, v any, ttl time.Duration) error {
	if store == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, b, ttl)
}

// Aside tries the store first; on a miss it calls fetch, which must populate dest,
// then stores dest with ttl. Store errors degrade to a miss and a skipped write.
func Aside(ctx context.Context, store Store, key string, dest any, ttl time.Duration, fetch func() error) error {
	if found, err := GetJSON(ctx, store, key, dest); err == nil && found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = SetJSON(ctx, store, key, dest, ttl)
	return nil
}

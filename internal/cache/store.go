// Package cache provides the key/value store used for weather snapshots and token revocation.
package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented key/value store with per-entry expiry.
// Get reports found=false for absent or expired keys.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const callbackTTL = 24 * time.Hour

// CallbackDedup remembers payment callbacks already processed.
// Key format: mpesa:callback:<checkout_request_id>
type CallbackDedup struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewCallbackDedup wraps any go-redis client. A zero ttl uses 24h.
func NewCallbackDedup(client redis.Cmdable, ttl time.Duration) *CallbackDedup {
	if ttl <= 0 {
		ttl = callbackTTL
	}
	return &CallbackDedup{client: client, ttl: ttl}
}

// FirstSeen atomically records checkoutID and reports whether this call was
// the first to do so.
func (d *CallbackDedup) FirstSeen(ctx context.Context, checkoutID string) (bool, error) {
	ok, err := d.client.SetNX(ctx, key(checkoutID), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return ok, nil
}

func key(checkoutID string) string {
	return "mpesa:callback:" + checkoutID
}

package reservation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-seat-booking/internal/model"
)

// HoldCache mirrors active holds into redis for fast lookup.  The
// mirror is advisory: entries may be missing or stale, and nothing may
// be concluded from a cache hit without re-checking the seat rows.  A
// nil HoldCache is valid and turns every operation into a no-op, so
// callers never branch on redis availability.
type HoldCache struct {
	client *redis.Client
	prefix string
}

// NewHoldCache returns a HoldCache using the given client and key
// prefix, or nil when the client is nil.
func NewHoldCache(client *redis.Client, prefix string) *HoldCache {
	if client == nil {
		return nil
	}
	return &HoldCache{client: client, prefix: prefix}
}

func (c *HoldCache) key(token string) string {
	return c.prefix + ":" + token
}

// Put stores the hold under its token with a TTL matching the hold's
// remaining lifetime, so the mirror entry dies no later than the hold
// itself.
func (c *HoldCache) Put(ctx context.Context, h *model.Hold) error {
	if c == nil {
		return nil
	}
	ttl := time.Until(h.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(h)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(h.Token), payload, ttl).Err()
}

// Get returns the mirrored hold for a token, or nil on a miss.  A miss
// is not a verdict; the caller falls through to the seat rows.
func (c *HoldCache) Get(ctx context.Context, token string) (*model.Hold, error) {
	if c == nil {
		return nil, nil
	}
	payload, err := c.client.Get(ctx, c.key(token)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var h model.Hold
	if err := json.Unmarshal(payload, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Delete drops the mirror entry for a token.
func (c *HoldCache) Delete(ctx context.Context, token string) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(token)).Err()
}

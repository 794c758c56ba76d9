// Package lock provides a best-effort distributed mutex on redis.  It
// coordinates background work across instances so duplicate effort is
// avoided; it is never relied on for correctness, which the database's
// conditional updates already guarantee.
package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock key only if it still carries this
// acquirer's value, so a lock that expired and was re-acquired by
// someone else is never deleted out from under them.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// Mutex acquires named leases via SET NX PX.  Each acquire writes a
// unique value; release is a compare-and-delete on that value.
type Mutex struct {
	client *redis.Client
}

// New returns a Mutex on the given client.
func New(client *redis.Client) *Mutex {
	return &Mutex{client: client}
}

// Acquire attempts to take the named lease for ttl.  When the lease is
// free it returns a release func and true; when another acquirer holds
// it, (nil, false, nil).  The ttl bounds how long a crashed holder can
// block others; release early when done.
func (m *Mutex) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, false, err
	}
	value := hex.EncodeToString(buf)

	ok, err := m.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	release := func(ctx context.Context) error {
		return releaseScript.Run(ctx, m.client, []string{key}, value).Err()
	}
	return release, true, nil
}

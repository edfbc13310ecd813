// Package redis provides the per-event purchase lock. The lock is a
// contention reducer in front of the conditional inventory update, not the
// correctness mechanism: the database update enforces capacity either way.
package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const lockKeyPrefix = "purchase_lock:"

type Lock struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewLock(client *redis.Client, ttl time.Duration) *Lock {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Lock{Client: client, TTL: ttl}
}

// Acquire takes the purchase lock for an event. Returns false when another
// purchase currently holds it. The TTL bounds how long a crashed purchaser
// can block an event.
func (l *Lock) Acquire(ctx context.Context, eventID, ownerID string) (bool, error) {
	return l.Client.SetNX(ctx, lockKeyPrefix+eventID, ownerID, l.TTL).Result()
}

// Release frees the lock only if the caller still owns it; a lock that
// expired and was re-acquired by someone else is left alone.
func (l *Lock) Release(ctx context.Context, eventID, ownerID string) error {
	key := lockKeyPrefix + eventID
	val, err := l.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // already released or expired
	}
	if err != nil {
		return err
	}
	if val == ownerID {
		_, err = l.Client.Del(ctx, key).Result()
		return err
	}
	return nil
}

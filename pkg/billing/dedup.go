package billing

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper tracks provider event IDs across delivery attempts. It guards
// effects that are not naturally idempotent (commission crediting) against
// the provider's at-least-once redelivery.
type Deduper interface {
	// FirstDelivery reports whether this event ID has not been seen before
	// and atomically marks it as seen.
	FirstDelivery(ctx context.Context, eventID string) (bool, error)
}

// dedupTTL bounds how long event IDs are remembered. Providers stop
// redelivering well within this window.
const dedupTTL = 72 * time.Hour

type redisDeduper struct {
	client *redis.Client
	prefix string
}

// NewRedisDeduper returns a Deduper backed by redis SETNX with a TTL.
// Panics if client is nil to fail fast during initialization.
func NewRedisDeduper(client *redis.Client) Deduper {
	if client == nil {
		panic("billing: redis client is required")
	}
	return &redisDeduper{client: client, prefix: "billing:event:"}
}

func (d *redisDeduper) FirstDelivery(ctx context.Context, eventID string) (bool, error) {
	return d.client.SetNX(ctx, d.prefix+eventID, 1, dedupTTL).Result()
}

type memoryDeduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewMemoryDeduper returns an in-process Deduper for tests and local mode.
func NewMemoryDeduper() Deduper {
	return &memoryDeduper{seen: make(map[string]struct{})}
}

func (d *memoryDeduper) FirstDelivery(_ context.Context, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[eventID]; ok {
		return false, nil
	}
	d.seen[eventID] = struct{}{}
	return true, nil
}

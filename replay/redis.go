package replay

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultReferenceTTL = 24 * time.Hour

// RedisGuard shares the consumed-reference set across gateway instances.
// SET NX gives the atomic check-and-insert; the TTL bounds the set's growth,
// sized to comfortably exceed the window in which a reference could
// plausibly be replayed.
type RedisGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisGuard(rdb *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = defaultReferenceTTL
	}
	return &RedisGuard{rdb: rdb, ttl: ttl}
}

// Consume implements Guard.
func (g *RedisGuard) Consume(ctx context.Context, txHash string, leafID uint64, payer string) (bool, error) {
	return g.rdb.SetNX(ctx, key(txHash, leafID, payer), "1", g.ttl).Result()
}

package link

import (
	"context"
	"time"

	"github.com/guaraci/paylink-gateway/internal/db"
	"github.com/redis/go-redis/v9"
)

// Registry tracks issued link identifiers. Callers only depend on this
// interface so a durable backing store can be swapped in without touching
// the issue/submit paths.
type Registry interface {
	Record(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// NullRegistry records nothing and reports every identifier as issued.
// This mirrors the historical behavior of the service: links are not
// tracked between issuance and submission.
type NullRegistry struct{}

func (NullRegistry) Record(ctx context.Context, id string) error         { return nil }
func (NullRegistry) Exists(ctx context.Context, id string) (bool, error) { return true, nil }

// RedisRegistry keeps issued identifiers in Redis under a TTL. Used when
// links.enforce_registry is enabled.
type RedisRegistry struct {
	rds *redis.Client
	ttl time.Duration
}

func NewRedisRegistry(rds *redis.Client, ttl time.Duration) *RedisRegistry {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisRegistry{rds: rds, ttl: ttl}
}

func (r *RedisRegistry) key(id string) string { return db.Key("link", id) }

func (r *RedisRegistry) Record(ctx context.Context, id string) error {
	return r.rds.Set(ctx, r.key(id), 1, r.ttl).Err()
}

func (r *RedisRegistry) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.rds.Exists(ctx, r.key(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

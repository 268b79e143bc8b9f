package persist

import (
	"context"
	"time"

	pkgredis "github.com/velocityparts/storefront/pkg/redis"
)

// snapshotTTL keeps abandoned session state from accumulating forever.
const snapshotTTL = 30 * 24 * time.Hour

// RedisStore persists snapshots in Redis under namespaced keys.
type RedisStore struct {
	client *pkgredis.Client
}

// NewRedisStore wraps an established redis client.
func NewRedisStore(client *pkgredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Save(ctx context.Context, session, name string, data []byte) error {
	return r.client.Set(ctx, r.client.SnapshotKey(session, name), data, snapshotTTL)
}

func (r *RedisStore) Load(ctx context.Context, session, name string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.client.SnapshotKey(session, name))
	if err != nil {
		if pkgredis.IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(value), nil
}

func (r *RedisStore) Delete(ctx context.Context, session, name string) error {
	return r.client.Del(ctx, r.client.SnapshotKey(session, name))
}

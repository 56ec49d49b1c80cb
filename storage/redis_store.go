package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "housing-dashboard:"

// RedisStore shares snapshots between dashboard processes.
// Each snapshot lives under snapshot:<key> with a TTL; source:<path> is a set
// of the snapshot keys taken from that file.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. A zero ttl keeps snapshots forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Ping tests the Redis connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

type redisSnapshot struct {
	Key       string    `json:"key"`
	Source    string    `json:"source"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

func snapshotKey(key string) string  { return redisKeyPrefix + "snapshot:" + key }
func sourceKey(source string) string { return redisKeyPrefix + "source:" + source }

func (r *RedisStore) Load(ctx context.Context, key string) (*Snapshot, error) {
	raw, err := r.client.Get(ctx, snapshotKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get snapshot: %w", err)
	}

	var s redisSnapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("redis: decode snapshot: %w", err)
	}
	return &Snapshot{Key: s.Key, Source: s.Source, Data: s.Data, CreatedAt: s.CreatedAt}, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Snapshot) error {
	raw, err := json.Marshal(redisSnapshot{Key: s.Key, Source: s.Source, Data: s.Data, CreatedAt: s.CreatedAt})
	if err != nil {
		return fmt.Errorf("redis: encode snapshot: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, snapshotKey(s.Key), raw, r.ttl)
	pipe.SAdd(ctx, sourceKey(s.Source), s.Key)
	if r.ttl > 0 {
		pipe.Expire(ctx, sourceKey(s.Source), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: save snapshot: %w", err)
	}
	return nil
}

func (r *RedisStore) DeleteSource(ctx context.Context, source string) error {
	keys, err := r.client.SMembers(ctx, sourceKey(source)).Result()
	if err != nil {
		return fmt.Errorf("redis: list snapshots: %w", err)
	}

	del := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		del = append(del, snapshotKey(k))
	}
	del = append(del, sourceKey(source))

	if err := r.client.Del(ctx, del...).Err(); err != nil {
		return fmt.Errorf("redis: delete snapshots: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

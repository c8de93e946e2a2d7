package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a Redis server, giving every process that
// points at the same server the same session. This is the opt-in answer to
// concurrent clients diverging: a logout in one process is visible to all.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed artifact store. The prefix namespaces
// keys so multiple accounts or applications can share one server; an empty
// prefix defaults to "promptpal:session:".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "promptpal:session:"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

// NewRedisStoreFromURL connects to the Redis server at url and returns a
// store over it.
func NewRedisStoreFromURL(ctx context.Context, url, prefix string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewRedisStore(client, prefix), nil
}

// Set writes an artifact. The Redis TTL mirrors the artifact expiry so stale
// entries disappear server-side even if no client ever reads them again.
func (r *RedisStore) Set(ctx context.Context, key string, art Artifact) error {
	data, err := json.Marshal(art)
	if err != nil {
		return err
	}

	var ttl time.Duration
	if !art.ExpiresAt.IsZero() {
		ttl = time.Until(art.ExpiresAt)
		if ttl <= 0 {
			return r.Delete(ctx, key)
		}
	}

	return r.client.Set(ctx, r.prefix+key, data, ttl).Err()
}

// Get retrieves an artifact by key.
func (r *RedisStore) Get(ctx context.Context, key string) (Artifact, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Artifact{}, ErrNotFound
		}
		return Artifact{}, err
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return Artifact{}, ErrInvalidFormat
	}
	return art, nil
}

// Delete removes an artifact.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

// Close closes the underlying Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ Store = (*RedisStore)(nil)

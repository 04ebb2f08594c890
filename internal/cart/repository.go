package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	pkgredis "github.com/souqhub/storefront/pkg/redis"
)

// Repository persists cart snapshots per session. Load returns (nil, nil)
// when no snapshot exists.
type Repository interface {
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string, raw []byte) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisRepository stores snapshots as JSON strings under a namespaced key
// with a sliding TTL, the server-side analog of browser local storage.
type RedisRepository struct {
	client *pkgredis.Client
	ttl    time.Duration
}

// NewRedisRepository builds the production snapshot store.
func NewRedisRepository(client *pkgredis.Client, ttl time.Duration) (*RedisRepository, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &RedisRepository{client: client, ttl: ttl}, nil
}

func (r *RedisRepository) Load(ctx context.Context, sessionID string) ([]byte, error) {
	raw, err := r.client.Get(ctx, r.client.CartSnapshotKey(sessionID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(raw), nil
}

func (r *RedisRepository) Save(ctx context.Context, sessionID string, raw []byte) error {
	return r.client.Set(ctx, r.client.CartSnapshotKey(sessionID), raw, r.ttl)
}

func (r *RedisRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.client.CartSnapshotKey(sessionID))
}

// MemoryRepository keeps snapshots in process memory. Used by tests and as
// the degraded fallback when Redis is unavailable at startup.
type MemoryRepository struct {
	mu    sync.RWMutex
	snaps map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{snaps: map[string][]byte{}}
}

func (r *MemoryRepository) Load(_ context.Context, sessionID string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	raw, ok := r.snaps[sessionID]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (r *MemoryRepository) Save(_ context.Context, sessionID string, raw []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make([]byte, len(raw))
	copy(stored, raw)
	r.snaps[sessionID] = stored
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.snaps, sessionID)
	return nil
}

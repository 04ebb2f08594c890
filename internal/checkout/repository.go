package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	pkgredis "github.com/souqhub/storefront/pkg/redis"
)

// ReceiptRepository persists order receipts per session. Load returns
// (nil, nil) when no receipt exists.
type ReceiptRepository interface {
	Save(ctx context.Context, receipt *Receipt) error
	Load(ctx context.Context, sessionID, orderID string) (*Receipt, error)
}

// RedisReceiptRepository stores receipts as JSON under a namespaced
// session-scoped key with a bounded TTL.
type RedisReceiptRepository struct {
	client *pkgredis.Client
	ttl    time.Duration
}

// NewRedisReceiptRepository builds the production receipt store.
func NewRedisReceiptRepository(client *pkgredis.Client, ttl time.Duration) (*RedisReceiptRepository, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &RedisReceiptRepository{client: client, ttl: ttl}, nil
}

func (r *RedisReceiptRepository) Save(ctx context.Context, receipt *Receipt) error {
	raw, err := receipt.Encode()
	if err != nil {
		return err
	}
	key := r.client.OrderReceiptKey(receipt.SessionID, receipt.OrderID)
	return r.client.Set(ctx, key, raw, r.ttl)
}

func (r *RedisReceiptRepository) Load(ctx context.Context, sessionID, orderID string) (*Receipt, error) {
	raw, err := r.client.Get(ctx, r.client.OrderReceiptKey(sessionID, orderID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return DecodeReceipt([]byte(raw))
}

// MemoryReceiptRepository keeps receipts in process memory. Used by tests
// and as the degraded fallback when Redis is unavailable at startup.
type MemoryReceiptRepository struct {
	mu       sync.RWMutex
	receipts map[string]*Receipt
}

func NewMemoryReceiptRepository() *MemoryReceiptRepository {
	return &MemoryReceiptRepository{receipts: map[string]*Receipt{}}
}

func (r *MemoryReceiptRepository) Save(_ context.Context, receipt *Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *receipt
	r.receipts[receipt.SessionID+"/"+receipt.OrderID] = &stored
	return nil
}

func (r *MemoryReceiptRepository) Load(_ context.Context, sessionID, orderID string) (*Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	receipt, ok := r.receipts[sessionID+"/"+orderID]
	if !ok {
		return nil, nil
	}
	out := *receipt
	return &out, nil
}

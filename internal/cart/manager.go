package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/souqhub/storefront/pkg/logger"
	"github.com/souqhub/storefront/pkg/metrics"
)

// Manager hands out one Store per session, hydrating it from the snapshot
// repository on first access. It is the only place stores are constructed,
// so all writers for a session share the same lock.
type Manager struct {
	mu      sync.Mutex
	stores  map[string]*Store
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// NewManager builds the session store registry.
func NewManager(repo Repository, logg *logger.Logger, cartMetrics *metrics.CartMetrics) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("cart repository required")
	}
	return &Manager{
		stores:  map[string]*Store{},
		repo:    repo,
		logg:    logg,
		metrics: cartMetrics,
	}, nil
}

// ForSession returns the session's store, loading the persisted snapshot the
// first time the session is seen. A missing, unreadable, or incompatible
// snapshot yields an empty cart; hydration never fails.
func (m *Manager) ForSession(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[sessionID]; ok {
		return store
	}

	store := newStore(sessionID, m.hydrate(ctx, sessionID), m.repo, m.logg, m.metrics)
	m.stores[sessionID] = store
	return store
}

func (m *Manager) hydrate(ctx context.Context, sessionID string) State {
	raw, err := m.repo.Load(ctx, sessionID)
	if err != nil {
		m.warn(ctx, sessionID, "cart snapshot load failed, starting empty", err)
		return State{}
	}
	if raw == nil {
		return State{}
	}

	snap, err := DecodeSnapshot(raw)
	if err != nil {
		m.warn(ctx, sessionID, "cart snapshot unreadable, starting empty", err)
		return State{}
	}
	return snap.state()
}

func (m *Manager) warn(ctx context.Context, sessionID, msg string, err error) {
	if m.logg == nil {
		return
	}
	ctx = m.logg.WithCartSession(ctx, sessionID)
	m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), msg)
}

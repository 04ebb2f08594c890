package cart

import (
	"context"
	"strings"
	"sync"

	pkgerrors "github.com/souqhub/storefront/pkg/errors"
	"github.com/souqhub/storefront/pkg/logger"
	"github.com/souqhub/storefront/pkg/metrics"
)

// ProductRef is the minimal product shape the cart accepts. Anything with an
// id, name and price can be added; the rest is optional display data.
type ProductRef struct {
	ID             string
	Name           string
	Slug           string
	PriceCents     int64
	SalePriceCents *int64
	Image          string
	Vendor         VendorSummary
	MaxQty         int
}

// Store is the single writer for one session's cart. Every mutation runs
// under the lock, applies a pure state transition, and persists the result.
// Reads recompute derived values from the current line collection.
type Store struct {
	mu        sync.Mutex
	sessionID string
	state     State
	repo      Repository
	logg      *logger.Logger
	metrics   *metrics.CartMetrics
}

func newStore(sessionID string, initial State, repo Repository, logg *logger.Logger, cartMetrics *metrics.CartMetrics) *Store {
	return &Store{
		sessionID: sessionID,
		state:     initial,
		repo:      repo,
		logg:      logg,
		metrics:   cartMetrics,
	}
}

// SessionID identifies the session this store belongs to.
func (s *Store) SessionID() string {
	return s.sessionID
}

// AddItem merges the product into the cart under its identity key. A
// quantity below one is normalized to one. The merged quantity is clamped to
// the line's max orderable quantity; UI steppers enforce the same bound but
// the store cannot trust its callers.
func (s *Store) AddItem(ctx context.Context, product ProductRef, quantity int, selectedVariants map[string]string) (LineItem, error) {
	if strings.TrimSpace(product.ID) == "" {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if strings.TrimSpace(product.Name) == "" {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if product.PriceCents <= 0 {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "product price is required")
	}
	if quantity < 1 {
		quantity = 1
	}

	item := LineItem{
		Key:              Key(product.ID, selectedVariants),
		ProductID:        product.ID,
		Name:             product.Name,
		Slug:             product.Slug,
		UnitPriceCents:   product.PriceCents,
		SalePriceCents:   cloneInt64Ptr(product.SalePriceCents),
		Image:            product.Image,
		Quantity:         quantity,
		SelectedVariants: cloneVariants(selectedVariants),
		Vendor:           product.Vendor,
		MaxQty:           product.MaxQty,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = addItem(s.state, item)
	s.persist(ctx)
	s.metrics.IncOperation("add_item")

	for _, line := range s.state.Items {
		if line.Key == item.Key {
			return line, nil
		}
	}
	return item, nil
}

// RemoveItem drops the line with the given key. Unknown keys are a no-op.
func (s *Store) RemoveItem(ctx context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = removeItem(s.state, key)
	s.persist(ctx)
	s.metrics.IncOperation("remove_item")
}

// UpdateQuantity sets the line's quantity directly. A quantity below one
// removes the line; anything above the line's max is clamped.
func (s *Store) UpdateQuantity(ctx context.Context, key string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = setQuantity(s.state, key, quantity)
	s.persist(ctx)
	s.metrics.IncOperation("update_quantity")
}

// Clear empties the line collection and persists the empty state.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = clearItems(s.state)
	s.persist(ctx)
	s.metrics.IncOperation("clear")
}

// SetOpen flips the slide-over flag. The flag is session-local UI state and
// is not persisted.
func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = setOpen(s.state, open)
}

// ToggleOpen inverts the slide-over flag and returns the new value.
func (s *Store) ToggleOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = setOpen(s.state, !s.state.Open)
	return s.state.Open
}

// IsOpen reports the slide-over flag.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Open
}

// LineItems returns a copy of the line collection in insertion order.
func (s *Store) LineItems() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone().Items
}

// DistinctLineCount is the number of distinct lines in the cart.
func (s *Store) DistinctLineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Items)
}

// TotalUnitCount is the sum of quantities across all lines.
func (s *Store) TotalUnitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalUnits(s.state.Items)
}

// MonetaryTotalCents is the sum of effective price times quantity.
func (s *Store) MonetaryTotalCents() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalCents(s.state.Items)
}

// GroupedByVendor partitions the lines by vendor with per-group subtotals.
func (s *Store) GroupedByVendor() []VendorGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return groupByVendor(s.state.clone().Items)
}

// persist writes the snapshot best-effort. On failure the in-memory state
// stays authoritative for the session and the error is surfaced as a
// warning, so a degraded snapshot store never breaks the cart.
func (s *Store) persist(ctx context.Context) {
	if s.repo == nil {
		return
	}
	raw, err := snapshotOf(s.state).Encode()
	if err == nil {
		err = s.repo.Save(ctx, s.sessionID, raw)
	}
	if err != nil {
		s.metrics.IncSaveError()
		if s.logg != nil {
			ctx = s.logg.WithCartSession(ctx, s.sessionID)
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart snapshot write failed, continuing in memory")
		}
	}
}

package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/souqhub/storefront/internal/cart"
	"github.com/souqhub/storefront/pkg/config"
	pkgerrors "github.com/souqhub/storefront/pkg/errors"
	"github.com/souqhub/storefront/pkg/logger"
)

// PlaceOrderInput is the checkout form payload.
type PlaceOrderInput struct {
	Shipping      ShippingAddress
	PaymentMethod string
}

// Service turns a session's cart into a persisted order receipt.
type Service interface {
	PlaceOrder(ctx context.Context, store *cart.Store, input PlaceOrderInput) (*Receipt, error)
	GetOrder(ctx context.Context, sessionID, orderID string) (*Receipt, error)
	ShippingCents(subtotalCents int64) int64
}

type service struct {
	receipts ReceiptRepository
	cfg      config.CheckoutConfig
	currency string
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the checkout service.
func NewService(receipts ReceiptRepository, cfg config.CheckoutConfig, currency string, logg *logger.Logger) (Service, error) {
	if receipts == nil {
		return nil, fmt.Errorf("receipt repository required")
	}
	if currency == "" {
		currency = "AED"
	}
	return &service{
		receipts: receipts,
		cfg:      cfg,
		currency: currency,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// PlaceOrder captures payment for the session's cart and persists a receipt.
// The cart is cleared only once the receipt is durably stored; any earlier
// failure leaves it untouched.
func (s *service) PlaceOrder(ctx context.Context, store *cart.Store, input PlaceOrderInput) (*Receipt, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	input.PaymentMethod = normalizePaymentMethod(input.PaymentMethod)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	items := store.LineItems()
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	subtotal := store.MonetaryTotalCents()
	shipping := s.ShippingCents(subtotal)
	groups := store.GroupedByVendor()

	if err := s.capture(ctx); err != nil {
		return nil, err
	}

	orderID := uuid.New()
	receipt := &Receipt{
		OrderID:       orderID.String(),
		Number:        orderNumber(orderID),
		SessionID:     store.SessionID(),
		Status:        statusFor(input.PaymentMethod),
		PaymentMethod: input.PaymentMethod,
		Currency:      s.currency,
		Shipping:      input.Shipping,
		Items:         items,
		VendorGroups:  groups,
		SubtotalCents: subtotal,
		ShippingCents: shipping,
		TotalCents:    subtotal + shipping,
		PlacedAt:      s.now().UTC(),
	}

	if err := s.receipts.Save(ctx, receipt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store receipt")
	}

	store.Clear(ctx)

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"order_id":    receipt.OrderID,
			"order_no":    receipt.Number,
			"total_cents": receipt.TotalCents,
		})
		s.logg.Info(ctx, "order placed")
	}
	return receipt, nil
}

// GetOrder loads a receipt scoped to the session that placed it.
func (s *service) GetOrder(ctx context.Context, sessionID, orderID string) (*Receipt, error) {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(orderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session and order id are required")
	}
	receipt, err := s.receipts.Load(ctx, sessionID, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load receipt")
	}
	if receipt == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return receipt, nil
}

// ShippingCents applies the flat delivery fee, waived above the free
// shipping threshold.
func (s *service) ShippingCents(subtotalCents int64) int64 {
	if subtotalCents >= s.cfg.FreeShippingThresholdCents {
		return 0
	}
	return s.cfg.ShippingFlatCents
}

// capture stands in for a payment provider call. It honors cancellation so
// an abandoned request never half-places an order.
func (s *service) capture(ctx context.Context) error {
	if s.cfg.CaptureDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.cfg.CaptureDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "payment capture interrupted")
	case <-timer.C:
		return nil
	}
}

func validateInput(input PlaceOrderInput) error {
	details := map[string]string{}
	if strings.TrimSpace(input.Shipping.FullName) == "" {
		details["full_name"] = "is required"
	}
	if strings.TrimSpace(input.Shipping.Phone) == "" {
		details["phone"] = "is required"
	}
	if strings.TrimSpace(input.Shipping.City) == "" {
		details["city"] = "is required"
	}
	if strings.TrimSpace(input.Shipping.Street) == "" {
		details["street"] = "is required"
	}
	if input.PaymentMethod != PaymentCard && input.PaymentMethod != PaymentCashOnDelivery {
		details["payment_method"] = "must be card or cod"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout details").WithDetails(details)
	}
	return nil
}

func normalizePaymentMethod(method string) string {
	method = strings.ToLower(strings.TrimSpace(method))
	if method == "" {
		return PaymentCard
	}
	return method
}

func statusFor(method string) Status {
	if method == PaymentCashOnDelivery {
		return StatusAwaitingDelivery
	}
	return StatusPaid
}

// orderNumber derives a short human-readable reference from the order id.
func orderNumber(id uuid.UUID) string {
	compact := strings.ReplaceAll(id.String(), "-", "")
	return "SO-" + strings.ToUpper(compact[:10])
}

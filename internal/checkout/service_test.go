package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/souqhub/storefront/internal/cart"
	"github.com/souqhub/storefront/pkg/config"
	pkgerrors "github.com/souqhub/storefront/pkg/errors"
)

func testConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		CaptureDelay:               0,
		ReceiptTTL:                 time.Hour,
		ShippingFlatCents:          2500,
		FreeShippingThresholdCents: 20000,
	}
}

func newSessionStore(t *testing.T, sessionID string) *cart.Store {
	t.Helper()
	manager, err := cart.NewManager(cart.NewMemoryRepository(), nil, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return manager.ForSession(context.Background(), sessionID)
}

func shirt() cart.ProductRef {
	return cart.ProductRef{
		ID:         "p1",
		Name:       "Shirt",
		Slug:       "shirt",
		PriceCents: 10000,
		Vendor:     cart.VendorSummary{ID: "v1", Name: "Gulf Fashion", Slug: "gulf-fashion"},
	}
}

func validInput() PlaceOrderInput {
	return PlaceOrderInput{
		Shipping: ShippingAddress{
			FullName: "Sara Ahmed",
			Phone:    "+971501234567",
			City:     "Dubai",
			Street:   "12 Marina Walk",
		},
	}
}

func TestPlaceOrderBuildsReceipt(t *testing.T) {
	ctx := context.Background()
	store := newSessionStore(t, "s1")
	if _, err := store.AddItem(ctx, shirt(), 3, map[string]string{"color": "red"}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	receipts := NewMemoryReceiptRepository()
	service, err := NewService(receipts, testConfig(), "AED", nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	receipt, err := service.PlaceOrder(ctx, store, validInput())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if receipt.SubtotalCents != 30000 {
		t.Fatalf("expected subtotal 30000, got %d", receipt.SubtotalCents)
	}
	if receipt.ShippingCents != 0 {
		t.Fatalf("expected free shipping above threshold, got %d", receipt.ShippingCents)
	}
	if receipt.TotalCents != 30000 {
		t.Fatalf("expected total 30000, got %d", receipt.TotalCents)
	}
	if len(receipt.Items) != 1 || receipt.Items[0].Quantity != 3 {
		t.Fatalf("unexpected items: %+v", receipt.Items)
	}
	if len(receipt.VendorGroups) != 1 || receipt.VendorGroups[0].Vendor.Slug != "gulf-fashion" {
		t.Fatalf("unexpected vendor groups: %+v", receipt.VendorGroups)
	}
	if !strings.HasPrefix(receipt.Number, "SO-") || len(receipt.Number) != 13 {
		t.Fatalf("unexpected order number: %q", receipt.Number)
	}
	if receipt.Status != StatusPaid || receipt.PaymentMethod != PaymentCard {
		t.Fatalf("unexpected status: %s %s", receipt.Status, receipt.PaymentMethod)
	}

	if store.DistinctLineCount() != 0 {
		t.Fatal("expected cart cleared after successful order")
	}

	loaded, err := service.GetOrder(ctx, "s1", receipt.OrderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if loaded.Number != receipt.Number {
		t.Fatalf("expected stored receipt %q, got %q", receipt.Number, loaded.Number)
	}
}

func TestPlaceOrderChargesFlatShippingBelowThreshold(t *testing.T) {
	ctx := context.Background()
	store := newSessionStore(t, "s1")
	product := shirt()
	product.PriceCents = 5000
	if _, err := store.AddItem(ctx, product, 1, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}

	service, err := NewService(NewMemoryReceiptRepository(), testConfig(), "AED", nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	receipt, err := service.PlaceOrder(ctx, store, validInput())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if receipt.ShippingCents != 2500 {
		t.Fatalf("expected flat shipping 2500, got %d", receipt.ShippingCents)
	}
	if receipt.TotalCents != 7500 {
		t.Fatalf("expected total 7500, got %d", receipt.TotalCents)
	}
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	service, err := NewService(NewMemoryReceiptRepository(), testConfig(), "AED", nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = service.PlaceOrder(context.Background(), newSessionStore(t, "s1"), validInput())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPlaceOrderValidatesShippingAddress(t *testing.T) {
	ctx := context.Background()
	store := newSessionStore(t, "s1")
	if _, err := store.AddItem(ctx, shirt(), 1, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}

	service, err := NewService(NewMemoryReceiptRepository(), testConfig(), "AED", nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	input := validInput()
	input.Shipping.FullName = ""
	input.Shipping.Phone = " "
	_, err = service.PlaceOrder(ctx, store, input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	if details["full_name"] == "" || details["phone"] == "" {
		t.Fatalf("expected field details, got %v", details)
	}
	if store.DistinctLineCount() != 1 {
		t.Fatal("expected cart untouched after validation failure")
	}
}

func TestPlaceOrderRejectsUnknownPaymentMethod(t *testing.T) {
	ctx := context.Background()
	store := newSessionStore(t, "s1")
	if _, err := store.AddItem(ctx, shirt(), 1, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}

	service, err := NewService(NewMemoryReceiptRepository(), testConfig(), "AED", nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	input := validInput()
	input.PaymentMethod = "crypto"
	_, err = service.PlaceOrder(ctx, store, input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPlaceOrderCashOnDelivery(t *testing.T) {
	ctx := context.Background()
	store := newSessionStore(t, "s1")
	if _, err := store.AddItem(ctx, shirt(), 1, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}

	service, err := NewService(NewMemoryReceiptRepository(), testConfig(), "AED", nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	input := validInput()
	input.PaymentMethod = PaymentCashOnDelivery
	receipt, err := service.PlaceOrder(ctx, store, input)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if receipt.Status != StatusAwaitingDelivery {
		t.Fatalf("expected awaiting delivery, got %s", receipt.Status)
	}
}

func TestPlaceOrderCanceledDuringCaptureKeepsCart(t *testing.T) {
	store := newSessionStore(t, "s1")
	if _, err := store.AddItem(context.Background(), shirt(), 2, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}

	cfg := testConfig()
	cfg.CaptureDelay = 5 * time.Second
	service, err := NewService(NewMemoryReceiptRepository(), cfg, "AED", nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = service.PlaceOrder(ctx, store, validInput())
	if err == nil {
		t.Fatal("expected error for canceled capture")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded in chain, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("capture did not honor cancellation, took %s", elapsed)
	}
	if store.DistinctLineCount() != 1 {
		t.Fatal("expected cart untouched after interrupted capture")
	}
}

type failingReceiptRepo struct{}

func (failingReceiptRepo) Save(context.Context, *Receipt) error { return errors.New("redis down") }
func (failingReceiptRepo) Load(context.Context, string, string) (*Receipt, error) {
	return nil, errors.New("redis down")
}

func TestPlaceOrderReceiptStoreFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	store := newSessionStore(t, "s1")
	if _, err := store.AddItem(ctx, shirt(), 2, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}

	service, err := NewService(failingReceiptRepo{}, testConfig(), "AED", nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = service.PlaceOrder(ctx, store, validInput())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if store.DistinctLineCount() != 1 {
		t.Fatal("expected cart untouched after receipt store failure")
	}
}

func TestGetOrderNotFound(t *testing.T) {
	service, err := NewService(NewMemoryReceiptRepository(), testConfig(), "AED", nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = service.GetOrder(context.Background(), "s1", "missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

package checkout

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/souqhub/storefront/internal/cart"
)

// Payment methods accepted at checkout.
const (
	PaymentCard           = "card"
	PaymentCashOnDelivery = "cod"
)

// Status of a placed order.
type Status string

const (
	StatusPaid             Status = "paid"
	StatusAwaitingDelivery Status = "awaiting_delivery"
)

// ShippingAddress is the delivery information collected at checkout.
type ShippingAddress struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	City     string `json:"city"`
	Street   string `json:"street"`
	Notes    string `json:"notes,omitempty"`
}

// Receipt is the immutable record of a placed order. Line items and totals
// are frozen at placement time; later catalog changes do not affect it.
type Receipt struct {
	OrderID       string             `json:"order_id"`
	Number        string             `json:"number"`
	SessionID     string             `json:"session_id"`
	Status        Status             `json:"status"`
	PaymentMethod string             `json:"payment_method"`
	Currency      string             `json:"currency"`
	Shipping      ShippingAddress    `json:"shipping"`
	Items         []cart.LineItem    `json:"items"`
	VendorGroups  []cart.VendorGroup `json:"vendor_groups"`
	SubtotalCents int64              `json:"subtotal_cents"`
	ShippingCents int64              `json:"shipping_cents"`
	TotalCents    int64              `json:"total_cents"`
	PlacedAt      time.Time          `json:"placed_at"`
}

// Encode serializes the receipt for the receipt store.
func (r *Receipt) Encode() ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding receipt: %w", err)
	}
	return raw, nil
}

// DecodeReceipt parses a stored receipt payload.
func DecodeReceipt(raw []byte) (*Receipt, error) {
	var receipt Receipt
	if err := json.Unmarshal(raw, &receipt); err != nil {
		return nil, fmt.Errorf("decoding receipt: %w", err)
	}
	return &receipt, nil
}

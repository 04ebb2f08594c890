package cart

import (
	"sort"
	"strings"
)

// DefaultMaxQty bounds a line's quantity when the product does not carry an
// explicit stock limit.
const DefaultMaxQty = 999

// VendorSummary is the slice of vendor data carried on every line item so
// the cart can render vendor groups without a catalog lookup.
type VendorSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// LineItem is one product+variant selection in the cart.
type LineItem struct {
	Key              string            `json:"key"`
	ProductID        string            `json:"product_id"`
	Name             string            `json:"name"`
	Slug             string            `json:"slug,omitempty"`
	UnitPriceCents   int64             `json:"unit_price_cents"`
	SalePriceCents   *int64            `json:"sale_price_cents,omitempty"`
	Image            string            `json:"image,omitempty"`
	Quantity         int               `json:"quantity"`
	SelectedVariants map[string]string `json:"selected_variants,omitempty"`
	Vendor           VendorSummary     `json:"vendor"`
	MaxQty           int               `json:"max_qty,omitempty"`
}

// Key derives the identity of a line item from the product id and the
// canonical variant signature. Variant entries are sorted by attribute name
// so two selections with the same pairs always collapse to the same key.
func Key(productID string, variants map[string]string) string {
	parts := make([]string, 0, len(variants)+1)
	parts = append(parts, strings.TrimSpace(productID))

	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, name+"="+variants[name])
	}
	return strings.Join(parts, "|")
}

// EffectiveUnitPriceCents returns the sale price when one is set, otherwise
// the regular unit price.
func (li LineItem) EffectiveUnitPriceCents() int64 {
	if li.SalePriceCents != nil && *li.SalePriceCents > 0 {
		return *li.SalePriceCents
	}
	return li.UnitPriceCents
}

// LineTotalCents is the effective unit price times quantity.
func (li LineItem) LineTotalCents() int64 {
	return li.EffectiveUnitPriceCents() * int64(li.Quantity)
}

func (li LineItem) maxQty() int {
	if li.MaxQty > 0 {
		return li.MaxQty
	}
	return DefaultMaxQty
}

func clampQty(qty, max int) int {
	if qty > max {
		return max
	}
	return qty
}

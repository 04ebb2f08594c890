package cart

import (
	cartsvc "github.com/souqhub/storefront/internal/cart"
	"github.com/souqhub/storefront/pkg/money"
)

// LineView is one cart line with display-ready prices.
type LineView struct {
	Key              string                `json:"key"`
	ProductID        string                `json:"product_id"`
	Name             string                `json:"name"`
	Slug             string                `json:"slug,omitempty"`
	Image            string                `json:"image,omitempty"`
	Quantity         int                   `json:"quantity"`
	MaxQty           int                   `json:"max_qty,omitempty"`
	UnitPriceCents   int64                 `json:"unit_price_cents"`
	UnitPrice        string                `json:"unit_price"`
	SalePriceCents   *int64                `json:"sale_price_cents,omitempty"`
	SalePrice        *string               `json:"sale_price,omitempty"`
	LineTotalCents   int64                 `json:"line_total_cents"`
	LineTotal        string                `json:"line_total"`
	SelectedVariants map[string]string     `json:"selected_variants,omitempty"`
	Vendor           cartsvc.VendorSummary `json:"vendor"`
}

// VendorGroupView is one vendor's slice of the cart.
type VendorGroupView struct {
	Vendor        cartsvc.VendorSummary `json:"vendor"`
	Items         []LineView            `json:"items"`
	SubtotalCents int64                 `json:"subtotal_cents"`
	Subtotal      string                `json:"subtotal"`
}

// View is the full cart payload. Counts, totals and vendor groups are
// recomputed from the store on every request.
type View struct {
	SessionID     string            `json:"session_id"`
	Items         []LineView        `json:"items"`
	DistinctCount int               `json:"distinct_count"`
	UnitCount     int               `json:"unit_count"`
	SubtotalCents int64             `json:"subtotal_cents"`
	Subtotal      string            `json:"subtotal"`
	VendorGroups  []VendorGroupView `json:"vendor_groups"`
	Open          bool              `json:"open"`
}

func viewOf(store *cartsvc.Store, currency string) View {
	items := store.LineItems()
	subtotal := store.MonetaryTotalCents()

	view := View{
		SessionID:     store.SessionID(),
		Items:         make([]LineView, 0, len(items)),
		DistinctCount: store.DistinctLineCount(),
		UnitCount:     store.TotalUnitCount(),
		SubtotalCents: subtotal,
		Subtotal:      money.FormatPrice(subtotal, currency),
		Open:          store.IsOpen(),
	}
	for _, item := range items {
		view.Items = append(view.Items, lineView(item, currency))
	}

	groups := store.GroupedByVendor()
	view.VendorGroups = make([]VendorGroupView, 0, len(groups))
	for _, group := range groups {
		groupView := VendorGroupView{
			Vendor:        group.Vendor,
			Items:         make([]LineView, 0, len(group.Items)),
			SubtotalCents: group.SubtotalCents,
			Subtotal:      money.FormatPrice(group.SubtotalCents, currency),
		}
		for _, item := range group.Items {
			groupView.Items = append(groupView.Items, lineView(item, currency))
		}
		view.VendorGroups = append(view.VendorGroups, groupView)
	}
	return view
}

func lineView(item cartsvc.LineItem, currency string) LineView {
	view := LineView{
		Key:              item.Key,
		ProductID:        item.ProductID,
		Name:             item.Name,
		Slug:             item.Slug,
		Image:            item.Image,
		Quantity:         item.Quantity,
		MaxQty:           item.MaxQty,
		UnitPriceCents:   item.UnitPriceCents,
		UnitPrice:        money.FormatPrice(item.UnitPriceCents, currency),
		LineTotalCents:   item.LineTotalCents(),
		LineTotal:        money.FormatPrice(item.LineTotalCents(), currency),
		SelectedVariants: item.SelectedVariants,
		Vendor:           item.Vendor,
	}
	if item.SalePriceCents != nil {
		sale := *item.SalePriceCents
		formatted := money.FormatPrice(sale, currency)
		view.SalePriceCents = &sale
		view.SalePrice = &formatted
	}
	return view
}

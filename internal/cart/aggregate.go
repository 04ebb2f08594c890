package cart

// VendorGroup is one vendor's slice of the cart with its own subtotal.
type VendorGroup struct {
	Vendor        VendorSummary
	Items         []LineItem
	SubtotalCents int64
}

// Derived values are recomputed from the line collection on every read so
// they can never drift from the items they summarize.

func totalUnits(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

func totalCents(items []LineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.LineTotalCents()
	}
	return total
}

// groupByVendor partitions the items by vendor id, preserving the order in
// which each vendor first appears in the cart.
func groupByVendor(items []LineItem) []VendorGroup {
	var groups []VendorGroup
	index := map[string]int{}

	for _, item := range items {
		vendorID := item.Vendor.ID
		if vendorID == "" {
			vendorID = "unknown"
		}
		pos, ok := index[vendorID]
		if !ok {
			pos = len(groups)
			index[vendorID] = pos
			groups = append(groups, VendorGroup{Vendor: item.Vendor})
		}
		groups[pos].Items = append(groups[pos].Items, item)
		groups[pos].SubtotalCents += item.LineTotalCents()
	}
	return groups
}

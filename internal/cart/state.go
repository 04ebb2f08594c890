package cart

// State is the cart aggregate: the ordered line item collection plus the
// slide-over visibility flag. Transitions below are pure; persistence and
// locking live in Store.
type State struct {
	Items []LineItem
	Open  bool
}

func (s State) clone() State {
	out := State{Open: s.Open}
	if len(s.Items) == 0 {
		return out
	}
	out.Items = make([]LineItem, len(s.Items))
	copy(out.Items, s.Items)
	for i := range out.Items {
		out.Items[i].SelectedVariants = cloneVariants(out.Items[i].SelectedVariants)
		out.Items[i].SalePriceCents = cloneInt64Ptr(out.Items[i].SalePriceCents)
	}
	return out
}

// addItem merges into an existing line when the identity key matches,
// otherwise appends. Quantity is clamped to the line's max in both paths.
func addItem(s State, item LineItem) State {
	next := s.clone()
	for i := range next.Items {
		if next.Items[i].Key == item.Key {
			merged := next.Items[i].Quantity + item.Quantity
			next.Items[i].Quantity = clampQty(merged, next.Items[i].maxQty())
			return next
		}
	}
	item.Quantity = clampQty(item.Quantity, item.maxQty())
	next.Items = append(next.Items, item)
	return next
}

// removeItem drops the line with the given key. Absent keys are a no-op.
func removeItem(s State, key string) State {
	next := s.clone()
	filtered := next.Items[:0]
	for _, item := range next.Items {
		if item.Key != key {
			filtered = append(filtered, item)
		}
	}
	next.Items = filtered
	return next
}

// setQuantity sets a line's quantity directly. Anything below one removes
// the line; anything above the line's max is clamped.
func setQuantity(s State, key string, qty int) State {
	if qty < 1 {
		return removeItem(s, key)
	}
	next := s.clone()
	for i := range next.Items {
		if next.Items[i].Key == key {
			next.Items[i].Quantity = clampQty(qty, next.Items[i].maxQty())
			break
		}
	}
	return next
}

func clearItems(s State) State {
	return State{Open: s.Open}
}

func setOpen(s State, open bool) State {
	next := s.clone()
	next.Open = open
	return next
}

func cloneVariants(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func cloneInt64Ptr(src *int64) *int64 {
	if src == nil {
		return nil
	}
	val := *src
	return &val
}

package cart

import "testing"

func TestKeyIsOrderIndependent(t *testing.T) {
	a := Key("p1", map[string]string{"color": "red", "size": "m"})
	b := Key("p1", map[string]string{"size": "m", "color": "red"})
	if a != b {
		t.Fatalf("expected identical keys, got %q and %q", a, b)
	}
	if a != "p1|color=red|size=m" {
		t.Fatalf("unexpected canonical form %q", a)
	}
}

func TestKeyDistinguishesSelections(t *testing.T) {
	red := Key("p1", map[string]string{"color": "red"})
	blue := Key("p1", map[string]string{"color": "blue"})
	if red == blue {
		t.Fatal("expected different keys for different variant values")
	}

	bare := Key("p1", nil)
	if bare != "p1" {
		t.Fatalf("expected bare product key, got %q", bare)
	}
	if bare == red {
		t.Fatal("expected variant selection to change the key")
	}
}

func TestEffectiveUnitPricePrefersSalePrice(t *testing.T) {
	sale := int64(80)
	item := LineItem{UnitPriceCents: 100, SalePriceCents: &sale, Quantity: 3}
	if got := item.EffectiveUnitPriceCents(); got != 80 {
		t.Fatalf("expected sale price 80, got %d", got)
	}
	if got := item.LineTotalCents(); got != 240 {
		t.Fatalf("expected line total 240, got %d", got)
	}

	item.SalePriceCents = nil
	if got := item.EffectiveUnitPriceCents(); got != 100 {
		t.Fatalf("expected regular price 100, got %d", got)
	}
}

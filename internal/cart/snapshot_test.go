package cart

import (
	"context"
	"testing"
)

func TestDecodeSnapshotRejectsCorruptPayload(t *testing.T) {
	if _, err := DecodeSnapshot([]byte("{not json")); err == nil {
		t.Fatal("expected error for corrupt payload")
	}
}

func TestDecodeSnapshotRejectsUnknownSchemaVersion(t *testing.T) {
	raw := []byte(`{"schema_version": 99, "items": []}`)
	if _, err := DecodeSnapshot(raw); err == nil {
		t.Fatal("expected error for unknown schema version")
	}
}

func TestCorruptSnapshotHydratesEmptyCart(t *testing.T) {
	repo := NewMemoryRepository()
	if err := repo.Save(context.Background(), "s1", []byte("definitely not json")); err != nil {
		t.Fatalf("seed repo: %v", err)
	}

	store := newTestManager(t, repo).ForSession(context.Background(), "s1")
	if got := store.LineItems(); len(got) != 0 {
		t.Fatalf("expected empty cart from corrupt snapshot, got %d lines", len(got))
	}
}

func TestSnapshotStateDropsInvalidRecordsAndRederivesKeys(t *testing.T) {
	snap := Snapshot{
		SchemaVersion: SchemaVersion,
		Items: []LineItem{
			{Key: "stale-key", ProductID: "p1", Name: "Shirt", UnitPriceCents: 100, Quantity: 2, SelectedVariants: map[string]string{"color": "red"}},
			{ProductID: "", Name: "ghost", UnitPriceCents: 50, Quantity: 1},
			{ProductID: "p2", Name: "Broken", UnitPriceCents: 100, Quantity: 0},
			{ProductID: "p3", Name: "Free", UnitPriceCents: 0, Quantity: 1},
		},
	}

	state := snap.state()
	if len(state.Items) != 1 {
		t.Fatalf("expected one surviving record, got %d", len(state.Items))
	}
	if state.Items[0].Key != Key("p1", map[string]string{"color": "red"}) {
		t.Fatalf("expected rederived key, got %q", state.Items[0].Key)
	}
}

func TestSnapshotRoundTripKeepsOrder(t *testing.T) {
	s := State{Items: []LineItem{
		{Key: "p1", ProductID: "p1", Name: "First", UnitPriceCents: 10, Quantity: 1},
		{Key: "p2", ProductID: "p2", Name: "Second", UnitPriceCents: 20, Quantity: 2},
		{Key: "p3", ProductID: "p3", Name: "Third", UnitPriceCents: 30, Quantity: 3},
	}}

	raw, err := snapshotOf(s).Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	snap, err := DecodeSnapshot(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	restored := snap.state()
	if len(restored.Items) != 3 {
		t.Fatalf("expected three items, got %d", len(restored.Items))
	}
	for i, name := range []string{"First", "Second", "Third"} {
		if restored.Items[i].Name != name {
			t.Fatalf("expected %s at position %d, got %s", name, i, restored.Items[i].Name)
		}
	}
}

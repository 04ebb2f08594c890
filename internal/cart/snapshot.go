package cart

import (
	"encoding/json"
	"fmt"
)

// SchemaVersion is bumped whenever the persisted line item layout changes.
// Loaders treat other versions as corrupt state rather than guessing.
const SchemaVersion = 1

// Snapshot is the durable form of a cart: a versioned JSON document holding
// the full line item collection. The open/closed UI flag is deliberately not
// persisted.
type Snapshot struct {
	SchemaVersion int        `json:"schema_version"`
	Items         []LineItem `json:"items"`
}

func snapshotOf(s State) Snapshot {
	clone := s.clone()
	return Snapshot{
		SchemaVersion: SchemaVersion,
		Items:         clone.Items,
	}
}

// DecodeSnapshot parses raw snapshot bytes. Any schema mismatch is an error
// so callers can fall back to an empty cart.
func DecodeSnapshot(raw []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode cart snapshot: %w", err)
	}
	if snap.SchemaVersion != SchemaVersion {
		return Snapshot{}, fmt.Errorf("unsupported cart snapshot version %d", snap.SchemaVersion)
	}
	return snap, nil
}

// Encode serializes the snapshot for storage.
func (snap Snapshot) Encode() ([]byte, error) {
	return json.Marshal(snap)
}

// state rebuilds in-memory state from a snapshot, re-deriving identity keys
// and dropping records that no longer satisfy the line item invariants.
func (snap Snapshot) state() State {
	s := State{}
	for _, item := range snap.Items {
		if item.ProductID == "" || item.Quantity < 1 || item.UnitPriceCents <= 0 {
			continue
		}
		item.Key = Key(item.ProductID, item.SelectedVariants)
		item.Quantity = clampQty(item.Quantity, item.maxQty())
		s.Items = append(s.Items, item)
	}
	return s
}

package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList stores a string slice as a JSON column so the same model works
// on SQLite and Postgres.
type StringList []string

// Value marshals the list for storage.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("string list: %w", err)
	}
	return string(raw), nil
}

// Scan decodes the stored JSON array.
func (l *StringList) Scan(value any) error {
	raw, ok := toBytes(value)
	if !ok {
		return fmt.Errorf("string list: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, l)
}

// VariantOptions maps a variant attribute name to its selectable values,
// e.g. {"color": ["red", "blue"], "size": ["m", "l"]}.
type VariantOptions map[string][]string

// Value marshals the options for storage.
func (v VariantOptions) Value() (driver.Value, error) {
	if v == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("variant options: %w", err)
	}
	return string(raw), nil
}

// Scan decodes the stored JSON object.
func (v *VariantOptions) Scan(value any) error {
	raw, ok := toBytes(value)
	if !ok {
		return fmt.Errorf("variant options: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*v = nil
		return nil
	}
	return json.Unmarshal(raw, v)
}

// Allows reports whether the selection picks a known value for a known
// attribute.
func (v VariantOptions) Allows(attribute, value string) bool {
	values, ok := v[attribute]
	if !ok {
		return false
	}
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}

func toBytes(value any) ([]byte, bool) {
	switch typed := value.(type) {
	case nil:
		return nil, true
	case []byte:
		return typed, true
	case string:
		return []byte(typed), true
	default:
		return nil, false
	}
}

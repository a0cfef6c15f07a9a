package slots

import (
	"context"
	"encoding/json"
	"fmt"
)

// LoadJSON decodes slot key into dst. It reports false, leaving dst
// untouched, when the slot is absent or empty.
func LoadJSON(ctx context.Context, r Repository, key string, dst any) (bool, error) {
	raw, err := r.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode slot[%s]: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and writes it to slot key.
func SaveJSON(ctx context.Context, r Repository, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode slot[%s]: %w", key, err)
	}
	return r.Set(ctx, key, raw)
}

// LoadList reads a JSON array slot. An absent slot yields an empty slice.
func LoadList[T any](ctx context.Context, r Repository, key string) ([]T, error) {
	var items []T
	if _, err := LoadJSON(ctx, r, key, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

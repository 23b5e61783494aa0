package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed wraps slot content that does not decode into the caller's type.
var ErrMalformed = errors.New("malformed slot")

// ReadJSON decodes the slot at key into v. It returns ErrNotFound for missing
// or blank slots and an ErrMalformed-wrapped error for undecodable content.
// Callers should decode into a fresh value and fall back to their default on
// either sentinel.
func ReadJSON(ctx context.Context, kv Store, key string, v any) error {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		return ErrNotFound
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w %s: %v", ErrMalformed, key, err)
	}
	return nil
}

// WriteJSON replaces the slot at key with the JSON encoding of v.
func WriteJSON(ctx context.Context, kv Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, string(data))
}

// IsAbsent reports whether err means "use the default": the slot is missing
// or its content is malformed.
func IsAbsent(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrMalformed)
}

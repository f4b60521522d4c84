// Package kv provides the key-value backing store the schedule and the
// source catalogs are persisted in. Every value is the direct JSON encoding
// of an in-memory collection, stored under a stable key.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Stable keys of the persisted collections.
const (
	KeyLocations  = "schedule_locations"
	KeyLeaders    = "schedule_leaders"
	KeyGroups     = "schedule_groups"
	KeyActivities = "schedule_activities"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("kv: store closed")

// Store is a flat string-keyed byte store.
type Store interface {
	// Get returns the value for key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LoadJSON decodes the value stored under key into v. It reports whether the
// key was present; v is untouched when it was not.
func LoadJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	data, found, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON stores the JSON encoding of v under key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

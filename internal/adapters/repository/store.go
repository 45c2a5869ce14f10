// Package repository provides the memoizing profile cache. Profile
// aggregation scans potentially tens of thousands of event records and the
// same (entity, kind, window) profile is requested repeatedly within one
// analysis session, so computed profiles are cached; the cache supports
// concurrent readers and an injectable eviction policy.
package repository

import (
	"context"

	"github.com/okian/edgeline/internal/domain/model"
	"github.com/okian/edgeline/internal/domain/types"
)

// Key identifies one cached profile.
type Key struct {
	EntityID  string
	Kind      types.Kind
	WindowKey string
}

// NewKey builds a cache key for (entity, kind, window).
func NewKey(entityID string, kind types.Kind, window model.Window) Key {
	return Key{EntityID: entityID, Kind: kind, WindowKey: window.Key()}
}

// Store provides read/write access to cached profiles.
type Store interface {
	// Get returns the cached profile for key, if present.
	Get(ctx context.Context, key Key) (model.Profile, bool)

	// Put stores a computed profile under key.
	Put(ctx context.Context, key Key, p model.Profile)

	// Len returns the number of cached profiles.
	Len(ctx context.Context) int

	// Purge drops every cached profile. Call it when the underlying event
	// set changes; cached profiles are only valid for the records they were
	// computed from.
	Purge(ctx context.Context)
}

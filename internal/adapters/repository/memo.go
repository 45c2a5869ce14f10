package repository

import (
	"context"

	"github.com/okian/edgeline/internal/domain/model"
	"github.com/okian/edgeline/internal/domain/types"
)

// Builder is the profile computation the memoizer wraps.
type Builder interface {
	Build(ctx context.Context, entityID string, kind types.Kind, records []model.EventRecord, window model.Window) (model.Profile, error)
}

// Memoizer is a build-through cache: on a miss it computes the profile and
// stores it. Builds are pure, so two goroutines racing on the same key at
// worst duplicate one computation; both store the identical result.
type Memoizer struct {
	builder Builder
	store   Store
}

// NewMemoizer wraps builder with store.
func NewMemoizer(builder Builder, store Store) *Memoizer {
	return &Memoizer{builder: builder, store: store}
}

// Build returns the cached profile for (entity, kind, window) or computes
// and caches it.
func (m *Memoizer) Build(ctx context.Context, entityID string, kind types.Kind, records []model.EventRecord, window model.Window) (model.Profile, error) {
	key := NewKey(entityID, kind, window)
	if p, ok := m.store.Get(ctx, key); ok {
		return p, nil
	}

	p, err := m.builder.Build(ctx, entityID, kind, records, window)
	if err != nil {
		return model.Profile{}, err
	}
	m.store.Put(ctx, key, p)
	return p, nil
}

// Purge invalidates every cached profile.
func (m *Memoizer) Purge(ctx context.Context) {
	m.store.Purge(ctx)
}

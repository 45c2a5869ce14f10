// Package profile aggregates raw event records into fixed-shape profiles.
package profile

import (
	"context"

	"github.com/okian/edgeline/internal/domain/model"
	"github.com/okian/edgeline/internal/domain/schema"
	"github.com/okian/edgeline/internal/domain/types"
)

// Builder computes profiles from pre-filtered event records. It performs no
// entity or time filtering itself; callers supply only records that belong to
// the entity and fall inside the window. Builder is pure and safe for
// concurrent use; memoization lives in the repository layer.
type Builder struct {
	registry *schema.Registry
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithRegistry sets the metric-schema registry.
func WithRegistry(r *schema.Registry) Option {
	return func(b *Builder) {
		if r != nil {
			b.registry = r
		}
	}
}

// NewBuilder creates a Builder with the default schema registry.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{registry: schema.New()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build aggregates records into a profile for (entity, kind, window).
//
// An empty record set is not an error: every metric reports its declared
// neutral value and SampleSize is zero, which downstream consumers must treat
// as an insufficient-data signal.
func (b *Builder) Build(ctx context.Context, entityID string, kind types.Kind, records []model.EventRecord, window model.Window) (model.Profile, error) {
	specs, err := b.registry.Specs(kind)
	if err != nil {
		return model.Profile{}, err
	}

	p := model.Profile{
		EntityID:   entityID,
		Kind:       kind,
		Window:     window,
		Metrics:    make(map[string]float64, len(specs)),
		SampleSize: len(records),
	}

	for _, spec := range specs {
		if len(records) == 0 {
			p.Metrics[spec.Name] = spec.Neutral
			continue
		}
		p.Metrics[spec.Name] = aggregate(spec, records)
	}
	return p, nil
}

func aggregate(spec schema.MetricSpec, records []model.EventRecord) float64 {
	switch spec.Aggregate {
	case schema.AggregateMean:
		return mean(spec.Field, records)
	case schema.AggregatePercent:
		return mean(spec.Field, records) * 100
	case schema.AggregateRatio:
		num, den := 0.0, 0.0
		for _, r := range records {
			num += r.Outcomes[spec.NumField]
			den += r.Outcomes[spec.DenField]
		}
		if den == 0 {
			return spec.Neutral
		}
		return num / den
	default:
		return spec.Neutral
	}
}

func mean(field string, records []model.EventRecord) float64 {
	sum := 0.0
	for _, r := range records {
		sum += r.Outcomes[field]
	}
	return sum / float64(len(records))
}

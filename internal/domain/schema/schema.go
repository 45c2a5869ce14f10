// Package schema declares the metric shape of each entity kind: which
// metrics a profile carries, how each is aggregated from event records, and
// the normalization scale used when profiles are compared. One declarative
// table replaces per-sport pipeline copies.
package schema

import (
	"fmt"

	"github.com/okian/edgeline/internal/domain/types"
)

// AggregateKind selects how a metric is derived from event records.
type AggregateKind string

// Supported aggregations.
const (
	// AggregateMean averages Field across records.
	AggregateMean AggregateKind = "mean"
	// AggregatePercent averages a 0/1 indicator Field and expresses it as 0-100.
	AggregatePercent AggregateKind = "percent"
	// AggregateRatio divides the sum of NumField by the sum of DenField.
	AggregateRatio AggregateKind = "ratio"
)

// MetricSpec declares one profile metric.
//
// Scale is the typical real-world spread of the metric; similarity scoring
// divides absolute differences by it before clipping. Neutral is the value an
// empty profile reports. Weight biases similarity scoring (1 = neutral).
type MetricSpec struct {
	Name      string
	Aggregate AggregateKind
	Field     string // source field for mean/percent
	NumField  string // numerator field for ratio
	DenField  string // denominator field for ratio
	Scale     float64
	Neutral   float64
	Weight    float64
}

// Registry maps entity kinds to their ordered metric specs. The order is the
// canonical iteration order everywhere profiles are built or compared, which
// keeps results deterministic.
type Registry struct {
	specs map[types.Kind][]MetricSpec
}

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithKind declares or replaces the metric specs for a kind.
func WithKind(kind types.Kind, specs []MetricSpec) Option {
	return func(r *Registry) {
		r.specs[kind] = normalize(specs)
	}
}

// WithScales overrides per-metric scales, keyed "kind.metric". Unknown keys
// are ignored so a config file can carry scales for kinds that are not
// registered in a given deployment.
func WithScales(scales map[string]float64) Option {
	return func(r *Registry) {
		r.override(scales, func(s *MetricSpec, v float64) {
			if v > 0 {
				s.Scale = v
			}
		})
	}
}

// WithWeights overrides per-metric similarity weights, keyed "kind.metric".
func WithWeights(weights map[string]float64) Option {
	return func(r *Registry) {
		r.override(weights, func(s *MetricSpec, v float64) {
			if v > 0 {
				s.Weight = v
			}
		})
	}
}

func (r *Registry) override(values map[string]float64, apply func(*MetricSpec, float64)) {
	for kind, specs := range r.specs {
		for i := range specs {
			if v, ok := values[string(kind)+"."+specs[i].Name]; ok {
				apply(&specs[i], v)
			}
		}
	}
}

// New builds a registry with the default kind tables, then applies options.
func New(opts ...Option) *Registry {
	r := &Registry{specs: map[types.Kind][]MetricSpec{
		types.KindDefense: normalize(defenseSpecs()),
		types.KindGoalie:  normalize(goalieSpecs()),
		types.KindTeam:    normalize(teamSpecs()),
		types.KindSkater:  normalize(skaterSpecs()),
	}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Specs returns the ordered metric specs for a kind.
func (r *Registry) Specs(kind types.Kind) ([]MetricSpec, error) {
	specs, ok := r.specs[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return specs, nil
}

// Kinds returns every registered kind.
func (r *Registry) Kinds() []types.Kind {
	kinds := make([]types.Kind, 0, len(r.specs))
	for _, k := range []types.Kind{types.KindDefense, types.KindGoalie, types.KindTeam, types.KindSkater} {
		if _, ok := r.specs[k]; ok {
			kinds = append(kinds, k)
		}
	}
	for k := range r.specs {
		if !containsKind(kinds, k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func containsKind(kinds []types.Kind, k types.Kind) bool {
	for _, other := range kinds {
		if other == k {
			return true
		}
	}
	return false
}

func normalize(specs []MetricSpec) []MetricSpec {
	out := make([]MetricSpec, len(specs))
	copy(out, specs)
	for i := range out {
		if out[i].Weight == 0 {
			out[i].Weight = 1
		}
	}
	return out
}

// Default tables. Scales are the typical league spread of each metric; they
// exist to make similarity differences comparable across metrics, not to be
// empirically optimal.

func defenseSpecs() []MetricSpec {
	return []MetricSpec{
		{Name: "sack_rate", Aggregate: AggregatePercent, Field: "sack", Scale: 5.0},
		{Name: "pressure_rate", Aggregate: AggregatePercent, Field: "pressure", Scale: 10.0},
		{Name: "completion_pct_allowed", Aggregate: AggregatePercent, Field: "complete_pass", Scale: 10.0},
		{Name: "air_yards_allowed", Aggregate: AggregateMean, Field: "air_yards", Scale: 3.0},
		{Name: "yards_per_attempt_allowed", Aggregate: AggregateMean, Field: "passing_yards", Scale: 2.0},
	}
}

func goalieSpecs() []MetricSpec {
	return []MetricSpec{
		{Name: "save_pct", Aggregate: AggregateRatio, NumField: "saves", DenField: "shots_against", Scale: 0.03},
		{Name: "xg_save_pct", Aggregate: AggregateRatio, NumField: "expected_saves", DenField: "shots_against", Scale: 0.03},
		{Name: "shots_against_per_game", Aggregate: AggregateMean, Field: "shots_against", Scale: 4.0},
		{Name: "goals_against_per_game", Aggregate: AggregateMean, Field: "goals_against", Scale: 0.8},
	}
}

func teamSpecs() []MetricSpec {
	return []MetricSpec{
		{Name: "pace", Aggregate: AggregateMean, Field: "possessions", Scale: 3.0},
		{Name: "points_for", Aggregate: AggregateMean, Field: "points_for", Scale: 6.0},
		{Name: "points_against", Aggregate: AggregateMean, Field: "points_against", Scale: 6.0},
	}
}

func skaterSpecs() []MetricSpec {
	return []MetricSpec{
		{Name: "points", Aggregate: AggregateMean, Field: "points", Scale: 6.0},
		{Name: "rebounds", Aggregate: AggregateMean, Field: "rebounds", Scale: 2.5},
		{Name: "assists", Aggregate: AggregateMean, Field: "assists", Scale: 2.0},
		{Name: "minutes", Aggregate: AggregateMean, Field: "minutes", Scale: 4.0},
	}
}

// Package similarity ranks same-kind profiles by a weighted, normalized
// distance. The metric is deliberately linear and explainable: a bettor has
// to be able to see why two defenses count as alike.
package similarity

import (
	"fmt"
	"sort"

	"github.com/okian/edgeline/internal/domain/model"
	"github.com/okian/edgeline/internal/domain/schema"
)

// Default query parameters.
const (
	defaultTopN          = 5
	defaultMinSampleSize = 100
)

// Index scores candidate profiles against a target profile.
type Index struct {
	registry      *schema.Registry
	topN          int
	minSampleSize int
}

// Option applies a configuration option to the Index.
type Option func(*Index)

// WithRegistry sets the metric-schema registry.
func WithRegistry(r *schema.Registry) Option {
	return func(i *Index) {
		if r != nil {
			i.registry = r
		}
	}
}

// WithTopN sets how many matches a query returns.
func WithTopN(n int) Option {
	return func(i *Index) {
		if n > 0 {
			i.topN = n
		}
	}
}

// WithMinSampleSize sets the sample-size floor below which candidates are
// excluded from scoring entirely.
func WithMinSampleSize(n int) Option {
	return func(i *Index) {
		if n >= 0 {
			i.minSampleSize = n
		}
	}
}

// NewIndex creates an Index with default parameters.
func NewIndex(opts ...Option) *Index {
	idx := &Index{
		registry:      schema.New(),
		topN:          defaultTopN,
		minSampleSize: defaultMinSampleSize,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// FindSimilar ranks candidates by similarity to target.
//
// Candidates below the minimum sample size are filtered before scoring, not
// scored low: thin profiles would otherwise produce false-positive matches on
// noise. The target itself may appear among the candidates and scores 1.0.
// Ordering is deterministic: similarity desc, then sample size desc, then
// entity id asc.
func (i *Index) FindSimilar(target model.Profile, candidates []model.Profile) (model.SimilarityResult, error) {
	specs, err := i.registry.Specs(target.Kind)
	if err != nil {
		return model.SimilarityResult{}, err
	}

	matches := make([]model.SimilarityMatch, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Kind != target.Kind {
			return model.SimilarityResult{}, fmt.Errorf("%w: target %q vs candidate %q (%s)",
				ErrKindMismatch, target.Kind, cand.Kind, cand.EntityID)
		}
		if cand.SampleSize < i.minSampleSize {
			continue
		}
		matches = append(matches, model.SimilarityMatch{
			EntityID: cand.EntityID,
			Score:    score(specs, target, cand),
			Profile:  cand,
		})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].Score != matches[b].Score {
			return matches[a].Score > matches[b].Score
		}
		if matches[a].Profile.SampleSize != matches[b].Profile.SampleSize {
			return matches[a].Profile.SampleSize > matches[b].Profile.SampleSize
		}
		return matches[a].EntityID < matches[b].EntityID
	})

	if len(matches) > i.topN {
		matches = matches[:i.topN]
	}

	return model.SimilarityResult{
		TargetID: target.EntityID,
		Kind:     target.Kind,
		Matches:  matches,
	}, nil
}

// score computes 1 - weighted mean of per-metric normalized differences,
// each difference clipped to 1.0 so one wild metric cannot dominate.
func score(specs []schema.MetricSpec, target, cand model.Profile) float64 {
	totalWeight := 0.0
	totalDiff := 0.0
	for _, spec := range specs {
		diff := target.Metrics[spec.Name] - cand.Metrics[spec.Name]
		if diff < 0 {
			diff = -diff
		}
		norm := diff / spec.Scale
		if norm > 1 {
			norm = 1
		}
		totalDiff += norm * spec.Weight
		totalWeight += spec.Weight
	}
	if totalWeight == 0 {
		return 0
	}
	s := 1 - totalDiff/totalWeight
	if s < 0 {
		return 0
	}
	return s
}

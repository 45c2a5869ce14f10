package model

import "github.com/okian/edgeline/internal/domain/types"

// Profile is a fixed-shape numeric summary of one entity's historical
// performance over a window. The metric set always matches the schema
// declared for the entity's kind; a SampleSize of zero marks an
// insufficient-data profile, which is valid and must be flagged downstream
// rather than silently replaced.
type Profile struct {
	EntityID   string             `json:"entity_id"`
	Kind       types.Kind         `json:"kind"`
	Window     Window             `json:"window"`
	Metrics    map[string]float64 `json:"metrics"`
	SampleSize int                `json:"sample_size"`
}

// Metric returns the named metric value, or the fallback when the profile
// does not carry it.
func (p Profile) Metric(name string, fallback float64) float64 {
	if v, ok := p.Metrics[name]; ok {
		return v
	}
	return fallback
}

// SimilarityMatch is one candidate entity scored against a query profile.
type SimilarityMatch struct {
	EntityID string  `json:"entity_id"`
	Score    float64 `json:"score"`
	Profile  Profile `json:"profile"`
}

// SimilarityResult is the ranked outcome of one similarity query. It is a
// derived, on-demand view and is never persisted.
type SimilarityResult struct {
	TargetID string            `json:"target_id"`
	Kind     types.Kind        `json:"kind"`
	Matches  []SimilarityMatch `json:"matches"`
}

// EntityIDs returns the matched entity identifiers in rank order.
func (r SimilarityResult) EntityIDs() []string {
	ids := make([]string, len(r.Matches))
	for i, m := range r.Matches {
		ids[i] = m.EntityID
	}
	return ids
}

package model

import "github.com/okian/edgeline/internal/domain/types"

// EdgeResult is the final output of edge validation. Constructed once per
// validation call; immutable afterwards. Warnings and signals keep their
// accumulation order.
type EdgeResult struct {
	HasEdge      bool    `json:"has_mathematical_edge"`
	HitRate      float64 `json:"calculated_hit_rate"`
	RequiredRate float64 `json:"required_hit_rate"`
	EdgePercent  float64 `json:"edge_pct"`

	PublicSide bool `json:"is_public_side"`
	SharpSide  bool `json:"is_sharp_side"`

	Warnings []string `json:"warnings"`
	Signals  []string `json:"signals"`

	Recommendation types.Recommendation `json:"recommendation"`
	Confidence     types.Confidence     `json:"confidence"`
}

package model

import "github.com/okian/edgeline/internal/domain/types"

// AppliedAdjustment is one audit-trail entry: what an adjustment did to the
// running value, in application order.
type AppliedAdjustment struct {
	Name   string               `json:"name"`
	Kind   types.AdjustmentKind `json:"kind"`
	Before float64              `json:"before"`
	After  float64              `json:"after"`
	Delta  float64              `json:"delta"`
}

// Projection is a baseline plus the ordered application of adjustments. The
// trail is a hard requirement: consumers need to see why the number moved.
// Projections are ephemeral, created per analysis request.
type Projection struct {
	Baseline float64             `json:"baseline"`
	Value    float64             `json:"value"`
	Trail    []AppliedAdjustment `json:"trail"`
}

// TotalDelta is the net movement from baseline to final value.
func (p Projection) TotalDelta() float64 { return p.Value - p.Baseline }

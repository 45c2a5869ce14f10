// Package adjust composes a baseline projection with an ordered chain of
// named contextual adjustments, recording an audit trail of every step.
package adjust

import (
	"fmt"

	"github.com/okian/edgeline/internal/domain/model"
	"github.com/okian/edgeline/internal/domain/types"
)

// Adjustment is one named, typed transformation of the running value.
//
// Reference and Strength are only read for RegressToward: the value moves
// Strength of the way toward Reference. Magnitude is only read for Additive
// and Multiplicative.
type Adjustment struct {
	Name      string
	Kind      types.AdjustmentKind
	Magnitude float64
	Reference float64
	Strength  float64
}

// Pipeline applies adjustments in declared order. It is stateless; magnitude
// sourcing (similarity-conditioned averages, weather splits, pace numbers) is
// the caller's job.
type Pipeline struct{}

// NewPipeline creates a Pipeline.
func NewPipeline() *Pipeline { return &Pipeline{} }

// Project applies the adjustments to baseline, strictly in order.
//
// The final value is never clamped: an out-of-range projection is a visible
// signal that the inputs were pathological, not something to correct quietly.
func (p *Pipeline) Project(baseline float64, adjustments []Adjustment) (model.Projection, error) {
	proj := model.Projection{
		Baseline: baseline,
		Value:    baseline,
		Trail:    make([]model.AppliedAdjustment, 0, len(adjustments)),
	}

	seen := make(map[string]struct{}, len(adjustments))
	for _, adj := range adjustments {
		if err := validate(adj); err != nil {
			return model.Projection{}, err
		}
		if _, dup := seen[adj.Name]; dup {
			return model.Projection{}, fmt.Errorf("%w: %q", ErrDuplicateAdjustment, adj.Name)
		}
		seen[adj.Name] = struct{}{}

		before := proj.Value
		proj.Value = apply(adj, before)
		proj.Trail = append(proj.Trail, model.AppliedAdjustment{
			Name:   adj.Name,
			Kind:   adj.Kind,
			Before: before,
			After:  proj.Value,
			Delta:  proj.Value - before,
		})
	}
	return proj, nil
}

func apply(adj Adjustment, value float64) float64 {
	switch adj.Kind {
	case types.Additive:
		return value + adj.Magnitude
	case types.Multiplicative:
		return value * (1 + adj.Magnitude)
	case types.RegressToward:
		return value - (value-adj.Reference)*adj.Strength
	default:
		return value
	}
}

func validate(adj Adjustment) error {
	if adj.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAdjustment)
	}
	switch adj.Kind {
	case types.Additive, types.Multiplicative:
	case types.RegressToward:
		if adj.Strength < 0 || adj.Strength > 1 {
			return fmt.Errorf("%w: %q strength %v outside [0,1]", ErrInvalidAdjustment, adj.Name, adj.Strength)
		}
	default:
		return fmt.Errorf("%w: %q has unknown kind %q", ErrInvalidAdjustment, adj.Name, adj.Kind)
	}
	return nil
}

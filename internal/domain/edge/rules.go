package edge

import "github.com/okian/edgeline/internal/domain/types"

// signals is the condensed view of one validation that the decision table
// matches against.
type signals struct {
	hasEdge    bool
	edgePct    float64
	sampleSize int
	publicSide bool
	sharpSide  bool
}

// rule is one row of the decision table. Rules are evaluated in order and the
// first match wins.
type rule struct {
	name    string
	match   func(s signals) bool
	outcome func(s signals) (types.Recommendation, types.Confidence)
}

// decisionTable builds the priority-ordered ruleset from the validator's
// thresholds. Keeping the rules in one table, rather than nested conditionals
// per sport, is the point: every row is independently testable and the
// priority order is explicit.
func (v *Validator) decisionTable() []rule {
	fixed := func(rec types.Recommendation, conf types.Confidence) func(signals) (types.Recommendation, types.Confidence) {
		return func(signals) (types.Recommendation, types.Confidence) { return rec, conf }
	}

	return []rule{
		{
			name: "sharp_confirmed_edge",
			match: func(s signals) bool {
				return s.sharpSide && s.hasEdge && abs(s.edgePct) >= v.smallEdge && s.sampleSize >= v.lowSampleFloor
			},
			outcome: fixed(types.Bet, types.High),
		},
		{
			name: "strong_edge",
			match: func(s signals) bool {
				return s.hasEdge && abs(s.edgePct) >= v.strongEdge && s.sampleSize >= v.lowSampleFloor
			},
			outcome: func(s signals) (types.Recommendation, types.Confidence) {
				if s.edgePct > v.highEdge {
					return types.Bet, types.High
				}
				return types.Bet, types.Medium
			},
		},
		{
			name: "edge_on_public_side",
			match: func(s signals) bool {
				return s.hasEdge && abs(s.edgePct) >= v.smallEdge && s.publicSide && !s.sharpSide
			},
			outcome: fixed(types.Caution, types.Low),
		},
		{
			name: "small_edge",
			match: func(s signals) bool {
				return s.hasEdge && abs(s.edgePct) >= v.smallEdge
			},
			outcome: fixed(types.Bet, types.Low),
		},
		{
			name: "public_no_edge",
			match: func(s signals) bool {
				return !s.hasEdge && s.publicSide && !s.sharpSide
			},
			outcome: fixed(types.Fade, types.Medium),
		},
		{
			name:  "default_pass",
			match: func(signals) bool { return true },
			outcome: func(s signals) (types.Recommendation, types.Confidence) {
				if s.edgePct < -v.smallEdge {
					return types.Pass, types.Medium
				}
				return types.Pass, types.Low
			},
		},
	}
}

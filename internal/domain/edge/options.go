package edge

import "github.com/okian/edgeline/internal/domain/types"

// Option applies a configuration option to the Validator.
type Option func(*Validator)

// WithPublicThreshold sets the public-money percentage that marks the public side.
func WithPublicThreshold(pct float64) Option {
	return func(v *Validator) {
		if pct > 0 {
			v.publicThreshold = pct
		}
	}
}

// WithSharpThreshold sets the sharp-money percentage that marks the sharp side.
func WithSharpThreshold(pct float64) Option {
	return func(v *Validator) {
		if pct > 0 {
			v.sharpThreshold = pct
		}
	}
}

// WithCLVThreshold sets the closing-line move that confirms sharp action.
func WithCLVThreshold(clv float64) Option {
	return func(v *Validator) {
		if clv > 0 {
			v.clvThreshold = clv
		}
	}
}

// WithLowSampleFloor sets the sample size below which confidence is capped at LOW.
func WithLowSampleFloor(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.lowSampleFloor = n
		}
	}
}

// WithEdgeThresholds sets the small/strong/high edge cutoffs used by the
// decision table.
func WithEdgeThresholds(small, strong, high float64) Option {
	return func(v *Validator) {
		if small > 0 {
			v.smallEdge = small
		}
		if strong > 0 {
			v.strongEdge = strong
		}
		if high > 0 {
			v.highEdge = high
		}
	}
}

// WithHardMinimumSample declares a non-negotiable sample floor: below it,
// Validate fails with ErrInsufficientData instead of returning a warned
// result. Zero disables the check. An unsupplied sample size (zero or
// negative input) is exempt; the floor rejects known-thin samples only.
func WithHardMinimumSample(n int) Option {
	return func(v *Validator) {
		if n >= 0 {
			v.hardMinSample = n
		}
	}
}

// WithSpotRates replaces the spot-type base-rate table.
func WithSpotRates(rates map[types.SpotType]float64) Option {
	return func(v *Validator) {
		if len(rates) > 0 {
			v.spotRates = rates
		}
	}
}

// WithWeatherImpact replaces the weather impact table.
func WithWeatherImpact(impact map[string]float64) Option {
	return func(v *Validator) {
		if len(impact) > 0 {
			v.weatherImpact = impact
		}
	}
}

// WithWeatherTrapThreshold sets the impact magnitude below which a weather
// under draws the narrative-trap warning.
func WithWeatherTrapThreshold(points float64) Option {
	return func(v *Validator) {
		if points > 0 {
			v.weatherTrap = points
		}
	}
}

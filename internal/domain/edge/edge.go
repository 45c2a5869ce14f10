// Package edge converts a posted line and price into a breakeven requirement
// and classifies the gap between projection and market into an actionable
// recommendation. The classification is a single priority-ordered decision
// table rather than per-sport branching.
package edge

import (
	"fmt"

	"github.com/okian/edgeline/internal/domain/model"
	"github.com/okian/edgeline/internal/domain/types"
)

// Default validator thresholds. All overridable through options/config.
const (
	defaultPublicThreshold = 60.0 // % of public money that marks the public side
	defaultSharpThreshold  = 60.0 // % of sharp money that marks the sharp side
	defaultCLVThreshold    = 0.5  // closing-line move that confirms sharp action
	defaultLowSampleFloor  = 10   // below this, confidence is capped at LOW
	defaultSmallEdge       = 5.0  // minimum |edge| worth acting on
	defaultStrongEdge      = 8.0  // edge that justifies a bet without sharp help
	defaultHighEdge        = 15.0 // edge that upgrades confidence to HIGH
	defaultWeatherTrap     = 3.0  // points of impact below which weather is narrative
)

// Input carries the projection side of a validation. Exactly one of HitRate,
// SpotType, or Projection must supply the hit-rate story; they are consulted
// in that order.
type Input struct {
	// HitRate is a directly observed historical hit rate in percent.
	HitRate *float64
	// SpotType selects a historical base rate from the spot-type table.
	SpotType types.SpotType
	// Projection is the engine's projected value for the prop or total.
	Projection *float64
	// IsOver is true when validating the over side of Projection vs line.
	IsOver bool
	// SampleSize is the number of records behind the projection.
	SampleSize int
	// WeatherCondition optionally names the configured weather condition
	// attached to the bet, enabling the narrative-trap check.
	WeatherCondition string
}

// Validator classifies edges. Stateless; safe for concurrent use.
type Validator struct {
	publicThreshold float64
	sharpThreshold  float64
	clvThreshold    float64
	lowSampleFloor  int
	smallEdge       float64
	strongEdge      float64
	highEdge        float64
	hardMinSample   int
	weatherTrap     float64
	spotRates       map[types.SpotType]float64
	weatherImpact   map[string]float64
	rules           []rule
}

// NewValidator creates a Validator with default thresholds.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		publicThreshold: defaultPublicThreshold,
		sharpThreshold:  defaultSharpThreshold,
		clvThreshold:    defaultCLVThreshold,
		lowSampleFloor:  defaultLowSampleFloor,
		smallEdge:       defaultSmallEdge,
		strongEdge:      defaultStrongEdge,
		highEdge:        defaultHighEdge,
		weatherTrap:     defaultWeatherTrap,
		spotRates:       DefaultSpotRates(),
		weatherImpact:   DefaultWeatherImpact(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.rules = v.decisionTable()
	return v
}

// Breakeven converts an American-odds price into the win probability (in
// percent) required to profit at zero expectation. The conversion matches
// sportsbook convention exactly: -110 requires 52.38...%, +150 requires 40%.
func Breakeven(price int) float64 {
	p := float64(price)
	if price < 0 {
		return -p / (-p + 100) * 100
	}
	return 100 / (p + 100) * 100
}

// Validate classifies one side of a bet.
func (v *Validator) Validate(in Input, quote model.MarketQuote) (model.EdgeResult, error) {
	// The hard floor applies only to known-thin samples; SampleSize <= 0
	// means the caller did not supply one.
	if v.hardMinSample > 0 && in.SampleSize > 0 && in.SampleSize < v.hardMinSample {
		return model.EdgeResult{}, fmt.Errorf("%w: sample size %d below hard minimum %d",
			ErrInsufficientData, in.SampleSize, v.hardMinSample)
	}

	hitRate, err := v.hitRate(in, quote)
	if err != nil {
		return model.EdgeResult{}, err
	}

	required := Breakeven(quote.Price)
	edgePct := hitRate - required

	res := model.EdgeResult{
		HitRate:      hitRate,
		RequiredRate: required,
		EdgePercent:  edgePct,
		HasEdge:      edgePct > 0,
		Warnings:     []string{},
		Signals:      []string{},
	}

	v.applySentiment(&res, quote)
	v.applyWarnings(&res, in)

	s := signals{
		hasEdge:    res.HasEdge,
		edgePct:    edgePct,
		sampleSize: in.SampleSize,
		publicSide: res.PublicSide,
		sharpSide:  res.SharpSide,
	}
	for _, r := range v.rules {
		if r.match(s) {
			res.Recommendation, res.Confidence = r.outcome(s)
			break
		}
	}

	// A known-thin sample caps confidence no matter how large the edge
	// looks. SampleSize <= 0 means the caller did not supply one (e.g. a
	// direct market hit rate), which is not the same as a tiny sample.
	if in.SampleSize > 0 && in.SampleSize < v.lowSampleFloor {
		res.Confidence = types.Low
	}
	return res, nil
}

// hitRate resolves the calculated hit rate: a supplied rate wins, then a
// spot-type base rate, then the coarse projection-vs-line heuristic
// (50 + relative edge / 2, clamped to [0,100]). The heuristic is documented
// as coarse on purpose; it is not a calibrated probability model. A zero
// line counts as absent, since the heuristic divides by the line: pick'em
// markets must supply a hit rate or a spot type instead.
func (v *Validator) hitRate(in Input, quote model.MarketQuote) (float64, error) {
	if in.HitRate != nil {
		return *in.HitRate, nil
	}
	if in.SpotType != "" {
		if rate, ok := v.spotRates[in.SpotType]; ok {
			return rate, nil
		}
	}
	if in.Projection == nil || quote.Line == 0 {
		return 0, fmt.Errorf("%w: need a hit rate, a known spot type, or a projection and a non-zero line",
			ErrMissingRequiredInput)
	}

	rel := (*in.Projection - quote.Line) / quote.Line * 100
	if !in.IsOver {
		rel = -rel
	}
	rate := 50 + rel/2
	if rate < 0 {
		rate = 0
	}
	if rate > 100 {
		rate = 100
	}
	return rate, nil
}

// applySentiment sets the public/sharp flags and their signal strings.
func (v *Validator) applySentiment(res *model.EdgeResult, quote model.MarketQuote) {
	publicHigh := quote.PublicPct != nil && *quote.PublicPct > v.publicThreshold
	publicLow := quote.PublicPct != nil && *quote.PublicPct < 100-v.publicThreshold
	sharpHigh := quote.SharpPct != nil && *quote.SharpPct > v.sharpThreshold
	sharpLow := quote.SharpPct != nil && *quote.SharpPct < 100-v.sharpThreshold

	if publicHigh {
		res.PublicSide = true
		res.Warnings = append(res.Warnings, fmt.Sprintf("public side (%.0f%% of bets)", *quote.PublicPct))
	}

	if sharpHigh {
		res.SharpSide = true
		res.Signals = append(res.Signals, fmt.Sprintf("sharp money: %.0f%% of sharp action on this side", *quote.SharpPct))
	}
	if clv, ok := quote.ClosingLineValue(); ok {
		switch {
		case clv > v.clvThreshold:
			res.SharpSide = true
			res.Signals = append(res.Signals, fmt.Sprintf("positive CLV (%+.1f): line moved with this side", clv))
		case clv < -v.clvThreshold:
			res.Warnings = append(res.Warnings, fmt.Sprintf("negative CLV (%+.1f): line moved against this side", clv))
		}
	}

	// Public and sharp money landing on opposite sides outweighs either flag
	// alone.
	switch {
	case publicHigh && sharpLow:
		res.Signals = append(res.Signals, "public/sharp divergence: public heavy, sharps fading")
	case publicLow && sharpHigh:
		res.Signals = append(res.Signals, "public/sharp divergence: public light, sharps loading")
	}
}

// applyWarnings appends the soft, non-fatal caution strings.
func (v *Validator) applyWarnings(res *model.EdgeResult, in Input) {
	if in.SampleSize > 0 && in.SampleSize < v.lowSampleFloor {
		res.Warnings = append(res.Warnings, fmt.Sprintf("small sample (%d games): projection may be unreliable", in.SampleSize))
	}
	if abs(res.EdgePercent) < v.smallEdge {
		res.Warnings = append(res.Warnings, fmt.Sprintf("edge (%+.1f%%) is too small to overcome variance", res.EdgePercent))
	}
	if in.WeatherCondition != "" && !in.IsOver {
		if impact, ok := v.weatherImpact[in.WeatherCondition]; ok && abs(impact) < v.weatherTrap {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("weather under is a narrative trap: %s moves totals only %+.1f points", in.WeatherCondition, impact))
		}
	}
	if res.HitRate < 50 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("hit rate (%.1f%%) is below 50%%", res.HitRate))
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

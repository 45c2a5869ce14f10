package adjust

import "github.com/okian/edgeline/internal/domain/types"

// Named constructors for the contextual factors the analysis layer composes.
// Every magnitude here is an expert-asserted constant carried through from
// configuration; none of them claims an empirical derivation.

// Default factor magnitudes, overridable through configuration.
const (
	// DefaultAltitudeBoost is the passing-volume bump at altitude venues.
	DefaultAltitudeBoost = 0.03
	// DefaultBackToBackPenalty is the expected save-percentage drop when a
	// goalie starts the second game of a back-to-back.
	DefaultBackToBackPenalty = 0.025
	// DefaultLuckRegressionStrength pulls an observed rate partway back
	// toward its shot-quality expectation.
	DefaultLuckRegressionStrength = 0.3
	// DefaultPaceToPoints converts one possession of pace differential into
	// expected total points.
	DefaultPaceToPoints = 2.2
)

// Factors bundles the configured factor constants so callers build the named
// adjustments from configuration instead of re-asserting literals.
type Factors struct {
	AltitudeBoost          float64
	BackToBackPenalty      float64
	LuckRegressionStrength float64
	PaceToPoints           float64
}

// DefaultFactors returns the default factor constants.
func DefaultFactors() Factors {
	return Factors{
		AltitudeBoost:          DefaultAltitudeBoost,
		BackToBackPenalty:      DefaultBackToBackPenalty,
		LuckRegressionStrength: DefaultLuckRegressionStrength,
		PaceToPoints:           DefaultPaceToPoints,
	}
}

// Altitude builds the altitude adjustment from the configured boost.
func (f Factors) Altitude() Adjustment { return Altitude(f.AltitudeBoost) }

// BackToBack builds the back-to-back adjustment from the configured penalty.
func (f Factors) BackToBack() Adjustment { return BackToBack(f.BackToBackPenalty) }

// LuckRegression builds the luck-regression adjustment toward expectedRate
// with the configured strength.
func (f Factors) LuckRegression(expectedRate float64) Adjustment {
	return LuckRegression(expectedRate, f.LuckRegressionStrength)
}

// Pace converts a pace differential with the configured points-per-pace
// factor.
func (f Factors) Pace(paceDiff float64) Adjustment {
	return Pace(paceDiff, f.PaceToPoints)
}

// Altitude is a multiplicative boost for games at an altitude venue.
func Altitude(boost float64) Adjustment {
	return Adjustment{Name: "altitude", Kind: types.Multiplicative, Magnitude: boost}
}

// BackToBack is an additive penalty on a rate metric (e.g. save percentage)
// for the second game of a back-to-back. Penalty is expressed positive and
// applied as a subtraction.
func BackToBack(penalty float64) Adjustment {
	return Adjustment{Name: "back_to_back", Kind: types.Additive, Magnitude: -penalty}
}

// LuckRegression pulls an observed rate toward its expected rate. Used to
// fade goalies running above their xG save percentage and to buy low on the
// ones running below it.
func LuckRegression(expectedRate, strength float64) Adjustment {
	return Adjustment{Name: "luck_regression", Kind: types.RegressToward, Reference: expectedRate, Strength: strength}
}

// Pace converts a pace differential (projected possessions minus league
// average) into an additive total-points adjustment.
func Pace(paceDiff, pointsPerPace float64) Adjustment {
	return Adjustment{Name: "pace", Kind: types.Additive, Magnitude: paceDiff * pointsPerPace}
}

// Weather is a multiplicative adjustment from a historical weather split:
// ratio is the entity's average under the condition divided by its overall
// average, so ratio 0.92 becomes a -8% adjustment.
func Weather(condition string, ratio float64) Adjustment {
	return Adjustment{Name: "weather_" + condition, Kind: types.Multiplicative, Magnitude: ratio - 1}
}

// GameScript is a multiplicative adjustment from a leading/trailing split
// ratio, built the same way as Weather.
func GameScript(ratio float64) Adjustment {
	return Adjustment{Name: "game_script", Kind: types.Multiplicative, Magnitude: ratio - 1}
}

// Venue is a multiplicative park/venue factor (e.g. a hitter-friendly park's
// run factor).
func Venue(factor float64) Adjustment {
	return Adjustment{Name: "venue", Kind: types.Multiplicative, Magnitude: factor - 1}
}

// Rest is a multiplicative adjustment from a rest-days split ratio.
func Rest(ratio float64) Adjustment {
	return Adjustment{Name: "rest", Kind: types.Multiplicative, Magnitude: ratio - 1}
}

// OpponentSimilarity derives an additive adjustment from the entity's average
// against opponents profiled like the upcoming one. The magnitude is simply
// the contextual average minus the unconditional baseline.
func OpponentSimilarity(contextualAvg, baseline float64) Adjustment {
	return Adjustment{Name: "opponent_similarity", Kind: types.Additive, Magnitude: contextualAvg - baseline}
}

package edge

import "github.com/okian/edgeline/internal/domain/types"

// DefaultSpotRates returns the historical against-the-spread base rates per
// spot type. The numbers are asserted from historical data, not derived here;
// override them through configuration when better samples exist.
func DefaultSpotRates() map[types.SpotType]float64 {
	return map[types.SpotType]float64{
		types.PlayoffFavorite:  44.7,
		types.PlayoffUnderdog:  55.3,
		types.HomeFavorite:     48.1,
		types.RoadUnderdog:     51.9,
		types.ColdWeatherUnder: 49.2,
		types.DivisionalGame:   50.5,
	}
}

// DefaultWeatherImpact returns the average total-points impact per weather
// condition. The magnitudes are small on purpose: books already price weather
// in, which is exactly why weather unders are a narrative trap.
func DefaultWeatherImpact() map[string]float64 {
	return map[string]float64{
		"cold_35f":   -1.2,
		"wind_15mph": -2.1,
		"snow":       -3.5,
		"rain":       -1.8,
	}
}

// Package types contains common types used across the application
package types

// Kind identifies the class of entity a profile describes. Profiles of
// different kinds are never compared.
type Kind string

// Declared entity kinds.
const (
	KindDefense Kind = "defense"
	KindGoalie  Kind = "goalie"
	KindTeam    Kind = "team"
	KindSkater  Kind = "skater"
)

// AdjustmentKind declares how an adjustment combines with the running value.
type AdjustmentKind string

// Adjustment combination rules.
const (
	Additive       AdjustmentKind = "ADDITIVE"
	Multiplicative AdjustmentKind = "MULTIPLICATIVE"
	RegressToward  AdjustmentKind = "REGRESS_TOWARD"
)

// Recommendation is the actionable classification of a validated edge.
type Recommendation string

// Recommendation values. Contrarian is a declared outcome kept for callers
// that post-process results; the standard decision table resolves the
// edge-but-public case to Caution instead.
const (
	Bet        Recommendation = "BET"
	Fade       Recommendation = "FADE"
	Pass       Recommendation = "PASS"
	Caution    Recommendation = "CAUTION"
	Contrarian Recommendation = "CONTRARIAN"
)

// Confidence grades how much weight a recommendation carries.
type Confidence string

// Confidence levels, ordered Low < Medium < High.
const (
	Low    Confidence = "LOW"
	Medium Confidence = "MEDIUM"
	High   Confidence = "HIGH"
)

// SpotType labels a recurring betting situation with a known historical
// base rate (e.g. playoff favorites against the spread).
type SpotType string

// Spot types tracked by the validator's base-rate table.
const (
	PlayoffFavorite  SpotType = "playoff_favorite"
	PlayoffUnderdog  SpotType = "playoff_underdog"
	HomeFavorite     SpotType = "home_favorite"
	RoadUnderdog     SpotType = "road_underdog"
	ColdWeatherUnder SpotType = "cold_weather_under"
	DivisionalGame   SpotType = "divisional_game"
)

// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// WorkerCount sets the number of profile build workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueCapacity bounds the in-memory build request queue.
	QueueCapacity int `koanf:"queue_capacity"`

	// CacheMaxSize bounds the profile cache before eviction kicks in.
	CacheMaxSize int `koanf:"cache_max_size"`

	// CacheEvictionPolicy selects which entry is dropped: oldest or newest.
	CacheEvictionPolicy string `koanf:"cache_eviction_policy"`

	// SimilarityTopN caps how many comparable entities a query returns.
	SimilarityTopN int `koanf:"similarity_top_n"`

	// SimilarityMinSampleSize filters out thin candidate profiles.
	SimilarityMinSampleSize int `koanf:"similarity_min_sample_size"`

	// MetricScales overrides per-metric normalization scales, keyed "kind.metric".
	MetricScales map[string]float64 `koanf:"metric_scales"`

	// MetricWeights overrides per-metric similarity weights, keyed "kind.metric".
	MetricWeights map[string]float64 `koanf:"metric_weights"`

	// Adjustment factor magnitudes.
	AltitudeBoost          float64 `koanf:"altitude_boost"`
	BackToBackPenalty      float64 `koanf:"back_to_back_penalty"`
	LuckRegressionStrength float64 `koanf:"luck_regression_strength"`
	PaceToPoints           float64 `koanf:"pace_to_points"`

	// Market sentiment thresholds, in percent.
	PublicThreshold float64 `koanf:"public_threshold"`
	SharpThreshold  float64 `koanf:"sharp_threshold"`
	CLVThreshold    float64 `koanf:"clv_threshold"`

	// Edge classification thresholds, in percentage points.
	SmallEdge  float64 `koanf:"small_edge"`
	StrongEdge float64 `koanf:"strong_edge"`
	HighEdge   float64 `koanf:"high_edge"`

	// Sample size gates.
	LowSampleFloor    int `koanf:"low_sample_floor"`
	HardMinimumSample int `koanf:"hard_minimum_sample"`

	// SpotRates maps situational spot types to historical hit rates.
	SpotRates map[string]float64 `koanf:"spot_rates"`

	// WeatherImpact maps weather conditions to projected point impact.
	WeatherImpact map[string]float64 `koanf:"weather_impact"`

	// WeatherTrapThreshold flags unders whose weather impact exceeds it.
	WeatherTrapThreshold float64 `koanf:"weather_trap_threshold"`
}

// New creates a Config using defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and is currently
// unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:                "info",
		WorkerCount:             runtime.NumCPU() * 2,
		QueueCapacity:           1024,
		CacheMaxSize:            4096,
		CacheEvictionPolicy:     "oldest",
		SimilarityTopN:          5,
		SimilarityMinSampleSize: 100,
		AltitudeBoost:           0.03,
		BackToBackPenalty:       0.025,
		LuckRegressionStrength:  0.3,
		PaceToPoints:            2.2,
		PublicThreshold:         60,
		SharpThreshold:          60,
		CLVThreshold:            0.5,
		SmallEdge:               5,
		StrongEdge:              8,
		HighEdge:                15,
		LowSampleFloor:          10,
		HardMinimumSample:       0,
		WeatherTrapThreshold:    3.0,
	}
}

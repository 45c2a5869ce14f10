// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/okian/edgeline/internal/domain/types"
)

// EventRecord is one historical unit of observation: a play, a game, or a
// game-log row. Records are supplied pre-filtered by ingestion and are never
// mutated by the engine.
type EventRecord struct {
	EntityID string         `json:"entity_id"`
	Kind     types.Kind     `json:"kind"`
	GameID   string         `json:"game_id"`
	TS       time.Time      `json:"ts"`
	Outcomes map[string]float64 `json:"outcomes"`
	Context  GameContext    `json:"context"`
}

// GameContext carries the contextual facts attached to a record. Zero values
// mean "not observed"; ingestion decides what to populate per sport.
type GameContext struct {
	OpponentID string  `json:"opponent_id,omitempty"`
	VenueID    string  `json:"venue_id,omitempty"`
	WindMPH    float64 `json:"wind_mph,omitempty"`
	TempF      float64 `json:"temp_f,omitempty"`
	ScoreDiff  float64 `json:"score_diff,omitempty"`
	RestDays   int     `json:"rest_days,omitempty"`
	BackToBack bool    `json:"back_to_back,omitempty"`
}

// Window is the historical span a profile was computed over: explicit seasons,
// a date range, or both.
type Window struct {
	Seasons []int     `json:"seasons,omitempty"`
	From    time.Time `json:"from,omitempty"`
	To      time.Time `json:"to,omitempty"`
}

// Key returns a deterministic string identity for the window, used in cache
// keys. Season order does not matter.
func (w Window) Key() string {
	seasons := make([]int, len(w.Seasons))
	copy(seasons, w.Seasons)
	sort.Ints(seasons)

	parts := make([]string, 0, len(seasons)+2)
	for _, s := range seasons {
		parts = append(parts, strconv.Itoa(s))
	}
	if !w.From.IsZero() || !w.To.IsZero() {
		parts = append(parts, fmt.Sprintf("%d-%d", w.From.Unix(), w.To.Unix()))
	}
	return strings.Join(parts, ",")
}

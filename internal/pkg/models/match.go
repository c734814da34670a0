package models

import "time"

// ProcessingMeta records what the aggregation and merge phases did to a match.
type ProcessingMeta struct {
	TeamsNormalized   bool     `json:"teams_normalized"`
	DuplicatesRemoved int      `json:"duplicates_removed"`
	MarketsCapped     int      `json:"markets_capped"`
	OddsUpdates       []string `json:"odds_updates,omitempty"` // discarded prior values from cross-source merges
}

// CanonicalMatch is one logical fixture, deduplicated per
// (date, normalized home, normalized away, league). Mutated only by the
// per-source aggregator and the cross-source merger; read-only afterwards.
type CanonicalMatch struct {
	Key      string         `json:"key"`
	Date     time.Time      `json:"date"`
	Kickoff  string         `json:"kickoff,omitempty"`
	HomeTeam string         `json:"home_team"`
	AwayTeam string         `json:"away_team"`
	League   string         `json:"league"`
	Markets  []Market       `json:"markets"`
	Meta     ProcessingMeta `json:"meta"`
}

// FindMarket returns the index of the market with the given merge key,
// or -1 when absent.
func (m *CanonicalMatch) FindMarket(key string) int {
	for i := range m.Markets {
		if m.Markets[i].Key() == key {
			return i
		}
	}
	return -1
}

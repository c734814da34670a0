package models

// AnomalyKind is the closed set of data-quality findings the detector emits.
type AnomalyKind string

const (
	AnomalyInvalidTeamName    AnomalyKind = "invalid_team_name"
	AnomalyMissingOdds        AnomalyKind = "missing_odds"
	AnomalyUnknownMarketTypes AnomalyKind = "unknown_market_types"
	AnomalyMarketsCapped      AnomalyKind = "markets_capped"
	AnomalyDuplicateRemoved   AnomalyKind = "duplicate_removed"
)

// Anomaly severities. Nothing here is ever fatal.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)

// AnomalyRecord is one typed, non-fatal data-quality finding tied to a match.
type AnomalyRecord struct {
	Kind        AnomalyKind `json:"type"`
	Severity    string      `json:"severity"`
	Description string      `json:"description"`
	GameKey     string      `json:"game_key"`
	Kickoff     string      `json:"time"`
	Info        string      `json:"additional_info,omitempty"`
}

package models

import "time"

// FormatTag identifies which structural pattern a raw slip line matched.
type FormatTag string

const (
	// FormatDay: weekday code + kickoff time + slip id + teams + 3 odds.
	FormatDay FormatTag = "P_FORMAT"
	// FormatTime: kickoff time + slip id + teams + 3 odds, no weekday code.
	FormatTime FormatTag = "TIME_FORMAT"
	// FormatSimple: teams + 3 odds only.
	FormatSimple FormatTag = "SIMPLE_FORMAT"
	// FormatMarket: free-text market description + 2-3 odds. Attaches to the
	// closest preceding match line of the same source.
	FormatMarket FormatTag = "MARKET_FORMAT"
)

// ParsedLineCandidate is one structurally recognized line from a slip extract.
// Immutable after the parser produced it, except for Date and League which the
// date/league resolvers fill in before aggregation.
type ParsedLineCandidate struct {
	Format      FormatTag
	Kickoff     string // "HH:MM", empty for formats without a time column
	DayCode     string // Hungarian weekday code ("H".."V"), empty when absent
	SlipID      string
	HomeRaw     string
	AwayRaw     string
	Odds        []float64 // in printed order; 1X2 for match formats
	Description string    // market formats only
	LineNumber  int
	Source      string

	Date   time.Time // resolved calendar date, zero until resolved
	League string
}

// IsMatchLine reports whether the candidate opens a new match (as opposed to
// a market continuation line).
func (c *ParsedLineCandidate) IsMatchLine() bool {
	return c.Format != FormatMarket
}

package models

import (
	"sort"
	"strconv"
	"strings"
)

// UnknownMarketPriority is the sentinel for market types missing from the
// configured priority table. Lower number = higher priority.
const UnknownMarketPriority = 99

// Standard outcome names. Match-result markets use 1/X/2, totals Over/Under.
const (
	OutcomeHome  = "1"
	OutcomeDraw  = "X"
	OutcomeAway  = "2"
	OutcomeOver  = "Over"
	OutcomeUnder = "Under"
)

// Market is one bettable proposition on a match. Outcomes map outcome names
// to odds; a nil value means the printed odd was invalid (<= 1.0 or garbled)
// and is surfaced as a missing_odds anomaly instead of a fabricated number.
type Market struct {
	Type        string              `json:"type"`
	Description string              `json:"description"`
	Priority    int                 `json:"priority"`
	Outcomes    map[string]*float64 `json:"outcomes"`
	Source      string              `json:"source"`
}

// Key identifies a market within a match for cross-source merging.
func (m Market) Key() string {
	return m.Type + "|" + m.Description
}

// OddsFingerprint renders the outcome set in a stable textual form, used for
// within-source dedup and for cross-source odds comparison.
func (m Market) OddsFingerprint() string {
	names := make([]string, 0, len(m.Outcomes))
	for name := range m.Outcomes {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteByte('=')
		if v := m.Outcomes[name]; v != nil {
			b.WriteString(strconv.FormatFloat(*v, 'f', 2, 64))
		} else {
			b.WriteString("null")
		}
	}
	return b.String()
}

// SameOdds reports whether two markets carry identical outcome sets.
func (m Market) SameOdds(other Market) bool {
	return m.OddsFingerprint() == other.OddsFingerprint()
}

// HasMissingOdds reports whether any outcome lost its odd to validation.
func (m Market) HasMissingOdds() bool {
	for _, v := range m.Outcomes {
		if v == nil {
			return true
		}
	}
	return false
}

// ValidOdd reports whether v is an acceptable decimal odd.
func ValidOdd(v float64) bool {
	return v > 1.0 && v < 1000
}

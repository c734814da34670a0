package models

import (
	"testing"
	"time"
)

func ptr(v float64) *float64 { return &v }

func TestMatchKey(t *testing.T) {
	jan5 := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		home   string
		away   string
		league string
		want   string
	}{
		{"plain", "Ferencváros", "MTK Budapest", "NB I", "2024-01-05|ferencváros|mtk budapest|nb i"},
		{"whitespace collapsed", "  Ferencváros ", "MTK   Budapest", "NB I", "2024-01-05|ferencváros|mtk budapest|nb i"},
		{"separators stripped", "A|B", "C/D", "NB\\I", "2024-01-05|a b|c d|nb i"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchKey(jan5, tt.home, tt.away, tt.league); got != tt.want {
				t.Errorf("MatchKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatchKey_ZeroDate(t *testing.T) {
	got := MatchKey(time.Time{}, "A", "B", "L")
	if got != "unknown-date|a|b|l" {
		t.Errorf("MatchKey zero date = %q", got)
	}
}

func TestMarketKey(t *testing.T) {
	m := Market{Type: "over_under", Description: "Gólszám 2,5"}
	if m.Key() != "over_under|Gólszám 2,5" {
		t.Errorf("Key = %q", m.Key())
	}
}

func TestOddsFingerprint(t *testing.T) {
	m := Market{Outcomes: map[string]*float64{
		OutcomeAway: ptr(6.0),
		OutcomeHome: ptr(1.5),
		OutcomeDraw: nil,
	}}
	// Sorted outcome names make the fingerprint independent of map order.
	want := "1=1.50 2=6.00 X=null"
	if got := m.OddsFingerprint(); got != want {
		t.Errorf("OddsFingerprint = %q, want %q", got, want)
	}
}

func TestSameOdds(t *testing.T) {
	a := Market{Outcomes: map[string]*float64{OutcomeHome: ptr(1.5), OutcomeDraw: ptr(3.8), OutcomeAway: ptr(6.0)}}
	b := Market{Outcomes: map[string]*float64{OutcomeAway: ptr(6.0), OutcomeDraw: ptr(3.8), OutcomeHome: ptr(1.5)}}
	c := Market{Outcomes: map[string]*float64{OutcomeHome: ptr(1.55), OutcomeDraw: ptr(3.8), OutcomeAway: ptr(6.0)}}

	if !a.SameOdds(b) {
		t.Error("identical outcome sets must compare equal")
	}
	if a.SameOdds(c) {
		t.Error("differing odds must not compare equal")
	}
}

func TestHasMissingOdds(t *testing.T) {
	full := Market{Outcomes: map[string]*float64{OutcomeOver: ptr(1.9), OutcomeUnder: ptr(1.85)}}
	holed := Market{Outcomes: map[string]*float64{OutcomeOver: nil, OutcomeUnder: ptr(1.85)}}
	if full.HasMissingOdds() {
		t.Error("full market reported missing odds")
	}
	if !holed.HasMissingOdds() {
		t.Error("nil outcome not reported")
	}
}

func TestValidOdd(t *testing.T) {
	tests := []struct {
		v    float64
		want bool
	}{
		{1.01, true},
		{999.99, true},
		{1.0, false},
		{0.95, false},
		{1000, false},
		{-2, false},
	}
	for _, tt := range tests {
		if got := ValidOdd(tt.v); got != tt.want {
			t.Errorf("ValidOdd(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestParsedLineCandidate_IsMatchLine(t *testing.T) {
	tests := []struct {
		format FormatTag
		want   bool
	}{
		{FormatDay, true},
		{FormatTime, true},
		{FormatSimple, true},
		{FormatMarket, false},
	}
	for _, tt := range tests {
		c := ParsedLineCandidate{Format: tt.format}
		if got := c.IsMatchLine(); got != tt.want {
			t.Errorf("IsMatchLine(%s) = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestProcessingStats_Merge(t *testing.T) {
	a := NewProcessingStats()
	a.LinesTotal = 10
	a.MatchesParsed = 3
	a.NormalizationsByMethod["alias"] = 2
	a.UnmatchedTeams["Qqq"] = struct{}{}
	a.TeamMapping["Fradi"] = "Ferencváros"

	b := NewProcessingStats()
	b.LinesTotal = 5
	b.OddsUpdates = 1
	b.NormalizationsByMethod["alias"] = 1
	b.NormalizationsByMethod["fuzzy"] = 4
	b.UnmatchedTeams["Qqq"] = struct{}{}

	a.Merge(b)
	if a.LinesTotal != 15 || a.MatchesParsed != 3 || a.OddsUpdates != 1 {
		t.Errorf("merged counters = %+v", a)
	}
	if a.NormalizationsByMethod["alias"] != 3 || a.NormalizationsByMethod["fuzzy"] != 4 {
		t.Errorf("merged methods = %v", a.NormalizationsByMethod)
	}
	if len(a.UnmatchedTeams) != 1 {
		t.Errorf("unmatched teams = %v, want set semantics", a.UnmatchedTeams)
	}

	a.Merge(nil) // must not panic
}

func TestProcessingStats_Reset(t *testing.T) {
	s := NewProcessingStats()
	s.LinesTotal = 7
	s.TeamMapping["a"] = "b"
	s.Reset()
	if s.LinesTotal != 0 || len(s.TeamMapping) != 0 {
		t.Errorf("Reset left state behind: %+v", s)
	}
	// Maps must be usable after reset.
	s.NormalizationsByMethod["alias"]++
	s.UnmatchedTeams["x"] = struct{}{}
}

func TestCanonicalMatch_FindMarket(t *testing.T) {
	m := &CanonicalMatch{Markets: []Market{
		{Type: "1X2", Description: "Match result"},
		{Type: "over_under", Description: "Gólszám 2,5"},
	}}
	if idx := m.FindMarket("over_under|Gólszám 2,5"); idx != 1 {
		t.Errorf("FindMarket = %d, want 1", idx)
	}
	if idx := m.FindMarket("handicap|Hendikep 1:0"); idx != -1 {
		t.Errorf("FindMarket missing = %d, want -1", idx)
	}
}

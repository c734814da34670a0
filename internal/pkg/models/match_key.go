package models

import (
	"strings"
	"time"
)

// MatchKey builds the canonical composite key for one logical fixture.
//
// Format: date|home|away|league. Team names are expected to be normalized
// before keying; the cleanup here only guards against case/whitespace and
// separator characters leaking into the key.
func MatchKey(date time.Time, homeTeam, awayTeam, league string) string {
	ds := "unknown-date"
	if !date.IsZero() {
		ds = date.Format("2006-01-02")
	}
	return ds + "|" + normalizeKeyPart(homeTeam) + "|" + normalizeKeyPart(awayTeam) + "|" + normalizeKeyPart(league)
}

func normalizeKeyPart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	// Keys travel in Redis keys and CSV cells, keep them separator-free.
	s = strings.ReplaceAll(s, "/", " ")
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "|", " ")
	s = strings.Join(strings.Fields(s), " ")
	return s
}

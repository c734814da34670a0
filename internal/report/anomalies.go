// Package report scans the merged dataset for data-quality findings and
// writes the JSON and CSV run artifacts.
package report

import (
	"fmt"
	"strings"

	"github.com/slipline/slipline/internal/pkg/config"
	"github.com/slipline/slipline/internal/pkg/models"
)

// minTeamNameLen is the shortest team name considered printable rather than
// an extraction artifact.
const minTeamNameLen = 2

// Detector scans finalized matches and emits typed anomaly records.
type Detector struct {
	priorities map[string]int
}

// NewDetector builds a detector over the market priority table.
func NewDetector(mc *config.MarketsConfig) *Detector {
	return &Detector{priorities: mc.MarketPriorities}
}

// Detect walks the final match set and returns every finding. Nothing here
// is fatal; findings only surface in the report.
func (d *Detector) Detect(matches []*models.CanonicalMatch) []models.AnomalyRecord {
	var records []models.AnomalyRecord
	for _, m := range matches {
		records = append(records, d.detectMatch(m)...)
	}
	return records
}

func (d *Detector) detectMatch(m *models.CanonicalMatch) []models.AnomalyRecord {
	var records []models.AnomalyRecord

	add := func(kind models.AnomalyKind, severity, description, info string) {
		records = append(records, models.AnomalyRecord{
			Kind:        kind,
			Severity:    severity,
			Description: description,
			GameKey:     m.Key,
			Kickoff:     m.Kickoff,
			Info:        info,
		})
	}

	for side, name := range map[string]string{"home": m.HomeTeam, "away": m.AwayTeam} {
		if len(strings.TrimSpace(name)) < minTeamNameLen {
			add(models.AnomalyInvalidTeamName, models.SeverityWarning,
				fmt.Sprintf("%s team name is empty or too short", side), name)
		}
	}

	unknownSeen := make(map[string]struct{})
	for _, market := range m.Markets {
		if market.HasMissingOdds() {
			add(models.AnomalyMissingOdds, models.SeverityWarning,
				fmt.Sprintf("market %s has missing or invalid odds", market.Type),
				market.OddsFingerprint())
		}
		if _, known := d.priorities[market.Type]; !known {
			if _, seen := unknownSeen[market.Type]; !seen {
				unknownSeen[market.Type] = struct{}{}
				add(models.AnomalyUnknownMarketTypes, models.SeverityInfo,
					fmt.Sprintf("market type %q is not in the priority table", market.Type),
					market.Description)
			}
		}
	}

	if m.Meta.MarketsCapped > 0 {
		add(models.AnomalyMarketsCapped, models.SeverityInfo,
			fmt.Sprintf("%d markets discarded by the per-match cap", m.Meta.MarketsCapped), "")
	}
	if m.Meta.DuplicatesRemoved > 0 {
		add(models.AnomalyDuplicateRemoved, models.SeverityInfo,
			fmt.Sprintf("%d duplicate markets removed within one source", m.Meta.DuplicatesRemoved), "")
	}
	for _, update := range m.Meta.OddsUpdates {
		add(models.AnomalyDuplicateRemoved, models.SeverityInfo,
			"odds replaced during cross-source merge", update)
	}

	return records
}

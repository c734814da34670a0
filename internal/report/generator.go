package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/slipline/slipline/internal/pkg/models"
)

// Report is the JSON run artifact. The four top-level keys are fixed;
// downstream consumers key on them.
type Report struct {
	Summary              Summary                `json:"summary"`
	DailyBreakdown       map[string]DayStats    `json:"daily_breakdown"`
	Anomalies            []models.AnomalyRecord `json:"anomalies"`
	NormalizationMapping map[string]string      `json:"normalization_mapping"`
}

// Summary carries dataset totals plus the processing counters. Totals are
// derived from the match set itself, never recomputed independently, so the
// JSON and the CSVs always reconcile.
type Summary struct {
	GeneratedAt  string                  `json:"generated_at"`
	TotalGames   int                     `json:"total_games"`
	TotalMarkets int                     `json:"total_markets"`
	TotalLeagues int                     `json:"total_leagues"`
	TotalTeams   int                     `json:"total_teams"`
	Processing   *models.ProcessingStats `json:"processing"`
}

// DayStats is one daily_breakdown entry, keyed by ISO date.
type DayStats struct {
	GamesCount   int      `json:"games_count"`
	MarketsCount int      `json:"markets_count"`
	LeaguesCount int      `json:"leagues_count"`
	TeamsCount   int      `json:"teams_count"`
	Leagues      []string `json:"leagues"`
}

// Generate assembles the report from the finalized dataset.
func Generate(matches []*models.CanonicalMatch, anomalies []models.AnomalyRecord, stats *models.ProcessingStats, now time.Time) *Report {
	leagues := make(map[string]struct{})
	teams := make(map[string]struct{})
	totalMarkets := 0

	type dayAgg struct {
		games   int
		markets int
		leagues map[string]struct{}
		teams   map[string]struct{}
	}
	days := make(map[string]*dayAgg)

	for _, m := range matches {
		totalMarkets += len(m.Markets)
		leagues[m.League] = struct{}{}
		teams[m.HomeTeam] = struct{}{}
		teams[m.AwayTeam] = struct{}{}

		day := m.Date.Format("2006-01-02")
		agg, ok := days[day]
		if !ok {
			agg = &dayAgg{leagues: make(map[string]struct{}), teams: make(map[string]struct{})}
			days[day] = agg
		}
		agg.games++
		agg.markets += len(m.Markets)
		agg.leagues[m.League] = struct{}{}
		agg.teams[m.HomeTeam] = struct{}{}
		agg.teams[m.AwayTeam] = struct{}{}
	}

	breakdown := make(map[string]DayStats, len(days))
	for day, agg := range days {
		names := make([]string, 0, len(agg.leagues))
		for l := range agg.leagues {
			names = append(names, l)
		}
		sort.Strings(names)
		breakdown[day] = DayStats{
			GamesCount:   agg.games,
			MarketsCount: agg.markets,
			LeaguesCount: len(agg.leagues),
			TeamsCount:   len(agg.teams),
			Leagues:      names,
		}
	}

	mapping := make(map[string]string, len(stats.TeamMapping))
	for raw, canonical := range stats.TeamMapping {
		mapping[raw] = canonical
	}

	if anomalies == nil {
		anomalies = []models.AnomalyRecord{}
	}
	return &Report{
		Summary: Summary{
			GeneratedAt:  now.UTC().Format(time.RFC3339),
			TotalGames:   len(matches),
			TotalMarkets: totalMarkets,
			TotalLeagues: len(leagues),
			TotalTeams:   len(teams),
			Processing:   stats,
		},
		DailyBreakdown:       breakdown,
		Anomalies:            anomalies,
		NormalizationMapping: mapping,
	}
}

// Write stores the JSON document and the CSV exports under a timestamped
// directory below dir, returning the created path.
func (r *Report) Write(dir string, now time.Time) (string, error) {
	outDir := filepath.Join(dir, "report_"+now.Format("20060102_150405"))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "report.json"), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report.json: %w", err)
	}

	if err := r.writeCSVs(outDir); err != nil {
		return "", err
	}
	return outDir, nil
}

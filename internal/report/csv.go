package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// CSV header rows are part of the external contract; do not reorder.
var (
	summaryHeader   = []string{"Metric", "Value"}
	anomaliesHeader = []string{"Type", "Severity", "Description", "Game Key", "Time", "Additional Info"}
	dailyHeader     = []string{"Date", "Games Count", "Markets Count", "Leagues Count", "Teams Count", "Leagues"}
	mappingHeader   = []string{"Original Team Name", "Normalized Team Name"}
)

func (r *Report) writeCSVs(outDir string) error {
	files := map[string][][]string{
		"summary.csv":               r.summaryRows(),
		"anomalies.csv":             r.anomalyRows(),
		"daily_breakdown.csv":       r.dailyRows(),
		"normalization_mapping.csv": r.mappingRows(),
	}
	for name, rows := range files {
		if err := writeCSV(filepath.Join(outDir, name), rows); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (r *Report) summaryRows() [][]string {
	rows := [][]string{
		summaryHeader,
		{"Generated At", r.Summary.GeneratedAt},
		{"Total Games", strconv.Itoa(r.Summary.TotalGames)},
		{"Total Markets", strconv.Itoa(r.Summary.TotalMarkets)},
		{"Total Leagues", strconv.Itoa(r.Summary.TotalLeagues)},
		{"Total Teams", strconv.Itoa(r.Summary.TotalTeams)},
	}
	if p := r.Summary.Processing; p != nil {
		rows = append(rows,
			[]string{"Lines Total", strconv.Itoa(p.LinesTotal)},
			[]string{"Lines Skipped", strconv.Itoa(p.LinesSkipped)},
			[]string{"Dropped Without Date", strconv.Itoa(p.DroppedNoDate)},
			[]string{"Duplicates Removed", strconv.Itoa(p.DuplicatesRemoved)},
			[]string{"Markets Capped", strconv.Itoa(p.MarketsCapped)},
			[]string{"Odds Updates", strconv.Itoa(p.OddsUpdates)},
			[]string{"Normalizations", strconv.Itoa(p.Normalizations)},
		)
		methods := make([]string, 0, len(p.NormalizationsByMethod))
		for m := range p.NormalizationsByMethod {
			methods = append(methods, m)
		}
		sort.Strings(methods)
		for _, m := range methods {
			rows = append(rows, []string{"Normalized Via " + m, strconv.Itoa(p.NormalizationsByMethod[m])})
		}
		rows = append(rows, []string{"Unmatched Teams", strconv.Itoa(len(p.UnmatchedTeams))})
	}
	return rows
}

func (r *Report) anomalyRows() [][]string {
	rows := [][]string{anomaliesHeader}
	for _, a := range r.Anomalies {
		rows = append(rows, []string{string(a.Kind), a.Severity, a.Description, a.GameKey, a.Kickoff, a.Info})
	}
	return rows
}

func (r *Report) dailyRows() [][]string {
	days := make([]string, 0, len(r.DailyBreakdown))
	for day := range r.DailyBreakdown {
		days = append(days, day)
	}
	sort.Strings(days)

	rows := [][]string{dailyHeader}
	for _, day := range days {
		d := r.DailyBreakdown[day]
		rows = append(rows, []string{
			day,
			strconv.Itoa(d.GamesCount),
			strconv.Itoa(d.MarketsCount),
			strconv.Itoa(d.LeaguesCount),
			strconv.Itoa(d.TeamsCount),
			strings.Join(d.Leagues, "; "),
		})
	}
	return rows
}

func (r *Report) mappingRows() [][]string {
	originals := make([]string, 0, len(r.NormalizationMapping))
	for raw := range r.NormalizationMapping {
		originals = append(originals, raw)
	}
	sort.Strings(originals)

	rows := [][]string{mappingHeader}
	for _, raw := range originals {
		rows = append(rows, []string{raw, r.NormalizationMapping[raw]})
	}
	return rows
}

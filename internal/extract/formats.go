// Package extract turns raw slip-extract lines into typed candidates and
// resolves calendar dates for them. Slips are printed in Hungarian: weekday
// codes H..V, date headers like "Péntek (2024. január 5.)".
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/slipline/slipline/internal/pkg/models"
)

// Odds are printed with two decimals using either comma or dot.
const oddsToken = `\d{1,3}[.,]\d{2}`

// Weekday codes as printed on slip lines, Monday first.
var dayCodes = map[string]int{
	"H":   0,
	"K":   1,
	"Sze": 2,
	"Cs":  3,
	"P":   4,
	"Szo": 5,
	"V":   6,
}

var (
	dayLineRe = regexp.MustCompile(
		`^\s*(Sze|Szo|Cs|H|K|P|V)\s+(\d{1,2}:\d{2})\s+(\d{3,6})\s+(.+?)\s+-\s+(.+?)\s+(` + oddsToken + `)\s+(` + oddsToken + `)\s+(` + oddsToken + `)\s*$`)
	timeLineRe = regexp.MustCompile(
		`^\s*(\d{1,2}:\d{2})\s+(\d{3,6})\s+(.+?)\s+-\s+(.+?)\s+(` + oddsToken + `)\s+(` + oddsToken + `)\s+(` + oddsToken + `)\s*$`)
	simpleLineRe = regexp.MustCompile(
		`^\s*(.+?)\s+-\s+(.+?)\s+(` + oddsToken + `)\s+(` + oddsToken + `)\s+(` + oddsToken + `)\s*$`)
	marketLineRe = regexp.MustCompile(
		`^\s*(\D.*?)\s+(` + oddsToken + `)\s+(` + oddsToken + `)(?:\s+(` + oddsToken + `))?\s*$`)

	// League section headers carry no digits at all.
	leagueHeaderRe = regexp.MustCompile(`^\s*([^\d]{3,60})\s*$`)
)

// lineFormat is one parsing strategy. Strategies are tried in a fixed order
// and the first structural match wins; no scoring, no second opinions.
type lineFormat struct {
	tag   models.FormatTag
	re    *regexp.Regexp
	build func(groups []string, lineNumber int) *models.ParsedLineCandidate
}

var lineFormats = []lineFormat{
	{
		tag: models.FormatDay,
		re:  dayLineRe,
		build: func(g []string, lineNumber int) *models.ParsedLineCandidate {
			return &models.ParsedLineCandidate{
				Format:     models.FormatDay,
				DayCode:    g[1],
				Kickoff:    g[2],
				SlipID:     g[3],
				HomeRaw:    g[4],
				AwayRaw:    g[5],
				Odds:       parseOdds(g[6], g[7], g[8]),
				LineNumber: lineNumber,
			}
		},
	},
	{
		tag: models.FormatTime,
		re:  timeLineRe,
		build: func(g []string, lineNumber int) *models.ParsedLineCandidate {
			return &models.ParsedLineCandidate{
				Format:     models.FormatTime,
				Kickoff:    g[1],
				SlipID:     g[2],
				HomeRaw:    g[3],
				AwayRaw:    g[4],
				Odds:       parseOdds(g[5], g[6], g[7]),
				LineNumber: lineNumber,
			}
		},
	},
	{
		tag: models.FormatSimple,
		re:  simpleLineRe,
		build: func(g []string, lineNumber int) *models.ParsedLineCandidate {
			return &models.ParsedLineCandidate{
				Format:     models.FormatSimple,
				HomeRaw:    g[1],
				AwayRaw:    g[2],
				Odds:       parseOdds(g[3], g[4], g[5]),
				LineNumber: lineNumber,
			}
		},
	},
	{
		tag: models.FormatMarket,
		re:  marketLineRe,
		build: func(g []string, lineNumber int) *models.ParsedLineCandidate {
			odds := []string{g[2], g[3]}
			if g[4] != "" {
				odds = append(odds, g[4])
			}
			return &models.ParsedLineCandidate{
				Format:      models.FormatMarket,
				Description: strings.TrimSpace(g[1]),
				Odds:        parseOdds(odds...),
				LineNumber:  lineNumber,
			}
		},
	},
}

// parseOdds converts printed odds tokens, accepting both decimal separators.
func parseOdds(tokens ...string) []float64 {
	out := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		v, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", "."), 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// DetectLeague reports whether the line looks like a league section header.
// Anchors and match lines never qualify: anchors and intact match lines carry
// digits, and a match line whose odds were garbled away still carries the
// team separator.
func DetectLeague(line string) (string, bool) {
	m := leagueHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if name == "" || strings.Contains(name, " - ") {
		return "", false
	}
	return name, true
}

// Package aggregate groups parsed slip lines into canonical matches and
// merges overlapping extracts of the same fixture across sources.
package aggregate

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/slipline/slipline/internal/normalize"
	"github.com/slipline/slipline/internal/pkg/config"
	"github.com/slipline/slipline/internal/pkg/models"
)

// MatchResultType is the market every recognized match line carries.
const MatchResultType = "1X2"

type typePattern struct {
	re  *regexp.Regexp
	typ string
}

// Aggregator builds canonical matches for one source. Not safe for
// concurrent use; one instance per worker.
type Aggregator struct {
	normalizer *normalize.Normalizer
	priorities map[string]int
	patterns   []typePattern
	maxMarkets int
	stats      *models.ProcessingStats
}

// New compiles the market configuration into a per-source aggregator.
func New(n *normalize.Normalizer, mc *config.MarketsConfig, stats *models.ProcessingStats) (*Aggregator, error) {
	a := &Aggregator{
		normalizer: n,
		priorities: mc.MarketPriorities,
		maxMarkets: mc.Settings.MaxMarketsLimit,
		stats:      stats,
	}
	for _, p := range mc.MarketTypePatterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("bad market type pattern %q: %w", p.Pattern, err)
		}
		a.patterns = append(a.patterns, typePattern{re: re, typ: p.Type})
	}
	return a, nil
}

// Aggregate groups candidates by (date, home, away, league), attaches market
// continuation lines to the preceding match line, deduplicates and caps
// markets. Candidates must arrive in line order.
func (a *Aggregator) Aggregate(candidates []*models.ParsedLineCandidate, source string) []*models.CanonicalMatch {
	byKey := make(map[string]*models.CanonicalMatch)
	var order []string
	var current *models.CanonicalMatch

	for _, c := range candidates {
		if c.IsMatchLine() {
			current = a.matchFor(byKey, &order, c)
			a.stats.MatchesParsed++
			a.addMarket(current, a.matchResultMarket(c, source))
			continue
		}
		if current == nil {
			// Market line with no match to hang off; nothing to attach to.
			a.stats.LinesSkipped++
			continue
		}
		a.addMarket(current, a.continuationMarket(c, source))
	}

	out := make([]*models.CanonicalMatch, 0, len(order))
	for _, key := range order {
		m := byKey[key]
		a.capMarkets(m)
		out = append(out, m)
	}
	return out
}

// matchFor finds or creates the canonical match for a candidate, applying
// team normalization to build the composite key.
func (a *Aggregator) matchFor(byKey map[string]*models.CanonicalMatch, order *[]string, c *models.ParsedLineCandidate) *models.CanonicalMatch {
	home := a.normalizer.Normalize(c.HomeRaw)
	away := a.normalizer.Normalize(c.AwayRaw)

	key := models.MatchKey(c.Date, home.Output, away.Output, c.League)
	if m, ok := byKey[key]; ok {
		return m
	}

	m := &models.CanonicalMatch{
		Key:      key,
		Date:     c.Date,
		Kickoff:  c.Kickoff,
		HomeTeam: home.Output,
		AwayTeam: away.Output,
		League:   c.League,
		Meta: models.ProcessingMeta{
			TeamsNormalized: home.Method != normalize.MethodUnmatched && away.Method != normalize.MethodUnmatched,
		},
	}
	byKey[key] = m
	*order = append(*order, key)
	return m
}

// addMarket attaches a market, keeping (type, description) unique within the
// match: an identical reprint is dropped as a duplicate, a reprint with
// different odds replaces the prior entry with the discarded value recorded.
// Downstream merging relies on this uniqueness.
func (a *Aggregator) addMarket(m *models.CanonicalMatch, market models.Market) {
	idx := m.FindMarket(market.Key())
	if idx < 0 {
		m.Markets = append(m.Markets, market)
		a.stats.MarketsParsed++
		return
	}
	prior := m.Markets[idx]
	if prior.SameOdds(market) {
		m.Meta.DuplicatesRemoved++
		a.stats.DuplicatesRemoved++
		return
	}
	m.Meta.OddsUpdates = append(m.Meta.OddsUpdates,
		fmt.Sprintf("%s [%s]: %s -> %s (%s)", market.Type, market.Description,
			prior.OddsFingerprint(), market.OddsFingerprint(), market.Source))
	m.Markets[idx] = market
	a.stats.OddsUpdates++
}

// capMarkets keeps the highest-priority markets when the configured limit is
// exceeded. Stable sort preserves first-seen order among equal priorities.
func (a *Aggregator) capMarkets(m *models.CanonicalMatch) {
	if len(m.Markets) <= a.maxMarkets {
		return
	}
	sort.SliceStable(m.Markets, func(i, j int) bool {
		return m.Markets[i].Priority < m.Markets[j].Priority
	})
	discarded := len(m.Markets) - a.maxMarkets
	m.Markets = m.Markets[:a.maxMarkets]
	m.Meta.MarketsCapped += discarded
	a.stats.MarketsCapped += discarded
}

// matchResultMarket builds the 1X2 market printed on the match line itself.
func (a *Aggregator) matchResultMarket(c *models.ParsedLineCandidate, source string) models.Market {
	return models.Market{
		Type:        MatchResultType,
		Description: "Match result",
		Priority:    a.priorityFor(MatchResultType),
		Outcomes:    outcomeSet(c.Odds, models.OutcomeHome, models.OutcomeDraw, models.OutcomeAway),
		Source:      source,
	}
}

// continuationMarket builds a market from a description + odds line.
// Two odds read as Over/Under, three as 1/X/2.
func (a *Aggregator) continuationMarket(c *models.ParsedLineCandidate, source string) models.Market {
	typ := a.classify(c.Description)
	names := []string{models.OutcomeOver, models.OutcomeUnder}
	if len(c.Odds) == 3 {
		names = []string{models.OutcomeHome, models.OutcomeDraw, models.OutcomeAway}
	}
	return models.Market{
		Type:        typ,
		Description: c.Description,
		Priority:    a.priorityFor(typ),
		Outcomes:    outcomeSet(c.Odds, names...),
		Source:      source,
	}
}

// classify maps a free-text description to a market type via the configured
// patterns, falling back to the description itself.
func (a *Aggregator) classify(description string) string {
	for _, p := range a.patterns {
		if p.re.MatchString(description) {
			return p.typ
		}
	}
	return description
}

func (a *Aggregator) priorityFor(marketType string) int {
	if prio, ok := a.priorities[marketType]; ok {
		return prio
	}
	return models.UnknownMarketPriority
}

// outcomeSet pairs printed odds with outcome names, nulling out anything
// that fails validation.
func outcomeSet(odds []float64, names ...string) map[string]*float64 {
	outcomes := make(map[string]*float64, len(names))
	for i, name := range names {
		if i < len(odds) && models.ValidOdd(odds[i]) {
			v := odds[i]
			outcomes[name] = &v
		} else {
			outcomes[name] = nil
		}
	}
	return outcomes
}

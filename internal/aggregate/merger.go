package aggregate

import (
	"fmt"

	"github.com/slipline/slipline/internal/pkg/models"
)

// Merge unions the incoming match's markets into the existing one under a
// never-lose-data policy, keyed by (type, description):
//
//   - a market only the incoming source has is added;
//   - a market both sources have is replaced by the incoming version only
//     when the odds differ, with the discarded prior value recorded on the
//     match so it is never silently lost;
//   - identical entries are left untouched.
//
// Merging the same source twice is a no-op on the second pass, and the
// market count never shrinks.
func Merge(existing, incoming *models.CanonicalMatch, stats *models.ProcessingStats) *models.CanonicalMatch {
	for _, market := range incoming.Markets {
		idx := existing.FindMarket(market.Key())
		if idx < 0 {
			existing.Markets = append(existing.Markets, market)
			continue
		}
		prior := existing.Markets[idx]
		if prior.SameOdds(market) {
			continue
		}
		existing.Meta.OddsUpdates = append(existing.Meta.OddsUpdates,
			fmt.Sprintf("%s [%s]: %s -> %s (%s)", market.Type, market.Description,
				prior.OddsFingerprint(), market.OddsFingerprint(), market.Source))
		existing.Markets[idx] = market
		stats.OddsUpdates++
	}

	// Max instead of sum keeps repeated merges of one source observable-change free.
	if incoming.Meta.DuplicatesRemoved > existing.Meta.DuplicatesRemoved {
		existing.Meta.DuplicatesRemoved = incoming.Meta.DuplicatesRemoved
	}
	if incoming.Meta.MarketsCapped > existing.Meta.MarketsCapped {
		existing.Meta.MarketsCapped = incoming.Meta.MarketsCapped
	}
	existing.Meta.TeamsNormalized = existing.Meta.TeamsNormalized || incoming.Meta.TeamsNormalized
	if existing.Kickoff == "" {
		existing.Kickoff = incoming.Kickoff
	}
	return existing
}

package aggregate

import (
	"testing"
	"time"

	"github.com/slipline/slipline/internal/pkg/models"
)

func odds(values ...float64) map[string]*float64 {
	names := []string{models.OutcomeHome, models.OutcomeDraw, models.OutcomeAway}
	if len(values) == 2 {
		names = []string{models.OutcomeOver, models.OutcomeUnder}
	}
	out := make(map[string]*float64, len(values))
	for i, name := range names[:len(values)] {
		v := values[i]
		out[name] = &v
	}
	return out
}

func fixture(markets ...models.Market) *models.CanonicalMatch {
	return &models.CanonicalMatch{
		Key:      "2024-01-05|ferencváros|mtk budapest|nb i",
		Date:     time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		Kickoff:  "19:00",
		HomeTeam: "Ferencváros",
		AwayTeam: "MTK Budapest",
		League:   "NB I",
		Markets:  markets,
	}
}

func resultMarket(source string, o ...float64) models.Market {
	return models.Market{
		Type:        MatchResultType,
		Description: "Match result",
		Priority:    1,
		Outcomes:    odds(o...),
		Source:      source,
	}
}

func overUnderMarket(source string, o ...float64) models.Market {
	return models.Market{
		Type:        "over_under",
		Description: "Gólszám 2,5",
		Priority:    3,
		Outcomes:    odds(o...),
		Source:      source,
	}
}

func TestMerge_UnionsMarketSets(t *testing.T) {
	stats := models.NewProcessingStats()
	existing := fixture(resultMarket("a", 1.50, 3.80, 6.00))
	incoming := fixture(
		resultMarket("b", 1.50, 3.80, 6.00),
		overUnderMarket("b", 1.90, 1.85))

	merged := Merge(existing, incoming, stats)

	if len(merged.Markets) != 2 {
		t.Fatalf("markets = %d, want union of 2", len(merged.Markets))
	}
	if stats.OddsUpdates != 0 {
		t.Errorf("identical odds must not count as an update, got %d", stats.OddsUpdates)
	}
	if len(merged.Meta.OddsUpdates) != 0 {
		t.Errorf("no conflicts expected, got %v", merged.Meta.OddsUpdates)
	}
}

func TestMerge_OddsConflictReplacesAndRecords(t *testing.T) {
	stats := models.NewProcessingStats()
	existing := fixture(resultMarket("a", 1.50, 3.80, 6.00))
	incoming := fixture(resultMarket("b", 1.55, 3.70, 6.20))

	merged := Merge(existing, incoming, stats)

	if len(merged.Markets) != 1 {
		t.Fatalf("markets = %d, want 1", len(merged.Markets))
	}
	got := merged.Markets[0]
	if got.Source != "b" {
		t.Errorf("kept source = %q, want incoming b", got.Source)
	}
	if v := got.Outcomes[models.OutcomeHome]; v == nil || *v != 1.55 {
		t.Errorf("home odd = %v, want 1.55", v)
	}
	if stats.OddsUpdates != 1 {
		t.Errorf("OddsUpdates = %d, want 1", stats.OddsUpdates)
	}
	if len(merged.Meta.OddsUpdates) != 1 {
		t.Fatalf("meta.OddsUpdates = %v, want one discarded-value record", merged.Meta.OddsUpdates)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	stats := models.NewProcessingStats()
	existing := fixture(resultMarket("a", 1.50, 3.80, 6.00))
	incoming := fixture(
		resultMarket("b", 1.55, 3.70, 6.20),
		overUnderMarket("b", 1.90, 1.85))

	merged := Merge(existing, incoming, stats)
	markets := len(merged.Markets)
	updates := len(merged.Meta.OddsUpdates)

	// Second pass of the same source changes nothing observable.
	merged = Merge(merged, incoming, stats)
	if len(merged.Markets) != markets {
		t.Errorf("second merge changed market count: %d -> %d", markets, len(merged.Markets))
	}
	if len(merged.Meta.OddsUpdates) != updates {
		t.Errorf("second merge recorded new updates: %v", merged.Meta.OddsUpdates)
	}
}

func TestMerge_NeverShrinks(t *testing.T) {
	stats := models.NewProcessingStats()
	existing := fixture(
		resultMarket("a", 1.50, 3.80, 6.00),
		overUnderMarket("a", 1.90, 1.85))
	incoming := fixture(resultMarket("b", 1.50, 3.80, 6.00))

	merged := Merge(existing, incoming, stats)
	if len(merged.Markets) != 2 {
		t.Errorf("markets = %d, a sparser source must never shrink the set", len(merged.Markets))
	}
}

func TestMerge_MetaCountersUseMax(t *testing.T) {
	stats := models.NewProcessingStats()
	existing := fixture(resultMarket("a", 1.50, 3.80, 6.00))
	existing.Meta.DuplicatesRemoved = 2
	incoming := fixture(resultMarket("b", 1.50, 3.80, 6.00))
	incoming.Meta.DuplicatesRemoved = 1
	incoming.Meta.MarketsCapped = 3

	merged := Merge(existing, incoming, stats)
	if merged.Meta.DuplicatesRemoved != 2 {
		t.Errorf("DuplicatesRemoved = %d, want max 2", merged.Meta.DuplicatesRemoved)
	}
	if merged.Meta.MarketsCapped != 3 {
		t.Errorf("MarketsCapped = %d, want max 3", merged.Meta.MarketsCapped)
	}
}

func TestMerge_BackfillsKickoff(t *testing.T) {
	stats := models.NewProcessingStats()
	existing := fixture(resultMarket("a", 1.50, 3.80, 6.00))
	existing.Kickoff = ""
	incoming := fixture(resultMarket("b", 1.50, 3.80, 6.00))

	merged := Merge(existing, incoming, stats)
	if merged.Kickoff != "19:00" {
		t.Errorf("kickoff = %q, want backfilled 19:00", merged.Kickoff)
	}
}

package models

// ProcessingStats accumulates process-wide counters for one run. Each worker
// owns its own instance; instances are combined with Merge at the post-parse
// barrier, so no locking is needed anywhere.
type ProcessingStats struct {
	LinesTotal    int `json:"lines_total"`
	LinesSkipped  int `json:"lines_skipped"`
	DroppedNoDate int `json:"dropped_no_date"`
	MatchesParsed int `json:"matches_parsed"`
	MarketsParsed int `json:"markets_parsed"`

	DuplicatesRemoved int `json:"duplicates_removed"`
	MarketsCapped     int `json:"markets_capped"`
	OddsUpdates       int `json:"odds_updates"`

	Normalizations         int            `json:"normalizations"`
	NormalizationsByMethod map[string]int `json:"normalizations_by_method"`

	UnmatchedTeams map[string]struct{} `json:"-"`
	TeamMapping    map[string]string   `json:"-"`
}

// NewProcessingStats returns an empty accumulator.
func NewProcessingStats() *ProcessingStats {
	return &ProcessingStats{
		NormalizationsByMethod: make(map[string]int),
		UnmatchedTeams:         make(map[string]struct{}),
		TeamMapping:            make(map[string]string),
	}
}

// Merge folds another accumulator into s.
func (s *ProcessingStats) Merge(o *ProcessingStats) {
	if o == nil {
		return
	}
	s.LinesTotal += o.LinesTotal
	s.LinesSkipped += o.LinesSkipped
	s.DroppedNoDate += o.DroppedNoDate
	s.MatchesParsed += o.MatchesParsed
	s.MarketsParsed += o.MarketsParsed
	s.DuplicatesRemoved += o.DuplicatesRemoved
	s.MarketsCapped += o.MarketsCapped
	s.OddsUpdates += o.OddsUpdates
	s.Normalizations += o.Normalizations
	for method, n := range o.NormalizationsByMethod {
		s.NormalizationsByMethod[method] += n
	}
	for team := range o.UnmatchedTeams {
		s.UnmatchedTeams[team] = struct{}{}
	}
	for raw, canonical := range o.TeamMapping {
		s.TeamMapping[raw] = canonical
	}
}

// Reset clears all counters in place.
func (s *ProcessingStats) Reset() {
	*s = *NewProcessingStats()
}

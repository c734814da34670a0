// Package normalize resolves raw team-name strings from slip extracts to
// canonical names using the configured alias document.
package normalize

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/slipline/slipline/internal/pkg/config"
	"github.com/slipline/slipline/internal/pkg/models"
)

// Normalization methods, in stage order. Later stages never override an
// earlier hit.
const (
	MethodAlias     = "alias"
	MethodHeuristic = "heuristic"
	MethodOCR       = "ocr"
	MethodFuzzy     = "fuzzy"
	MethodUnmatched = "unmatched"
)

// Stage confidences for the exact-lookup methods. Fuzzy hits carry their
// computed similarity instead.
const (
	aliasConfidence     = 1.0
	heuristicConfidence = 0.95
	ocrConfidence       = 0.9
)

// Result is the outcome of one normalization call.
type Result struct {
	Input      string
	Output     string
	Method     string
	Confidence float64
}

type replaceRule struct {
	re          *regexp.Regexp
	replacement string
}

type ocrRule struct {
	from string
	to   string
}

// Normalizer applies the four-stage resolution pipeline: alias lookup,
// heuristic rewriting, OCR-error correction, bounded fuzzy matching.
// It is not safe for concurrent use; give each worker its own instance
// and fold the accumulators together at the barrier.
type Normalizer struct {
	lookup    map[string]string // alias keys plus canonical names mapped to themselves
	removes   []*regexp.Regexp
	replaces  []replaceRule
	ocrRules  []ocrRule
	preserve  map[string]string // upper form -> configured form ("FC", "MTK", ...)
	caseNorm  bool
	settings  config.NormalizerSettings
	fuzzyPool []string // sorted unique canonical names

	counters  map[string]int
	unmatched map[string]struct{}
	mapping   map[string]string
}

// New compiles the alias document into a ready normalizer. Pattern
// compilation errors are configuration errors and abort the run.
func New(cfg *config.TeamsConfig) (*Normalizer, error) {
	n := &Normalizer{
		lookup:    make(map[string]string, len(cfg.Aliases)*2),
		preserve:  make(map[string]string),
		caseNorm:  cfg.Heuristics.CaseNormalization.Enabled,
		settings:  cfg.Settings,
		counters:  make(map[string]int),
		unmatched: make(map[string]struct{}),
		mapping:   make(map[string]string),
	}

	canonicalSet := make(map[string]struct{})
	for raw, canonical := range cfg.Aliases {
		n.lookup[raw] = canonical
		canonicalSet[canonical] = struct{}{}
	}
	// A name that already is canonical resolves to itself.
	for canonical := range canonicalSet {
		if _, taken := n.lookup[canonical]; !taken {
			n.lookup[canonical] = canonical
		}
		n.fuzzyPool = append(n.fuzzyPool, canonical)
	}
	sort.Strings(n.fuzzyPool)

	for _, p := range cfg.Heuristics.RemovePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		n.removes = append(n.removes, re)
	}

	// JSON objects carry no order; apply replacements in sorted pattern
	// order so runs are deterministic.
	replacePatterns := make([]string, 0, len(cfg.Heuristics.ReplacePatterns))
	for p := range cfg.Heuristics.ReplacePatterns {
		replacePatterns = append(replacePatterns, p)
	}
	sort.Strings(replacePatterns)
	for _, p := range replacePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		n.replaces = append(n.replaces, replaceRule{re: re, replacement: cfg.Heuristics.ReplacePatterns[p]})
	}

	// Longer confusions first so "rn"->"m" runs before any single-char rule.
	ocrKeys := make([]string, 0, len(cfg.Heuristics.CommonOCRErrors))
	for k := range cfg.Heuristics.CommonOCRErrors {
		ocrKeys = append(ocrKeys, k)
	}
	sort.Slice(ocrKeys, func(i, j int) bool {
		if len(ocrKeys[i]) != len(ocrKeys[j]) {
			return len(ocrKeys[i]) > len(ocrKeys[j])
		}
		return ocrKeys[i] < ocrKeys[j]
	})
	for _, k := range ocrKeys {
		n.ocrRules = append(n.ocrRules, ocrRule{from: k, to: cfg.Heuristics.CommonOCRErrors[k]})
	}

	for _, abbr := range cfg.Heuristics.CaseNormalization.PreserveKnownAbbreviations {
		n.preserve[strings.ToUpper(abbr)] = abbr
	}

	return n, nil
}

// Normalize resolves a raw team name. Empty input returns an empty result
// with no side effects.
func (n *Normalizer) Normalize(raw string) Result {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Result{}
	}

	if canonical, ok := n.lookup[trimmed]; ok {
		return n.record(trimmed, canonical, MethodAlias, aliasConfidence)
	}

	cleaned := n.applyHeuristics(trimmed)
	if canonical, ok := n.lookup[cleaned]; ok {
		return n.record(trimmed, canonical, MethodHeuristic, heuristicConfidence)
	}

	corrected := n.applyOCRCorrections(cleaned)
	if canonical, ok := n.lookup[corrected]; ok {
		return n.record(trimmed, canonical, MethodOCR, ocrConfidence)
	}

	if n.settings.EnableFuzzyMatching {
		if canonical, confidence, ok := n.fuzzyMatch(cleaned); ok {
			return n.record(trimmed, canonical, MethodFuzzy, confidence)
		}
	}

	n.unmatched[trimmed] = struct{}{}
	if n.settings.LogUnmatchedTeams {
		slog.Debug("Unmatched team name", "raw", trimmed, "cleaned", cleaned)
	}
	return n.record(trimmed, cleaned, MethodUnmatched, 0)
}

func (n *Normalizer) record(input, output, method string, confidence float64) Result {
	n.counters[method]++
	n.mapping[input] = output
	return Result{Input: input, Output: output, Method: method, Confidence: confidence}
}

func (n *Normalizer) applyHeuristics(s string) string {
	for _, re := range n.removes {
		s = re.ReplaceAllString(s, "")
	}
	for _, r := range n.replaces {
		s = r.re.ReplaceAllString(s, r.replacement)
	}
	s = strings.Join(strings.Fields(s), " ")
	if n.caseNorm {
		s = n.normalizeCase(s)
	}
	return s
}

// normalizeCase title-cases each word while keeping allow-listed
// abbreviations in their configured form.
func (n *Normalizer) normalizeCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if preserved, ok := n.preserve[strings.ToUpper(w)]; ok {
			words[i] = preserved
			continue
		}
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	runes := []rune(w)
	for i, r := range runes {
		if i == 0 {
			runes[i] = unicode.ToUpper(r)
		} else {
			runes[i] = unicode.ToLower(r)
		}
	}
	return string(runes)
}

func (n *Normalizer) applyOCRCorrections(s string) string {
	for _, r := range n.ocrRules {
		s = strings.ReplaceAll(s, r.from, r.to)
	}
	return s
}

// fuzzyMatch scans all canonical names for the closest one within the
// configured edit distance. Ties go to the smaller distance, then to the
// lexicographically smaller candidate (the pool is sorted, so the first
// candidate at a given distance wins).
func (n *Normalizer) fuzzyMatch(cleaned string) (string, float64, bool) {
	maxDist := n.settings.MaxEditDistance
	input := strings.ToLower(cleaned)

	best := ""
	bestDist := maxDist + 1
	for _, candidate := range n.fuzzyPool {
		d := boundedLevenshtein(input, strings.ToLower(candidate), maxDist)
		if d < bestDist {
			bestDist = d
			best = candidate
		}
	}
	if best == "" || bestDist > maxDist {
		return "", 0, false
	}

	longest := len([]rune(cleaned))
	if l := len([]rune(best)); l > longest {
		longest = l
	}
	if longest == 0 {
		return "", 0, false
	}
	similarity := 1.0 - float64(bestDist)/float64(longest)
	if similarity < n.settings.MinConfidenceThreshold {
		return "", 0, false
	}
	return best, similarity, true
}

// FoldInto merges this normalizer's accumulators into a stats value. Called
// once per worker at the post-parse barrier.
func (n *Normalizer) FoldInto(stats *models.ProcessingStats) {
	for method, count := range n.counters {
		stats.Normalizations += count
		stats.NormalizationsByMethod[method] += count
	}
	for team := range n.unmatched {
		stats.UnmatchedTeams[team] = struct{}{}
	}
	for raw, canonical := range n.mapping {
		stats.TeamMapping[raw] = canonical
	}
}

// Counters returns a copy of the per-method counters.
func (n *Normalizer) Counters() map[string]int {
	out := make(map[string]int, len(n.counters))
	for k, v := range n.counters {
		out[k] = v
	}
	return out
}

// Unmatched returns the raw names no stage could resolve, sorted.
func (n *Normalizer) Unmatched() []string {
	out := make([]string, 0, len(n.unmatched))
	for team := range n.unmatched {
		out = append(out, team)
	}
	sort.Strings(out)
	return out
}

// Reset clears all accumulators.
func (n *Normalizer) Reset() {
	n.counters = make(map[string]int)
	n.unmatched = make(map[string]struct{})
	n.mapping = make(map[string]string)
}

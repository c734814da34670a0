// Package pipeline wires the extract, normalize, aggregate and report stages
// into one run: source files fan out to parallel workers, results join at a
// single barrier where cross-source merging and reporting happen.
package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/slipline/slipline/internal/aggregate"
	"github.com/slipline/slipline/internal/extract"
	"github.com/slipline/slipline/internal/normalize"
	"github.com/slipline/slipline/internal/pkg/config"
	"github.com/slipline/slipline/internal/pkg/models"
	"github.com/slipline/slipline/internal/report"
)

// defaultLeague labels matches appearing before any league section header.
const defaultLeague = "unknown"

// Pipeline holds the immutable run configuration. Safe to share across
// workers; all mutable state lives in per-worker values.
type Pipeline struct {
	cfg     *config.Config
	teams   *config.TeamsConfig
	markets *config.MarketsConfig
}

// Result is the outcome of one full run.
type Result struct {
	Matches   []*models.CanonicalMatch
	Anomalies []models.AnomalyRecord
	Stats     *models.ProcessingStats
	Report    *report.Report
}

// New builds a pipeline over validated configuration.
func New(cfg *config.Config, teams *config.TeamsConfig, markets *config.MarketsConfig) *Pipeline {
	return &Pipeline{cfg: cfg, teams: teams, markets: markets}
}

type sourceResult struct {
	source  string
	matches []*models.CanonicalMatch
	stats   *models.ProcessingStats
	err     error
}

// Run processes the given extract files, one worker per file up to the
// configured limit, merges the per-source results and produces the report.
func (p *Pipeline) Run(ctx context.Context, files []string) (*Result, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no extract files to process")
	}

	workers := p.cfg.Pipeline.Workers
	if workers <= 0 || workers > len(files) {
		workers = len(files)
	}

	results := make(chan sourceResult, len(files))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, file := range files {
		file := file
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				results <- sourceResult{source: sourceName(file), err: ctx.Err()}
				return
			}
			results <- p.processFile(file)
		}()
	}
	wg.Wait()
	close(results)

	// Barrier: single goroutine from here on, no shared mutable state above.
	stats := models.NewProcessingStats()
	byKey := make(map[string]*models.CanonicalMatch)
	var order []string
	var failed int

	for res := range results {
		if res.err != nil {
			failed++
			slog.Error("Source file failed", "source", res.source, "error", res.err)
			continue
		}
		stats.Merge(res.stats)
		for _, m := range res.matches {
			existing, ok := byKey[m.Key]
			if !ok {
				byKey[m.Key] = m
				order = append(order, m.Key)
				continue
			}
			aggregate.Merge(existing, m, stats)
		}
		slog.Info("Source merged", "source", res.source, "matches", len(res.matches))
	}

	if failed == len(files) {
		return nil, fmt.Errorf("all %d source files failed", failed)
	}

	sort.Strings(order)
	matches := make([]*models.CanonicalMatch, 0, len(order))
	for _, key := range order {
		matches = append(matches, byKey[key])
	}

	anomalies := report.NewDetector(p.markets).Detect(matches)
	rep := report.Generate(matches, anomalies, stats, time.Now())

	return &Result{
		Matches:   matches,
		Anomalies: anomalies,
		Stats:     stats,
		Report:    rep,
	}, nil
}

// processFile runs the pure per-source transform: parse, resolve dates,
// normalize teams, aggregate markets. No I/O besides the initial read.
func (p *Pipeline) processFile(path string) sourceResult {
	source := sourceName(path)
	res := sourceResult{source: source, stats: models.NewProcessingStats()}

	lines, err := readLines(path)
	if err != nil {
		res.err = fmt.Errorf("failed to read %s: %w", path, err)
		return res
	}

	normalizer, err := normalize.New(p.teams)
	if err != nil {
		res.err = fmt.Errorf("failed to build normalizer: %w", err)
		return res
	}
	aggregator, err := aggregate.New(normalizer, p.markets, res.stats)
	if err != nil {
		res.err = fmt.Errorf("failed to build aggregator: %w", err)
		return res
	}

	resolver := extract.NewDateResolver(extract.ScanAnchors(lines))
	league := defaultLeague

	var candidates []*models.ParsedLineCandidate
	matchDropped := false
	for i, line := range lines {
		res.stats.LinesTotal++
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, ok := extract.ParseAnchor(line, i+1); ok {
			continue
		}

		c := extract.Parse(line, i+1)
		if c == nil {
			if name, ok := extract.DetectLeague(line); ok {
				league = name
				continue
			}
			res.stats.LinesSkipped++
			continue
		}

		c.Source = source
		if c.IsMatchLine() {
			date, ok := resolver.Resolve(c)
			if !ok {
				// No date available yet; drop the line and everything
				// hanging off it.
				res.stats.DroppedNoDate++
				matchDropped = true
				continue
			}
			matchDropped = false
			c.Date = date
			c.League = league
		} else if matchDropped {
			res.stats.DroppedNoDate++
			continue
		}
		candidates = append(candidates, c)
	}

	res.matches = aggregator.Aggregate(candidates, source)
	normalizer.FoldInto(res.stats)
	return res
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func sourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

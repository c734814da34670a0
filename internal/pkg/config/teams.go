package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
)

// TeamsConfig is the team-alias document driving the normalizer.
type TeamsConfig struct {
	Aliases    map[string]string  `json:"aliases"`
	Heuristics HeuristicsConfig   `json:"heuristics"`
	Settings   NormalizerSettings `json:"settings"`
}

type HeuristicsConfig struct {
	RemovePatterns    []string                `json:"remove_patterns"`
	ReplacePatterns   map[string]string       `json:"replace_patterns"`
	CaseNormalization CaseNormalizationConfig `json:"case_normalization"`
	CommonOCRErrors   map[string]string       `json:"common_ocr_errors"`
}

type CaseNormalizationConfig struct {
	Enabled                    bool     `json:"enabled"`
	PreserveKnownAbbreviations []string `json:"preserve_known_abbreviations"`
}

type NormalizerSettings struct {
	MaxEditDistance        int     `json:"max_edit_distance"`
	MinConfidenceThreshold float64 `json:"min_confidence_threshold"`
	EnableFuzzyMatching    bool    `json:"enable_fuzzy_matching"`
	LogUnmatchedTeams      bool    `json:"log_unmatched_teams"`
}

// LoadTeams reads and validates the team-alias document. Regex patterns are
// compiled here once so a bad pattern aborts the run before any file is read.
func LoadTeams(path string) (*TeamsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read teams config: %w", err)
	}

	var cfg TeamsConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse teams config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid teams config: %w", err)
	}
	return &cfg, nil
}

func (c *TeamsConfig) validate() error {
	if c.Aliases == nil {
		c.Aliases = map[string]string{}
	}
	for _, p := range c.Heuristics.RemovePatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("bad remove pattern %q: %w", p, err)
		}
	}
	for p := range c.Heuristics.ReplacePatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("bad replace pattern %q: %w", p, err)
		}
	}
	if c.Settings.MaxEditDistance < 0 {
		return fmt.Errorf("max_edit_distance cannot be negative")
	}
	if c.Settings.MaxEditDistance == 0 {
		c.Settings.MaxEditDistance = 2
	}
	if c.Settings.MinConfidenceThreshold < 0 || c.Settings.MinConfidenceThreshold > 1 {
		return fmt.Errorf("min_confidence_threshold must be in [0,1], got %v", c.Settings.MinConfidenceThreshold)
	}
	if c.Settings.MinConfidenceThreshold == 0 {
		c.Settings.MinConfidenceThreshold = 0.8
	}
	return nil
}

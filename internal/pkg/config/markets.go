package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
)

// MarketsConfig is the market-priority document driving aggregation.
type MarketsConfig struct {
	MarketPriorities   map[string]int      `json:"market_priorities"`
	Settings           MarketSettings      `json:"settings"`
	MarketTypePatterns []MarketTypePattern `json:"market_type_patterns"`
}

type MarketSettings struct {
	MaxMarketsLimit int `json:"max_markets_limit"`
}

// MarketTypePattern classifies a free-text market description into a type.
// Patterns are tried in document order; first match wins.
type MarketTypePattern struct {
	Pattern string `json:"pattern"`
	Type    string `json:"type"`
}

// LoadMarkets reads and validates the market-priority document.
func LoadMarkets(path string) (*MarketsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read markets config: %w", err)
	}

	var cfg MarketsConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse markets config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid markets config: %w", err)
	}
	return &cfg, nil
}

func (c *MarketsConfig) validate() error {
	if len(c.MarketPriorities) == 0 {
		return fmt.Errorf("market_priorities cannot be empty")
	}
	for typ, prio := range c.MarketPriorities {
		if prio < 0 {
			return fmt.Errorf("priority for %q cannot be negative", typ)
		}
	}
	for _, p := range c.MarketTypePatterns {
		if p.Type == "" {
			return fmt.Errorf("market type pattern %q has empty type", p.Pattern)
		}
		if _, err := regexp.Compile(p.Pattern); err != nil {
			return fmt.Errorf("bad market type pattern %q: %w", p.Pattern, err)
		}
	}
	if c.Settings.MaxMarketsLimit <= 0 {
		c.Settings.MaxMarketsLimit = 10
	}
	return nil
}

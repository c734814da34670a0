package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Reports  ReportsConfig  `yaml:"reports"`
	Logging  LoggingConfig  `yaml:"logging"`
	Redis    RedisConfig    `yaml:"redis"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type PipelineConfig struct {
	InputDir    string `yaml:"input_dir"`
	TeamsPath   string `yaml:"teams_config"`
	MarketsPath string `yaml:"markets_config"`
	Workers     int    `yaml:"workers"`  // parallel source files, 0 = one worker per file
	Schedule    string `yaml:"schedule"` // cron expression, empty = one-shot run
}

type ReportsConfig struct {
	Dir string `yaml:"dir"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
	Channel  string        `yaml:"channel"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

// Load reads and validates the application config. Any problem here is fatal:
// the pipeline never starts against a broken configuration.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

func (c *Config) validate() error {
	if c.Pipeline.InputDir == "" {
		return fmt.Errorf("pipeline.input_dir is required")
	}
	if c.Pipeline.TeamsPath == "" {
		return fmt.Errorf("pipeline.teams_config is required")
	}
	if c.Pipeline.MarketsPath == "" {
		return fmt.Errorf("pipeline.markets_config is required")
	}
	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("pipeline.workers cannot be negative")
	}
	if c.Reports.Dir == "" {
		c.Reports.Dir = "reports"
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	if c.Redis.TTL <= 0 {
		c.Redis.TTL = time.Hour
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	return nil
}

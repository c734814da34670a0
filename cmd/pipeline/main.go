package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/slipline/slipline/internal/pipeline"
	pkgconfig "github.com/slipline/slipline/internal/pkg/config"
	"github.com/slipline/slipline/internal/pkg/logging"
	"github.com/slipline/slipline/internal/pkg/notify"
	"github.com/slipline/slipline/internal/pkg/storage"
)

const defaultConfigPath = "configs/production.yaml"

type flags struct {
	configPath string
	inputDir   string // overrides pipeline.input_dir
	schedule   string // overrides pipeline.schedule
	once       bool   // force a single run even when a schedule is configured
}

func main() {
	if err := run(); err != nil {
		slog.Error("Pipeline failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	f := parseFlags()

	slog.Info("Loading config", "path", f.configPath)
	cfg, err := pkgconfig.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(&cfg.Logging, "pipeline")

	if f.inputDir != "" {
		cfg.Pipeline.InputDir = f.inputDir
	}
	if f.schedule != "" {
		cfg.Pipeline.Schedule = f.schedule
	}

	// Domain documents are loaded and validated once; any problem aborts
	// before a single extract file is touched.
	teams, err := pkgconfig.LoadTeams(cfg.Pipeline.TeamsPath)
	if err != nil {
		return err
	}
	markets, err := pkgconfig.LoadMarkets(cfg.Pipeline.MarketsPath)
	if err != nil {
		return err
	}
	slog.Info("Config loaded", "aliases", len(teams.Aliases), "market_types", len(markets.MarketPriorities))

	p := pipeline.New(cfg, teams, markets)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Pipeline.Schedule == "" || f.once {
		return runOnce(ctx, cfg, p)
	}

	slog.Info("Schedule mode", "cron", cfg.Pipeline.Schedule)
	c := cron.New()
	if _, err := c.AddFunc(cfg.Pipeline.Schedule, func() {
		if err := runOnce(ctx, cfg, p); err != nil {
			slog.Error("Scheduled run failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", cfg.Pipeline.Schedule, err)
	}
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func runOnce(ctx context.Context, cfg *pkgconfig.Config, p *pipeline.Pipeline) error {
	files, err := collectFiles(cfg.Pipeline.InputDir)
	if err != nil {
		return err
	}
	slog.Info("Starting run", "files", len(files), "workers", cfg.Pipeline.Workers)

	started := time.Now()
	result, err := p.Run(ctx, files)
	if err != nil {
		return err
	}

	path, err := result.Report.Write(cfg.Reports.Dir, time.Now())
	if err != nil {
		return err
	}
	slog.Info("Run finished",
		"duration", time.Since(started),
		"games", result.Report.Summary.TotalGames,
		"markets", result.Report.Summary.TotalMarkets,
		"anomalies", len(result.Anomalies),
		"report", path)

	if cfg.Redis.Enabled {
		publisher, err := storage.NewRedisPublisher(
			cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL, cfg.Redis.Channel)
		if err != nil {
			slog.Error("Redis unavailable, skipping publish", "error", err)
		} else {
			defer publisher.Close()
			if err := publisher.StoreMatches(ctx, result.Matches); err != nil {
				slog.Error("Failed to store matches", "error", err)
			}
			if err := publisher.PublishReport(ctx, result.Report); err != nil {
				slog.Error("Failed to publish report", "error", err)
			}
		}
	}

	if cfg.Telegram.Enabled {
		notifier := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err := notifier.SendRunSummary(result.Report, path); err != nil {
			slog.Error("Failed to send telegram summary", "error", err)
		}
	}
	return nil
}

// collectFiles lists the .txt extracts in the input directory, sorted for
// deterministic source ordering.
func collectFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".txt" {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("no .txt extracts in %s", dir)
	}
	return files, nil
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", defaultConfigPath, "path to YAML config")
	flag.StringVar(&f.inputDir, "input", "", "override input directory")
	flag.StringVar(&f.schedule, "schedule", "", "override cron schedule")
	flag.BoolVar(&f.once, "once", false, "run once and exit even with a schedule configured")
	flag.Parse()
	return f
}

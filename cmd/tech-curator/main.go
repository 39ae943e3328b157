package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/ryosukesatoh/tech-curator/internal/config"
	"github.com/ryosukesatoh/tech-curator/internal/logger"
	"github.com/ryosukesatoh/tech-curator/internal/runner"
	"github.com/ryosukesatoh/tech-curator/internal/scraper"
	"github.com/ryosukesatoh/tech-curator/internal/storage"
	"github.com/ryosukesatoh/tech-curator/internal/summarizer"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (falls back to env-only config when missing)")
	once := flag.Bool("once", false, "run the pipeline once and exit")
	flag.Parse()

	// Optional; credentials usually arrive through the environment.
	_ = godotenv.Load()

	var cfg *config.Config
	if _, err := os.Stat(*configPath); err == nil {
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	} else {
		cfg = config.Default()
	}

	lg := logger.New(cfg.LogLevel)
	lg.Info("starting tech-curator", "log_level", cfg.LogLevel)

	if cfg.Summarizer.APIKey == "" {
		lg.Warn("no summarizer API key configured; generation may be rejected upstream")
	}

	scrapers := scraper.All(cfg, lg)
	if len(scrapers) == 0 {
		log.Fatal("No sources enabled; nothing to curate")
	}

	gen := summarizer.NewHFClient(cfg.Summarizer.Endpoint, cfg.Summarizer.APIKey)
	summ := summarizer.New(gen, lg)

	markdown, err := storage.NewMarkdownStorage(cfg.OutputDir, lg)
	if err != nil {
		log.Fatalf("Failed to set up markdown storage: %v", err)
	}

	var email *storage.EmailDigest
	var recipients []string
	if cfg.Email.Enabled {
		email = storage.NewEmailDigest(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.From, cfg.Email.Password, lg)
		recipients = cfg.Email.To
	} else {
		lg.Info("email sending is disabled")
	}

	r := runner.New(cfg.ArticlesPerSource, scrapers, summ, markdown, email, recipients, lg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Single-run mode: run the pipeline once and exit.
	if *once {
		if err := r.Run(ctx); err != nil {
			log.Fatalf("Pipeline failed: %v", err)
		}
		return
	}

	if cfg.RunOnStart {
		if err := r.Run(ctx); err != nil {
			lg.Error("initial run failed", "error", err)
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule, func() {
		lg.Info("schedule triggered, running curation")
		if err := r.Run(ctx); err != nil {
			lg.Error("scheduled run failed", "error", err)
		}
	}); err != nil {
		log.Fatalf("Failed to set up cron schedule %q: %v", cfg.Schedule, err)
	}
	c.Start()
	lg.Info("scheduled curation", "cron", cfg.Schedule)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	lg.Info("shutting down", "signal", sig.String())

	cancel()
	c.Stop()
}

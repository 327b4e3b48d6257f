package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"YieldBoard/internal/collector"
	"YieldBoard/internal/config"
	"YieldBoard/internal/notifier"
	"YieldBoard/internal/pipeline"
	"YieldBoard/internal/recorder"
	"YieldBoard/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] YieldBoard fetcher starting...")

	// Load .env if present, then config
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher and store
	fetcher := collector.NewYahooFetcher(cfg.Provider.BaseURL, cfg.Proxy)
	log.Printf("[INFO] data source: %s", fetcher.Name())
	st := store.New(cfg.DataDir)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram notifier (disabled without credentials)
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := pipeline.New(cfg, fetcher, st, rec, tn)

	// One-shot mode: run once and exit.
	if cfg.Schedule.Cron == "" {
		if err := p.Run(ctx); err != nil {
			log.Fatalf("[FATAL] pipeline run: %v", err)
		}
		log.Println("[INFO] YieldBoard fetcher done")
		return
	}

	// Daemon mode: re-run on the configured cron schedule.
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(cfg.Schedule.Cron, func() {
		if err := p.Run(ctx); err != nil {
			log.Printf("[ERROR] pipeline run: %v", err)
		}
	}); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	c.Start()
	defer c.Stop()
	log.Printf("[INFO] scheduler started (cron: %s)", cfg.Schedule.Cron)

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing pipeline now")
		go func() {
			if err := p.Run(ctx); err != nil {
				log.Printf("[ERROR] pipeline run: %v", err)
			}
		}()
	}

	log.Println("[INFO] YieldBoard fetcher is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] YieldBoard fetcher stopped")
}

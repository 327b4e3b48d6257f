// Package pipeline runs the fetch -> normalize -> compile -> write sequence.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"YieldBoard/internal/collector"
	"YieldBoard/internal/config"
	"YieldBoard/internal/history"
	"YieldBoard/internal/model"
	"YieldBoard/internal/normalize"
	"YieldBoard/internal/notifier"
	"YieldBoard/internal/recorder"
	"YieldBoard/internal/schedule"
	"YieldBoard/internal/store"
)

// Pipeline wires the stages together. Stages run strictly in sequence; a
// failing ticker is logged and skipped, it never aborts the run.
type Pipeline struct {
	Cfg      *config.Config
	Fetcher  collector.Fetcher
	Store    *store.Store
	Recorder recorder.Recorder
	Notifier *notifier.TelegramNotifier

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// New creates a Pipeline with all collaborators wired.
func New(cfg *config.Config, f collector.Fetcher, st *store.Store, rec recorder.Recorder, tn *notifier.TelegramNotifier) *Pipeline {
	return &Pipeline{
		Cfg:      cfg,
		Fetcher:  f,
		Store:    st,
		Recorder: rec,
		Notifier: tn,
		Now:      time.Now,
	}
}

// Run executes one full pipeline pass. It returns an error only for output
// I/O failures; provider errors are absorbed per ticker.
func (p *Pipeline) Run(ctx context.Context) error {
	start := p.Now().UTC()
	log.Printf("[INFO] starting data fetch (source: %s)", p.Fetcher.Name())

	if p.Cfg.Schedule.SkipWeekends && !schedule.IsWeekday(start) {
		log.Println("[INFO] weekend, markets closed; skipping run")
		return nil
	}

	if err := p.Store.EnsureDir(); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}

	reitsFetched := p.fetchGroup(p.Cfg.Tickers.Reits)
	log.Printf("[INFO] REITs fetched: %d/%d", reitsFetched, len(p.Cfg.Tickers.Reits))
	etfsFetched := p.fetchGroup(p.Cfg.Tickers.Etfs)
	log.Printf("[INFO] ETFs fetched: %d/%d", etfsFetched, len(p.Cfg.Tickers.Etfs))

	reits := p.processGroup(p.Cfg.Tickers.Reits, model.GroupREIT)
	etfs := p.processGroup(p.Cfg.Tickers.Etfs, model.GroupETF)

	reitHistories := p.compileGroup(p.Cfg.Tickers.Reits)
	etfHistories := p.compileGroup(p.Cfg.Tickers.Etfs)

	if err := p.writeJSON("reits.json", reits); err != nil {
		return err
	}
	if err := p.writeJSON("etfs.json", etfs); err != nil {
		return err
	}
	if err := p.writeJSON("reit_histories.json", reitHistories); err != nil {
		return err
	}
	if err := p.writeJSON("etf_histories.json", etfHistories); err != nil {
		return err
	}

	finished := p.Now().UTC()
	stamp := schedule.Stamp(finished)
	if err := p.writeJSON("last_update.json", stamp); err != nil {
		return err
	}

	summary := &model.RunSummary{
		Source:         p.Fetcher.Name(),
		StartedAt:      start,
		Duration:       finished.Sub(start),
		ReitsFetched:   reitsFetched,
		ReitsTotal:     len(p.Cfg.Tickers.Reits),
		ReitsProcessed: len(reits),
		EtfsFetched:    etfsFetched,
		EtfsTotal:      len(p.Cfg.Tickers.Etfs),
		EtfsProcessed:  len(etfs),
		NextUpdate:     stamp.NextScheduledUpdate,
	}
	if err := p.Recorder.RecordRun(summary); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	if p.Notifier != nil && p.Notifier.Enabled() {
		if err := p.Notifier.SendWithRetry(ctx, notifier.FormatRunReport(summary), 3); err != nil {
			log.Printf("[ERROR] send run report: %v", err)
		}
	}

	log.Printf("[INFO] data fetch complete: %d REITs, %d ETFs, next update %s",
		len(reits), len(etfs), stamp.NextScheduledUpdate.Format(time.RFC3339))
	return nil
}

// fetchGroup pulls snapshot and history for every ticker in the group into
// the intermediate store. Returns the count of tickers with both files saved.
func (p *Pipeline) fetchGroup(tickers []string) int {
	fetched := 0
	for _, ticker := range tickers {
		ok := true

		snap, err := p.Fetcher.FetchSnapshot(ticker)
		if err != nil {
			log.Printf("[WARN] fetch %s info: %v", ticker, err)
			ok = false
		} else if err := p.Store.WriteSnapshot(ticker, snap); err != nil {
			log.Printf("[ERROR] save %s info: %v", ticker, err)
			ok = false
		}

		bars, err := p.Fetcher.FetchDailyHistory(ticker, p.Cfg.Provider.HistoryDays)
		if err != nil {
			log.Printf("[WARN] fetch %s history: %v", ticker, err)
			ok = false
		} else if err := p.Store.WriteHistory(ticker, bars); err != nil {
			log.Printf("[ERROR] save %s history: %v", ticker, err)
			ok = false
		}

		if ok {
			fetched++
		}
	}
	return fetched
}

// processGroup normalizes every ticker's stored snapshot into dashboard rows.
// Tickers with missing or unusable data are excluded, not zero-filled.
func (p *Pipeline) processGroup(tickers []string, group model.Group) []model.TickerSnapshot {
	out := make([]model.TickerSnapshot, 0, len(tickers))
	for _, ticker := range tickers {
		raw, err := p.Store.ReadSnapshot(ticker)
		if err != nil {
			log.Printf("[WARN] no data for %s: %v", ticker, err)
			continue
		}
		snap, err := normalize.Snapshot(ticker, raw, group)
		if err != nil {
			log.Printf("[WARN] normalize %s: %v", ticker, err)
			continue
		}
		log.Printf("[INFO] processed %s: $%.2f, yield %.2f%%", ticker, snap.Price, snap.Yield)
		out = append(out, *snap)
	}
	return out
}

// compileGroup builds the ticker -> series mapping. A ticker with an empty or
// unreadable history contributes no key at all.
func (p *Pipeline) compileGroup(tickers []string) map[string]model.PriceSeries {
	out := make(map[string]model.PriceSeries, len(tickers))
	for _, ticker := range tickers {
		bars, err := p.Store.ReadHistory(ticker)
		if err != nil {
			log.Printf("[WARN] no history for %s: %v", ticker, err)
			continue
		}
		series, err := history.Compile(bars)
		if err != nil {
			log.Printf("[WARN] compile history for %s: %v", ticker, err)
			continue
		}
		out[ticker] = series
	}
	return out
}

func (p *Pipeline) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	path := filepath.Join(p.Cfg.DataDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	log.Printf("[INFO] saved %s", name)
	return nil
}

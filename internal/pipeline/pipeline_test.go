package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"YieldBoard/internal/collector"
	"YieldBoard/internal/config"
	"YieldBoard/internal/model"
	"YieldBoard/internal/recorder"
	"YieldBoard/internal/store"
)

func testConfig(dir string) *config.Config {
	cfg := &config.Config{DataDir: dir}
	cfg.Tickers.Reits = []string{"AGNC", "FAIL"}
	cfg.Tickers.Etfs = []string{"JEPI", "EMPTY"}
	cfg.Provider.HistoryDays = 30
	return cfg
}

func testPipeline(t *testing.T, dir string) *Pipeline {
	t.Helper()
	cfg := testConfig(dir)
	fetcher := &collector.MockFetcher{
		Failing:   map[string]bool{"FAIL": true},
		Histories: map[string][]model.Bar{"EMPTY": {}},
		Price:     50,
	}
	p := New(cfg, fetcher, store.New(dir), recorder.NewNoopRecorder(), nil)
	// Wednesday 10:00 UTC
	p.Now = func() time.Time { return time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC) }
	return p
}

func readJSON(t *testing.T, dir, name string, v interface{}) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("unmarshal %s: %v", name, err)
	}
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	p := testPipeline(t, dir)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	// Failing ticker is excluded, the rest of the group survives
	var reits []model.TickerSnapshot
	readJSON(t, dir, "reits.json", &reits)
	if len(reits) != 1 {
		t.Fatalf("got %d reits, want 1: %+v", len(reits), reits)
	}
	if reits[0].Ticker != "AGNC" {
		t.Errorf("reit ticker = %s, want AGNC", reits[0].Ticker)
	}
	if reits[0].Name != "AGNC Fund" {
		t.Errorf("reit name = %q", reits[0].Name)
	}
	if reits[0].Price != 50 {
		t.Errorf("reit price = %v, want 50", reits[0].Price)
	}
	if reits[0].Yield != 4.5 {
		t.Errorf("reit yield = %v, want 4.5", reits[0].Yield)
	}
	if reits[0].Sector == nil || *reits[0].Sector != "Real Estate" {
		t.Errorf("reit sector = %v, want Real Estate default", reits[0].Sector)
	}

	// EMPTY has a snapshot but no history: present in etfs.json...
	var etfs []model.TickerSnapshot
	readJSON(t, dir, "etfs.json", &etfs)
	if len(etfs) != 2 {
		t.Fatalf("got %d etfs, want 2: %+v", len(etfs), etfs)
	}
	if etfs[0].Category == nil || *etfs[0].Category != "ETF" {
		t.Errorf("etf category = %v, want ETF default", etfs[0].Category)
	}

	// ...but fully absent from the histories mapping
	var etfHistories map[string]model.PriceSeries
	readJSON(t, dir, "etf_histories.json", &etfHistories)
	if _, ok := etfHistories["EMPTY"]; ok {
		t.Error("EMPTY should contribute no histories key")
	}
	series, ok := etfHistories["JEPI"]
	if !ok {
		t.Fatal("expected JEPI history")
	}
	if len(series.Dates) != len(series.Prices) || len(series.Dates) == 0 {
		t.Fatalf("misaligned series: %d dates, %d prices", len(series.Dates), len(series.Prices))
	}

	var reitHistories map[string]model.PriceSeries
	readJSON(t, dir, "reit_histories.json", &reitHistories)
	if _, ok := reitHistories["FAIL"]; ok {
		t.Error("FAIL should contribute no histories key")
	}

	var stamp model.ScheduleStamp
	readJSON(t, dir, "last_update.json", &stamp)
	if !stamp.AutoUpdateEnabled {
		t.Error("expected autoUpdateEnabled")
	}
	want := time.Date(2025, 1, 8, 21, 0, 0, 0, time.UTC)
	if !stamp.NextScheduledUpdate.Equal(want) {
		t.Errorf("next update = %v, want %v", stamp.NextScheduledUpdate, want)
	}
}

func TestRun_Deterministic(t *testing.T) {
	dir := t.TempDir()
	p := testPipeline(t, dir)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := map[string][]byte{}
	for _, name := range []string{"reits.json", "etfs.json", "reit_histories.json", "etf_histories.json", "last_update.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		first[name] = data
	}

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	for name, want := range first {
		got, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("%s changed between identical runs", name)
		}
	}
}

func TestRun_AllTickersFailStillWritesValidOutput(t *testing.T) {
	dir := t.TempDir()
	p := testPipeline(t, dir)
	p.Fetcher = &collector.MockFetcher{Failing: map[string]bool{
		"AGNC": true, "FAIL": true, "JEPI": true, "EMPTY": true,
	}}

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "reits.json"))
	if err != nil {
		t.Fatalf("read reits.json: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("reits.json = %q, want empty array", data)
	}

	data, err = os.ReadFile(filepath.Join(dir, "etf_histories.json"))
	if err != nil {
		t.Fatalf("read etf_histories.json: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("etf_histories.json = %q, want empty object", data)
	}
}

func TestRun_WeekendGuard(t *testing.T) {
	dir := t.TempDir()
	p := testPipeline(t, dir)
	p.Cfg.Schedule.SkipWeekends = true
	// Saturday 09:00 UTC
	p.Now = func() time.Time { return time.Date(2025, 1, 11, 9, 0, 0, 0, time.UTC) }

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "reits.json")); !os.IsNotExist(err) {
		t.Error("guarded run should write nothing")
	}
}

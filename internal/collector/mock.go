package collector

import (
	"fmt"
	"time"

	"YieldBoard/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Snapshots map[string]model.RawSnapshot
	Histories map[string][]model.Bar
	Failing   map[string]bool // tickers whose fetches should error
	Price     float64
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSnapshot(ticker string) (model.RawSnapshot, error) {
	if m.Failing[ticker] {
		return nil, fmt.Errorf("mock: fetch failure for %s", ticker)
	}
	if snap, ok := m.Snapshots[ticker]; ok {
		return snap, nil
	}
	return model.RawSnapshot{
		"ticker":             ticker,
		"longName":           ticker + " Fund",
		"shortName":          ticker,
		"regularMarketPrice": fmt.Sprintf("%.2f", m.basePrice()),
		"dividendYield":      "0.045",
	}, nil
}

func (m *MockFetcher) FetchDailyHistory(ticker string, days int) ([]model.Bar, error) {
	if m.Failing[ticker] {
		return nil, fmt.Errorf("mock: history failure for %s", ticker)
	}
	if bars, ok := m.Histories[ticker]; ok {
		if len(bars) == 0 {
			return nil, fmt.Errorf("mock: empty history for %s", ticker)
		}
		return bars, nil
	}
	return GenerateMockBars(m.basePrice(), days), nil
}

func (m *MockFetcher) basePrice() float64 {
	if m.Price != 0 {
		return m.Price
	}
	return 50
}

// GenerateMockBars produces a deterministic ascending series of daily bars.
func GenerateMockBars(basePrice float64, count int) []model.Bar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

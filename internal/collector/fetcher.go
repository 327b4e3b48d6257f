package collector

import "YieldBoard/internal/model"

// Fetcher defines the interface for fetching quote data from a provider.
type Fetcher interface {
	FetchSnapshot(ticker string) (model.RawSnapshot, error)
	FetchDailyHistory(ticker string, days int) ([]model.Bar, error)
	Name() string
}

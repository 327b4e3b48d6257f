package model

import "time"

// Group classifies a ticker into one of the two configured lists.
type Group int

const (
	GroupREIT Group = iota
	GroupETF
)

func (g Group) String() string {
	if g == GroupREIT {
		return "REIT"
	}
	return "ETF"
}

// RawSnapshot holds a provider-shaped quote record as flat field -> value
// pairs. Values are strings because the record round-trips through the CSV
// intermediate cache; consumers coerce the fields they need.
type RawSnapshot map[string]string

// Bar represents a single daily price bar.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// TickerSnapshot is one normalized dashboard row. Sector and Category are
// pointers so an absent value serializes as JSON null.
type TickerSnapshot struct {
	Ticker   string  `json:"ticker"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Yield    float64 `json:"yield"`
	Sector   *string `json:"sector"`
	Category *string `json:"category"`
}

// PriceSeries holds aligned date/price columns for one ticker.
// Invariant: len(Dates) == len(Prices), dates ascending.
type PriceSeries struct {
	Dates  []string  `json:"dates"`
	Prices []float64 `json:"prices"`
}

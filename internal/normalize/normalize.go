// Package normalize turns raw provider snapshots into dashboard rows.
package normalize

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"YieldBoard/internal/model"
)

// firstFloat returns the first source field that is present and parses as a
// number, in order. The chain replaces scattered per-field conditionals: add
// a source by appending its key.
func firstFloat(snap model.RawSnapshot, keys ...string) (float64, bool) {
	for _, k := range keys {
		raw, ok := snap[k]
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}

// firstString returns the first non-empty source field, in order.
func firstString(snap model.RawSnapshot, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := snap[k]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func round2(v float64) float64 {
	r, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return r
}

// Yield normalizes a raw yield value to a 0-100 percentage, rounded to two
// decimals. Values above 1.0 are treated as already-scaled percentages and
// divided by 100 first. Boundary assumption: a genuine yield never exceeds
// 100% expressed as a fraction, so anything above 1.0 must be a percentage.
func Yield(v float64) float64 {
	if v > 1 {
		v = v / 100
	}
	return round2(v * 100)
}

// Snapshot builds a TickerSnapshot from a raw provider record.
// A nil or empty record yields an error; the caller skips the ticker.
func Snapshot(ticker string, raw model.RawSnapshot, group model.Group) (*model.TickerSnapshot, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("no snapshot data for %s", ticker)
	}

	price, _ := firstFloat(raw, "currentPrice", "regularMarketPrice")
	yieldVal, _ := firstFloat(raw, "dividendYield", "yield")

	name, ok := firstString(raw, "longName", "shortName")
	if !ok {
		name = ticker
	}

	snap := &model.TickerSnapshot{
		Ticker: ticker,
		Name:   name,
		Price:  round2(price),
		Yield:  Yield(yieldVal),
	}

	if sector, ok := firstString(raw, "sector"); ok {
		snap.Sector = &sector
	} else if group == model.GroupREIT {
		s := "Real Estate"
		snap.Sector = &s
	}
	if category, ok := firstString(raw, "category"); ok {
		snap.Category = &category
	} else if group == model.GroupETF {
		c := "ETF"
		snap.Category = &c
	}
	return snap, nil
}

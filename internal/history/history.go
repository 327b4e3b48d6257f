// Package history compiles raw daily bars into aligned date/price columns.
package history

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"YieldBoard/internal/model"
)

const dateFormat = "2006-01-02"

// Compile sorts bars ascending by date and extracts aligned date strings and
// closes rounded to two decimals. An empty series is an error so the ticker
// ends up fully absent from the histories mapping, not present with zero rows.
func Compile(bars []model.Bar) (model.PriceSeries, error) {
	if len(bars) == 0 {
		return model.PriceSeries{}, fmt.Errorf("empty price series")
	}

	sorted := make([]model.Bar, len(bars))
	copy(sorted, bars)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	series := model.PriceSeries{
		Dates:  make([]string, len(sorted)),
		Prices: make([]float64, len(sorted)),
	}
	for i, b := range sorted {
		series.Dates[i] = b.Date.Format(dateFormat)
		p, _ := decimal.NewFromFloat(b.Close).Round(2).Float64()
		series.Prices[i] = p
	}
	return series, nil
}

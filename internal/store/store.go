// Package store persists the provider-shaped intermediate files, one
// snapshot/history CSV pair per ticker, keyed by lowercase ticker.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"YieldBoard/internal/model"
)

const dateFormat = "2006-01-02"

// snapshotColumns fixes the column order of the info CSV so repeated runs
// with identical data produce identical files.
var snapshotColumns = []string{
	"ticker", "longName", "shortName",
	"currentPrice", "regularMarketPrice",
	"dividendYield", "yield",
	"sector", "category",
	"fiftyTwoWeekHigh", "fiftyTwoWeekLow",
	"volume", "marketCap",
}

// Store reads and writes the intermediate cache below a single directory.
type Store struct {
	Dir string
}

func New(dir string) *Store { return &Store{Dir: dir} }

// EnsureDir creates the data directory if it does not exist.
func (s *Store) EnsureDir() error {
	return os.MkdirAll(s.Dir, 0755)
}

func (s *Store) snapshotPath(ticker string) string {
	return filepath.Join(s.Dir, strings.ToLower(ticker)+"_info.csv")
}

func (s *Store) historyPath(ticker string) string {
	return filepath.Join(s.Dir, strings.ToLower(ticker)+"_history.csv")
}

// WriteSnapshot writes one provider snapshot as a header + single-row CSV.
func (s *Store) WriteSnapshot(ticker string, snap model.RawSnapshot) error {
	f, err := os.Create(s.snapshotPath(ticker))
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	row := make([]string, len(snapshotColumns))
	for i, col := range snapshotColumns {
		row[i] = snap[col]
	}
	if err := w.WriteAll([][]string{snapshotColumns, row}); err != nil {
		return fmt.Errorf("write snapshot csv: %w", err)
	}
	return nil
}

// ReadSnapshot reads one snapshot back as field -> value pairs. Empty cells
// are omitted so absence and blank are indistinguishable downstream, which
// matches how the fetcher skips missing provider fields.
func (s *Store) ReadSnapshot(ticker string) (model.RawSnapshot, error) {
	f, err := os.Open(s.snapshotPath(ticker))
	if err != nil {
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read snapshot csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("snapshot csv for %s has no data row", ticker)
	}

	header, row := records[0], records[1]
	snap := make(model.RawSnapshot, len(header))
	for i, col := range header {
		if i < len(row) && row[i] != "" {
			snap[col] = row[i]
		}
	}
	return snap, nil
}

// WriteHistory writes daily bars as a Date,Open,High,Low,Close,Volume CSV.
func (s *Store) WriteHistory(ticker string, bars []model.Bar) error {
	f, err := os.Create(s.historyPath(ticker))
	if err != nil {
		return fmt.Errorf("create history file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	records := make([][]string, 0, len(bars)+1)
	records = append(records, []string{"Date", "Open", "High", "Low", "Close", "Volume"})
	for _, b := range bars {
		records = append(records, []string{
			b.Date.Format(dateFormat),
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatFloat(b.Volume, 'f', -1, 64),
		})
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write history csv: %w", err)
	}
	return nil
}

// ReadHistory reads the daily bars back. Columns are resolved by header name
// so extra provider columns are tolerated; rows with an unparseable date or
// close are skipped.
func (s *Store) ReadHistory(ticker string) ([]model.Bar, error) {
	f, err := os.Open(s.historyPath(ticker))
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read history csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("history csv for %s has no data rows", ticker)
	}

	idx := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		idx[col] = i
	}
	dateCol, ok := idx["Date"]
	if !ok {
		return nil, fmt.Errorf("history csv for %s missing Date column", ticker)
	}
	closeCol, ok := idx["Close"]
	if !ok {
		return nil, fmt.Errorf("history csv for %s missing Close column", ticker)
	}

	col := func(row []string, name string) float64 {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return 0
		}
		v, _ := strconv.ParseFloat(row[i], 64)
		return v
	}

	bars := make([]model.Bar, 0, len(records)-1)
	for _, row := range records[1:] {
		if dateCol >= len(row) || closeCol >= len(row) {
			continue
		}
		date, err := time.Parse(dateFormat, row[dateCol])
		if err != nil {
			continue
		}
		c, err := strconv.ParseFloat(row[closeCol], 64)
		if err != nil {
			continue
		}
		bars = append(bars, model.Bar{
			Date:   date,
			Open:   col(row, "Open"),
			High:   col(row, "High"),
			Low:    col(row, "Low"),
			Close:  c,
			Volume: col(row, "Volume"),
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("history csv for %s has no usable rows", ticker)
	}
	return bars, nil
}

package collector

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const quoteSummaryBody = `{
  "quoteSummary": {
    "result": [{
      "price": {
        "longName": "JPMorgan Equity Premium Income ETF",
        "shortName": "JPMorgan Equity Premium Inc",
        "regularMarketPrice": {"raw": 56.78},
        "regularMarketVolume": {"raw": 3400000},
        "marketCap": {"raw": 34000000000}
      },
      "summaryDetail": {
        "yield": {"raw": 0.0812},
        "fiftyTwoWeekHigh": {"raw": 60.1},
        "fiftyTwoWeekLow": {"raw": 51.3}
      },
      "fundProfile": {"categoryName": "Derivative Income"}
    }],
    "error": null
  }
}`

const chartBody = `{
  "chart": {
    "result": [{
      "timestamp": [1735822800, 1735909200, 1735995600],
      "indicators": {
        "quote": [{
          "open":   [56.1, null, 56.4],
          "high":   [56.5, null, 56.9],
          "low":    [55.9, null, 56.2],
          "close":  [56.3, null, 56.78],
          "volume": [3100000, null, 3400000]
        }]
      }
    }],
    "error": null
  }
}`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/"):
			w.Write([]byte(quoteSummaryBody))
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/"):
			w.Write([]byte(chartBody))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchSnapshot_FlattensProviderFields(t *testing.T) {
	srv := testServer(t)
	f := NewYahooFetcher(srv.URL, "")

	snap, err := f.FetchSnapshot("JEPI")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if snap["ticker"] != "JEPI" {
		t.Errorf("ticker = %q", snap["ticker"])
	}
	if snap["longName"] != "JPMorgan Equity Premium Income ETF" {
		t.Errorf("longName = %q", snap["longName"])
	}
	if snap["regularMarketPrice"] != "56.78" {
		t.Errorf("regularMarketPrice = %q", snap["regularMarketPrice"])
	}
	if snap["yield"] != "0.0812" {
		t.Errorf("yield = %q", snap["yield"])
	}
	if snap["category"] != "Derivative Income" {
		t.Errorf("category = %q", snap["category"])
	}
	// Fields the provider omitted must be absent, not empty
	if _, ok := snap["currentPrice"]; ok {
		t.Error("currentPrice should be absent")
	}
	if _, ok := snap["sector"]; ok {
		t.Error("sector should be absent")
	}
}

func TestFetchDailyHistory_SkipsNullBars(t *testing.T) {
	srv := testServer(t)
	f := NewYahooFetcher(srv.URL, "")

	bars, err := f.FetchDailyHistory("JEPI", 180)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2 (null bar skipped)", len(bars))
	}
	if bars[0].Close != 56.3 || bars[1].Close != 56.78 {
		t.Errorf("unexpected closes: %v, %v", bars[0].Close, bars[1].Close)
	}
	if !bars[0].Date.Before(bars[1].Date) {
		t.Error("bars not sorted ascending")
	}
}

func TestFetchDailyHistory_TrimsToRequestedWindow(t *testing.T) {
	srv := testServer(t)
	f := NewYahooFetcher(srv.URL, "")

	bars, err := f.FetchDailyHistory("JEPI", 1)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("got %d bars, want 1 (trailing window)", len(bars))
	}
	// Trimming keeps the newest bars
	if bars[0].Close != 56.78 {
		t.Errorf("close = %v, want 56.78", bars[0].Close)
	}
}

func TestFetchDailyHistory_RaggedQuoteArrays(t *testing.T) {
	// Three timestamps but length-1 quote arrays; the short cells must be
	// treated as null bars, not indexed.
	body := `{
	  "chart": {
	    "result": [{
	      "timestamp": [1735822800, 1735909200, 1735995600],
	      "indicators": {
	        "quote": [{
	          "open":   [56.1],
	          "high":   [56.5],
	          "low":    [55.9],
	          "close":  [56.3],
	          "volume": [3100000]
	        }]
	      }
	    }],
	    "error": null
	  }
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL, "")
	bars, err := f.FetchDailyHistory("JEPI", 180)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("got %d bars, want 1", len(bars))
	}
	if bars[0].Close != 56.3 {
		t.Errorf("close = %v, want 56.3", bars[0].Close)
	}
}

func TestFetchSnapshot_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found for ticker symbol: NOPE"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL, "")
	if _, err := f.FetchSnapshot("NOPE"); err == nil {
		t.Error("expected error for provider error response")
	}
}

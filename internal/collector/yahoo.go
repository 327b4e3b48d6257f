package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"YieldBoard/internal/model"
)

// YahooFetcher implements Fetcher using Yahoo Finance public endpoints.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(baseURL, proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// rawNumber is Yahoo's {raw, fmt} wrapper around numeric fields.
type rawNumber struct {
	Raw float64 `json:"raw"`
}

// yahooQuoteSummary is the response structure from the Yahoo quoteSummary API.
type yahooQuoteSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				LongName            string     `json:"longName"`
				ShortName           string     `json:"shortName"`
				RegularMarketPrice  *rawNumber `json:"regularMarketPrice"`
				RegularMarketVolume *rawNumber `json:"regularMarketVolume"`
				MarketCap           *rawNumber `json:"marketCap"`
			} `json:"price"`
			SummaryDetail struct {
				DividendYield    *rawNumber `json:"dividendYield"`
				Yield            *rawNumber `json:"yield"`
				FiftyTwoWeekHigh *rawNumber `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  *rawNumber `json:"fiftyTwoWeekLow"`
				Volume           *rawNumber `json:"volume"`
			} `json:"summaryDetail"`
			AssetProfile struct {
				Sector string `json:"sector"`
			} `json:"assetProfile"`
			FundProfile struct {
				CategoryName string `json:"categoryName"`
			} `json:"fundProfile"`
			FinancialData struct {
				CurrentPrice *rawNumber `json:"currentPrice"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// yahooChart is the response structure from the Yahoo chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (f *YahooFetcher) get(endpoint string) ([]byte, error) {
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// FetchSnapshot requests the quoteSummary record for one ticker and flattens
// it into the provider-shaped field set the rest of the pipeline consumes.
func (f *YahooFetcher) FetchSnapshot(ticker string) (model.RawSnapshot, error) {
	endpoint := fmt.Sprintf(
		"%s/v10/finance/quoteSummary/%s?modules=price,summaryDetail,assetProfile,fundProfile,financialData",
		f.BaseURL, url.PathEscape(ticker))

	body, err := f.get(endpoint)
	if err != nil {
		return nil, err
	}

	var qs yahooQuoteSummary
	if err := json.Unmarshal(body, &qs); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if qs.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", qs.QuoteSummary.Error.Description)
	}
	if len(qs.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", ticker)
	}

	r := qs.QuoteSummary.Result[0]
	snap := model.RawSnapshot{"ticker": ticker}
	putString(snap, "longName", r.Price.LongName)
	putString(snap, "shortName", r.Price.ShortName)
	putNumber(snap, "currentPrice", r.FinancialData.CurrentPrice)
	putNumber(snap, "regularMarketPrice", r.Price.RegularMarketPrice)
	putNumber(snap, "dividendYield", r.SummaryDetail.DividendYield)
	putNumber(snap, "yield", r.SummaryDetail.Yield)
	putString(snap, "sector", r.AssetProfile.Sector)
	putString(snap, "category", r.FundProfile.CategoryName)
	putNumber(snap, "fiftyTwoWeekHigh", r.SummaryDetail.FiftyTwoWeekHigh)
	putNumber(snap, "fiftyTwoWeekLow", r.SummaryDetail.FiftyTwoWeekLow)
	if r.SummaryDetail.Volume != nil {
		putNumber(snap, "volume", r.SummaryDetail.Volume)
	} else {
		putNumber(snap, "volume", r.Price.RegularMarketVolume)
	}
	putNumber(snap, "marketCap", r.Price.MarketCap)
	return snap, nil
}

func putString(snap model.RawSnapshot, key, val string) {
	if val != "" {
		snap[key] = val
	}
}

func putNumber(snap model.RawSnapshot, key string, n *rawNumber) {
	if n != nil {
		snap[key] = strconv.FormatFloat(n.Raw, 'f', -1, 64)
	}
}

// FetchDailyHistory returns daily bars for a trailing window of the given
// number of calendar days, sorted ascending.
func (f *YahooFetcher) FetchDailyHistory(ticker string, days int) ([]model.Bar, error) {
	rng := "2y"
	if days <= 30 {
		rng = "1mo"
	} else if days <= 90 {
		rng = "3mo"
	} else if days <= 180 {
		rng = "6mo"
	} else if days <= 365 {
		rng = "1y"
	}
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		f.BaseURL, url.PathEscape(ticker), rng)

	body, err := f.get(endpoint)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no history returned for %s", ticker)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data for %s", ticker)
	}
	quote := result.Indicators.Quote[0]
	bars := make([]model.Bar, 0, len(result.Timestamp))

	// Quote arrays can come back shorter than the timestamp list; treat any
	// missing cell as null rather than indexing past the end.
	at := func(vals []interface{}, i int) float64 {
		if i >= len(vals) {
			return 0
		}
		return toFloat(vals[i])
	}

	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		c := at(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.Bar{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo: empty history for %s", ticker)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

package pricer

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const stooqBaseURL = "https://stooq.com/q/l/"

// StooqPricer fetches end-of-day equity quotes from the stooq.com CSV
// endpoint. It needs no API key, which makes it the default provider for
// stock portfolios.
type StooqPricer struct {
	client  *http.Client
	baseURL string
	// suffix is appended to every symbol, e.g. ".us" for US listings
	// or ".in" for NSE tickers.
	suffix string
}

func NewStooqPricer(suffix string) *StooqPricer {
	return &StooqPricer{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: stooqBaseURL,
		suffix:  suffix,
	}
}

// NewStooqPricerWithClient injects the HTTP client and endpoint, used by
// tests to point at a local server.
func NewStooqPricerWithClient(client *http.Client, baseURL, suffix string) *StooqPricer {
	return &StooqPricer{client: client, baseURL: baseURL, suffix: suffix}
}

func (p *StooqPricer) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("s", strings.ToLower(symbol)+p.suffix)
	q.Set("f", "sd2t2ohlcv")
	q.Set("h", "")
	q.Set("e", "csv")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "build stooq request")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "fetch quote for %s", symbol)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("stooq returned %s for %s", resp.Status, symbol)
	}

	records, err := csv.NewReader(resp.Body).ReadAll()
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "decode stooq CSV for %s", symbol)
	}
	// header row plus one quote row: Symbol,Date,Time,Open,High,Low,Close,Volume
	if len(records) < 2 || len(records[1]) < 7 {
		return decimal.Decimal{}, fmt.Errorf("stooq returned no quote for %s", symbol)
	}

	closePrice := records[1][6]
	// stooq reports unknown symbols with "N/D" fields instead of an error status
	if closePrice == "" || closePrice == "N/D" {
		return decimal.Decimal{}, fmt.Errorf("stooq has no price for %s", symbol)
	}

	return decimal.NewFromString(closePrice)
}

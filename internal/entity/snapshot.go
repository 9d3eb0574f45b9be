package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day key format for snapshots. Lexicographic
// order equals chronological order, which the store relies on.
const DateLayout = "2006-01-02"

// SnapshotDate formats t as a snapshot date key.
func SnapshotDate(t time.Time) string {
	return t.Format(DateLayout)
}

// PortfolioSnapshot is the full valued state of the portfolio for one
// calendar day. It is written once per run, keyed by Date; re-running the
// same day overwrites the record.
type PortfolioSnapshot struct {
	Date            string          `json:"date"`
	AsOf            time.Time       `json:"as_of"`
	Holdings        []PricedHolding `json:"holdings"`
	TotalInvestment decimal.Decimal `json:"total_investment"`
	TotalValue      decimal.Decimal `json:"total_value"`
	TotalPnL        decimal.Decimal `json:"total_pnl"`
	TotalPnLPercent decimal.Decimal `json:"total_pnl_percent"`
	// UnpricedSymbols lists rows excluded from the totals so callers can
	// render a "data incomplete" banner.
	UnpricedSymbols []string `json:"unpriced_symbols,omitempty"`
}

// PriceOf returns the resolved current price for a symbol, or false when
// the symbol is absent or unpriced in this snapshot.
func (s PortfolioSnapshot) PriceOf(symbol string) (decimal.Decimal, bool) {
	key := NormalizeSymbol(symbol)
	for _, h := range s.Holdings {
		if NormalizeSymbol(h.Symbol) == key && h.CurrentPrice != nil {
			return *h.CurrentPrice, true
		}
	}
	return decimal.Decimal{}, false
}

// SnapshotRecord bundles a snapshot with the log index it originated from.
type SnapshotRecord struct {
	Index    uint64
	Snapshot PortfolioSnapshot
}

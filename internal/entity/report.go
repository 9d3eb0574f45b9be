package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnpricedSliceLabel is the label of the explicit allocation slice that
// stands in for rows whose market value is unknown. The chart never
// renormalizes priced shares to hide missing data.
const UnpricedSliceLabel = "unpriced"

// ReportRow is one holding shaped for rendering.
type ReportRow struct {
	Symbol        string           `json:"symbol"`
	CompanyName   string           `json:"company_name"`
	Quantity      int64            `json:"quantity"`
	PurchasePrice decimal.Decimal  `json:"purchase_price"`
	CurrentPrice  *decimal.Decimal `json:"current_price"`
	CostBasis     decimal.Decimal  `json:"cost_basis"`
	MarketValue   *decimal.Decimal `json:"market_value"`
	PnL           *decimal.Decimal `json:"pnl"`
	PnLPercent    *decimal.Decimal `json:"pnl_percent"`
	Unpriced      bool             `json:"unpriced"`
}

// AllocationSlice is one slice of the allocation-by-market-value pie.
type AllocationSlice struct {
	Label        string          `json:"label"`
	MarketValue  decimal.Decimal `json:"market_value"`
	SharePercent decimal.Decimal `json:"share_percent"`
}

// PnLBar is one bar of the P&L-by-symbol series.
type PnLBar struct {
	Symbol string          `json:"symbol"`
	PnL    decimal.Decimal `json:"pnl"`
}

// ReportModel is the renderer-agnostic report of one run. Console, HTML
// and email renderers all consume this and nothing else.
type ReportModel struct {
	RunID           string            `json:"run_id"`
	Date            string            `json:"date"`
	AsOf            time.Time         `json:"as_of"`
	TotalInvestment decimal.Decimal   `json:"total_investment"`
	TotalValue      decimal.Decimal   `json:"total_value"`
	TotalPnL        decimal.Decimal   `json:"total_pnl"`
	TotalPnLPercent decimal.Decimal   `json:"total_pnl_percent"`
	Rows            []ReportRow       `json:"rows"`
	Alerts          []Alert           `json:"alerts"`
	Allocation      []AllocationSlice `json:"allocation"`
	PnLBySymbol     []PnLBar          `json:"pnl_by_symbol"`
	UnpricedSymbols []string          `json:"unpriced_symbols,omitempty"`
	Warnings        []string          `json:"warnings,omitempty"`
}

// Incomplete reports whether at least one row is unpriced.
func (r ReportModel) Incomplete() bool {
	return len(r.UnpricedSymbols) > 0
}

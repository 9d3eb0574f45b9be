package entity

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidHolding marks a malformed portfolio row. A run never starts
// valuation with corrupt inputs.
var ErrInvalidHolding = errors.New("invalid holding")

// Holding is one purchased position as loaded from the portfolio file.
// It is never mutated after load.
type Holding struct {
	Symbol        string          `json:"symbol" yaml:"symbol"`
	CompanyName   string          `json:"company_name" yaml:"company"`
	PurchaseDate  time.Time       `json:"purchase_date" yaml:"purchase_date"`
	PurchasePrice decimal.Decimal `json:"purchase_price" yaml:"purchase_price"`
	Quantity      int64           `json:"quantity" yaml:"quantity"`
}

// Validate checks the holding invariant: non-empty symbol, positive
// purchase price and quantity.
func (h Holding) Validate() error {
	if strings.TrimSpace(h.Symbol) == "" {
		return errors.Wrap(ErrInvalidHolding, "empty symbol")
	}
	if !h.PurchasePrice.IsPositive() {
		return errors.Wrapf(ErrInvalidHolding, "%s: purchase price must be positive, got %s", h.Symbol, h.PurchasePrice)
	}
	if h.Quantity <= 0 {
		return errors.Wrapf(ErrInvalidHolding, "%s: quantity must be positive, got %d", h.Symbol, h.Quantity)
	}
	return nil
}

// CostBasis returns purchase price multiplied by quantity.
func (h Holding) CostBasis() decimal.Decimal {
	return h.PurchasePrice.Mul(decimal.NewFromInt(h.Quantity))
}

// NormalizeSymbol is the canonical form used for price lookups:
// trimmed and upper-cased.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// PricedHolding is a Holding joined with the price resolved for the run.
// Pointer fields are nil when the price fetch failed: such a row is
// reported as unpriced, never dropped or zero-filled.
type PricedHolding struct {
	Holding
	CurrentPrice *decimal.Decimal `json:"current_price"`
	CostBasis    decimal.Decimal  `json:"cost_basis"`
	MarketValue  *decimal.Decimal `json:"market_value"`
	PnL          *decimal.Decimal `json:"pnl"`
	PnLPercent   *decimal.Decimal `json:"pnl_percent"`
}

// Unpriced reports whether the current price could not be resolved.
func (p PricedHolding) Unpriced() bool {
	return p.CurrentPrice == nil
}

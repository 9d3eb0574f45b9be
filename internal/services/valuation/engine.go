// Package valuation turns holdings plus a resolved price map into a
// portfolio snapshot with per-row and aggregate P&L.
package valuation

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/folio/internal/entity"
)

var hundred = decimal.NewFromInt(100)

// Compute values every holding against the supplied price map and returns
// the snapshot for asOf's calendar day.
//
// The function is pure: no I/O, no clock reads, deterministic for
// identical inputs. Price lookups are case-insensitive and trimmed.
// A holding with no resolved price is kept as an unpriced row and
// excluded from the totals; it never aborts the run. A holding violating
// the invariant (non-positive price or quantity, empty symbol) aborts
// the run with entity.ErrInvalidHolding before anything is computed.
func Compute(holdings []entity.Holding, prices map[string]decimal.Decimal, asOf time.Time) (entity.PortfolioSnapshot, error) {
	for _, h := range holdings {
		if err := h.Validate(); err != nil {
			return entity.PortfolioSnapshot{}, err
		}
	}

	normalized := make(map[string]decimal.Decimal, len(prices))
	for sym, price := range prices {
		normalized[entity.NormalizeSymbol(sym)] = price
	}

	snap := entity.PortfolioSnapshot{
		Date:     entity.SnapshotDate(asOf),
		AsOf:     asOf,
		Holdings: make([]entity.PricedHolding, 0, len(holdings)),
	}

	for _, h := range holdings {
		row := entity.PricedHolding{
			Holding:   h,
			CostBasis: h.CostBasis(),
		}
		snap.TotalInvestment = snap.TotalInvestment.Add(row.CostBasis)

		price, ok := normalized[entity.NormalizeSymbol(h.Symbol)]
		if !ok {
			snap.UnpricedSymbols = append(snap.UnpricedSymbols, h.Symbol)
			snap.Holdings = append(snap.Holdings, row)
			continue
		}

		marketValue := price.Mul(decimal.NewFromInt(h.Quantity))
		pnl := marketValue.Sub(row.CostBasis)
		pnlPercent := pnl.Div(row.CostBasis).Mul(hundred)

		row.CurrentPrice = &price
		row.MarketValue = &marketValue
		row.PnL = &pnl
		row.PnLPercent = &pnlPercent

		snap.TotalValue = snap.TotalValue.Add(marketValue)
		snap.TotalPnL = snap.TotalPnL.Add(pnl)
		snap.Holdings = append(snap.Holdings, row)
	}

	// Aggregate percent is taken over the cost basis of priced rows only,
	// so a half-priced portfolio does not look like a massive loss.
	pricedInvestment := decimal.Decimal{}
	for _, row := range snap.Holdings {
		if !row.Unpriced() {
			pricedInvestment = pricedInvestment.Add(row.CostBasis)
		}
	}
	if pricedInvestment.IsPositive() {
		snap.TotalPnLPercent = snap.TotalPnL.Div(pricedInvestment).Mul(hundred)
	}

	return snap, nil
}

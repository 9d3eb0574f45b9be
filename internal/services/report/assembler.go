// Package report shapes valuation and alerting output into the
// renderer-agnostic ReportModel and builds history trend series.
package report

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/folio/internal/entity"
)

var hundred = decimal.NewFromInt(100)

// Assemble composes a snapshot and its alerts into a ReportModel.
//
// Row order follows the snapshot, alert order follows the detector.
// The allocation series covers priced rows with their share of total
// value; unpriced rows appear as one explicit "unpriced" slice of
// unknown value instead of being renormalized away. The P&L bar series
// covers priced rows only.
func Assemble(snap entity.PortfolioSnapshot, alerts []entity.Alert, warnings []string) entity.ReportModel {
	model := entity.ReportModel{
		RunID:           uuid.New().String(),
		Date:            snap.Date,
		AsOf:            snap.AsOf,
		TotalInvestment: snap.TotalInvestment,
		TotalValue:      snap.TotalValue,
		TotalPnL:        snap.TotalPnL,
		TotalPnLPercent: snap.TotalPnLPercent,
		Rows:            make([]entity.ReportRow, 0, len(snap.Holdings)),
		Alerts:          alerts,
		UnpricedSymbols: snap.UnpricedSymbols,
		Warnings:        warnings,
	}

	for _, h := range snap.Holdings {
		model.Rows = append(model.Rows, entity.ReportRow{
			Symbol:        h.Symbol,
			CompanyName:   h.CompanyName,
			Quantity:      h.Quantity,
			PurchasePrice: h.PurchasePrice,
			CurrentPrice:  h.CurrentPrice,
			CostBasis:     h.CostBasis,
			MarketValue:   h.MarketValue,
			PnL:           h.PnL,
			PnLPercent:    h.PnLPercent,
			Unpriced:      h.Unpriced(),
		})

		if h.Unpriced() {
			continue
		}
		share := decimal.Decimal{}
		if snap.TotalValue.IsPositive() {
			share = h.MarketValue.Div(snap.TotalValue).Mul(hundred)
		}
		model.Allocation = append(model.Allocation, entity.AllocationSlice{
			Label:        h.Symbol,
			MarketValue:  *h.MarketValue,
			SharePercent: share,
		})
		model.PnLBySymbol = append(model.PnLBySymbol, entity.PnLBar{
			Symbol: h.Symbol,
			PnL:    *h.PnL,
		})
	}

	if len(snap.UnpricedSymbols) > 0 {
		model.Allocation = append(model.Allocation, entity.AllocationSlice{
			Label: entity.UnpricedSliceLabel,
		})
	}

	return model
}

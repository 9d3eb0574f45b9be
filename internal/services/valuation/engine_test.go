package valuation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/folio/internal/entity"
)

var asOf = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func holding(symbol string, price int64, qty int64) entity.Holding {
	return entity.Holding{
		Symbol:        symbol,
		PurchasePrice: decimal.NewFromInt(price),
		Quantity:      qty,
	}
}

func TestCompute_SingleHolding(t *testing.T) {
	holdings := []entity.Holding{holding("X", 100, 10)}
	prices := map[string]decimal.Decimal{"X": decimal.NewFromInt(110)}

	snap, err := Compute(holdings, prices, asOf)
	require.NoError(t, err)

	require.Len(t, snap.Holdings, 1)
	row := snap.Holdings[0]
	assert.True(t, row.CostBasis.Equal(decimal.NewFromInt(1000)), "cost basis %s", row.CostBasis)
	require.False(t, row.Unpriced())
	assert.True(t, row.MarketValue.Equal(decimal.NewFromInt(1100)), "market value %s", row.MarketValue)
	assert.True(t, row.PnL.Equal(decimal.NewFromInt(100)), "pnl %s", row.PnL)
	assert.True(t, row.PnLPercent.Equal(decimal.NewFromInt(10)), "pnl percent %s", row.PnLPercent)

	assert.Equal(t, "2025-06-02", snap.Date)
	assert.True(t, snap.TotalInvestment.Equal(decimal.NewFromInt(1000)))
	assert.True(t, snap.TotalValue.Equal(decimal.NewFromInt(1100)))
	assert.True(t, snap.TotalPnL.Equal(decimal.NewFromInt(100)))
	assert.True(t, snap.TotalPnLPercent.Equal(decimal.NewFromInt(10)))
	assert.Empty(t, snap.UnpricedSymbols)
}

func TestCompute_UnpricedRowKeptAndExcludedFromTotals(t *testing.T) {
	holdings := []entity.Holding{
		holding("X", 100, 10),
		holding("Y", 50, 20),
	}
	// no price for Y
	prices := map[string]decimal.Decimal{"X": decimal.NewFromInt(110)}

	snap, err := Compute(holdings, prices, asOf)
	require.NoError(t, err)

	require.Len(t, snap.Holdings, 2, "unpriced row must not be dropped")
	unpriced := snap.Holdings[1]
	assert.True(t, unpriced.Unpriced())
	assert.Nil(t, unpriced.MarketValue)
	assert.Nil(t, unpriced.PnL)
	assert.True(t, unpriced.CostBasis.Equal(decimal.NewFromInt(1000)), "cost basis is always defined")

	assert.Equal(t, []string{"Y"}, snap.UnpricedSymbols)
	// investment covers all rows, value only priced ones
	assert.True(t, snap.TotalInvestment.Equal(decimal.NewFromInt(2000)))
	assert.True(t, snap.TotalValue.Equal(decimal.NewFromInt(1100)))
	assert.True(t, snap.TotalPnL.Equal(decimal.NewFromInt(100)))
}

func TestCompute_CaseInsensitiveTrimmedLookup(t *testing.T) {
	holdings := []entity.Holding{holding("Infy", 100, 1)}
	prices := map[string]decimal.Decimal{" INFY ": decimal.NewFromInt(120)}

	snap, err := Compute(holdings, prices, asOf)
	require.NoError(t, err)
	require.False(t, snap.Holdings[0].Unpriced())
	assert.True(t, snap.Holdings[0].CurrentPrice.Equal(decimal.NewFromInt(120)))
}

func TestCompute_InvalidHoldingFailsFast(t *testing.T) {
	holdings := []entity.Holding{
		holding("X", 100, 10),
		holding("BAD", 0, 10),
	}

	_, err := Compute(holdings, map[string]decimal.Decimal{}, asOf)
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrInvalidHolding)
}

func TestCompute_Deterministic(t *testing.T) {
	holdings := []entity.Holding{
		holding("A", 100, 10),
		holding("B", 200, 5),
		holding("C", 50, 40),
	}
	prices := map[string]decimal.Decimal{
		"A": decimal.RequireFromString("101.55"),
		"C": decimal.RequireFromString("48.20"),
	}

	first, err := Compute(holdings, prices, asOf)
	require.NoError(t, err)
	second, err := Compute(holdings, prices, asOf)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompute_NoPricesStillProducesSnapshot(t *testing.T) {
	holdings := []entity.Holding{holding("A", 100, 10), holding("B", 200, 5)}

	snap, err := Compute(holdings, map[string]decimal.Decimal{}, asOf)
	require.NoError(t, err)

	assert.Len(t, snap.Holdings, 2)
	assert.Len(t, snap.UnpricedSymbols, 2)
	assert.True(t, snap.TotalValue.IsZero())
	assert.True(t, snap.TotalPnLPercent.IsZero())
	assert.True(t, snap.TotalInvestment.Equal(decimal.NewFromInt(2000)))
}

package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolding_Validate(t *testing.T) {
	tests := []struct {
		name    string
		holding Holding
		wantErr bool
	}{
		{
			name:    "valid holding",
			holding: Holding{Symbol: "INFY", PurchasePrice: decimal.NewFromInt(1500), Quantity: 50},
			wantErr: false,
		},
		{
			name:    "empty symbol",
			holding: Holding{Symbol: "  ", PurchasePrice: decimal.NewFromInt(100), Quantity: 10},
			wantErr: true,
		},
		{
			name:    "zero purchase price",
			holding: Holding{Symbol: "X", PurchasePrice: decimal.Zero, Quantity: 10},
			wantErr: true,
		},
		{
			name:    "negative purchase price",
			holding: Holding{Symbol: "X", PurchasePrice: decimal.NewFromInt(-5), Quantity: 10},
			wantErr: true,
		},
		{
			name:    "zero quantity",
			holding: Holding{Symbol: "X", PurchasePrice: decimal.NewFromInt(100), Quantity: 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.holding.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidHolding)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestHolding_CostBasis(t *testing.T) {
	h := Holding{Symbol: "X", PurchasePrice: decimal.RequireFromString("100.50"), Quantity: 10}
	assert.True(t, h.CostBasis().Equal(decimal.RequireFromString("1005")), "got %s", h.CostBasis())
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "INFY", NormalizeSymbol("  infy "))
	assert.Equal(t, "TATASTEEL", NormalizeSymbol("TataSteel"))
}

package pricer

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	hyperliquid "github.com/sonirico/go-hyperliquid"
)

// HyperliquidPricer fetches mid prices from the Hyperliquid public Info API.
type HyperliquidPricer struct {
	info *hyperliquid.Info
}

func NewHyperliquidPricer(info *hyperliquid.Info) *HyperliquidPricer {
	return &HyperliquidPricer{info: info}
}

func (p *HyperliquidPricer) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if p.info == nil {
		return decimal.Zero, fmt.Errorf("hyperliquid info client is nil")
	}

	mids, err := p.info.AllMids(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	// Hyperliquid mids are keyed by base coin (e.g., "BTC").
	mid, ok := mids[symbol]
	if !ok || mid == "" {
		return decimal.Zero, fmt.Errorf("hyperliquid API returned empty mid price for %s", symbol)
	}
	return decimal.NewFromString(mid)
}

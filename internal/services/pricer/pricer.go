// Package pricer resolves symbols to current market prices. Providers
// share one interface; the fetcher fans requests out with bounded
// concurrency before valuation starts.
package pricer

import (
	"context"

	"github.com/shopspring/decimal"
)

// Pricer resolves a symbol to its current market price.
type Pricer interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

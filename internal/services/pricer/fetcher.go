package pricer

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/folio/internal/entity"
	"github.com/vadiminshakov/folio/pkg/retrier"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fetch resolves prices for all symbols with a bounded-concurrency
// fan-out. Every symbol gets its own timeout and retry budget; a symbol
// that still fails lands in the failures map instead of aborting the
// run. All fetches complete before Fetch returns, so valuation never
// sees a partial price map. Results are keyed by normalized symbol and
// do not depend on completion order.
func Fetch(ctx context.Context, p Pricer, symbols []string, concurrency int, perSymbolTimeout time.Duration, logger *zap.Logger) (map[string]decimal.Decimal, map[string]error) {
	if concurrency < 1 {
		concurrency = 1
	}
	if perSymbolTimeout <= 0 {
		perSymbolTimeout = 10 * time.Second
	}

	type result struct {
		symbol string
		price  decimal.Decimal
		err    error
	}

	seen := make(map[string]struct{}, len(symbols))
	unique := make([]string, 0, len(symbols))
	for _, s := range symbols {
		key := entity.NormalizeSymbol(s)
		if _, ok := seen[key]; ok || key == "" {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}

	retry := retrier.New(
		retrier.WithMaxRetries(2),
		retrier.WithInitialInterval(500*time.Millisecond),
	)

	// each goroutine writes its own slot, no shared state to guard
	results := make([]result, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, symbol := range unique {
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, perSymbolTimeout)
			defer cancel()

			price, err := retrier.DoWithData(retry, fetchCtx, func(ctx context.Context) (decimal.Decimal, error) {
				return p.GetPrice(ctx, symbol)
			})
			results[i] = result{symbol: symbol, price: price, err: err}
			// fetch errors degrade to unpriced rows, never fail the group
			return nil
		})
	}
	_ = g.Wait()

	prices := make(map[string]decimal.Decimal, len(unique))
	failures := make(map[string]error)
	for _, r := range results {
		if r.err != nil {
			logger.Warn("price unavailable", zap.String("symbol", r.symbol), zap.Error(r.err))
			failures[r.symbol] = r.err
			continue
		}
		logger.Debug("price resolved", zap.String("symbol", r.symbol), zap.String("price", r.price.String()))
		prices[r.symbol] = r.price
	}

	return prices, failures
}

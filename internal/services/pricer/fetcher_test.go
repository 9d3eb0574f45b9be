package pricer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePricer struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
	errs   map[string]error
	delay  time.Duration
	calls  atomic.Int64
}

func (f *fakePricer) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return decimal.Decimal{}, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errs[symbol]; ok {
		return decimal.Decimal{}, err
	}
	price, ok := f.prices[symbol]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("unknown symbol %s", symbol)
	}
	return price, nil
}

func TestFetch_AllSymbolsResolved(t *testing.T) {
	fake := &fakePricer{prices: map[string]decimal.Decimal{
		"A": decimal.NewFromInt(10),
		"B": decimal.NewFromInt(20),
		"C": decimal.NewFromInt(30),
	}}

	prices, failures := Fetch(context.Background(), fake, []string{"A", "B", "C"}, 2, time.Second, zap.NewNop())

	require.Empty(t, failures)
	require.Len(t, prices, 3)
	assert.True(t, prices["A"].Equal(decimal.NewFromInt(10)))
	assert.True(t, prices["C"].Equal(decimal.NewFromInt(30)))
}

func TestFetch_FailedSymbolLandsInFailures(t *testing.T) {
	fake := &fakePricer{
		prices: map[string]decimal.Decimal{"A": decimal.NewFromInt(10)},
		errs:   map[string]error{"B": fmt.Errorf("provider down")},
	}

	prices, failures := Fetch(context.Background(), fake, []string{"A", "B"}, 2, time.Second, zap.NewNop())

	require.Len(t, prices, 1)
	require.Len(t, failures, 1)
	assert.Contains(t, failures, "B")
	assert.NotContains(t, prices, "B")
}

func TestFetch_NormalizesAndDeduplicates(t *testing.T) {
	fake := &fakePricer{prices: map[string]decimal.Decimal{"A": decimal.NewFromInt(10)}}

	prices, failures := Fetch(context.Background(), fake, []string{" a ", "A", "a"}, 4, time.Second, zap.NewNop())

	require.Empty(t, failures)
	require.Len(t, prices, 1)
	assert.True(t, prices["A"].Equal(decimal.NewFromInt(10)))
}

func TestFetch_PerSymbolTimeoutDegradesToFailure(t *testing.T) {
	fake := &fakePricer{
		prices: map[string]decimal.Decimal{"SLOW": decimal.NewFromInt(1)},
		delay:  500 * time.Millisecond,
	}

	start := time.Now()
	prices, failures := Fetch(context.Background(), fake, []string{"SLOW"}, 1, 50*time.Millisecond, zap.NewNop())

	assert.Empty(t, prices)
	require.Len(t, failures, 1)
	assert.Less(t, time.Since(start), 5*time.Second, "timeout must not block the run")
}

func TestFetch_ResultIndependentOfConcurrency(t *testing.T) {
	symbols := []string{"A", "B", "C", "D", "E"}
	backing := map[string]decimal.Decimal{}
	for i, s := range symbols {
		backing[s] = decimal.NewFromInt(int64(i + 1))
	}

	sequential, _ := Fetch(context.Background(), &fakePricer{prices: backing}, symbols, 1, time.Second, zap.NewNop())
	parallel, _ := Fetch(context.Background(), &fakePricer{prices: backing}, symbols, 5, time.Second, zap.NewNop())

	assert.Equal(t, sequential, parallel)
}

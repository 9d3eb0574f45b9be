package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/folio/internal/entity"
)

func dayN(i int) time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func historyOf(values ...int64) []entity.PortfolioSnapshot {
	history := make([]entity.PortfolioSnapshot, len(values))
	for i, v := range values {
		history[i] = entity.PortfolioSnapshot{
			Date:       entity.SnapshotDate(dayN(i)),
			TotalValue: decimal.NewFromInt(v),
		}
	}
	return history
}

func TestBuildTrend_NeedsTwoSnapshots(t *testing.T) {
	_, err := BuildTrend(historyOf(1000), 5)
	require.Error(t, err)
}

func TestBuildTrend_ReturnsAndCumulative(t *testing.T) {
	trend, err := BuildTrend(historyOf(1000, 1100, 990), 2)
	require.NoError(t, err)

	require.Len(t, trend.Points, 3)
	assert.True(t, trend.Points[0].DailyReturn.IsZero())
	assert.True(t, trend.Points[1].DailyReturn.Equal(decimal.NewFromInt(10)), "got %s", trend.Points[1].DailyReturn)
	assert.True(t, trend.Points[2].DailyReturn.Equal(decimal.NewFromInt(-10)), "got %s", trend.Points[2].DailyReturn)

	assert.True(t, trend.CumulativeReturnPercent.Equal(decimal.NewFromInt(-1)), "got %s", trend.CumulativeReturnPercent)
}

func TestBuildTrend_BestAndWorstDay(t *testing.T) {
	trend, err := BuildTrend(historyOf(1000, 1200, 600, 900), 2)
	require.NoError(t, err)

	assert.True(t, trend.BestDay.DailyReturn.Equal(decimal.NewFromInt(50)), "best %s", trend.BestDay.DailyReturn)
	assert.True(t, trend.WorstDay.DailyReturn.Equal(decimal.NewFromInt(-50)), "worst %s", trend.WorstDay.DailyReturn)
}

func TestBuildTrend_SMAClampedToShortHistory(t *testing.T) {
	trend, err := BuildTrend(historyOf(1000, 2000), 30)
	require.NoError(t, err)

	// period clamps to 2: single SMA value lands on the last point
	assert.True(t, trend.Points[0].SmoothedValue.IsZero())
	assert.True(t, trend.Points[1].SmoothedValue.Equal(decimal.NewFromInt(1500)), "got %s", trend.Points[1].SmoothedValue)
}

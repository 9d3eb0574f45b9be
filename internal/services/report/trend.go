package report

import (
	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/folio/internal/entity"
)

// TrendPoint is one day of portfolio history.
type TrendPoint struct {
	Date          string          `json:"date"`
	TotalValue    decimal.Decimal `json:"total_value"`
	DailyReturn   decimal.Decimal `json:"daily_return_percent"`
	SmoothedValue decimal.Decimal `json:"smoothed_value"`
}

// TrendReport summarizes the persisted history ledger: per-day total
// value, daily returns, an SMA-smoothed value curve, best and worst day,
// and cumulative return over the whole period.
type TrendReport struct {
	Points                  []TrendPoint    `json:"points"`
	BestDay                 TrendPoint      `json:"best_day"`
	WorstDay                TrendPoint      `json:"worst_day"`
	CumulativeReturnPercent decimal.Decimal `json:"cumulative_return_percent"`
}

// BuildTrend builds a TrendReport from snapshots ordered by ascending
// date. smaPeriod controls the smoothing window; it is clamped to the
// series length so short histories still produce a curve.
func BuildTrend(history []entity.PortfolioSnapshot, smaPeriod int) (TrendReport, error) {
	if len(history) < 2 {
		return TrendReport{}, errors.New("trend needs at least two snapshots")
	}
	if smaPeriod < 1 {
		smaPeriod = 1
	}
	if smaPeriod > len(history) {
		smaPeriod = len(history)
	}

	values := make([]float64, len(history))
	for i, snap := range history {
		v, _ := snap.TotalValue.Float64()
		values[i] = v
	}

	sma := trend.NewSmaWithPeriod[float64](smaPeriod)
	smoothed := helper.ChanToSlice(sma.Compute(helper.SliceToChan(values)))

	report := TrendReport{Points: make([]TrendPoint, len(history))}
	for i, snap := range history {
		point := TrendPoint{
			Date:       snap.Date,
			TotalValue: snap.TotalValue,
		}
		if i > 0 {
			prev := history[i-1].TotalValue
			if prev.IsPositive() {
				point.DailyReturn = snap.TotalValue.Sub(prev).Div(prev).Mul(hundred)
			}
		}
		// SMA output is shorter than the input by period-1.
		if idx := i - (smaPeriod - 1); idx >= 0 && idx < len(smoothed) {
			point.SmoothedValue = decimal.NewFromFloat(smoothed[idx])
		}
		report.Points[i] = point
	}

	report.BestDay = report.Points[1]
	report.WorstDay = report.Points[1]
	for _, p := range report.Points[1:] {
		if p.DailyReturn.GreaterThan(report.BestDay.DailyReturn) {
			report.BestDay = p
		}
		if p.DailyReturn.LessThan(report.WorstDay.DailyReturn) {
			report.WorstDay = p
		}
	}

	first, last := history[0].TotalValue, history[len(history)-1].TotalValue
	if first.IsPositive() {
		report.CumulativeReturnPercent = last.Sub(first).Div(first).Mul(hundred)
	}

	return report, nil
}

// Package alerting compares today's snapshot against the most recent
// persisted one and emits threshold-crossing day-change alerts.
package alerting

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/folio/internal/entity"
)

var hundred = decimal.NewFromInt(100)

// Detect returns the alerts for today's snapshot relative to yesterday's.
//
// When yesterday is nil (first run or a gap in history) no reference
// point exists and the result is empty; that is not an error. Symbols
// present today but absent from yesterday's snapshot are skipped: a
// day-change needs two prices for the same symbol. The threshold bound
// is inclusive, so a move of exactly threshold percent fires. Alerts are
// ordered by descending absolute day-change, ties broken by symbol, so
// the report always leads with the largest movers.
func Detect(today entity.PortfolioSnapshot, yesterday *entity.PortfolioSnapshot, thresholdPercent decimal.Decimal) []entity.Alert {
	if yesterday == nil {
		return nil
	}

	var alerts []entity.Alert
	for _, row := range today.Holdings {
		if row.Unpriced() {
			continue
		}
		prev, ok := yesterday.PriceOf(row.Symbol)
		if !ok || !prev.IsPositive() {
			continue
		}

		change := row.CurrentPrice.Sub(prev).Div(prev).Mul(hundred)
		if change.Abs().LessThan(thresholdPercent) {
			continue
		}

		direction := entity.AlertGain
		if change.IsNegative() {
			direction = entity.AlertLoss
		}
		alerts = append(alerts, entity.Alert{
			ID:               uuid.New().String(),
			Symbol:           row.Symbol,
			Direction:        direction,
			DayChangePercent: change,
			PrevPrice:        prev,
			CurrPrice:        *row.CurrentPrice,
			Threshold:        thresholdPercent,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i].DayChangePercent.Abs(), alerts[j].DayChangePercent.Abs()
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return alerts[i].Symbol < alerts[j].Symbol
	})

	return alerts
}

package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AlertDirection tells which way the price moved day over day.
type AlertDirection string

const (
	AlertGain AlertDirection = "gain"
	AlertLoss AlertDirection = "loss"
)

// Alert is a day-over-day price move whose magnitude crossed the
// configured threshold. DayChangePercent compares today's price against
// yesterday's persisted price, not the purchase price.
type Alert struct {
	ID               string          `json:"id"`
	Symbol           string          `json:"symbol"`
	Direction        AlertDirection  `json:"direction"`
	DayChangePercent decimal.Decimal `json:"day_change_percent"`
	PrevPrice        decimal.Decimal `json:"prev_price"`
	CurrPrice        decimal.Decimal `json:"curr_price"`
	Threshold        decimal.Decimal `json:"threshold"`
}

func (a Alert) String() string {
	return fmt.Sprintf("%s %s %s%%", a.Symbol, a.Direction, a.DayChangePercent.StringFixed(2))
}

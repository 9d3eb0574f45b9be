// Package render turns a ReportModel into human-facing artifacts:
// a styled terminal report and an HTML email body. Nothing in here
// computes portfolio numbers.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/folio/internal/entity"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(0, 2).
			Bold(true)

	gainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	lossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle  = lipgloss.NewStyle().Foreground(subtle)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

// Console renders the report as a styled terminal string.
func Console(report entity.ReportModel) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("DAILY PORTFOLIO REPORT "+report.Date) + "\n\n")

	for _, w := range report.Warnings {
		b.WriteString(warnStyle.Render("! "+w) + "\n")
	}
	if report.Incomplete() {
		b.WriteString(warnStyle.Render(fmt.Sprintf("! %d of %d symbols unavailable: %s",
			len(report.UnpricedSymbols), len(report.Rows), strings.Join(report.UnpricedSymbols, ", "))) + "\n")
	}
	if len(report.Warnings) > 0 || report.Incomplete() {
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("Total investment  %s\n", report.TotalInvestment.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Current value     %s\n", report.TotalValue.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Total P&L         %s\n\n", pnlColored(report.TotalPnL, report.TotalPnLPercent)))

	b.WriteString(fmt.Sprintf("%-12s %10s %12s %12s %10s\n", "SYMBOL", "QTY", "PRICE", "P&L", "P&L %"))
	for _, row := range report.Rows {
		if row.Unpriced {
			b.WriteString(fmt.Sprintf("%-12s %10d %s\n", row.Symbol, row.Quantity, dimStyle.Render("price unavailable")))
			continue
		}
		line := fmt.Sprintf("%-12s %10d %12s %12s %9s%%",
			row.Symbol, row.Quantity,
			row.CurrentPrice.StringFixed(2), row.PnL.StringFixed(2), row.PnLPercent.StringFixed(2))
		if row.PnL.IsNegative() {
			line = lossStyle.Render(line)
		} else {
			line = gainStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if len(report.Alerts) > 0 {
		b.WriteString("\n" + warnStyle.Render(fmt.Sprintf("ALERTS (%d)", len(report.Alerts))) + "\n")
		for _, a := range report.Alerts {
			style := gainStyle
			if a.Direction == entity.AlertLoss {
				style = lossStyle
			}
			b.WriteString(style.Render(fmt.Sprintf("  %-12s %s %s%% day change (threshold %s%%)",
				a.Symbol, a.Direction, a.DayChangePercent.StringFixed(2), a.Threshold.StringFixed(1))) + "\n")
		}
	}

	return b.String()
}

func pnlColored(pnl, percent decimal.Decimal) string {
	s := fmt.Sprintf("%s (%s%%)", pnl.StringFixed(2), percent.StringFixed(2))
	if pnl.IsNegative() {
		return lossStyle.Render(s)
	}
	return gainStyle.Render(s)
}

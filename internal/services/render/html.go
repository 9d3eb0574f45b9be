package render

import (
	"html/template"
	"strings"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/folio/internal/entity"
)

const reportTemplate = `<html>
<head>
<style>
body { font-family: Arial, sans-serif; margin: 20px; color: #333; }
table { border-collapse: collapse; width: 100%; margin: 20px 0; }
th, td { padding: 10px; border: 1px solid #ddd; }
th { background-color: #007bff; color: white; }
.gain { color: green; }
.loss { color: red; }
.warn { background-color: #fff3cd; padding: 10px; }
.dim { color: #999; }
</style>
</head>
<body>
<h2>Daily Portfolio Report - {{.Date}}</h2>
<hr>
{{range .Warnings}}<p class="warn">{{.}}</p>{{end}}
{{if .UnpricedSymbols}}<p class="warn">{{len .UnpricedSymbols}} of {{len .Rows}} symbols unavailable: {{join .UnpricedSymbols ", "}}</p>{{end}}
<h3>Summary</h3>
<table>
<tr><td><strong>Total Investment</strong></td><td>{{money .TotalInvestment}}</td></tr>
<tr><td><strong>Current Value</strong></td><td>{{money .TotalValue}}</td></tr>
<tr><td><strong>Total P&amp;L</strong></td><td class="{{if .TotalPnL.IsNegative}}loss{{else}}gain{{end}}">{{money .TotalPnL}} ({{money .TotalPnLPercent}}%)</td></tr>
</table>
<h3>Holdings</h3>
<table>
<tr><th>Symbol</th><th>Quantity</th><th>Current Price</th><th>P&amp;L</th><th>P&amp;L %</th></tr>
{{range .Rows}}
{{if .Unpriced}}
<tr><td><strong>{{.Symbol}}</strong></td><td>{{.Quantity}}</td><td colspan="3" class="dim">price unavailable</td></tr>
{{else}}
<tr class="{{if .PnL.IsNegative}}loss{{else}}gain{{end}}">
<td><strong>{{.Symbol}}</strong></td><td>{{.Quantity}}</td><td>{{money .CurrentPrice}}</td><td>{{money .PnL}}</td><td>{{money .PnLPercent}}%</td>
</tr>
{{end}}
{{end}}
</table>
{{if .Alerts}}
<h3>Alerts ({{len .Alerts}})</h3>
<table>
<tr><th>Symbol</th><th>Direction</th><th>Day Change %</th></tr>
{{range .Alerts}}
<tr><td><strong>{{.Symbol}}</strong></td><td>{{.Direction}}</td><td class="{{if .DayChangePercent.IsNegative}}loss{{else}}gain{{end}}">{{money .DayChangePercent}}%</td></tr>
{{end}}
</table>
{{end}}
<hr>
<p style="color:#666;font-size:12px;">Generated {{.AsOf.Format "2006-01-02 15:04:05"}} · run {{.RunID}}</p>
</body>
</html>`

type moneyFormatter interface {
	StringFixed(places int32) string
}

var htmlTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"join": strings.Join,
	"money": func(v moneyFormatter) string {
		return v.StringFixed(2)
	},
}).Parse(reportTemplate))

// HTML renders the report as an email-ready HTML document.
func HTML(report entity.ReportModel) (string, error) {
	var b strings.Builder
	if err := htmlTmpl.Execute(&b, report); err != nil {
		return "", errors.Wrap(err, "render HTML report")
	}
	return b.String(), nil
}

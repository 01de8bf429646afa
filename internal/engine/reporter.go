package engine

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourusername/creditdesk/internal/models"
)

// GenerateConsoleReport formats an analysis result for terminal output
func GenerateConsoleReport(result *Result) string {
	var builder strings.Builder
	builder.WriteString("Credit Analysis Report\n")
	builder.WriteString("======================\n")
	builder.WriteString(fmt.Sprintf("Resilience Score: %.1f / 100\n", result.Resilience))
	builder.WriteString(fmt.Sprintf("Min DSCR: %s\n", formatRatio(result.Stats.MinDSCR)))
	builder.WriteString(fmt.Sprintf("Avg DSCR: %s\n", formatRatio(result.Stats.AvgDSCR)))
	builder.WriteString(fmt.Sprintf("Min ICR: %s\n", formatRatio(result.Stats.MinICR)))
	builder.WriteString(fmt.Sprintf("Max Net Debt / EBITDA: %s\n", formatRatio(result.Stats.MaxLeverage)))
	builder.WriteString(fmt.Sprintf("Covenant Breaches: %d\n", result.Stats.TotalBreaches))
	builder.WriteString(fmt.Sprintf("Cash Flow Volatility: %.3f\n", result.Stats.CashFlowVolatility))

	if result.Valuation != nil {
		builder.WriteString(fmt.Sprintf("Enterprise Value: %.0f\n", result.Valuation.EnterpriseValue))
		builder.WriteString(fmt.Sprintf("Equity Value: %.0f\n", result.Valuation.EquityValue))
		builder.WriteString(fmt.Sprintf("WACC: %.2f%%\n", result.Valuation.WACC*100))
	}

	if len(result.Breaches) > 0 {
		builder.WriteString("\nBreaches\n--------\n")
		for _, b := range result.Breaches {
			builder.WriteString(fmt.Sprintf("  year %d: %s %.2f vs threshold %.2f\n",
				b.Year, b.Type, b.Value, b.Threshold))
		}
	}

	if len(result.Balloons) > 0 {
		builder.WriteString("\nBalloon Maturities\n------------------\n")
		for _, ba := range result.Balloons {
			builder.WriteString(fmt.Sprintf("  %s: %.0f due year %d, coverage %.2fx, refinancing risk %s\n",
				ba.TrancheName, ba.BalloonAmount, ba.MaturityYear, ba.Coverage, ba.Risk))
		}
	}

	if len(result.Scenarios) > 0 {
		builder.WriteString("\nScenarios (worst first)\n-----------------------\n")
		for _, s := range result.Scenarios {
			ev := "n/a"
			if s.Valued() {
				ev = fmt.Sprintf("%.0f", s.EnterpriseValue)
			}
			builder.WriteString(fmt.Sprintf("  %-10s resilience %5.1f  minDSCR %s  breaches %d  EV %s\n",
				s.Name, s.ResilienceScore, formatRatio(s.Stats.MinDSCR), s.Stats.TotalBreaches, ev))
		}
	}

	return builder.String()
}

// GenerateRestructuringReport formats an advisor plan for terminal output
func GenerateRestructuringReport(plan *models.RestructuringPlan) string {
	var builder strings.Builder
	builder.WriteString("Restructuring Plan\n")
	builder.WriteString("==================\n")
	d := plan.Diagnosis
	builder.WriteString(fmt.Sprintf("Breach years: %d of %d\n", d.BreachYearCount, len(d.Years)))
	builder.WriteString(fmt.Sprintf("Minimum EBITDA: %.0f (year %d)\n", d.MinEBITDA, d.MinEBITDAYear))
	if d.DecliningRevenue {
		builder.WriteString("Root cause: declining revenue over the horizon\n")
	}
	if d.HighInterestBurden {
		builder.WriteString("Root cause: interest consumes over 40% of EBITDA\n")
	}
	if d.StructuralWeakness {
		builder.WriteString("Root cause: structural weakness, majority of years in breach\n")
	}

	builder.WriteString("\nOptions\n-------\n")
	for _, opt := range plan.Options {
		builder.WriteString(fmt.Sprintf("%s\n", opt.Label))
		builder.WriteString(fmt.Sprintf("  principal %.0f  rate %.2f%%  tenor %dy  equity in %.0f\n",
			opt.NewPrincipal, opt.NewRate*100, opt.NewTenorYears, opt.EquityInjection))
		builder.WriteString(fmt.Sprintf("  debt service %+.0f  min DSCR %s  breach years %+d  lender NPV %+.0f  acceptance %s\n",
			opt.DebtServiceDelta, formatRatio(opt.MinDSCR), opt.BreachYearsDelta, opt.LenderNPVImpact, opt.Acceptance))
	}

	if plan.Recommended != nil {
		builder.WriteString(fmt.Sprintf("\nRecommended: %s\n", plan.Recommended.Label))
	}
	builder.WriteString("\nConditions Precedent\n--------------------\n")
	for _, c := range plan.ConditionsPrecedent {
		builder.WriteString("  - " + c + "\n")
	}
	builder.WriteString("\nMonitoring\n----------\n")
	for _, m := range plan.Monitoring {
		builder.WriteString("  - " + m + "\n")
	}
	return builder.String()
}

// GenerateHTMLReport creates a simple HTML report
func GenerateHTMLReport(result *Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	var rows strings.Builder
	for _, r := range result.Projection {
		rows.WriteString(fmt.Sprintf(
			"<tr><td>%d</td><td>%.0f</td><td>%.0f</td><td>%.0f</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			r.Year, r.Revenue, r.EBITDA, r.DebtService,
			formatRatio(r.DSCR), formatRatio(r.ICR), formatRatio(r.NetDebtToEBITDA)))
	}

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Credit Analysis Report</title></head>
<body>
<h1>Credit Analysis Report</h1>
<p><strong>Resilience Score:</strong> %.1f / 100</p>
<p><strong>Min DSCR:</strong> %s</p>
<p><strong>Max Net Debt / EBITDA:</strong> %s</p>
<p><strong>Covenant Breaches:</strong> %d</p>
<table border="1">
<tr><th>Year</th><th>Revenue</th><th>EBITDA</th><th>Debt Service</th><th>DSCR</th><th>ICR</th><th>Leverage</th></tr>
%s</table>
</body>
</html>`,
		result.Resilience,
		formatRatio(result.Stats.MinDSCR),
		formatRatio(result.Stats.MaxLeverage),
		result.Stats.TotalBreaches,
		rows.String(),
	)

	return os.WriteFile(outputPath, []byte(html), 0o644)
}

// GenerateCSVExport exports the projection rows for spreadsheets
func GenerateCSVExport(result *Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	var builder strings.Builder
	builder.WriteString("year,revenue,ebitda,ebit,fcf,debt_service,cash,total_debt,dscr,icr,net_debt_to_ebitda\n")
	for _, r := range result.Projection {
		builder.WriteString(fmt.Sprintf("%d,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%s,%s,%s\n",
			r.Year, r.Revenue, r.EBITDA, r.EBIT, r.FreeCashFlow, r.DebtService,
			r.CashBalance, r.EndingDebt,
			csvRatio(r.DSCR), csvRatio(r.ICR), csvRatio(r.NetDebtToEBITDA)))
	}
	return os.WriteFile(outputPath, []byte(builder.String()), 0o644)
}

func formatRatio(v float64) string {
	if math.IsInf(v, 1) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func csvRatio(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("%.4f", v)
}

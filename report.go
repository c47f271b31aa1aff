package breakeven

import (
	"fmt"
)

// NA marks a report field whose value could not be determined.
const NA = "NA"

// Fixed headers of the two CSV artifacts.
var (
	// BreakevenHeader lists the columns of the per-lot breakeven summary.
	BreakevenHeader = []string{"Symbol", "Purchase Date", "QTY", "Cost-Basis", "Days-Held", "Int-Earned", "Cost-Basis+INT", "Min. Sell-Price", "Benchmark%"}
	// UniverseHeader lists the columns of the universe comparison report.
	UniverseHeader = []string{"Symbol", "Purchase Date", "Investment Amount", "Current Value", "Percent Change"}
	// FailureHeader lists the columns of the fetch failure report.
	FailureHeader = []string{"Symbol", "Error"}
)

// fmtPrice formats a per-share price with four decimals.
func fmtPrice(m Money) string { return fmt.Sprintf("%.4f", m.InexactFloat64()) }

// pct formats an optional percentage, NA when unknown.
func pct(p *Percent) string {
	if p == nil {
		return NA
	}
	return p.String()
}

// BreakevenRows renders one row per lot followed by a TOTAL row.
//
// benchmarks holds, for each lot in order, the benchmark differential of that
// lot (or an unavailable result); pass nil to leave the whole column NA.
func BreakevenRows(s Summary, benchmarks []BenchmarkResult) [][]string {
	rows := make([][]string, 0, len(s.Results)+1)
	for i, r := range s.Results {
		var vs *Percent
		if benchmarks != nil && benchmarks[i].Err == nil {
			vs = benchmarks[i].VsActual
		}
		rows = append(rows, []string{
			r.Trade.Symbol,
			r.Trade.Acquired.String(),
			r.Trade.Quantity.String(),
			r.Trade.CostBasis.StringFixed(),
			fmt.Sprintf("%d", r.DaysHeld),
			r.Interest.StringFixed(),
			r.AdjustedCost.StringFixed(),
			fmtPrice(r.Breakeven),
			pct(vs),
		})
	}
	if len(s.Results) > 0 {
		rows = append(rows, totalRow(s))
	}
	return rows
}

// totalRow renders the position totals with the same per-column formats as
// the lot rows, so a whole column parses numerically.
func totalRow(s Summary) []string {
	return []string{
		"TOTAL",
		"",
		s.TotalQuantity.String(),
		s.TotalCostBasis.StringFixed(),
		"",
		s.TotalInterest.StringFixed(),
		s.TotalAdjustedCost.StringFixed(),
		fmtPrice(s.AverageBreakeven),
		"",
	}
}

// ProjectionRows renders the future-disposal section: one row per lot at the
// projected date plus a projected TOTAL row. There is no market price in the
// future, so the benchmark column stays NA.
func ProjectionRows(s Summary, disposal string) [][]string {
	if len(s.Results) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(s.Results)+2)
	rows = append(rows, []string{fmt.Sprintf("PROJECTED (%s)", disposal), "", "", "", "", "", "", "", ""})
	for _, r := range s.Results {
		rows = append(rows, []string{
			r.Trade.Symbol,
			r.Trade.Acquired.String(),
			r.Trade.Quantity.String(),
			r.Trade.CostBasis.StringFixed(),
			fmt.Sprintf("%d", r.DaysHeld),
			r.Interest.StringFixed(),
			r.AdjustedCost.StringFixed(),
			fmtPrice(r.Breakeven),
			NA,
		})
	}
	rows = append(rows, totalRow(s))
	return rows
}

// UniverseRows renders benchmark comparison rows in the universe report layout.
func UniverseRows(results []BenchmarkResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		rows = append(rows, []string{
			r.Benchmark,
			r.Trade.Acquired.String(),
			r.Trade.CostBasis.StringFixed(),
			fmt.Sprintf("%.2f", r.Value),
			r.Growth.String(),
		})
	}
	return rows
}

// FailureRows renders the fetch failures of a universe run.
func FailureRows(failures []FetchFailure) [][]string {
	rows := make([][]string, 0, len(failures))
	for _, f := range failures {
		rows = append(rows, []string{f.Symbol, f.Err.Error()})
	}
	return rows
}

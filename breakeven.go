// Package breakeven computes interest-adjusted breakeven prices for brokerage
// trade lots and compares their performance against benchmark securities.
//
// The core question it answers: given that the money spent on a lot could have
// earned interest in a savings account instead, at what price does selling the
// lot actually break even, and how does the position compare to simply having
// bought a benchmark index on the same day?
//
// The package parses tab-separated brokerage exports into TradeRecords,
// resolves historical closing prices through a Quoter (memoized per run in a
// Market), applies a closed-form amortization to each lot, and writes
// timestamped CSV reports. Row-level and symbol-level failures never abort a
// run: bad rows are skipped, unavailable prices become NA fields.
package breakeven

import "github.com/etnz/breakeven/date"

// DefaultRate is the annual savings rate assumed for foregone interest.
const DefaultRate = 0.05

// BreakevenResult is the interest-adjusted outcome of a single lot as of a date.
type BreakevenResult struct {
	Trade TradeRecord
	AsOf  date.Date
	Rate  float64 // annual interest rate assumption

	DaysHeld     int
	Interest     Money // interest the cost basis would have earned
	AdjustedCost Money // cost basis plus interest
	Breakeven    Money // per-share sell price at which the lot breaks even

	// Current is the latest known price of the traded symbol, nil when the
	// fetch failed; VsBreakeven is then nil too and reported as NA.
	Current     *float64
	VsBreakeven *Percent
}

// ActualValue returns the value the position is compared at: the market value
// when the current price is known, the adjusted cost otherwise.
func (r BreakevenResult) ActualValue() float64 {
	if r.Current != nil {
		return *r.Current * r.Trade.Quantity.InexactFloat64()
	}
	return r.AdjustedCost.InexactFloat64()
}

// Breakeven computes the interest-adjusted breakeven of a lot as of a date.
//
// The interest model is fixed: the cost basis compounds daily at the annual
// rate over the elapsed whole days, adjusted = cost × (1 + rate/365)^days.
// Zero or negative elapsed time leaves the cost basis unchanged, so the
// breakeven price degenerates to the plain unit cost.
//
// current is the lot symbol's latest close, or nil when unavailable.
func Breakeven(t TradeRecord, rate float64, asOf date.Date, current *float64) BreakevenResult {
	days := t.Acquired.DaysUntil(asOf)
	adjusted := t.CostBasis.Compound(rate, days)

	r := BreakevenResult{
		Trade:        t,
		AsOf:         asOf,
		Rate:         rate,
		DaysHeld:     days,
		Interest:     adjusted.Sub(t.CostBasis),
		AdjustedCost: adjusted,
		Breakeven:    adjusted.Div(t.Quantity),
		Current:      current,
	}
	if current != nil {
		vs := Change(r.Breakeven.InexactFloat64(), *current)
		r.VsBreakeven = &vs
	}
	return r
}

// Summary aggregates the lots of one run.
type Summary struct {
	Results []BreakevenResult

	TotalQuantity     Quantity
	TotalCostBasis    Money
	TotalInterest     Money
	TotalAdjustedCost Money

	AverageUnitCost  Money // total cost basis per share
	AverageBreakeven Money // per-share sell price at which the whole position breaks even
}

// Summarize computes the position-level totals over per-lot results.
func Summarize(results []BreakevenResult) Summary {
	s := Summary{Results: results}
	for _, r := range results {
		s.TotalQuantity = s.TotalQuantity.Add(r.Trade.Quantity)
		s.TotalCostBasis = s.TotalCostBasis.Add(r.Trade.CostBasis)
		s.TotalInterest = s.TotalInterest.Add(r.Interest)
		s.TotalAdjustedCost = s.TotalAdjustedCost.Add(r.AdjustedCost)
	}
	if s.TotalQuantity.IsPositive() {
		s.AverageUnitCost = s.TotalCostBasis.Div(s.TotalQuantity)
		s.AverageBreakeven = s.TotalAdjustedCost.Div(s.TotalQuantity)
	}
	return s
}

// Project recomputes the breakeven of every lot at a future disposal date.
// No market price exists in the future, so current prices are left nil.
func Project(trades []TradeRecord, rate float64, disposal date.Date) Summary {
	results := make([]BreakevenResult, 0, len(trades))
	for _, t := range trades {
		results = append(results, Breakeven(t, rate, disposal, nil))
	}
	return Summarize(results)
}

package breakeven

import (
	"fmt"

	"github.com/etnz/breakeven/date"
)

// fetchMargin is the number of calendar days a fetch range opens before the
// acquisition date, so that a prior close exists even when the acquisition
// falls on a weekend or holiday.
const fetchMargin = 7

// FetchFrom returns the start of the price range needed to value trades
// acquired on or after 'earliest'.
func FetchFrom(earliest date.Date) date.Date { return earliest.Add(-fetchMargin) }

// EarliestAcquisition returns the first acquisition date among trades.
func EarliestAcquisition(trades []TradeRecord) date.Date {
	var earliest date.Date
	for _, t := range trades {
		if earliest.IsZero() || t.Acquired.Before(earliest) {
			earliest = t.Acquired
		}
	}
	return earliest
}

// BenchmarkResult is the hypothetical outcome of investing a lot's cost basis
// into a benchmark symbol over the same holding period.
type BenchmarkResult struct {
	Trade     TradeRecord
	Benchmark string

	AcquiredClose float64 // benchmark close at the acquisition date
	AsOfClose     float64 // benchmark close at the as-of date
	Units         float64 // hypothetical units bought with the cost basis
	Value         float64 // hypothetical value at the as-of date
	Growth        Percent // hypothetical value vs invested amount

	// VsActual is the differential of the actual (or breakeven) outcome
	// against the hypothetical one, nil when no actual value was supplied.
	VsActual *Percent

	// Err marks the benchmark as unavailable; every numeric field is then
	// meaningless and reported as NA.
	Err error
}

// CompareBenchmark values a lot's cost basis as if it had bought the benchmark.
//
// Both endpoints use the nearest prior available close: the acquisition date
// and the as-of date resolve to the last trading day at or before them. The
// same policy on both ends keeps weekend acquisitions and weekend valuations
// consistent.
//
// When a dividend series is given, each payout between the endpoints is
// reinvested: it buys more units at that day's close.
//
// actual is the value the real position is worth (market value, or adjusted
// cost when the market price is unavailable); nil skips the differential.
func CompareBenchmark(t TradeRecord, symbol string, prices, dividends *date.History[float64], asOf date.Date, actual *float64) BenchmarkResult {
	r := BenchmarkResult{Trade: t, Benchmark: symbol}

	if prices == nil || prices.Len() == 0 {
		r.Err = fmt.Errorf("%w: %s", ErrNoPrices, symbol)
		return r
	}
	open, ok := prices.ValueAsOf(t.Acquired)
	if !ok || open == 0 {
		r.Err = fmt.Errorf("%w: %s has no close at or before %s", ErrNoPrices, symbol, t.Acquired)
		return r
	}
	last, ok := prices.ValueAsOf(asOf)
	if !ok || last == 0 {
		r.Err = fmt.Errorf("%w: %s has no close at or before %s", ErrNoPrices, symbol, asOf)
		return r
	}

	invested := t.CostBasis.InexactFloat64()
	units := invested / open
	if dividends != nil {
		for day, amount := range dividends.Values() {
			if day.Before(t.Acquired) || day.After(asOf) {
				continue
			}
			price, ok := prices.ValueAsOf(day)
			if !ok || price == 0 {
				continue
			}
			units += units * amount / price
		}
	}

	r.AcquiredClose = open
	r.AsOfClose = last
	r.Units = units
	r.Value = units * last
	r.Growth = Change(invested, r.Value)
	if actual != nil {
		vs := Change(r.Value, *actual)
		r.VsActual = &vs
	}
	return r
}

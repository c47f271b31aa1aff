package breakeven

import (
	"errors"

	"github.com/etnz/breakeven/date"
)

// ErrNoPrices marks a symbol for which no usable price series could be
// obtained. Dependent report fields become NA, the run continues.
var ErrNoPrices = errors.New("no prices available")

// Quoter resolves historical market data for a symbol over a date range.
//
// Both bounds are inclusive. The returned series is sparse: it carries values
// for trading days (or payment days, for dividends) only.
type Quoter interface {
	// Daily returns the closing price series of the symbol.
	Daily(symbol string, from, to date.Date) (date.History[float64], error)
	// Dividends returns the per-share dividend payments of the symbol.
	// An empty history is a valid answer for symbols that pay none.
	Dividends(symbol string, from, to date.Date) (date.History[float64], error)
}

// NewQuoter returns the best available market data source: EODHD when an API
// key is configured, otherwise the keyless chart endpoint.
func NewQuoter() Quoter {
	if key := eodhdAPIKey(); key != "" {
		return &EODHD{Key: key}
	}
	return Yahoo{}
}

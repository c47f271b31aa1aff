package breakeven

import (
	"fmt"
	"time"

	"github.com/etnz/breakeven/date"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Market holds the market data fetched during one run.
//
// It memoizes price and dividend series per symbol and range, so a series is
// requested from the provider at most once per run. Concurrent duplicate
// requests for the same key are coalesced into a single provider call.
// Nothing outlives the run: the cache is scoped to the Market value.
type Market struct {
	// Attempts and Delay configure the retry policy around provider calls.
	// Zero values select the defaults.
	Attempts int
	Delay    time.Duration

	quoter Quoter
	store  *cache.Cache
	group  singleflight.Group
}

// NewMarket returns an empty market backed by the given data source.
func NewMarket(q Quoter) *Market {
	return &Market{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		quoter:   q,
		store:    cache.New(cache.NoExpiration, 0),
	}
}

// Prices returns the closing price series of a symbol over a range, bounds
// included, fetching it on first request and from memory afterwards.
//
// A series that stays empty after the bounded retries is reported as
// ErrNoPrices: the caller treats the symbol as unavailable, not fatal.
func (m *Market) Prices(symbol string, from, to date.Date) (*date.History[float64], error) {
	return m.memoize(fmt.Sprintf("eod/%s/%s/%s", symbol, from, to), func() (date.History[float64], error) {
		prices, err := m.quoter.Daily(symbol, from, to)
		if err != nil {
			return prices, err
		}
		if prices.Len() == 0 {
			return prices, fmt.Errorf("empty series for %q between %s and %s", symbol, from, to)
		}
		return prices, nil
	})
}

// Dividends returns the dividend series of a symbol over a range. Unlike
// Prices, an empty series is a valid result: most ranges contain no payout.
func (m *Market) Dividends(symbol string, from, to date.Date) (*date.History[float64], error) {
	return m.memoize(fmt.Sprintf("div/%s/%s/%s", symbol, from, to), func() (date.History[float64], error) {
		return m.quoter.Dividends(symbol, from, to)
	})
}

// memoize serves key from the run cache, or executes fetch (with retry) once,
// even under concurrent callers, and caches the successful result.
func (m *Market) memoize(key string, fetch func() (date.History[float64], error)) (*date.History[float64], error) {
	if v, ok := m.store.Get(key); ok {
		return v.(*date.History[float64]), nil
	}
	v, err, _ := m.group.Do(key, func() (any, error) {
		// a duplicate caller may have filled the cache while we waited
		if v, ok := m.store.Get(key); ok {
			return v, nil
		}
		var prices date.History[float64]
		err := withRetry(m.Attempts, m.Delay, func() error {
			var err error
			prices, err = fetch()
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoPrices, err)
		}
		m.store.SetDefault(key, &prices)
		return &prices, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*date.History[float64]), nil
}

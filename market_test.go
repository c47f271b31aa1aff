package breakeven

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/etnz/breakeven/date"
)

// fakeQuoter serves canned series and can fail a number of times per symbol
// before succeeding, to exercise the retry and memoization paths.
type fakeQuoter struct {
	mu       sync.Mutex
	calls    map[string]int
	failures map[string]int // initial failures to serve per symbol
	series   map[string]*date.History[float64]
	divs     map[string]*date.History[float64]
}

func newFakeQuoter() *fakeQuoter {
	return &fakeQuoter{
		calls:    make(map[string]int),
		failures: make(map[string]int),
		series:   make(map[string]*date.History[float64]),
		divs:     make(map[string]*date.History[float64]),
	}
}

func (f *fakeQuoter) Daily(symbol string, from, to date.Date) (date.History[float64], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[symbol]++
	if f.failures[symbol] > 0 {
		f.failures[symbol]--
		return date.History[float64]{}, fmt.Errorf("transient failure for %s", symbol)
	}
	h, ok := f.series[symbol]
	if !ok {
		return date.History[float64]{}, fmt.Errorf("unknown symbol %s", symbol)
	}
	return *h, nil
}

func (f *fakeQuoter) Dividends(symbol string, from, to date.Date) (date.History[float64], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if h, ok := f.divs[symbol]; ok {
		return *h, nil
	}
	return date.History[float64]{}, nil
}

func (f *fakeQuoter) callCount(symbol string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[symbol]
}

// testMarket returns a market over the fake with no inter-retry delay.
func testMarket(f *fakeQuoter) *Market {
	m := NewMarket(f)
	m.Delay = 0
	return m
}

func TestMarketMemoizes(t *testing.T) {
	f := newFakeQuoter()
	f.series["SPY"] = spySeries()
	m := testMarket(f)

	from, to := date.New(2020, 12, 1), date.New(2021, 7, 3)
	first, err := m.Prices("SPY", from, to)
	if err != nil {
		t.Fatalf("Prices() unexpected error: %v", err)
	}
	second, err := m.Prices("SPY", from, to)
	if err != nil {
		t.Fatalf("Prices() unexpected error: %v", err)
	}
	if first != second {
		t.Error("Prices() did not reuse the cached series")
	}
	if got := f.callCount("SPY"); got != 1 {
		t.Errorf("provider called %d times, want 1", got)
	}

	// a different range is a different cache key
	if _, err := m.Prices("SPY", from, to.Add(1)); err != nil {
		t.Fatalf("Prices() unexpected error: %v", err)
	}
	if got := f.callCount("SPY"); got != 2 {
		t.Errorf("provider called %d times, want 2", got)
	}
}

func TestMarketRetryIsTransparent(t *testing.T) {
	from, to := date.New(2020, 12, 1), date.New(2021, 7, 3)

	direct := newFakeQuoter()
	direct.series["SPY"] = spySeries()
	flaky := newFakeQuoter()
	flaky.series["SPY"] = spySeries()
	flaky.failures["SPY"] = 2 // fails twice, succeeds on the third attempt

	want, err := testMarket(direct).Prices("SPY", from, to)
	if err != nil {
		t.Fatalf("Prices() unexpected error: %v", err)
	}
	got, err := testMarket(flaky).Prices("SPY", from, to)
	if err != nil {
		t.Fatalf("Prices() after transient failures: %v", err)
	}
	if got.Len() != want.Len() {
		t.Errorf("series length = %d, want %d: retry must be invisible downstream", got.Len(), want.Len())
	}
	if flaky.callCount("SPY") != 3 {
		t.Errorf("provider called %d times, want 3", flaky.callCount("SPY"))
	}
}

func TestMarketExhaustedRetries(t *testing.T) {
	f := newFakeQuoter()
	f.series["SPY"] = spySeries()
	f.failures["SPY"] = defaultAttempts // one more failure than retries
	m := testMarket(f)

	_, err := m.Prices("SPY", date.New(2021, 1, 1), date.New(2021, 7, 3))
	if !errors.Is(err, ErrNoPrices) {
		t.Errorf("Prices() error = %v, want ErrNoPrices after exhausted retries", err)
	}
	if got := f.callCount("SPY"); got != defaultAttempts {
		t.Errorf("provider called %d times, want %d", got, defaultAttempts)
	}
}

func TestMarketRejectsEmptySeries(t *testing.T) {
	f := newFakeQuoter()
	f.series["GHOST"] = new(date.History[float64])
	m := testMarket(f)

	if _, err := m.Prices("GHOST", date.New(2021, 1, 1), date.New(2021, 7, 3)); !errors.Is(err, ErrNoPrices) {
		t.Errorf("Prices() on an empty series = %v, want ErrNoPrices", err)
	}
}

func TestMarketDividendsMayBeEmpty(t *testing.T) {
	f := newFakeQuoter()
	m := testMarket(f)

	divs, err := m.Dividends("SPY", date.New(2021, 1, 1), date.New(2021, 7, 3))
	if err != nil {
		t.Fatalf("Dividends() unexpected error: %v", err)
	}
	if divs.Len() != 0 {
		t.Errorf("Dividends() length = %d, want 0", divs.Len())
	}
}

func TestWithRetry(t *testing.T) {
	testCases := []struct {
		name      string
		failures  int
		attempts  int
		wantCalls int
		expectErr bool
	}{
		{"first try succeeds", 0, 3, 1, false},
		{"recovers within budget", 2, 3, 3, false},
		{"budget exhausted", 3, 3, 3, true},
		{"zero attempts still tries once", 0, 0, 1, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			err := withRetry(tc.attempts, 0, func() error {
				calls++
				if calls <= tc.failures {
					return errors.New("transient")
				}
				return nil
			})
			if (err != nil) != tc.expectErr {
				t.Errorf("withRetry() error = %v, want error: %v", err, tc.expectErr)
			}
			if calls != tc.wantCalls {
				t.Errorf("fn called %d times, want %d", calls, tc.wantCalls)
			}
		})
	}
}

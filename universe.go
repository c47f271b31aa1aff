package breakeven

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/etnz/breakeven/date"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ConstituentsFile is the local copy of the index constituent list.
const ConstituentsFile = "sp500_list.csv"

// constituentsURL serves the S&P 500 constituent list as a CSV whose first
// column is the ticker symbol.
var constituentsURL = "https://raw.githubusercontent.com/datasets/s-and-p-500-companies/main/data/constituents.csv"

// universeWorkers bounds the number of concurrent symbol fetches.
const universeWorkers = 3

// Constituents returns the index constituent symbols, reading the local list
// when present and fetching (then saving) it otherwise.
func Constituents() ([]string, error) {
	if f, err := os.Open(ConstituentsFile); err == nil {
		defer f.Close()
		return readConstituents(f)
	}
	resp, err := cachedClient().Get(constituentsURL)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch constituent list: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("cannot fetch constituent list: %v", resp.Status)
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(ConstituentsFile, content, 0644); err != nil {
		log.Printf("cannot save %s (ignored): %v", ConstituentsFile, err)
	}
	return readConstituents(strings.NewReader(string(content)))
}

// readConstituents parses symbols from the first CSV column, skipping the header.
func readConstituents(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed constituent list: %w", err)
	}
	var symbols []string
	for i, rec := range records {
		if i == 0 || len(rec) == 0 || rec[0] == "" {
			continue
		}
		symbols = append(symbols, strings.ToUpper(strings.TrimSpace(rec[0])))
	}
	return symbols, nil
}

// providerSymbol maps an index ticker to the provider's notation: share
// classes like "BRK.B" are quoted as "BRK-B".
func providerSymbol(symbol string) string { return strings.ReplaceAll(symbol, ".", "-") }

// FetchFailure records a symbol whose series could not be obtained.
type FetchFailure struct {
	Symbol string
	Err    error
}

// CompareUniverse values every trade's cost basis against every symbol of the
// universe, in parallel.
//
// A bounded pool of workers fetches the symbols' series, paced by a rate
// limiter to stay friendly with the provider. Each worker writes only its own
// slot of the result slice, results are merged once all workers are done.
// A symbol whose fetch fails after retries lands in the failure list and never
// blocks its siblings.
//
// Results are sorted by growth, best first.
func CompareUniverse(ctx context.Context, m *Market, symbols []string, trades []TradeRecord, asOf date.Date) ([]BenchmarkResult, []FetchFailure) {
	if len(trades) == 0 || len(symbols) == 0 {
		return nil, nil
	}
	from := FetchFrom(EarliestAcquisition(trades))
	limiter := rate.NewLimiter(rate.Every(300*time.Millisecond), 1)

	perSymbol := make([][]BenchmarkResult, len(symbols))
	errs := make([]error, len(symbols))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(universeWorkers)
	for i, symbol := range symbols {
		g.Go(func() error {
			if err := limiter.Wait(ctx); err != nil {
				errs[i] = err
				return nil
			}
			prices, err := m.Prices(providerSymbol(symbol), from, asOf)
			if err != nil {
				errs[i] = err
				return nil
			}
			rows := make([]BenchmarkResult, 0, len(trades))
			for _, t := range trades {
				rows = append(rows, CompareBenchmark(t, symbol, prices, nil, asOf, nil))
			}
			perSymbol[i] = rows
			return nil
		})
	}
	// workers report failures through their slot, never through the group
	_ = g.Wait()

	var results []BenchmarkResult
	var failures []FetchFailure
	for i, symbol := range symbols {
		if errs[i] != nil {
			failures = append(failures, FetchFailure{Symbol: symbol, Err: errs[i]})
			continue
		}
		for _, r := range perSymbol[i] {
			if r.Err != nil {
				failures = append(failures, FetchFailure{Symbol: symbol, Err: r.Err})
				continue
			}
			results = append(results, r)
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Growth > results[j].Growth })
	return results, failures
}

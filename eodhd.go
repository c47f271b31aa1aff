package breakeven

import (
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/etnz/breakeven/date"
)

const eodhdKeyEnv = "EODHD_API_KEY"

var eodhdAPIFlag = flag.String("eodhd-api-key", "", "EODHD API key to use for fetching prices from EODHD.com.\n If missing it will be read from the environment variable \""+eodhdKeyEnv+"\". You can get one at https://eodhd.com/")

func eodhdAPIKey() string {
	// If the flag is not set, we try to read it from the environment variable.
	if *eodhdAPIFlag == "" {
		*eodhdAPIFlag = os.Getenv(eodhdKeyEnv)
	}
	return *eodhdAPIFlag
}

// EODHD fetches end-of-day market data from eodhd.com.
//
// Symbols are plain US tickers; the ".US" exchange suffix is appended here.
type EODHD struct {
	Key string
}

// Daily returns the daily closing prices of a symbol, bounds included.
func (e *EODHD) Daily(symbol string, from, to date.Date) (prices date.History[float64], err error) {
	// https://eodhd.com/api/eod/AAPL.US?api_token=demo&fmt=json
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	  },
	addr := fmt.Sprintf("https://eodhd.com/api/eod/%s.US?fmt=json&api_token=%s&from=%s&to=%s",
		url.PathEscape(symbol), e.Key, from, to)
	type info struct {
		Date          date.Date `json:"date"`
		Close         float64   `json:"close"`
		AdjustedClose float64   `json:"adjusted_close"`
	}
	content := make([]info, 0)
	if err := jwget(cachedClient(), addr, &content); err != nil {
		return prices, fmt.Errorf("eodhd eod query for %q: %w", symbol, err)
	}
	for _, i := range content {
		// prefer the split/dividend adjusted close when the api provides one
		close := i.AdjustedClose
		if close == 0 {
			close = i.Close
		}
		prices.Append(i.Date, close)
	}
	return prices, nil
}

// Dividends returns the per-share dividend payments of a symbol, bounds included.
func (e *EODHD) Dividends(symbol string, from, to date.Date) (divs date.History[float64], err error) {
	// https://eodhd.com/api/div/AAPL.US?api_token=demo&fmt=json
	// [
	//	{
	//		"date": "2024-02-09",
	//		"value": 0.24,
	//		...
	//	  },
	addr := fmt.Sprintf("https://eodhd.com/api/div/%s.US?fmt=json&api_token=%s&from=%s&to=%s",
		url.PathEscape(symbol), e.Key, from, to)
	type info struct {
		Date  date.Date `json:"date"`
		Value float64   `json:"value"`
	}
	content := make([]info, 0)
	if err := jwget(cachedClient(), addr, &content); err != nil {
		return divs, fmt.Errorf("eodhd div query for %q: %w", symbol, err)
	}
	for _, i := range content {
		divs.Append(i.Date, i.Value)
	}
	return divs, nil
}

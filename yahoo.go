package breakeven

import (
	"fmt"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/breakeven/date"
)

// Yahoo fetches daily market data from the public v8 chart endpoint.
//
// It needs no API key, which makes it the default source, but the response is
// a deeply nested chart payload, hence the jsonpath extraction below.
type Yahoo struct{}

/*
	{
	    "chart": {
	        "result": [
	            {
	                "meta": {...},
	                "timestamp": [1672756200, ...],
	                "events": {"dividends": {"1675953000": {"amount": 0.23, "date": 1675953000}}},
	                "indicators": {"quote": [{"close": [125.07, ...], ...}]}
	            }
	        ],
	        "error": null
	    }
	}
*/
func (Yahoo) chart(symbol string, from, to date.Date) (any, error) {
	addr := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div",
		url.PathEscape(symbol), from.Unix(), to.Add(1).Unix())
	var jobj any
	if err := jwget(cachedClient(), addr, &jobj); err != nil {
		return nil, fmt.Errorf("error in wget %q: %w", symbol, err)
	}
	return jobj, nil
}

// Daily returns the daily closing prices of a symbol, bounds included.
func (y Yahoo) Daily(symbol string, from, to date.Date) (prices date.History[float64], err error) {
	jobj, err := y.chart(symbol, from, to)
	if err != nil {
		return prices, err
	}

	jts, err := jsonpath.Get("$.chart.result[0].timestamp", jobj)
	if err != nil {
		return prices, fmt.Errorf("error parsing %q chart timestamps: %w", symbol, err)
	}
	jcl, err := jsonpath.Get("$.chart.result[0].indicators.quote[0].close", jobj)
	if err != nil {
		return prices, fmt.Errorf("error parsing %q chart closes: %w", symbol, err)
	}
	timestamps, ok1 := jts.([]any)
	closes, ok2 := jcl.([]any)
	if !ok1 || !ok2 || len(timestamps) != len(closes) {
		return prices, fmt.Errorf("malformed chart response for %q", symbol)
	}
	for i, jt := range timestamps {
		ts, ok := jt.(float64)
		// a null close marks a day without a trade, skip it
		close, traded := closes[i].(float64)
		if !ok || !traded {
			continue
		}
		prices.Append(date.FromUnix(int64(ts)), close)
	}
	return prices, nil
}

// Dividends returns the per-share dividend payments of a symbol, bounds included.
func (y Yahoo) Dividends(symbol string, from, to date.Date) (divs date.History[float64], err error) {
	jobj, err := y.chart(symbol, from, to)
	if err != nil {
		return divs, err
	}

	jdv, err := jsonpath.Get("$.chart.result[0].events.dividends", jobj)
	if err != nil {
		// symbols that pay no dividend have no events at all
		return divs, nil
	}
	payments, ok := jdv.(map[string]any)
	if !ok {
		return divs, nil
	}
	for _, jp := range payments {
		p, ok := jp.(map[string]any)
		if !ok {
			continue
		}
		amount, ok1 := p["amount"].(float64)
		ts, ok2 := p["date"].(float64)
		if !ok1 || !ok2 {
			continue
		}
		divs.Append(date.FromUnix(int64(ts)), amount)
	}
	return divs, nil
}

package breakeven

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/etnz/breakeven/date"
)

// TradeRecord is one acquired lot from a brokerage export. It is immutable once parsed.
type TradeRecord struct {
	Acquired  date.Date
	Symbol    string
	Quantity  Quantity
	CostBasis Money // total cost of the lot, not per share
}

// UnitCost returns the per-share cost of the lot.
func (t TradeRecord) UnitCost() Money { return t.CostBasis.Div(t.Quantity) }

// Column layout of an "Acquired" row in the tab-separated export:
//
//	Acquired <tab> May-05-2023 <tab> AAPL <tab> ... <tab> 100 <tab> ... <tab> $10,000.00
//	   0            1                 2            (5=quantity)        (7=cost basis)
const (
	colAction    = 0
	colDate      = 1
	colSymbol    = 2
	colQuantity  = 5
	colCostBasis = 7
)

// ParseTrades scans tab-separated export lines and returns the valid trade
// records in file order, together with the number of skipped lines.
//
// Only rows whose action column reads "Acquired" are consumed. Blank lines,
// headers, partial rows and rows failing date or numeric parsing are skipped
// and counted, never fatal: a single bad row must not abort the run.
// The fallback symbol is used for rows whose symbol column is empty.
func ParseTrades(r io.Reader, fallback string) (trades []TradeRecord, skipped int) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		trade, err := parseTradeLine(line, fallback)
		if err != nil {
			skipped++
			log.Printf("skipping row: %v", err)
			continue
		}
		trades = append(trades, trade)
	}
	return trades, skipped
}

// parseTradeLine extracts one TradeRecord from a single export row.
func parseTradeLine(line, fallback string) (TradeRecord, error) {
	fields := strings.Split(line, "\t")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) <= colCostBasis {
		return TradeRecord{}, fmt.Errorf("row has %d columns, want at least %d", len(fields), colCostBasis+1)
	}
	if !strings.EqualFold(fields[colAction], "Acquired") {
		return TradeRecord{}, fmt.Errorf("row action is %q, not an acquisition", fields[colAction])
	}
	acquired, err := date.ParseExport(fields[colDate])
	if err != nil {
		return TradeRecord{}, err
	}
	symbol := strings.ToUpper(fields[colSymbol])
	if symbol == "" {
		symbol = strings.ToUpper(fallback)
	}
	quantity, err := ParseQuantity(fields[colQuantity])
	if err != nil {
		return TradeRecord{}, fmt.Errorf("invalid quantity %q: %w", fields[colQuantity], err)
	}
	cost, err := ParseMoney(fields[colCostBasis])
	if err != nil {
		return TradeRecord{}, fmt.Errorf("invalid cost basis %q: %w", fields[colCostBasis], err)
	}
	// The parser guarantees a positive unit cost to everything downstream.
	if !quantity.IsPositive() || !cost.IsPositive() {
		return TradeRecord{}, fmt.Errorf("quantity %s and cost basis %s must both be positive", quantity, cost)
	}
	return TradeRecord{Acquired: acquired, Symbol: symbol, Quantity: quantity, CostBasis: cost}, nil
}

// ParseTradeBlock parses a single trade pasted as a multi-line confirmation
// block, as printed by some brokers:
//
//	05/05/2023 Buy
//	<account>
//	AAPL
//	<description>
//	100
//	105.00 ... $10,500.00
//
// The last dollar amount of the price line is the lot's total cost.
func ParseTradeBlock(text string) (TradeRecord, error) {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, strings.TrimSpace(l))
		}
	}
	if len(lines) < 6 {
		return TradeRecord{}, fmt.Errorf("trade block has %d lines, want at least 6", len(lines))
	}
	first := strings.Fields(lines[0])
	if len(first) < 2 {
		return TradeRecord{}, fmt.Errorf("first line %q should read <date> <action>", lines[0])
	}
	acquired, err := date.ParseExport(first[0])
	if err != nil {
		return TradeRecord{}, err
	}
	symbol := strings.ToUpper(lines[2])
	quantity, err := ParseQuantity(lines[4])
	if err != nil {
		return TradeRecord{}, fmt.Errorf("invalid quantity %q: %w", lines[4], err)
	}
	amounts := strings.Fields(lines[5])
	total, err := ParseMoney(amounts[len(amounts)-1])
	if err != nil {
		return TradeRecord{}, fmt.Errorf("invalid total %q: %w", amounts[len(amounts)-1], err)
	}
	if total.value.IsNegative() {
		total = Money{value: total.value.Neg()}
	}
	if !quantity.IsPositive() || !total.IsPositive() {
		return TradeRecord{}, fmt.Errorf("quantity %s and total %s must both be positive", quantity, total)
	}
	return TradeRecord{Acquired: acquired, Symbol: symbol, Quantity: quantity, CostBasis: total}, nil
}

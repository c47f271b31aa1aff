package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/etnz/breakeven"
	"github.com/etnz/breakeven/date"
	"github.com/google/subcommands"
)

type reportCmd struct{}

func (*reportCmd) Name() string { return "report" }
func (*reportCmd) Synopsis() string {
	return "computes interest-adjusted breakeven prices and benchmark comparisons"
}
func (*reportCmd) Usage() string {
	return `bkv [report] [-i <input file>] [-s <symbol>]

  Reads the "Acquired" rows of a tab-separated trade export, computes the
  interest-adjusted breakeven price of every lot as of today, compares each
  lot against benchmark securities (SPY always included), and saves a
  timestamped CSV report. Omitted values are prompted for interactively.
  Use "-" as the input file to paste a single trade confirmation block.

Usage Examples:
# Report on an export of AAPL lots.
$ bkv -i input.txt -s AAPL

`
}
func (*reportCmd) SetFlags(f *flag.FlagSet) {}

func (*reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return RunReport(ctx)
}

// loadTrades reads and parses the trade export named by the user.
func loadTrades(filename, symbol string) ([]breakeven.TradeRecord, error) {
	if filename == "-" {
		fmt.Println("Paste the trade details and press Enter twice:")
		var block strings.Builder
		for {
			line := prompt("")
			if line == "" {
				break
			}
			block.WriteString(line + "\n")
		}
		t, err := breakeven.ParseTradeBlock(block.String())
		if err != nil {
			return nil, err
		}
		if t.Symbol == "" {
			t.Symbol = symbol
		}
		return []breakeven.TradeRecord{t}, nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open input file %q: %w", filename, err)
	}
	defer file.Close()
	trades, skipped := breakeven.ParseTrades(file, symbol)
	if skipped > 0 {
		log.Printf("skipped %d unparseable row(s) in %q", skipped, filename)
	}
	return trades, nil
}

// benchmarkSymbols prompts for extra benchmarks; SPY is always first.
func benchmarkSymbols() []string {
	input := prompt("Enter one or more benchmark symbols (comma-separated). SPY will always be included: ")
	symbols := []string{"SPY"}
	for _, s := range strings.Split(input, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" && s != "SPY" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

// disposalDate prompts for a future disposal date, defaulting to Dec 31 of the
// current year.
func disposalDate(asOf date.Date) (date.Date, error) {
	input := prompt("Enter a future disposal date (YYYY-MM-DD) or press Enter to use end of this year: ")
	if input == "" {
		return date.New(asOf.Year(), 12, 31), nil
	}
	return date.Parse(input)
}

// printTable renders rows as an aligned text table on w.
func printTable(w io.Writer, header []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// RunReport is the default flow of the binary: parse the export, compute
// breakeven and benchmark outcomes, save the timestamped CSV, and offer the
// full S&P 500 comparison.
func RunReport(ctx context.Context) subcommands.ExitStatus {
	filename := inputFilename()
	symbol := primarySymbol()

	trades, err := loadTrades(filename, symbol)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	asOf := date.Today()
	benchmarks := benchmarkSymbols()
	disposal, err := disposalDate(asOf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid disposal date: %v\n", err)
		return subcommands.ExitFailure
	}

	market := breakeven.NewMarket(breakeven.NewQuoter())

	// Latest close of the traded symbol; nil leaves the vs-breakeven field NA.
	var current *float64
	if len(trades) > 0 {
		from := breakeven.FetchFrom(breakeven.EarliestAcquisition(trades))
		if prices, err := market.Prices(symbol, from, asOf); err != nil {
			log.Printf("current price of %s unavailable: %v", symbol, err)
		} else {
			_, last := prices.Latest()
			current = &last
		}
	}

	results := make([]breakeven.BreakevenResult, 0, len(trades))
	for _, t := range trades {
		results = append(results, breakeven.Breakeven(t, breakeven.DefaultRate, asOf, current))
	}
	summary := breakeven.Summarize(results)

	// Per-lot benchmark differential against the primary benchmark (SPY).
	var primaries []breakeven.BenchmarkResult
	if len(trades) > 0 {
		primaries = compareAll(market, trades, results, benchmarks[0], asOf)
	}

	rows := breakeven.BreakevenRows(summary, primaries)
	rows = append(rows, breakeven.ProjectionRows(breakeven.Project(trades, breakeven.DefaultRate, disposal), disposal.String())...)

	fmt.Println("\nTrade Summary:")
	printTable(os.Stdout, breakeven.BreakevenHeader, rows)

	// The extra benchmarks form a section of their own below the lot rows.
	if len(trades) > 0 {
		var section []breakeven.BenchmarkResult
		for _, b := range benchmarks {
			section = append(section, compareAll(market, trades, results, b, asOf)...)
		}
		if bench := breakeven.UniverseRows(section); len(bench) > 0 {
			rows = append(rows, []string{}, []string{"Benchmarks used: " + strings.Join(benchmarks, ", ")}, breakeven.UniverseHeader)
			rows = append(rows, bench...)
			fmt.Printf("\nBenchmark Comparison (vs: %s):\n", strings.Join(benchmarks, ", "))
			printTable(os.Stdout, breakeven.UniverseHeader, bench)
		}
	}

	output := breakeven.ReportFilename("breakeven_output", time.Now())
	if err := breakeven.WriteCSV(output, breakeven.BreakevenHeader, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("\nResults saved to %s\n", output)

	if ans := prompt("\nWould you like to compare your investments against all S&P 500 stocks? (y/n): "); strings.EqualFold(ans, "y") {
		return runUniverse(ctx, market, trades, asOf)
	}
	return subcommands.ExitSuccess
}

// compareAll compares every lot against one benchmark symbol, reinvesting its
// dividends, using each lot's actual (or breakeven) value as reference.
func compareAll(m *breakeven.Market, trades []breakeven.TradeRecord, results []breakeven.BreakevenResult, symbol string, asOf date.Date) []breakeven.BenchmarkResult {
	from := breakeven.FetchFrom(breakeven.EarliestAcquisition(trades))
	prices, err := m.Prices(symbol, from, asOf)
	if err != nil {
		log.Printf("benchmark %s unavailable: %v", symbol, err)
		out := make([]breakeven.BenchmarkResult, len(trades))
		for i, t := range trades {
			out[i] = breakeven.BenchmarkResult{Trade: t, Benchmark: symbol, Err: err}
		}
		return out
	}
	dividends, err := m.Dividends(symbol, from, asOf)
	if err != nil {
		// a missing dividend series only disables reinvestment
		dividends = nil
	}
	out := make([]breakeven.BenchmarkResult, len(trades))
	for i, t := range trades {
		actual := results[i].ActualValue()
		out[i] = breakeven.CompareBenchmark(t, symbol, prices, dividends, asOf, &actual)
	}
	return out
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/breakeven"
	"github.com/etnz/breakeven/date"
	"github.com/google/subcommands"
)

type universeCmd struct{}

func (*universeCmd) Name() string { return "universe" }
func (*universeCmd) Synopsis() string {
	return "compares every trade against all S&P 500 constituents"
}
func (*universeCmd) Usage() string {
	return `bkv universe [-i <input file>] [-s <symbol>]

  Values each lot's cost basis as if it had been invested in every S&P 500
  constituent over the same holding period, in parallel, and saves the merged
  comparison (best performers first) to a timestamped CSV. Symbols whose
  prices cannot be fetched are listed in a separate failure CSV.

  The constituent list is read from ` + breakeven.ConstituentsFile + ` when
  present, and fetched then saved there otherwise.

Usage Examples:
# Compare an export of AAPL lots against the whole index.
$ bkv universe -i input.txt -s AAPL

`
}
func (*universeCmd) SetFlags(f *flag.FlagSet) {}

func (*universeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	trades, err := loadTrades(inputFilename(), primarySymbol())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	market := breakeven.NewMarket(breakeven.NewQuoter())
	return runUniverse(ctx, market, trades, date.Today())
}

// runUniverse fetches the constituent list, runs the parallel comparison, and
// writes the comparison and failure reports.
func runUniverse(ctx context.Context, market *breakeven.Market, trades []breakeven.TradeRecord, asOf date.Date) subcommands.ExitStatus {
	symbols, err := breakeven.Constituents()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Comparing %d trade(s) against %d constituents...\n", len(trades), len(symbols))

	results, failures := breakeven.CompareUniverse(ctx, market, symbols, trades, asOf)

	output := breakeven.ReportFilename("sp500_comparison", time.Now())
	if err := breakeven.WriteCSV(output, breakeven.UniverseHeader, breakeven.UniverseRows(results)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("S&P 500 performance comparison saved to %s\n", output)

	if len(failures) > 0 {
		failed := breakeven.ReportFilename("sp500_failed", time.Now())
		if err := breakeven.WriteCSV(failed, breakeven.FailureHeader, breakeven.FailureRows(failures)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("%d failed comparison(s) saved to %s\n", len(failures), failed)
	}
	return subcommands.ExitSuccess
}

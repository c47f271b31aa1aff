// Package cmd implements the CLI application that turns a brokerage trade
// export into breakeven and benchmark comparison reports.
package cmd

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
)

// Commands lists the subcommands a main package registers.
// Invoking the binary without a subcommand runs the default report flow.
var Commands = []subcommands.Command{
	&reportCmd{},
	&universeCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var inputFile = flag.String("i", "", "Input trade export file (e.g. input.txt). Prompted for when omitted.")
var mainSymbol = flag.String("s", "", "Stock or ETF symbol the export belongs to (e.g. AAPL). Prompted for when omitted.")

// stdin is swapped in tests to script the interactive prompts.
var stdin io.Reader = os.Stdin
var prompts *bufio.Reader

// prompt prints a label and returns the trimmed line the user entered.
func prompt(label string) string {
	if prompts == nil {
		prompts = bufio.NewReader(stdin)
	}
	fmt.Print(label)
	line, err := prompts.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

// inputFilename returns the -i flag, prompting when omitted.
func inputFilename() string {
	if *inputFile != "" {
		return *inputFile
	}
	return prompt("Enter the name of the input file (e.g. input.txt): ")
}

// primarySymbol returns the -s flag, prompting when omitted.
func primarySymbol() string {
	s := *mainSymbol
	if s == "" {
		s = prompt("Enter the stock/ETF symbol to analyze: ")
	}
	return strings.ToUpper(strings.TrimSpace(s))
}

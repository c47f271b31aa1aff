package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/breakeven"
	"github.com/etnz/breakeven/date"
)

// script replaces stdin with scripted answers for the duration of a test.
func script(t *testing.T, input string) {
	t.Helper()
	oldStdin, oldPrompts := stdin, prompts
	stdin, prompts = strings.NewReader(input), nil
	t.Cleanup(func() { stdin, prompts = oldStdin, oldPrompts })
}

func TestPrompt(t *testing.T) {
	script(t, "  input.txt  \nAAPL\n")
	if got := prompt("file: "); got != "input.txt" {
		t.Errorf("prompt() = %q, want the trimmed answer", got)
	}
	if got := prompt("symbol: "); got != "AAPL" {
		t.Errorf("prompt() = %q, want AAPL", got)
	}
	// exhausted input reads as an empty answer, not a crash
	if got := prompt("again: "); got != "" {
		t.Errorf("prompt() on exhausted input = %q, want empty", got)
	}
}

func TestPrimarySymbolPrompted(t *testing.T) {
	script(t, "aapl\n")
	if got := primarySymbol(); got != "AAPL" {
		t.Errorf("primarySymbol() = %q, want the prompted answer uppercased", got)
	}
}

func TestInputFilenameFlagWins(t *testing.T) {
	old := *inputFile
	*inputFile = "export.txt"
	t.Cleanup(func() { *inputFile = old })

	script(t, "never-read.txt\n")
	if got := inputFilename(); got != "export.txt" {
		t.Errorf("inputFilename() = %q, want the flag value without prompting", got)
	}
}

func TestLoadTradesPastedBlock(t *testing.T) {
	script(t, `05/05/2023 Buy
Individual ...123
AAPL
APPLE INC
100
105.00 Total $10,500.00

`)
	trades, err := loadTrades("-", "AAPL")
	if err != nil {
		t.Fatalf("loadTrades() unexpected error: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("loadTrades() = %d trades, want 1", len(trades))
	}
	got := trades[0]
	if got.Acquired != date.New(2023, 5, 5) || got.Symbol != "AAPL" {
		t.Errorf("trade = %v %s, want 2023-05-05 AAPL", got.Acquired, got.Symbol)
	}
	if !got.Quantity.Equal(breakeven.Q(100)) || got.CostBasis.StringFixed() != "10500.00" {
		t.Errorf("Quantity/CostBasis = %v/%v, want 100/$10,500.00", got.Quantity, got.CostBasis)
	}
}

func TestLoadTradesFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "export.txt")
	row := "Acquired\tMay-05-2023\tAAPL\tMARGIN\tCash\t100\t105.00\t$10,500.00\n"
	if err := os.WriteFile(filename, []byte(row), 0644); err != nil {
		t.Fatal(err)
	}

	trades, err := loadTrades(filename, "AAPL")
	if err != nil {
		t.Fatalf("loadTrades() unexpected error: %v", err)
	}
	if len(trades) != 1 || trades[0].Symbol != "AAPL" {
		t.Fatalf("loadTrades() = %v, want one AAPL trade", trades)
	}

	if _, err := loadTrades(filepath.Join(t.TempDir(), "missing.txt"), "AAPL"); err == nil {
		t.Error("loadTrades() on a missing file should fail")
	}
}

func TestBenchmarkSymbols(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty keeps SPY only", "\n", []string{"SPY"}},
		{"extra symbols appended", "qqq, VTI\n", []string{"SPY", "QQQ", "VTI"}},
		{"SPY never duplicated", "spy, QQQ\n", []string{"SPY", "QQQ"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			script(t, tc.input)
			got := benchmarkSymbols()
			if len(got) != len(tc.want) {
				t.Fatalf("benchmarkSymbols() = %v, want %v", got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("symbols[%d] = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestDisposalDate(t *testing.T) {
	asOf := date.New(2023, 5, 5)

	script(t, "\n")
	got, err := disposalDate(asOf)
	if err != nil || got != date.New(2023, 12, 31) {
		t.Errorf("disposalDate() on empty input = %v %v, want end of year", got, err)
	}

	script(t, "2024-06-30\n")
	got, err = disposalDate(asOf)
	if err != nil || got != date.New(2024, 6, 30) {
		t.Errorf("disposalDate() = %v %v, want 2024-06-30", got, err)
	}

	script(t, "not-a-date\n")
	if _, err := disposalDate(asOf); err == nil {
		t.Error("disposalDate() on garbage input should fail")
	}
}

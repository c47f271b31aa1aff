package breakeven

import (
	"strings"
	"testing"

	"github.com/etnz/breakeven/date"
)

const validRow = "Acquired\tMay-05-2023\tAAPL\tMARGIN\tCash\t100\t105.00\t$10,500.00"

func TestParseTrades(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		wantTrades  int
		wantSkipped int
	}{
		{"single valid row", validRow, 1, 0},
		{"blank lines ignored", "\n\n" + validRow + "\n\n", 1, 0},
		{"header skipped", "Action\tDate\tSymbol\tType\tAcct\tQuantity\tPrice\tCost Basis\n" + validRow, 1, 1},
		{"sold row skipped", "Sold\tMay-06-2023\tAAPL\tMARGIN\tCash\t50\t110.00\t$5,500.00\n" + validRow, 1, 1},
		{"partial row skipped", "Acquired\tMay-05-2023\tAAPL\n" + validRow, 1, 1},
		{"bad quantity skipped", "Acquired\tMay-05-2023\tAAPL\tMARGIN\tCash\tabc\t105.00\t$10,500.00", 0, 1},
		{"bad date skipped", "Acquired\tnot-a-date\tAAPL\tMARGIN\tCash\t100\t105.00\t$10,500.00", 0, 1},
		{"zero quantity skipped", "Acquired\tMay-05-2023\tAAPL\tMARGIN\tCash\t0\t105.00\t$10,500.00", 0, 1},
		{"empty input", "", 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			trades, skipped := ParseTrades(strings.NewReader(tc.input), "AAPL")
			if len(trades) != tc.wantTrades || skipped != tc.wantSkipped {
				t.Errorf("ParseTrades() = %d trades %d skipped, want %d trades %d skipped",
					len(trades), skipped, tc.wantTrades, tc.wantSkipped)
			}
		})
	}
}

func TestParseTradesFields(t *testing.T) {
	trades, skipped := ParseTrades(strings.NewReader(validRow), "XYZ")
	if skipped != 0 || len(trades) != 1 {
		t.Fatalf("ParseTrades() = %d trades %d skipped, want 1 and 0", len(trades), skipped)
	}
	got := trades[0]
	if got.Acquired != date.New(2023, 5, 5) {
		t.Errorf("Acquired = %v, want 2023-05-05", got.Acquired)
	}
	if got.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", got.Symbol)
	}
	if !got.Quantity.Equal(Q(100)) {
		t.Errorf("Quantity = %v, want 100", got.Quantity)
	}
	if !got.CostBasis.Equal(M(10500)) {
		t.Errorf("CostBasis = %v, want $10,500.00", got.CostBasis)
	}
	if !got.UnitCost().Equal(M(105)) {
		t.Errorf("UnitCost() = %v, want $105.00", got.UnitCost())
	}
}

func TestParseTradesKeepsFileOrder(t *testing.T) {
	input := "Acquired\tMay-05-2023\tAAPL\tMARGIN\tCash\t100\t105.00\t$10,500.00\n" +
		"Acquired\tJan-03-2022\tAAPL\tMARGIN\tCash\t50\t170.00\t$8,500.00\n"
	trades, _ := ParseTrades(strings.NewReader(input), "AAPL")
	if len(trades) != 2 {
		t.Fatalf("ParseTrades() = %d trades, want 2", len(trades))
	}
	if !trades[0].Acquired.After(trades[1].Acquired) {
		t.Errorf("trades reordered: %v then %v, want file order", trades[0].Acquired, trades[1].Acquired)
	}
}

func TestParseTradesFallbackSymbol(t *testing.T) {
	row := "Acquired\tMay-05-2023\t\tMARGIN\tCash\t100\t105.00\t$10,500.00"
	trades, _ := ParseTrades(strings.NewReader(row), "msft")
	if len(trades) != 1 {
		t.Fatalf("ParseTrades() = %d trades, want 1", len(trades))
	}
	if trades[0].Symbol != "MSFT" {
		t.Errorf("Symbol = %q, want fallback MSFT", trades[0].Symbol)
	}
}

func TestParseTradeBlock(t *testing.T) {
	block := `05/05/2023 Buy
Individual ...123
AAPL
APPLE INC
100
105.00 Total $10,500.00
`
	got, err := ParseTradeBlock(block)
	if err != nil {
		t.Fatalf("ParseTradeBlock() unexpected error: %v", err)
	}
	if got.Acquired != date.New(2023, 5, 5) {
		t.Errorf("Acquired = %v, want 2023-05-05", got.Acquired)
	}
	if got.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", got.Symbol)
	}
	if !got.Quantity.Equal(Q(100)) || !got.CostBasis.Equal(M(10500)) {
		t.Errorf("Quantity/CostBasis = %v/%v, want 100/$10,500.00", got.Quantity, got.CostBasis)
	}

	if _, err := ParseTradeBlock("too\nshort"); err == nil {
		t.Error("ParseTradeBlock() on a short block should fail")
	}
}

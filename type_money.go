package breakeven

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value in US dollars.
//
// Brokerage exports and reports in this tool are single-currency, so unlike a
// full accounting ledger there is no currency attribute to carry around.
type Money struct {
	value decimal.Decimal // as major unit value
}

func M[T float32 | float64 | int | int64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// ParseMoney parses a dollar amount as found in exports: an optional leading
// "$" and thousands separators are accepted.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	s = strings.ReplaceAll(s, ",", "")
	v, err := decimal.NewFromString(s)
	return Money{value: v}, err
}

// String formats the amount with the USD formatter, e.g. "$10,000.00".
func (m Money) String() string {
	cur := *money.New(0, money.USD).Currency()
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// StringFixed formats the bare amount with two decimals, e.g. "10000.00".
func (m Money) StringFixed() string { return m.value.StringFixed(2) }

func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) IsPositive() bool         { return m.value.IsPositive() }
func (m Money) GreaterThan(n Money) bool { return m.value.GreaterThan(n.value) }
func (m Money) Add(n Money) Money        { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money        { return Money{value: m.value.Sub(n.value)} }
func (m Money) Mul(q Quantity) Money     { return Money{value: m.value.Mul(q.value)} }
func (m Money) Div(q Quantity) Money     { return Money{value: m.value.Div(q.value)} }
func (m Money) InexactFloat64() float64  { return m.value.InexactFloat64() }

// Compound grows the amount at an annual rate compounded daily over the given
// number of whole days: m × (1 + rate/365)^days. Days at or below zero leave
// the amount unchanged.
func (m Money) Compound(rate float64, days int) Money {
	if days <= 0 {
		return m
	}
	factor := decimal.NewFromFloat(1 + rate/365).Pow(decimal.NewFromInt(int64(days)))
	return Money{value: m.value.Mul(factor)}
}

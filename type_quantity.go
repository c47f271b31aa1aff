package breakeven

import "github.com/shopspring/decimal"

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// Quantity is an exact number of shares.
type Quantity struct {
	value decimal.Decimal
}

func Q[T float32 | float64 | int | int64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

// ParseQuantity parses a decimal number of shares.
func ParseQuantity(s string) (Quantity, error) {
	v, err := decimal.NewFromString(s)
	return Quantity{value: v}, err
}

func (q Quantity) Equal(p Quantity) bool   { return q.value.Equal(p.value) }
func (q Quantity) Add(p Quantity) Quantity { return Quantity{value: q.value.Add(p.value)} }
func (q Quantity) Sub(p Quantity) Quantity { return Quantity{value: q.value.Sub(p.value)} }
func (q Quantity) IsPositive() bool        { return q.value.IsPositive() }
func (q Quantity) IsZero() bool            { return q.value.IsZero() }
func (q Quantity) String() string          { return q.value.String() }
func (q Quantity) InexactFloat64() float64 { return q.value.InexactFloat64() }

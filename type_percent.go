package breakeven

import "fmt"

type Percent float64

// Change returns the percentage change from a reference value to a current value.
func Change(from, to float64) Percent {
	return Percent((to - from) / from * 100)
}

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f", float64(p))
}

func (p Percent) SignedString() string {
	return fmt.Sprintf("%+.2f%%", float64(p))
}

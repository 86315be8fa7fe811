package rebalance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a share of a whole expressed in percentage points (0-100).
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

// Decimal returns the shortest decimal representation of p.
func (p Percent) Decimal() decimal.Decimal { return decimal.NewFromFloat(float64(p)) }

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}

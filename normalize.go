package rebalance

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)

	// an allocation within this distance of 100% is left as is.
	sumTolerance = decimal.New(1, -4)
	// an allocation within this distance of 100% is scaled back to 100%.
	normalizableBand = decimal.New(5, -1)
)

// Normalize coerces a target allocation that nearly sums to 100% into one
// that sums to exactly 100.00%.
//
// Allocations already at 100% are returned unchanged (as a copy). Within half
// a percentage point every value is scaled by 100/sum and rounded half to even
// to two decimals, and the rounding residual goes to the largest allocation
// (the first one on ties); adjusted is then true so that callers can tell the
// user. Anything further away, a zero sum, or a percentage that is not a
// number in [0, 100] is rejected with an *InvalidAllocationError.
func Normalize(target *Allocation) (normalized *Allocation, adjusted bool, err error) {
	if err := target.check(); err != nil {
		return nil, false, err
	}
	sum := target.Sum()
	if sum.IsZero() {
		return nil, false, &InvalidAllocationError{Sum: sum, Reason: "allocation is empty"}
	}

	gap := sum.Sub(hundred).Abs()
	if gap.LessThanOrEqual(sumTolerance) {
		return target.Clone(), false, nil
	}
	if gap.GreaterThan(normalizableBand) {
		return nil, false, &InvalidAllocationError{Sum: sum, Reason: "allocation must sum to 100%"}
	}

	normalized = target.Clone()
	rounded := make(map[string]decimal.Decimal, target.Len())
	total := decimal.Zero
	largest := ""
	for t, p := range target.All() {
		v := p.Decimal().Mul(hundred).Div(sum).RoundBank(2)
		rounded[t] = v
		total = total.Add(v)
		if largest == "" || v.GreaterThan(rounded[largest]) {
			largest = t
		}
	}
	rounded[largest] = rounded[largest].Add(hundred.Sub(total))

	for t := range target.All() {
		normalized.Set(t, Percent(rounded[t].InexactFloat64()))
	}
	return normalized, true, nil
}

package rebalance

// whole is a helper for tests to create a whole-units-only holding.
func whole(ticker string, quantity int) Holding {
	return Holding{Ticker: ticker, Quantity: Q(quantity), WholeUnitsOnly: true}
}

// frac is a helper for tests to create a fractional holding.
func frac(ticker string, quantity float64) Holding {
	return Holding{Ticker: ticker, Quantity: Q(quantity)}
}

// percents returns the percentages of a in order.
func percents(a *Allocation) []float64 {
	var res []float64
	for _, p := range a.All() {
		res = append(res, float64(p))
	}
	return res
}

package rebalance

// Project applies orders to holdings and returns the resulting holdings.
//
// Holdings keep their order and their whole-units flag; those that end up
// with a zero or negative quantity are dropped. Bought tickers that were not
// held are appended in order order, with the whole-units flag of their order.
// Neither holdings nor orders are modified.
func Project(holdings []Holding, orders []Order) []Holding {
	deltas := make(map[string]Quantity, len(orders))
	for _, o := range orders {
		deltas[o.Ticker] = deltas[o.Ticker].Add(o.Delta())
	}

	seen := make(map[string]bool, len(holdings))
	projected := make([]Holding, 0, len(holdings)+len(orders))
	for _, h := range holdings {
		seen[h.Ticker] = true
		q := h.Quantity.Add(deltas[h.Ticker])
		if !q.IsPositive() {
			continue
		}
		projected = append(projected, Holding{Ticker: h.Ticker, Quantity: q, WholeUnitsOnly: h.WholeUnitsOnly})
	}

	for _, o := range orders {
		if seen[o.Ticker] {
			continue
		}
		seen[o.Ticker] = true
		if q := deltas[o.Ticker]; q.IsPositive() {
			projected = append(projected, Holding{Ticker: o.Ticker, Quantity: q, WholeUnitsOnly: o.WholeUnitsOnly})
		}
	}
	return projected
}

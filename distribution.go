package rebalance

import "gonum.org/v1/gonum/floats"

// ComputeDistribution returns the share of each holding in the total value of
// holdings, in the order of holdings.
//
// An empty or worthless portfolio has a distribution of zeros.
func ComputeDistribution(holdings []Holding, prices Prices) (*Allocation, error) {
	values := make([]float64, len(holdings))
	var total float64
	for i, h := range holdings {
		price, err := prices.Of(h.Ticker)
		if err != nil {
			return nil, err
		}
		values[i] = h.Quantity.Float() * price
		total += values[i]
	}

	d := new(Allocation)
	for i, h := range holdings {
		var p Percent
		if total > 0 {
			p = Percent(values[i] / total * 100)
		}
		d.add(h.Ticker, p)
	}
	return d, nil
}

// TotalValue returns the market value of holdings.
func TotalValue(holdings []Holding, prices Prices) (float64, error) {
	var total float64
	for _, h := range holdings {
		price, err := prices.Of(h.Ticker)
		if err != nil {
			return 0, err
		}
		total += h.Quantity.Float() * price
	}
	return total, nil
}

// Deviation returns the euclidean distance, in percentage points, between a
// distribution and a target over the union of their tickers. A ticker
// missing on one side counts as 0%.
func Deviation(distribution, target *Allocation) float64 {
	tickers := distribution.Tickers()
	for t := range target.All() {
		if _, ok := distribution.Get(t); !ok {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) == 0 {
		return 0
	}
	got := make([]float64, len(tickers))
	want := make([]float64, len(tickers))
	for i, t := range tickers {
		g, _ := distribution.Get(t)
		w, _ := target.Get(t)
		got[i], want[i] = float64(g), float64(w)
	}
	return floats.Distance(got, want, 2)
}

package eodhd

import (
	"slices"

	"github.com/etnz/rebalance"
)

// Resolve returns the price of each ticker, taken from fetched first and
// from fallback otherwise. Tickers with neither are returned in missing, in
// the order of tickers; they are not given any price.
func Resolve(fetched, fallback rebalance.Prices, tickers []string) (prices rebalance.Prices, missing []string) {
	prices = make(rebalance.Prices, len(tickers))
	for _, t := range tickers {
		if p, err := fetched.Of(t); err == nil {
			prices[t] = p
			continue
		}
		if p, err := fallback.Of(t); err == nil {
			prices[t] = p
			continue
		}
		if !slices.Contains(missing, t) {
			missing = append(missing, t)
		}
	}
	return prices, missing
}

package rebalance

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Holding is a position in a single ticker.
type Holding struct {
	Ticker         string
	Quantity       Quantity
	WholeUnitsOnly bool // the instrument can only be traded in integer quantities
}

// Prices maps a ticker to its unit price.
//
// Prices are resolved by the caller; the package never fetches nor defaults
// a price.
type Prices map[string]float64

// Of returns the price of ticker, or a *MissingPriceError if there is no
// usable price for it: a positive, finite one.
func (p Prices) Of(ticker string) (float64, error) {
	price, ok := p[ticker]
	if !ok || !(price > 0) || math.IsInf(price, 1) {
		return 0, &MissingPriceError{Ticker: ticker}
	}
	return price, nil
}

// MissingPriceError reports a ticker referenced by holdings or by a target
// allocation that has no positive price.
type MissingPriceError struct {
	Ticker string
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("missing price for %q", e.Ticker)
}

// InvalidAllocationError reports a target allocation that cannot be optimized.
type InvalidAllocationError struct {
	Sum    decimal.Decimal // sum of all the percentages, unset when Ticker is
	Ticker string          // the ticker whose percentage is out of range, if any
	Reason string
}

func (e *InvalidAllocationError) Error() string {
	if e.Ticker != "" {
		return fmt.Sprintf("invalid allocation of %q: %s", e.Ticker, e.Reason)
	}
	return fmt.Sprintf("invalid allocation summing to %s%%: %s", e.Sum.StringFixed(2), e.Reason)
}

// ErrNegativeFunds is returned when the available funds are below zero.
var ErrNegativeFunds = errors.New("available funds must not be negative")

// Tickers returns every ticker that needs a price: those of holdings, then
// those of target, without duplicates.
func Tickers(holdings []Holding, target *Allocation) []string {
	var res []string
	seen := make(map[string]bool)
	for _, h := range holdings {
		if !seen[h.Ticker] {
			seen[h.Ticker] = true
			res = append(res, h.Ticker)
		}
	}
	for t := range target.All() {
		if !seen[t] {
			seen[t] = true
			res = append(res, t)
		}
	}
	return res
}

package rebalance

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	// target differences below one cent are not worth an order.
	minTradeValue = 0.01
	// leftovers above one currency unit are worth telling the user.
	leftoverAdvisoryThreshold = 1
)

// Plan is the result of an optimization: the orders to pass and the funds
// that whole-unit rounding could not allocate.
type Plan struct {
	Orders []Order
	// Leftover accumulates, exactly, the difference between the target value
	// and the traded value of every whole-unit order. Positive means funds
	// left unspent, negative means funds over-committed.
	Leftover     decimal.Decimal
	Funds        float64 // new cash available for the plan
	CurrentTotal float64 // value of the holdings before the plan
	FutureTotal  float64 // CurrentTotal + Funds
}

// Optimize computes the orders that move holdings toward target once funds
// are added to the portfolio.
//
// Tickers are processed in target order. Whole-units-only tickers are
// truncated toward zero and get one more unit when the dropped fraction is
// strictly above one half; an exact half stays truncated, favoring the
// smaller trade. The rounding error of those orders goes to Plan.Leftover.
// Other tickers are truncated toward zero at two decimals, so the plan never
// spends more than it has.
//
// Held tickers absent from target are left untouched; list them with 0% to
// sell them. Target should be normalized beforehand, see Normalize.
func Optimize(holdings []Holding, prices Prices, target *Allocation, funds float64) (*Plan, error) {
	if funds < 0 {
		return nil, ErrNegativeFunds
	}
	if math.IsNaN(funds) || math.IsInf(funds, 0) {
		return nil, fmt.Errorf("available funds must be a finite amount, got %v", funds)
	}
	if err := target.check(); err != nil {
		return nil, err
	}

	current := make(map[string]float64, len(holdings))
	whole := make(map[string]bool, len(holdings))
	plan := &Plan{Funds: funds}
	for _, h := range holdings {
		price, err := prices.Of(h.Ticker)
		if err != nil {
			return nil, err
		}
		v := h.Quantity.Float() * price
		current[h.Ticker] += v
		whole[h.Ticker] = h.WholeUnitsOnly
		plan.CurrentTotal += v
	}
	plan.FutureTotal = plan.CurrentTotal + funds

	for ticker, pct := range target.All() {
		price, err := prices.Of(ticker)
		if err != nil {
			return nil, err
		}
		targetValue := float64(pct) / 100 * plan.FutureTotal
		diff := targetValue - current[ticker]
		if math.Abs(diff) < minTradeValue {
			continue
		}
		raw := diff / price

		wholeUnitsOnly, held := whole[ticker]
		if !held {
			wholeUnitsOnly = target.WholeUnitsOnly(ticker)
		}

		var change Quantity
		var actual float64
		if wholeUnitsOnly {
			units := roundWholeUnits(raw)
			change = Q(units)
			actual = float64(units) * price
			plan.Leftover = plan.Leftover.Add(decimal.NewFromFloat(diff - actual))
		} else {
			change = Q(decimal.NewFromFloat(raw).Truncate(2))
			actual = change.Float() * price
		}
		if change.IsZero() {
			continue
		}

		order := Order{
			Ticker:         ticker,
			Action:         Buy,
			Quantity:       change.Abs(),
			Value:          math.Abs(actual),
			WholeUnitsOnly: wholeUnitsOnly,
		}
		if change.IsNegative() {
			order.Action = Sell
		}
		plan.Orders = append(plan.Orders, order)
	}
	return plan, nil
}

// roundWholeUnits truncates raw toward zero, then moves one unit further
// away from zero when the dropped fraction is strictly greater than 0.5.
func roundWholeUnits(raw float64) int64 {
	units := math.Trunc(raw)
	switch {
	case raw > 0 && raw-units > 0.5:
		units++
	case raw < 0 && units-raw > 0.5:
		units--
	}
	return int64(units)
}

// HasAdvisory reports whether the leftover is large enough to be reported.
func (p *Plan) HasAdvisory() bool {
	return p.Leftover.Abs().GreaterThan(decimal.NewFromInt(leftoverAdvisoryThreshold))
}

// Advisory describes the leftover in currency, or returns "" when it is not
// worth reporting.
func (p *Plan) Advisory(currency string) string {
	if !p.HasAdvisory() {
		return ""
	}
	left := M(p.Leftover, currency)
	status := "not allocated"
	if left.IsNegative() {
		status = "over-allocated"
	}
	return fmt.Sprintf("Due to whole-unit constraints, %s of funds were %s.", left.Abs(), status)
}

// BuyTotal returns the total value of the buy orders.
func (p *Plan) BuyTotal() float64 { return total(p.Orders, Buy) }

// SellTotal returns the total value of the sell orders.
func (p *Plan) SellTotal() float64 { return total(p.Orders, Sell) }

func total(orders []Order, action Action) float64 {
	var sum float64
	for _, o := range orders {
		if o.Action == action {
			sum += o.Value
		}
	}
	return sum
}

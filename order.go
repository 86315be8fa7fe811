package rebalance

import (
	"fmt"
	"math"
)

// Action is the direction of an order.
type Action int

const (
	Buy Action = iota + 1
	Sell
)

func (a Action) String() string {
	switch a {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	switch a {
	case Buy, Sell:
		return []byte(a.String()), nil
	}
	return nil, fmt.Errorf("invalid action %d", int(a))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Buy", "buy":
		*a = Buy
	case "Sell", "sell":
		*a = Sell
	default:
		return fmt.Errorf("invalid action %q", text)
	}
	return nil
}

// Order is a single trade of a plan. Quantity and Value are magnitudes, the
// direction is given by Action.
type Order struct {
	Ticker         string
	Action         Action
	Quantity       Quantity
	Value          float64
	WholeUnitsOnly bool
}

// Delta returns the signed change in quantity the order applies to a holding.
func (o Order) Delta() Quantity {
	if o.Action == Sell {
		return o.Quantity.Neg()
	}
	return o.Quantity
}

func (o Order) String() string {
	return fmt.Sprintf("%s %s %s @ %.2f", o.Action, o.Ticker, o.Quantity.Format(o.WholeUnitsOnly), o.Value)
}

// roundCents rounds v to two decimals for display and export.
func roundCents(v float64) float64 { return math.Round(v*100) / 100 }

func (o Order) MarshalJSON() ([]byte, error) {
	var obj jsonObject
	return obj.Field("ticker", o.Ticker).
		Field("action", o.Action).
		Field("quantity", o.Quantity).
		Cents("value", o.Value).
		OmitEmpty("whole_units_only", o.WholeUnitsOnly).
		Bytes()
}

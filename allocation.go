package rebalance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Allocation maps tickers to percentages of a portfolio's total value.
//
// Insertion order is preserved: it is the iteration order, and therefore the
// order in which orders are emitted and reports are rendered. The zero value
// is an empty allocation ready to use.
type Allocation struct {
	tickers []string
	pct     map[string]Percent
	whole   map[string]bool // whole-units-only for tickers that may not be held yet
}

// NewAllocation returns an allocation holding the given ticker/percent pairs.
// It panics if pairs are not alternating string and number values.
func NewAllocation(pairs ...any) *Allocation {
	if len(pairs)%2 != 0 {
		panic("NewAllocation expects ticker/percent pairs")
	}
	a := new(Allocation)
	for i := 0; i < len(pairs); i += 2 {
		ticker := pairs[i].(string)
		switch v := pairs[i+1].(type) {
		case int:
			a.Set(ticker, Percent(v))
		case float64:
			a.Set(ticker, Percent(v))
		case Percent:
			a.Set(ticker, v)
		default:
			panic(fmt.Sprintf("unsupported percent type %T", v))
		}
	}
	return a
}

// Set sets the percentage of ticker. A new ticker is appended at the end.
func (a *Allocation) Set(ticker string, p Percent) {
	if a.pct == nil {
		a.pct = make(map[string]Percent)
	}
	if _, exists := a.pct[ticker]; !exists {
		a.tickers = append(a.tickers, ticker)
	}
	a.pct[ticker] = p
}

// add adds p to the percentage of ticker.
func (a *Allocation) add(ticker string, p Percent) {
	current, _ := a.Get(ticker)
	a.Set(ticker, current+p)
}

// Get returns the percentage of ticker and whether it is part of the allocation.
func (a *Allocation) Get(ticker string) (Percent, bool) {
	if a == nil {
		return 0, false
	}
	p, ok := a.pct[ticker]
	return p, ok
}

// SetWholeUnitsOnly records that ticker can only be traded in whole units.
// It is used for tickers that are targeted but not held yet.
func (a *Allocation) SetWholeUnitsOnly(ticker string, wholeUnitsOnly bool) {
	if a.whole == nil {
		a.whole = make(map[string]bool)
	}
	a.whole[ticker] = wholeUnitsOnly
}

// WholeUnitsOnly reports whether ticker was marked as whole-units-only.
func (a *Allocation) WholeUnitsOnly(ticker string) bool {
	if a == nil {
		return false
	}
	return a.whole[ticker]
}

// Len returns the number of tickers.
func (a *Allocation) Len() int {
	if a == nil {
		return 0
	}
	return len(a.tickers)
}

// Tickers returns the tickers in insertion order.
func (a *Allocation) Tickers() []string {
	if a == nil {
		return nil
	}
	return slices.Clone(a.tickers)
}

// All iterates over ticker and percentage pairs in insertion order.
func (a *Allocation) All() iter.Seq2[string, Percent] {
	return func(yield func(string, Percent) bool) {
		if a == nil {
			return
		}
		for _, t := range a.tickers {
			if !yield(t, a.pct[t]) {
				return
			}
		}
	}
}

// check returns an *InvalidAllocationError for the first percentage that is
// not a number between 0 and 100.
func (a *Allocation) check() error {
	for t, p := range a.All() {
		if !(p >= 0 && p <= 100) {
			return &InvalidAllocationError{Ticker: t, Reason: fmt.Sprintf("percentage must be between 0 and 100, got %v", float64(p))}
		}
	}
	return nil
}

// Sum returns the exact sum of all percentages. Percentages must be finite.
func (a *Allocation) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range a.All() {
		sum = sum.Add(p.Decimal())
	}
	return sum
}

// Clone returns a deep copy of a.
func (a *Allocation) Clone() *Allocation {
	c := new(Allocation)
	if a == nil {
		return c
	}
	c.tickers = slices.Clone(a.tickers)
	if a.pct != nil {
		c.pct = make(map[string]Percent, len(a.pct))
		for k, v := range a.pct {
			c.pct[k] = v
		}
	}
	if a.whole != nil {
		c.whole = make(map[string]bool, len(a.whole))
		for k, v := range a.whole {
			c.whole[k] = v
		}
	}
	return c
}

// MarshalJSON writes the allocation as a JSON object in insertion order.
func (a *Allocation) MarshalJSON() ([]byte, error) {
	var o jsonObject
	for t, p := range a.All() {
		o.Field(t, float64(p))
	}
	return o.Bytes()
}

// UnmarshalJSON reads a JSON object of ticker to percentage, keeping the
// order of the keys in the document.
func (a *Allocation) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("allocation must be a JSON object, got %v", tok)
	}
	*a = Allocation{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		ticker, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected allocation key %v", tok)
		}
		var n json.Number
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("allocation of %q: %w", ticker, err)
		}
		f, err := n.Float64()
		if err != nil {
			return fmt.Errorf("allocation of %q: %w", ticker, err)
		}
		a.Set(ticker, Percent(f))
	}
	// closing brace
	_, err = dec.Token()
	return err
}

// UnmarshalYAML reads a YAML mapping of ticker to percentage, keeping the
// order of the keys in the document.
func (a *Allocation) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: allocation must be a mapping", node.Line)
	}
	*a = Allocation{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		var f float64
		if err := value.Decode(&f); err != nil {
			return fmt.Errorf("line %d: allocation of %q: %w", value.Line, key.Value, err)
		}
		a.Set(key.Value, Percent(f))
	}
	return nil
}

// ParseAllocation parses "TICKER=PERCENT" pairs, such as "AAPL=60" or
// "VWCE=40%", into an allocation in the order given.
func ParseAllocation(pairs []string) (*Allocation, error) {
	a := new(Allocation)
	for _, pair := range pairs {
		ticker, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		ticker = strings.TrimSpace(ticker)
		if !ok || ticker == "" {
			return nil, fmt.Errorf("invalid allocation %q, expecting <ticker>=<percent>", pair)
		}
		p, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(value), "%"), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid percent for %q: %w", ticker, err)
		}
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("invalid percent for %q: %q is not a number", ticker, value)
		}
		if _, exists := a.Get(ticker); exists {
			return nil, fmt.Errorf("duplicate ticker %q", ticker)
		}
		a.Set(ticker, Percent(p))
	}
	return a, nil
}

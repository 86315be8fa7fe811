package rebalance

import (
	"fmt"

	"github.com/google/uuid"
)

// Report gathers everything computed for one rebalancing request: the
// normalized target, the plan, and the state of the portfolio before and
// after the plan.
type Report struct {
	ID       uuid.UUID
	Currency string

	Target   *Allocation // normalized target
	Adjusted bool        // the target had to be normalized

	Holdings []Holding
	Current  *Allocation // distribution of Holdings

	Plan       *Plan
	Projected  []Holding   // Holdings after the plan
	Projection *Allocation // distribution of Projected
	Flows      *FlowGraph  // nil without orders
}

// NewReport runs the whole rebalancing pipeline: it normalizes target,
// optimizes the orders, projects them on holdings and summarizes the flows.
func NewReport(holdings []Holding, prices Prices, target *Allocation, funds float64, currency string) (*Report, error) {
	current, err := ComputeDistribution(holdings, prices)
	if err != nil {
		return nil, fmt.Errorf("cannot compute current distribution: %w", err)
	}

	normalized, adjusted, err := Normalize(target)
	if err != nil {
		return nil, err
	}

	plan, err := Optimize(holdings, prices, normalized, funds)
	if err != nil {
		return nil, fmt.Errorf("cannot optimize trades: %w", err)
	}

	projected := Project(holdings, plan.Orders)
	projection, err := ComputeDistribution(projected, prices)
	if err != nil {
		return nil, fmt.Errorf("cannot compute projected distribution: %w", err)
	}

	return &Report{
		ID:         uuid.New(),
		Currency:   currency,
		Target:     normalized,
		Adjusted:   adjusted,
		Holdings:   holdings,
		Current:    current,
		Plan:       plan,
		Projected:  projected,
		Projection: projection,
		Flows:      SummarizeFlows(plan.Orders, funds),
	}, nil
}

// CurrentDeviation is the distance between the current distribution and the target.
func (r *Report) CurrentDeviation() float64 { return Deviation(r.Current, r.Target) }

// ProjectedDeviation is the distance between the projected distribution and the target.
func (r *Report) ProjectedDeviation() float64 { return Deviation(r.Projection, r.Target) }

// MarshalJSON exports the report as a JSON object with a stable field order.
func (r *Report) MarshalJSON() ([]byte, error) {
	orders := r.Plan.Orders
	if orders == nil {
		orders = []Order{}
	}
	var o jsonObject
	o.Field("id", r.ID.String()).
		OmitEmpty("currency", r.Currency).
		Cents("funds", r.Plan.Funds).
		Field("target", r.Target).
		OmitEmpty("adjusted", r.Adjusted).
		Field("current", r.Current).
		Field("orders", orders).
		Field("leftover", M(r.Plan.Leftover, r.Currency)).
		Field("projected", holdingsJSON(r.Projected)).
		Field("projection", r.Projection)
	if r.Flows != nil {
		o.Field("flows", r.Flows)
	}
	return o.Bytes()
}

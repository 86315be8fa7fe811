package rebalance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	holdings := []Holding{whole("AAPL", 10), frac("VWCE", 2.5), whole("GONE", 3), whole("KEEP", 1)}
	orders := []Order{
		{Ticker: "AAPL", Action: Buy, Quantity: Q(5), Value: 500, WholeUnitsOnly: true},
		{Ticker: "VWCE", Action: Sell, Quantity: Q(0.5), Value: 60},
		{Ticker: "GONE", Action: Sell, Quantity: Q(3), Value: 30, WholeUnitsOnly: true},
		{Ticker: "NEW", Action: Buy, Quantity: Q(1.25), Value: 12.5},
		{Ticker: "NEWW", Action: Buy, Quantity: Q(2), Value: 20, WholeUnitsOnly: true},
		{Ticker: "SHORT", Action: Sell, Quantity: Q(1), Value: 1},
	}

	got := Project(holdings, orders)

	want := []Holding{
		whole("AAPL", 15),
		frac("VWCE", 2),
		whole("KEEP", 1),
		frac("NEW", 1.25),
		whole("NEWW", 2),
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Ticker, got[i].Ticker)
		assert.True(t, want[i].Quantity.Equal(got[i].Quantity), "%s: got %s want %s", want[i].Ticker, got[i].Quantity, want[i].Quantity)
		assert.Equal(t, want[i].WholeUnitsOnly, got[i].WholeUnitsOnly, want[i].Ticker)
	}

	// inputs are left untouched
	assert.True(t, holdings[0].Quantity.Equal(Q(10)))
	assert.Len(t, holdings, 4)
}

func TestProject_NoOrders(t *testing.T) {
	holdings := []Holding{whole("AAPL", 10), whole("EMPTY", 0)}
	got := Project(holdings, nil)
	require.Len(t, got, 1, "zero quantity holdings do not survive")
	assert.Equal(t, "AAPL", got[0].Ticker)
}

func TestProject_MovesTowardTarget(t *testing.T) {
	holdings := []Holding{frac("A", 10), frac("B", 5)}
	prices := Prices{"A": 10, "B": 20}
	target := NewAllocation("A", 75, "B", 25)

	before, err := ComputeDistribution(holdings, prices)
	require.NoError(t, err)

	plan, err := Optimize(holdings, prices, target, 100)
	require.NoError(t, err)
	require.Len(t, plan.Orders, 2)

	after, err := ComputeDistribution(Project(holdings, plan.Orders), prices)
	require.NoError(t, err)

	for ticker, want := range target.All() {
		b, _ := before.Get(ticker)
		a, _ := after.Get(ticker)
		assert.Less(t, math.Abs(float64(a-want)), math.Abs(float64(b-want)), ticker)
	}
	assert.Less(t, Deviation(after, target), Deviation(before, target))
	assert.InDeltaSlice(t, []float64{75, 25}, percents(after), 1e-9)
}

func TestProject_WholeUnitsDeviationShrinksWhenRelaxed(t *testing.T) {
	prices := Prices{"A": 37, "B": 91}
	target := NewAllocation("A", 55, "B", 45)

	deviation := func(wholeUnits bool) float64 {
		holdings := []Holding{
			{Ticker: "A", Quantity: Q(3), WholeUnitsOnly: wholeUnits},
			{Ticker: "B", Quantity: Q(4), WholeUnitsOnly: wholeUnits},
		}
		plan, err := Optimize(holdings, prices, target, 500)
		require.NoError(t, err)
		after, err := ComputeDistribution(Project(holdings, plan.Orders), prices)
		require.NoError(t, err)
		return Deviation(after, target)
	}

	assert.LessOrEqual(t, deviation(false), deviation(true))
}

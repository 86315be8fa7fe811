package renderer

import (
	"strings"
	"testing"

	"github.com/etnz/rebalance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport(t *testing.T, target *rebalance.Allocation, funds float64) *rebalance.Report {
	t.Helper()
	holdings := []rebalance.Holding{
		{Ticker: "AAPL", Quantity: rebalance.Q(10), WholeUnitsOnly: true},
		{Ticker: "VWCE", Quantity: rebalance.Q(4)},
	}
	prices := rebalance.Prices{"AAPL": 100, "VWCE": 250, "MSFT": 40}
	r, err := rebalance.NewReport(holdings, prices, target, funds, "USD")
	require.NoError(t, err)
	return r
}

func TestPlanMarkdown(t *testing.T) {
	r := testReport(t, rebalance.NewAllocation("AAPL", 25, "VWCE", 25, "MSFT", 50), 2000)
	got := PlanMarkdown(r)

	for _, want := range []string{
		"# Rebalancing Plan",
		"$4,000.00", // future value
		"## Orders",
		"Buy",
		"MSFT",
		"## Projected Allocation",
		"## Flow of Funds",
		"sankey-beta",
		"Available Funds,MSFT,2000.00",
	} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "normalized")
}

func TestPlanMarkdown_Balanced(t *testing.T) {
	r := testReport(t, rebalance.NewAllocation("AAPL", 50, "VWCE", 50), 0)
	got := PlanMarkdown(r)

	assert.Contains(t, got, "already balanced")
	assert.NotContains(t, got, "Flow of Funds")
}

func TestPlanMarkdown_Normalized(t *testing.T) {
	r := testReport(t, rebalance.NewAllocation("AAPL", 50.2, "VWCE", 50.2), 0)
	got := PlanMarkdown(r)

	assert.Contains(t, got, "was normalized (AAPL 50.00%, VWCE 50.00%)")
}

func TestPlanMarkdown_Advisory(t *testing.T) {
	// 1000 buys 6.25 units, 6 are bought and 40 are left.
	holdings := []rebalance.Holding{{Ticker: "AAPL", Quantity: rebalance.Q(0), WholeUnitsOnly: true}}
	prices := rebalance.Prices{"AAPL": 160}
	r, err := rebalance.NewReport(holdings, prices, rebalance.NewAllocation("AAPL", 100), 1000, "EUR")
	require.NoError(t, err)

	got := PlanMarkdown(r)
	assert.Contains(t, got, "Due to whole-unit constraints")
	assert.Contains(t, got, "not allocated")
	assert.Contains(t, got, "Cash After Orders")
	assert.Contains(t, got, "Leftover")
	// 1000 of funds less 960 bought, all of it unallocated
	assert.Contains(t, got, rebalance.M(40, "EUR").SignedString())
}

func TestDistributionMarkdown(t *testing.T) {
	holdings := []rebalance.Holding{
		{Ticker: "AAPL", Quantity: rebalance.Q(3), WholeUnitsOnly: true},
		{Ticker: "VWCE", Quantity: rebalance.Q(1.5)},
	}
	prices := rebalance.Prices{"AAPL": 100, "VWCE": 200}
	dist, err := rebalance.ComputeDistribution(holdings, prices)
	require.NoError(t, err)

	got := DistributionMarkdown(holdings, prices, dist, "USD")
	assert.Contains(t, got, "# Portfolio Distribution")
	assert.Contains(t, got, "50.00%")
	assert.Contains(t, got, "1.50")
	assert.Contains(t, got, "$600.00")
	assert.NotContains(t, got, "no value")
}

func TestDistributionMarkdown_Empty(t *testing.T) {
	holdings := []rebalance.Holding{{Ticker: "A", Quantity: rebalance.Q(0)}}
	prices := rebalance.Prices{"A": 1}
	dist, err := rebalance.ComputeDistribution(holdings, prices)
	require.NoError(t, err)

	got := DistributionMarkdown(holdings, prices, dist, "")
	assert.Contains(t, got, "no value")
}

func TestNormalizationMarkdown(t *testing.T) {
	target := rebalance.NewAllocation("A", 60.2, "B", 40)
	normalized, adjusted, err := rebalance.Normalize(target)
	require.NoError(t, err)

	got := NormalizationMarkdown(target, normalized, adjusted)
	assert.Contains(t, got, "summed to 100.20% and was scaled")
	assert.Contains(t, got, "100.00%")
}

func TestSankey(t *testing.T) {
	g := &rebalance.FlowGraph{
		Nodes: []string{rebalance.FundsNode, "A", "B,C", rebalance.RemainingNode},
		Flows: []rebalance.Flow{
			{Source: 0, Target: 1, Value: 12.346, Kind: rebalance.BuyFlow},
			{Source: 2, Target: 0, Value: 5, Kind: rebalance.SellFlow},
			{Source: 0, Target: 3, Value: 7.65, Kind: rebalance.RemainingFlow},
		},
	}
	want := strings.Join([]string{
		"```mermaid",
		"sankey-beta",
		"",
		"Available Funds,A,12.35",
		`"B,C",Available Funds,5.00`,
		"Available Funds,Remaining Funds,7.65",
		"```",
		"",
	}, "\n")
	assert.Equal(t, want, Sankey(g))
}

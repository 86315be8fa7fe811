package rebalance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDistribution(t *testing.T) {
	prices := Prices{"AAPL": 100, "MSFT": 50, "VWCE": 120.5}

	tests := []struct {
		name     string
		holdings []Holding
		tickers  []string
		want     []float64
	}{
		{
			name:     "two holdings",
			holdings: []Holding{whole("AAPL", 10), whole("MSFT", 30)},
			tickers:  []string{"AAPL", "MSFT"},
			want:     []float64{40, 60},
		},
		{
			name:     "keeps holdings order",
			holdings: []Holding{whole("MSFT", 30), whole("AAPL", 10)},
			tickers:  []string{"MSFT", "AAPL"},
			want:     []float64{60, 40},
		},
		{
			name:     "zero quantities",
			holdings: []Holding{whole("AAPL", 0), frac("VWCE", 0)},
			tickers:  []string{"AAPL", "VWCE"},
			want:     []float64{0, 0},
		},
		{
			name:     "empty portfolio",
			holdings: nil,
			tickers:  nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeDistribution(tt.holdings, prices)
			require.NoError(t, err)
			assert.Equal(t, tt.tickers, got.Tickers())
			assert.InDeltaSlice(t, tt.want, percents(got), 1e-9)
		})
	}
}

func TestComputeDistribution_SumsTo100(t *testing.T) {
	prices := Prices{"A": 13.37, "B": 0.42, "C": 981.1, "D": 7}
	holdings := []Holding{frac("A", 3.3), frac("B", 1000), whole("C", 2), frac("D", 0.01)}

	got, err := ComputeDistribution(holdings, prices)
	require.NoError(t, err)
	assert.InDelta(t, 100, got.Sum().InexactFloat64(), 1e-9)
}

func TestComputeDistribution_MissingPrice(t *testing.T) {
	_, err := ComputeDistribution([]Holding{whole("AAPL", 1), whole("GOOG", 1)}, Prices{"AAPL": 1})

	var missing *MissingPriceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "GOOG", missing.Ticker)
}

func TestTotalValue(t *testing.T) {
	got, err := TotalValue([]Holding{whole("A", 2), frac("B", 0.5)}, Prices{"A": 10, "B": 3})
	require.NoError(t, err)
	assert.InDelta(t, 21.5, got, 1e-9)
}

func TestDeviation(t *testing.T) {
	tests := []struct {
		name         string
		distribution *Allocation
		target       *Allocation
		want         float64
	}{
		{"identical", NewAllocation("A", 50, "B", 50), NewAllocation("B", 50, "A", 50), 0},
		{"missing in distribution", NewAllocation("A", 100), NewAllocation("A", 50, "B", 50), math.Sqrt(2 * 50 * 50)},
		{"missing in target", NewAllocation("A", 60, "B", 40), NewAllocation("A", 100), math.Sqrt(2 * 40 * 40)},
		{"both empty", new(Allocation), new(Allocation), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Deviation(tt.distribution, tt.target), 1e-9)
		})
	}
}

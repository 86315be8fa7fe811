package rebalance

import (
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		target   *Allocation
		want     []float64
		adjusted bool
	}{
		{
			name:   "already 100",
			target: NewAllocation("A", 60, "B", 40),
			want:   []float64{60, 40},
		},
		{
			name:   "within tolerance",
			target: NewAllocation("A", 50.00005, "B", 50),
			want:   []float64{50.00005, 50},
		},
		{
			name:     "scaled down",
			target:   NewAllocation("A", 50.2, "B", 50.2),
			want:     []float64{50, 50},
			adjusted: true,
		},
		{
			name:     "scaled up without residual",
			target:   NewAllocation("A", 33.3, "B", 33.3, "C", 33.1),
			want:     []float64{33.4, 33.4, 33.2},
			adjusted: true,
		},
		{
			name:     "residual goes to the first largest",
			target:   NewAllocation("A", 33.3, "B", 33.3, "C", 33.3),
			want:     []float64{33.34, 33.33, 33.33},
			adjusted: true,
		},
		{
			name:     "lower edge of the band",
			target:   NewAllocation("A", 49.75, "B", 49.75),
			want:     []float64{50, 50},
			adjusted: true,
		},
		{
			name:     "upper edge of the band",
			target:   NewAllocation("A", 50.25, "B", 50.25),
			want:     []float64{50, 50},
			adjusted: true,
		},
		{
			// 0.125 and 99.875 once scaled: ties go to the even cent.
			name:     "half to even",
			target:   NewAllocation("A", 0.1255, "B", 100.2745),
			want:     []float64{0.12, 99.88},
			adjusted: true,
		},
		{
			name:     "residual goes to the largest",
			target:   NewAllocation("A", 33.2, "B", 33.4, "C", 33.3),
			want:     []float64{33.23, 33.44, 33.33},
			adjusted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, adjusted, err := Normalize(tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.adjusted, adjusted)
			assert.Equal(t, tt.target.Tickers(), got.Tickers())
			assert.InDeltaSlice(t, tt.want, percents(got), 1e-9)
			if adjusted {
				assert.True(t, got.Sum().Equal(decimal.NewFromInt(100)), "sum is %s", got.Sum())
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	once, adjusted, err := Normalize(NewAllocation("A", 33.3, "B", 33.3, "C", 33.3))
	require.NoError(t, err)
	require.True(t, adjusted)

	twice, adjusted, err := Normalize(once)
	require.NoError(t, err)
	assert.False(t, adjusted)
	assert.Equal(t, percents(once), percents(twice))
}

func TestNormalize_DoesNotModifyTarget(t *testing.T) {
	target := NewAllocation("A", 50.2, "B", 50.2)
	_, _, err := Normalize(target)
	require.NoError(t, err)
	assert.Equal(t, []float64{50.2, 50.2}, percents(target))
}

func TestNormalize_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		target *Allocation
	}{
		{"above the band", NewAllocation("A", 60, "B", 40.6)},
		{"below the band", NewAllocation("A", 60, "B", 39.4)},
		{"far away", NewAllocation("A", 10)},
		{"zero sum", NewAllocation("A", 0, "B", 0)},
		{"empty", new(Allocation)},
		{"negative percent", NewAllocation("A", 110, "B", -10)},
		{"just below the band", NewAllocation("A", 49.49, "B", 50)},
		{"just above the band", NewAllocation("A", 50.51, "B", 50)},
		{"not a number", NewAllocation("A", math.NaN(), "B", 100)},
		{"infinite", NewAllocation("A", math.Inf(1), "B", 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := Normalize(tt.target)
			var invalid *InvalidAllocationError
			require.ErrorAs(t, err, &invalid)
			assert.Nil(t, got)
		})
	}
}

func TestNormalize_NotANumber(t *testing.T) {
	plan, err := DecodeTradePlan(strings.NewReader("target_allocation:\n  A: .nan\n  B: 100\n"), YAML)
	require.NoError(t, err)

	var got error
	require.NotPanics(t, func() { _, _, got = Normalize(plan.TargetAllocation) })
	var invalid *InvalidAllocationError
	require.ErrorAs(t, got, &invalid)
	assert.Equal(t, "A", invalid.Ticker)
	assert.Contains(t, got.Error(), "NaN")
}

package rebalance

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePortfolio(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		doc    string
	}{
		{
			name:   "json",
			format: JSON,
			doc: `[
				{"ticker": "AAPL", "quantity": 10, "price": 180.5, "whole_units_only": true},
				{"ticker": "VWCE", "quantity": 2.75, "whole_units_only": false}
			]`,
		},
		{
			name:   "yaml",
			format: YAML,
			doc: `
- ticker: AAPL
  quantity: 10
  price: 180.5
  whole_units_only: true
- ticker: VWCE
  quantity: 2.75
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			holdings, prices, err := DecodePortfolio(strings.NewReader(tt.doc), tt.format)
			require.NoError(t, err)
			require.Len(t, holdings, 2)
			assert.Equal(t, "AAPL", holdings[0].Ticker)
			assert.True(t, holdings[0].Quantity.Equal(Q(10)))
			assert.True(t, holdings[0].WholeUnitsOnly)
			assert.Equal(t, "VWCE", holdings[1].Ticker)
			assert.True(t, holdings[1].Quantity.Equal(Q(2.75)))
			assert.False(t, holdings[1].WholeUnitsOnly)
			assert.Equal(t, Prices{"AAPL": 180.5}, prices)
		})
	}
}

func TestDecodePortfolio_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"not a list", `{"ticker": "A"}`, "cannot decode portfolio"},
		{"missing ticker", `[{"quantity": 1}]`, "missing ticker"},
		{"duplicate", `[{"ticker": "A", "quantity": 1}, {"ticker": "A", "quantity": 2}]`, "duplicate ticker"},
		{"negative quantity", `[{"ticker": "A", "quantity": -1}]`, "negative quantity"},
		{"fractional whole units", `[{"ticker": "A", "quantity": 1.5, "whole_units_only": true}]`, "fractional quantity"},
		{"bad price", `[{"ticker": "A", "quantity": 1, "price": 0}]`, "price must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodePortfolio(strings.NewReader(tt.doc), JSON)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeTradePlan(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		doc    string
	}{
		{
			name:   "json",
			format: JSON,
			doc:    `{"available_funds": 1000, "target_allocation": {"MSFT": 50, "AAPL": 50}, "whole_units_only": ["MSFT"]}`,
		},
		{
			name:   "yaml",
			format: YAML,
			doc:    "available_funds: 1000\ntarget_allocation:\n  MSFT: 50\n  AAPL: 50\nwhole_units_only: [MSFT]\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := DecodeTradePlan(strings.NewReader(tt.doc), tt.format)
			require.NoError(t, err)
			assert.Equal(t, 1000.0, plan.AvailableFunds)
			assert.Equal(t, []string{"MSFT", "AAPL"}, plan.TargetAllocation.Tickers())
			assert.True(t, plan.TargetAllocation.WholeUnitsOnly("MSFT"))
			assert.False(t, plan.TargetAllocation.WholeUnitsOnly("AAPL"))
		})
	}
}

func TestDecodeTradePlan_Invalid(t *testing.T) {
	_, err := DecodeTradePlan(strings.NewReader(`{"available_funds": -5, "target_allocation": {"A": 100}}`), JSON)
	assert.ErrorIs(t, err, ErrNegativeFunds)

	plan, err := DecodeTradePlan(strings.NewReader(`{"available_funds": 5}`), JSON)
	require.NoError(t, err)
	assert.Equal(t, 0, plan.TargetAllocation.Len())
}

func TestDecodeFiles(t *testing.T) {
	dir := t.TempDir()
	portfolio := filepath.Join(dir, "portfolio.yml")
	plan := filepath.Join(dir, "plan.json")
	require.NoError(t, os.WriteFile(portfolio, []byte("- ticker: A\n  quantity: 1\n"), 0644))
	require.NoError(t, os.WriteFile(plan, []byte(`{"available_funds": 1, "target_allocation": {"A": 100}}`), 0644))

	holdings, _, err := DecodePortfolioFile(portfolio)
	require.NoError(t, err)
	assert.Len(t, holdings, 1)

	tp, err := DecodeTradePlanFile(plan)
	require.NoError(t, err)
	assert.Equal(t, 1, tp.TargetAllocation.Len())

	_, _, err = DecodePortfolioFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, YAML, FormatOf("a/b.yaml"))
	assert.Equal(t, YAML, FormatOf("b.YML"))
	assert.Equal(t, JSON, FormatOf("b.json"))
	assert.Equal(t, JSON, FormatOf("b"))
}

func TestEncodePortfolio(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodePortfolio(&buf, []Holding{whole("A", 2), frac("B", 0.5)}))

	holdings, prices, err := DecodePortfolio(&buf, JSON)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.True(t, holdings[0].WholeUnitsOnly)
	assert.True(t, holdings[1].Quantity.Equal(Q(0.5)))
	assert.Empty(t, prices)
}

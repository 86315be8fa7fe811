package rebalance

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Portfolio and trade plan documents.
//
// A portfolio document is a list of holdings:
//
//	[{"ticker": "AAPL", "quantity": 10, "price": 180.5, "whole_units_only": true}]
//
// A trade plan document holds the new funds and the target allocation:
//
//	{"available_funds": 1000, "target_allocation": {"AAPL": 60, "VWCE": 40}}
//
// Both can also be written in YAML, the format is chosen by file extension.

// Format of a document.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatOf returns the document format matching the extension of path.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// holdingDoc is the persisted shape of a holding.
type holdingDoc struct {
	Ticker         string   `json:"ticker" yaml:"ticker"`
	Quantity       Quantity `json:"quantity" yaml:"quantity"`
	Price          *float64 `json:"price,omitempty" yaml:"price,omitempty"`
	WholeUnitsOnly bool     `json:"whole_units_only" yaml:"whole_units_only"`
}

// TradePlan is the decoded trade plan document.
type TradePlan struct {
	AvailableFunds   float64     `json:"available_funds" yaml:"available_funds"`
	TargetAllocation *Allocation `json:"target_allocation" yaml:"target_allocation"`
	// WholeUnitsOnly lists targeted tickers not held yet that trade in whole units.
	WholeUnitsOnly []string `json:"whole_units_only,omitempty" yaml:"whole_units_only,omitempty"`
}

func decode(r io.Reader, format Format, v any) error {
	switch format {
	case YAML:
		return yaml.NewDecoder(r).Decode(v)
	default:
		return json.NewDecoder(r).Decode(v)
	}
}

// DecodePortfolio reads a portfolio document. Prices found in the document
// are returned as well; they serve as fallback prices.
func DecodePortfolio(r io.Reader, format Format) (holdings []Holding, prices Prices, err error) {
	var docs []holdingDoc
	if err := decode(r, format, &docs); err != nil {
		return nil, nil, fmt.Errorf("cannot decode portfolio: %w", err)
	}

	var errs []error
	prices = make(Prices)
	seen := make(map[string]bool, len(docs))
	for i, d := range docs {
		switch {
		case d.Ticker == "":
			errs = append(errs, fmt.Errorf("holding #%d: missing ticker", i+1))
			continue
		case seen[d.Ticker]:
			errs = append(errs, fmt.Errorf("holding #%d: duplicate ticker %q", i+1, d.Ticker))
			continue
		case d.Quantity.IsNegative():
			errs = append(errs, fmt.Errorf("holding %q: negative quantity %s", d.Ticker, d.Quantity))
			continue
		case d.WholeUnitsOnly && !d.Quantity.IsInteger():
			errs = append(errs, fmt.Errorf("holding %q: fractional quantity %s for a whole-units-only ticker", d.Ticker, d.Quantity))
			continue
		}
		seen[d.Ticker] = true
		holdings = append(holdings, Holding{Ticker: d.Ticker, Quantity: d.Quantity, WholeUnitsOnly: d.WholeUnitsOnly})
		if d.Price != nil {
			if *d.Price <= 0 {
				errs = append(errs, fmt.Errorf("holding %q: price must be positive, got %v", d.Ticker, *d.Price))
				continue
			}
			prices[d.Ticker] = *d.Price
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, nil, err
	}
	return holdings, prices, nil
}

// DecodeTradePlan reads a trade plan document.
func DecodeTradePlan(r io.Reader, format Format) (*TradePlan, error) {
	plan := new(TradePlan)
	if err := decode(r, format, plan); err != nil {
		return nil, fmt.Errorf("cannot decode trade plan: %w", err)
	}
	if plan.AvailableFunds < 0 {
		return nil, ErrNegativeFunds
	}
	if plan.TargetAllocation == nil {
		plan.TargetAllocation = new(Allocation)
	}
	for _, t := range plan.WholeUnitsOnly {
		plan.TargetAllocation.SetWholeUnitsOnly(t, true)
	}
	return plan, nil
}

// DecodePortfolioFile reads a portfolio document from a file.
func DecodePortfolioFile(path string) ([]Holding, Prices, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return DecodePortfolio(f, FormatOf(path))
}

// DecodeTradePlanFile reads a trade plan document from a file.
func DecodeTradePlanFile(path string) (*TradePlan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeTradePlan(f, FormatOf(path))
}

// EncodePortfolio writes holdings as a JSON portfolio document.
func EncodePortfolio(w io.Writer, holdings []Holding) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(holdingsJSON(holdings))
}

func holdingsJSON(holdings []Holding) []holdingDoc {
	docs := make([]holdingDoc, 0, len(holdings))
	for _, h := range holdings {
		docs = append(docs, holdingDoc{Ticker: h.Ticker, Quantity: h.Quantity, WholeUnitsOnly: h.WholeUnitsOnly})
	}
	return docs
}

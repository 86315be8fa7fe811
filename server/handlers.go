package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/eodhd"
)

// maxBodySize bounds request documents.
const maxBodySize = 1 << 20

// portfolioRequest is the part of a request describing the portfolio.
type portfolioRequest struct {
	Holdings json.RawMessage  `json:"holdings"`
	Prices   rebalance.Prices `json:"prices"`
	Currency string           `json:"currency"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "rebalance",
		"prices":  s.prices != nil,
	})
}

// handleDistribution computes the distribution of the posted holdings.
func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	var req portfolioRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	holdings, prices, err := s.portfolio(r.Context(), req, nil)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dist, err := rebalance.ComputeDistribution(holdings, prices)
	if err != nil {
		s.writeError(w, statusOf(err), err.Error())
		return
	}
	total, _ := rebalance.TotalValue(holdings, prices)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"total":        total,
		"distribution": dist,
	})
}

// handleNormalize normalizes the posted target allocation.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	var req struct {
		TargetAllocation *rebalance.Allocation `json:"target_allocation"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	normalized, adjusted, err := rebalance.Normalize(req.TargetAllocation)
	if err != nil {
		s.writeError(w, statusOf(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"normalized": normalized,
		"adjusted":   adjusted,
	})
}

// handlePlan runs the whole rebalancing pipeline on the posted portfolio and
// trade plan.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	plan, err := rebalance.DecodeTradePlan(bytes.NewReader(body), rebalance.JSON)
	if err != nil {
		s.writeError(w, statusOf(err), err.Error())
		return
	}
	var req portfolioRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	holdings, prices, err := s.portfolio(r.Context(), req, plan.TargetAllocation)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	currency := s.currency
	if req.Currency != "" {
		currency = req.Currency
	}

	report, err := rebalance.NewReport(holdings, prices, plan.TargetAllocation, plan.AvailableFunds, currency)
	if err != nil {
		s.writeError(w, statusOf(err), err.Error())
		return
	}
	s.log.Debug().Str("id", report.ID.String()).Int("orders", len(report.Plan.Orders)).Msg("plan computed")
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return nil, false
	}
	return body, true
}

// portfolio decodes the holdings of body and resolves the prices of every
// ticker of holdings and target. Explicit prices of the request win over
// fetched prices, which win over prices written in the holdings.
func (s *Server) portfolio(ctx context.Context, req portfolioRequest, target *rebalance.Allocation) ([]rebalance.Holding, rebalance.Prices, error) {
	holdings := []rebalance.Holding{}
	docPrices := rebalance.Prices{}
	if len(req.Holdings) > 0 {
		var err error
		holdings, docPrices, err = rebalance.DecodePortfolio(bytes.NewReader(req.Holdings), rebalance.JSON)
		if err != nil {
			return nil, nil, err
		}
	}

	tickers := rebalance.Tickers(holdings, target)
	known := rebalance.Prices{}
	var toFetch []string
	for _, t := range tickers {
		if p, err := req.Prices.Of(t); err == nil {
			known[t] = p
		} else {
			toFetch = append(toFetch, t)
		}
	}
	if s.prices != nil && len(toFetch) > 0 {
		fetched, err := s.prices.Latest(ctx, toFetch)
		if err != nil {
			s.log.Warn().Err(err).Msg("some prices could not be fetched")
		}
		for t, p := range fetched {
			known[t] = p
		}
	}
	prices, missing := eodhd.Resolve(known, docPrices, tickers)
	if len(missing) > 0 {
		s.log.Debug().Strs("tickers", missing).Msg("no price available")
	}
	return holdings, prices, nil
}

// statusOf maps rebalancing errors to HTTP status codes.
func statusOf(err error) int {
	var missing *rebalance.MissingPriceError
	var invalid *rebalance.InvalidAllocationError
	switch {
	case errors.As(err, &missing), errors.As(err, &invalid):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}

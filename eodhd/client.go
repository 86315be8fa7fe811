// Package eodhd fetches latest prices from EOD Historical Data.
//
// See https://eodhd.com/financial-apis/live-realtime-stocks-api
package eodhd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/rebalance"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL  = "https://eodhd.com/api"
	DefaultExchange = "US"
)

// Client fetches quotes from the EODHD real-time endpoint.
type Client struct {
	APIKey   string
	BaseURL  string        // defaults to DefaultBaseURL
	Exchange string        // appended to tickers without an exchange, defaults to DefaultExchange
	HTTP     *http.Client  // defaults to a daily caching client
	Attempts int           // number of tries per quote, defaults to 3
	Backoff  time.Duration // wait before the first retry, doubled after each retry

	log zerolog.Logger
}

// New returns a client with default settings.
func New(apiKey string, log zerolog.Logger) *Client {
	return &Client{
		APIKey:   apiKey,
		BaseURL:  DefaultBaseURL,
		Exchange: DefaultExchange,
		HTTP:     NewDailyCachingClient("", log),
		Attempts: 3,
		Backoff:  500 * time.Millisecond,
		log:      log,
	}
}

// statusError is a non 200 response.
type statusError struct {
	Code   int
	Status string
	Path   string
}

func (e *statusError) Error() string { return fmt.Sprintf("cannot http GET %s: %s", e.Path, e.Status) }

// temporary tells whether the request is worth retrying.
func (e *statusError) temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Latest returns the latest price of every ticker it could fetch.
//
// Tickers that fail are left out of the result and reported in the returned
// error, together with the prices that were found. A canceled context stops
// the whole fetch.
func (c *Client) Latest(ctx context.Context, tickers []string) (rebalance.Prices, error) {
	prices := make(rebalance.Prices, len(tickers))
	var errs []error
	for _, ticker := range tickers {
		if _, ok := prices[ticker]; ok {
			continue
		}
		price, err := c.quote(ctx, ticker)
		if err != nil {
			if ctx.Err() != nil {
				return prices, ctx.Err()
			}
			c.log.Warn().Err(err).Str("ticker", ticker).Msg("cannot fetch price")
			errs = append(errs, fmt.Errorf("%s: %w", ticker, err))
			continue
		}
		c.log.Debug().Str("ticker", ticker).Float64("price", price).Msg("price fetched")
		prices[ticker] = price
	}
	return prices, errors.Join(errs...)
}

// symbol returns the EODHD symbol of ticker.
func (c *Client) symbol(ticker string) string {
	if strings.Contains(ticker, ".") {
		return ticker
	}
	exchange := c.Exchange
	if exchange == "" {
		exchange = DefaultExchange
	}
	return ticker + "." + exchange
}

// quote fetches one ticker, retrying with an exponential backoff.
func (c *Client) quote(ctx context.Context, ticker string) (float64, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	addr := fmt.Sprintf("%s/real-time/%s?fmt=json&api_token=%s", strings.TrimSuffix(base, "/"), url.PathEscape(c.symbol(ticker)), url.QueryEscape(c.APIKey))

	attempts := max(c.Attempts, 1)
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := c.Backoff << (attempt - 1)
			c.log.Debug().Str("ticker", ticker).Int("attempt", attempt+1).Dur("wait", wait).Msg("retrying quote")
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(wait):
			}
		}

		var jobj any
		err := c.getJSON(ctx, addr, &jobj)
		if err == nil {
			return extractPrice(jobj)
		}
		lastErr = err

		var se *statusError
		if errors.As(err, &se) && !se.temporary() {
			break
		}
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
	}
	return 0, lastErr
}

// getJSON performs an HTTP GET request and unmarshals the JSON response into
// data.
func (c *Client) getJSON(ctx context.Context, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &statusError{Code: resp.StatusCode, Status: resp.Status, Path: req.URL.Path}
	}
	return json.NewDecoder(resp.Body).Decode(data)
}

// pricePaths are tried in order. The real-time endpoint reports "NA" for the
// close of a ticker that has not traded yet today.
var pricePaths = []string{"$.close", "$.previousClose"}

// extractPrice reads the price out of a real-time quote.
func extractPrice(jobj any) (float64, error) {
	for _, path := range pricePaths {
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			continue
		}
		// jsonpath may return a list of one answer.
		if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
			jval = jlist[0]
		}
		if val, ok := jval.(float64); ok && val > 0 {
			return val, nil
		}
	}
	return 0, fmt.Errorf("no usable price in quote %v", jobj)
}

// Package cmd implements the rebal CLI application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/eodhd"
	"github.com/etnz/rebalance/logger"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, g := range groups {
		for _, cmd := range g.commands {
			c.Register(cmd, g.name)
		}
	}
}

var groups = []struct {
	name     string
	commands []subcommands.Command
}{
	{"rebalancing", []subcommands.Command{&distributionCmd{}, &normalizeCmd{}, &planCmd{}}},
	{"services", []subcommands.Command{&serveCmd{}, &assistCmd{}}},
	{"documentation", []subcommands.Command{&topicCmd{}}},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var portfolioFile = flag.String("portfolio-file", "", "Path to the portfolio document (JSON or YAML). Defaults to $"+EnvPortfolioFile+" or portfolio.json")
var currency = flag.String("currency", "", "Currency code used to display amounts. Defaults to $"+EnvCurrency+" or USD")
var offline = flag.Bool("offline", false, "Never fetch prices, only use the prices of the portfolio document")
var raw = flag.Bool("raw", false, "Print raw markdown instead of rendering it for the terminal")
var Verbose = flag.Bool("v", false, "Log debug messages")

// stdout is where reports are printed.
var stdout io.Writer = os.Stdout

// Logger returns the application logger, configured from the environment
// and the global flags.
func Logger() zerolog.Logger {
	level := config().LogLevel
	if *Verbose || config().Verbose {
		level = "debug"
	}
	return logger.New(logger.Config{Level: level, Pretty: true})
}

// PortfolioFile is the portfolio document to use.
func PortfolioFile() string {
	if *portfolioFile != "" {
		return *portfolioFile
	}
	return config().PortfolioFile
}

// Currency is the currency used to display amounts.
func Currency() string {
	if *currency != "" {
		return *currency
	}
	return config().Currency
}

// printMarkdown renders md for the terminal, unless -raw is set.
func printMarkdown(md string) {
	fmt.Fprint(stdout, renderMarkdown(md))
}

// renderMarkdown formats md for the terminal. md is returned unchanged when
// -raw is set or when it cannot be rendered.
func renderMarkdown(md string) string {
	if *raw {
		return md
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// loadPortfolio decodes the portfolio document and resolves the prices of
// every ticker of holdings and target. Prices are fetched from EODHD unless
// -offline is set or no API token is configured; the prices written in the
// portfolio document are the fallback.
func loadPortfolio(ctx context.Context, log zerolog.Logger, target *rebalance.Allocation) ([]rebalance.Holding, rebalance.Prices, error) {
	file := PortfolioFile()
	holdings, docPrices, err := rebalance.DecodePortfolioFile(file)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read portfolio %q: %w", file, err)
	}
	prices, err := resolvePrices(ctx, log, rebalance.Tickers(holdings, target), docPrices)
	return holdings, prices, err
}

// resolvePrices fetches the prices of tickers, falling back to fallback.
func resolvePrices(ctx context.Context, log zerolog.Logger, tickers []string, fallback rebalance.Prices) (rebalance.Prices, error) {
	fetched := rebalance.Prices{}
	token := config().EODHDToken
	switch {
	case *offline:
		log.Debug().Msg("offline, using document prices only")
	case token == "":
		log.Debug().Msg("no " + EnvEODHDToken + ", using document prices only")
	default:
		var err error
		fetched, err = eodhd.New(token, log).Latest(ctx, tickers)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			log.Warn().Err(err).Msg("some prices could not be fetched, falling back to document prices")
		}
	}
	prices, missing := eodhd.Resolve(fetched, fallback, tickers)
	for _, t := range missing {
		log.Warn().Str("ticker", t).Msg("no price available")
	}
	return prices, nil
}

// SetGlobalLogger makes Logger() the logger of the packages logging through
// the global zerolog logger.
func SetGlobalLogger() {
	logger.SetGlobalLogger(Logger())
}

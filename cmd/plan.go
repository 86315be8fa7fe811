package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

// planCmd holds the flags for the 'plan' subcommand.
type planCmd struct {
	planFile string
	funds    float64
	json     bool
}

func (*planCmd) Name() string     { return "plan" }
func (*planCmd) Synopsis() string { return "compute the orders that rebalance the portfolio" }
func (*planCmd) Usage() string {
	return `rebal plan [-t <trade plan>] [-funds <amount>] [-json]

  Computes the buy and sell orders that bring the portfolio to the target
  allocation of the trade plan once the available funds are invested, and
  displays the projected portfolio.
`
}

func (c *planCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.planFile, "t", "plan.json", "Trade plan document")
	f.Float64Var(&c.funds, "funds", -1, "Available funds, overrides the trade plan document when not negative")
	f.BoolVar(&c.json, "json", false, "Export the plan as a JSON object")
}

func (c *planCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := Logger()

	plan, err := rebalance.DecodeTradePlanFile(c.planFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading trade plan %q: %v\n", c.planFile, err)
		return subcommands.ExitFailure
	}
	funds := plan.AvailableFunds
	if c.funds >= 0 {
		funds = c.funds
	}

	holdings, prices, err := loadPortfolio(ctx, log, plan.TargetAllocation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	report, err := rebalance.NewReport(holdings, prices, plan.TargetAllocation, funds, Currency())
	if err != nil {
		var missing *rebalance.MissingPriceError
		if errors.As(err, &missing) {
			fmt.Fprintf(os.Stderr, "Error: %v, add a \"price\" to %q in the portfolio document\n", err, missing.Ticker)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Debug().
		Str("id", report.ID.String()).
		Int("orders", len(report.Plan.Orders)).
		Str("leftover", report.Plan.Leftover.String()).
		Msg("plan computed")

	if c.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding plan: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.PlanMarkdown(report))
	return subcommands.ExitSuccess
}

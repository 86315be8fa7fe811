package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

// distributionCmd holds the flags for the 'distribution' subcommand.
type distributionCmd struct {
	json bool
}

func (*distributionCmd) Name() string     { return "distribution" }
func (*distributionCmd) Synopsis() string { return "display the current distribution of the portfolio" }
func (*distributionCmd) Usage() string {
	return `rebal distribution [-json]

  Displays the value of each holding of the portfolio and its share of the
  total value.
`
}

func (c *distributionCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the distribution as a JSON object")
}

func (c *distributionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := Logger()
	holdings, prices, err := loadPortfolio(ctx, log, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	dist, err := rebalance.ComputeDistribution(holdings, prices)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing distribution: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(dist); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding distribution: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.DistributionMarkdown(holdings, prices, dist, Currency()))
	return subcommands.ExitSuccess
}

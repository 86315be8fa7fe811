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

// normalizeCmd holds the flags for the 'normalize' subcommand.
type normalizeCmd struct {
	planFile string
	json     bool
}

func (*normalizeCmd) Name() string     { return "normalize" }
func (*normalizeCmd) Synopsis() string { return "check a target allocation and scale it to 100%" }
func (*normalizeCmd) Usage() string {
	return `rebal normalize [-json] [-t <trade plan>] [<ticker>=<percent>...]

  Checks that a target allocation sums to 100%. An allocation within half a
  percentage point of 100% is scaled to exactly 100%, anything further away is
  rejected.

  The allocation is read from the arguments, or from the trade plan document
  when there are none.
`
}

func (c *normalizeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.planFile, "t", "plan.json", "Trade plan document to read the target allocation from")
	f.BoolVar(&c.json, "json", false, "Print the normalized allocation as a JSON object")
}

func (c *normalizeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var target *rebalance.Allocation
	if f.NArg() > 0 {
		var err error
		target, err = rebalance.ParseAllocation(f.Args())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing allocation: %v\n", err)
			return subcommands.ExitUsageError
		}
	} else {
		plan, err := rebalance.DecodeTradePlanFile(c.planFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading trade plan %q: %v\n", c.planFile, err)
			return subcommands.ExitFailure
		}
		target = plan.TargetAllocation
	}

	normalized, adjusted, err := rebalance.Normalize(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.json {
		if err := json.NewEncoder(stdout).Encode(normalized); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding allocation: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.NormalizationMarkdown(target, normalized, adjusted))
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct {
	planFile string
}

func (*assistCmd) Name() string { return "assist" }
func (*assistCmd) Synopsis() string {
	return "start an interactive session with the AI assistant"
}
func (*assistCmd) Usage() string {
	return `rebal assist [-t <trade plan>] [<prompt>...]

  Starts an interactive session with the AI assistant about the portfolio and
  the trade plan. Requires GEMINI_API_KEY (or GOOGLE_API_KEY).
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.planFile, "t", "plan.json", "Trade plan document, ignored if it does not exist")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := Logger()
	initialPrompt := strings.Join(f.Args(), " ")

	plan, err := rebalance.DecodeTradePlanFile(c.planFile)
	if err != nil {
		log.Warn().Err(err).Str("file", c.planFile).Msg("no trade plan")
		plan = nil
	}
	var target *rebalance.Allocation
	if plan != nil {
		target = plan.TargetAllocation
	}
	holdings, prices, err := loadPortfolio(ctx, log, target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	ws := &agent.Workspace{Holdings: holdings, Prices: prices, Plan: plan, Currency: Currency()}
	a := agent.New(stdout, os.Stdin, agent.NewAnalyst(ws), agent.NewTrader())
	a.Render = renderMarkdown

	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

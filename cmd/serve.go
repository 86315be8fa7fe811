package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/rebalance/eodhd"
	"github.com/etnz/rebalance/server"
	"github.com/google/subcommands"
)

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the rebalancing API over HTTP" }
func (*serveCmd) Usage() string {
	return `rebal serve [-addr <address>]

  Serves the rebalancing operations as a JSON API:

    GET  /health
    POST /api/distribution
    POST /api/normalize
    POST /api/plan

  See 'rebal topic api' for the request documents.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Address to listen on. Defaults to $"+EnvAddr+" or :8080")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := Logger()
	addr := c.addr
	if addr == "" {
		addr = config().Addr
	}

	cfg := server.Config{Addr: addr, Log: log, Currency: Currency()}
	if token := config().EODHDToken; token != "" && !*offline {
		cfg.Prices = eodhd.New(token, log)
	} else {
		log.Info().Msg("price fetching disabled, requests must carry their prices")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg).Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error serving: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

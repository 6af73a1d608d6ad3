package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"

	"github.com/ksahni/folio"
	"github.com/ksahni/folio/internal/server"
)

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	reportFlags
	port int
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the report as a read-only JSON API" }
func (*serveCmd) Usage() string {
	return `folio serve [-portfolio <file>] [-port <port>]

  Serves /comparison, /performance and /healthz. Every request recomputes
  the report from the ledger and live (day-cached) market data.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	cfg := loadConfig()
	c.setFlags(f, cfg)
	f.IntVar(&c.port, "port", cfg.Port, "Port to listen on")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := newLogger(loadConfig())

	ledger, err := folio.LoadPortfolio(c.portfolioFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	policy := folio.PerDateRates
	if c.fixedRate {
		policy = folio.FixedRate
	}
	provider := folio.NewYahooProvider(log)

	srv := server.New(server.Config{
		Port:   c.port,
		Log:    log,
		Ledger: ledger,
		Prices: provider,
		Rates:  provider,
		Options: folio.Options{
			Benchmark: c.benchmark,
			Currency:  c.currency,
			Policy:    policy,
			Workers:   c.workers,
		},
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
			return subcommands.ExitFailure
		}
	case <-stop:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown failed: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

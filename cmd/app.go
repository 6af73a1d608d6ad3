// Package cmd implements the CLI application to value and benchmark a
// portfolio.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/ksahni/folio"
	"github.com/ksahni/folio/internal/config"
	"github.com/ksahni/folio/internal/logger"
)

// Register the subcommands.
// A main package calls Register() and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&assistCmd{}, "reports")
	c.Register(&serveCmd{}, "server")
}

// reportFlags are the flags shared by every report-producing subcommand.
// Environment configuration supplies the defaults; flags override.
type reportFlags struct {
	portfolioFile string
	from          string
	to            string
	benchmark     string
	currency      string
	fixedRate     bool
	workers       int
}

func (c *reportFlags) setFlags(f *flag.FlagSet, cfg *config.Config) {
	f.StringVar(&c.portfolioFile, "portfolio", cfg.PortfolioPath, "Path to the portfolio definition file (JSON)")
	f.StringVar(&c.from, "from", "", "First day of the simulation (defaults to the oldest transaction)")
	f.StringVar(&c.to, "to", folio.Today().String(), "Last day of the simulation")
	f.StringVar(&c.benchmark, "benchmark", cfg.Benchmark, "Benchmark index symbol")
	f.StringVar(&c.currency, "currency", cfg.Currency, "Reporting currency")
	f.BoolVar(&c.fixedRate, "fixed-rate", cfg.RatePolicy == folio.FixedRate, "Sample exchange rates once instead of per transaction date")
	f.IntVar(&c.workers, "workers", cfg.Workers, "Concurrent price fetches")
}

// loadConfig reads the environment configuration, falling back to built-in
// defaults when it is unusable so that flag registration never fails.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: bad environment configuration: %v\n", err)
		return &config.Config{
			PortfolioPath: "portfolio.json",
			Currency:      folio.DefaultCurrency,
			Benchmark:     folio.DefaultBenchmark,
			Workers:       folio.DefaultWorkers,
			Port:          8080,
			LogLevel:      "info",
		}
	}
	return cfg
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.Pretty})
}

// buildReport runs the full pipeline against the Yahoo provider.
func (c *reportFlags) buildReport(ctx context.Context, log zerolog.Logger) (*folio.Report, error) {
	ledger, err := folio.LoadPortfolio(c.portfolioFile)
	if err != nil {
		return nil, err
	}

	to, err := folio.ParseDate(c.to)
	if err != nil {
		return nil, fmt.Errorf("invalid -to date: %w", err)
	}
	span := ledger.Span(to)
	if c.from != "" {
		from, err := folio.ParseDate(c.from)
		if err != nil {
			return nil, fmt.Errorf("invalid -from date: %w", err)
		}
		span = folio.NewRange(from, to)
	}

	policy := folio.PerDateRates
	if c.fixedRate {
		policy = folio.FixedRate
	}

	provider := folio.NewYahooProvider(log)
	return folio.BuildReport(ctx, ledger, provider, provider, span, folio.Options{
		Benchmark: c.benchmark,
		Currency:  c.currency,
		Policy:    policy,
		Workers:   c.workers,
	})
}

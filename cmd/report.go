package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ksahni/folio"
	"github.com/ksahni/folio/renderer"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	reportFlags
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "render the full portfolio vs benchmark report" }
func (*reportCmd) Usage() string {
	return `folio report [-portfolio <file>] [-from <date>] [-to <date>] [-benchmark <symbol>] [-currency <code>] [-fixed-rate]

  Replays the transaction ledger day by day, values the portfolio in the
  reporting currency, simulates the same capital injections into the
  benchmark, and renders the comparison as a markdown report.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f, loadConfig())
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := newLogger(loadConfig())
	report, err := c.buildReport(ctx, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building report: %v\n", err)
		return subcommands.ExitFailure
	}
	out := renderer.ReportMarkdown(report)

	// Company profiles for the holdings section. A failed lookup only
	// costs that symbol its paragraph.
	var symbols []string
	for _, p := range report.Tickers {
		symbols = append(symbols, p.Ticker)
	}
	details, warnings := folio.FetchDetails(ctx, folio.NewYahooProvider(log), symbols)
	for _, w := range warnings {
		log.Warn().Str("symbol", w.Symbol).Msg(w.Message)
	}
	if len(details) > 0 {
		out += renderer.DetailsMarkdown(details)
	}

	printMarkdown(out)
	return subcommands.ExitSuccess
}

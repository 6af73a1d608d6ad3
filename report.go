package folio

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Defaults for report building.
const (
	DefaultBenchmark = "^IXIC"
	DefaultCurrency  = "CAD"
	DefaultWorkers   = 4
)

// Options parameterizes a report run.
type Options struct {
	Benchmark string     // index symbol, DefaultBenchmark when empty
	Currency  string     // reporting currency, DefaultCurrency when empty
	Policy    RatePolicy // rate resolution policy
	Workers   int        // concurrent price fetches, DefaultWorkers when 0
}

func (o Options) withDefaults() Options {
	if o.Benchmark == "" {
		o.Benchmark = DefaultBenchmark
	}
	if o.Currency == "" {
		o.Currency = DefaultCurrency
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	o.Currency = strings.ToUpper(o.Currency)
	return o
}

// Summary is the headline record as of the final day in range.
type Summary struct {
	PortfolioValue Money   `json:"portfolio_value"`
	CashInvested   Money   `json:"cash_invested"`
	BenchmarkValue Money   `json:"benchmark_value"`
	ROIPortfolio   Percent `json:"roi_portfolio"`
	ROIBenchmark   Percent `json:"roi_benchmark"`
}

// Report is the full output of one valuation run: the summary, the daily
// series the charts are drawn from, the composition breakdown, per-ticker
// performance, and every degradation the run survived.
type Report struct {
	Span      Range  `json:"-"`
	Currency  string `json:"currency"`
	Benchmark string `json:"benchmark"`

	Summary Summary `json:"summary"`

	Days            []Date    `json:"days"`
	PortfolioValues []Money   `json:"portfolio_values"`
	CashInvested    []Money   `json:"cash_invested"`
	BenchmarkValues []Money   `json:"benchmark_values"`
	PortfolioPnL    []Percent `json:"portfolio_pnl_pct"`
	BenchmarkPnL    []Percent `json:"benchmark_pnl_pct"`

	Composition []Slice             `json:"composition"`
	Tickers     []TickerPerformance `json:"tickers"`
	Warnings    []Warning           `json:"warnings,omitempty"`
}

// BuildReport runs the whole pipeline: materialize price series, build the
// normalizer, replay the ledger, replay the injections into the benchmark,
// and summarize. It is a pure function of its inputs plus the providers'
// data; two calls with the same data yield the same report.
func BuildReport(ctx context.Context, ledger *Ledger, prices PriceProvider, rates RateProvider, span Range, opts Options) (*Report, error) {
	opts = opts.withDefaults()

	symbols := slices.Collect(ledger.Tickers())
	symbols = append(symbols, opts.Benchmark)
	book, warnings := FetchPrices(ctx, prices, symbols, span, opts.Workers)

	normalizer, err := NewNormalizer(ctx, rates, opts.Policy, opts.Currency, slices.Collect(ledger.Currencies()), span.To)
	if err != nil {
		return nil, fmt.Errorf("could not build normalizer: %w", err)
	}

	snapshots, oversells, err := NewEngine(ledger, book, normalizer).Run(ctx, span)
	if err != nil {
		return nil, fmt.Errorf("valuation failed: %w", err)
	}
	warnings = append(warnings, oversells...)

	benchmark := SimulateBenchmark(snapshots, book.Get(opts.Benchmark, span), opts.Currency)

	report := &Report{
		Span:      span,
		Currency:  opts.Currency,
		Benchmark: opts.Benchmark,
		Warnings:  warnings,
	}
	for i, s := range snapshots {
		report.Days = append(report.Days, s.On)
		report.PortfolioValues = append(report.PortfolioValues, s.Value)
		report.CashInvested = append(report.CashInvested, s.Invested)
		report.BenchmarkValues = append(report.BenchmarkValues, benchmark[i].Value)
	}
	report.PortfolioPnL = DailyPnLPercents(report.PortfolioValues, report.CashInvested)
	report.BenchmarkPnL = DailyPnLPercents(report.BenchmarkValues, report.CashInvested)

	final := snapshots[len(snapshots)-1]
	finalBench := benchmark[len(benchmark)-1]
	report.Summary = Summary{
		PortfolioValue: final.Value,
		CashInvested:   final.Invested,
		BenchmarkValue: finalBench.Value,
		ROIPortfolio:   ROI(final.Value, final.Invested),
		ROIBenchmark:   ROI(finalBench.Value, final.Invested),
	}

	if report.Composition, err = Composition(ctx, final, ledger, book, span, normalizer); err != nil {
		return nil, err
	}
	if report.Tickers, err = TickerPerformances(ctx, ledger, book, span, normalizer); err != nil {
		return nil, err
	}
	return report, nil
}

// Package renderer turns valuation reports into markdown documents.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/ksahni/folio"
	md "github.com/nao1215/markdown"
)

// ReportMarkdown renders the full comparison report: abstract, valuation
// versus benchmark, daily profit and loss, composition, and per-equity
// performance.
func ReportMarkdown(r *folio.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio Report %s", r.Span))
	doc.PlainText(fmt.Sprintf("All values in %s. Benchmark: %s.", r.Currency, r.Benchmark))

	doc.H2("Summary")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Metric", "Value"},
		Rows: [][]string{
			{"Portfolio Value", r.Summary.PortfolioValue.String()},
			{"Cash Invested", r.Summary.CashInvested.String()},
			{"Benchmark Value", r.Summary.BenchmarkValue.String()},
			{"Portfolio ROI", r.Summary.ROIPortfolio.SignedString()},
			{"Benchmark ROI", r.Summary.ROIBenchmark.SignedString()},
		},
	})

	doc.H2("Valuation vs Benchmark")
	valuation := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Invested", "Portfolio", "Benchmark"},
	}
	for i, day := range r.Days {
		valuation.Rows = append(valuation.Rows, []string{
			day.String(),
			r.CashInvested[i].String(),
			r.PortfolioValues[i].String(),
			r.BenchmarkValues[i].String(),
		})
	}
	doc.Table(valuation)

	doc.H2("Daily PnL")
	pnl := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Portfolio", "Benchmark"},
	}
	for i, day := range r.Days {
		pnl.Rows = append(pnl.Rows, []string{
			day.String(),
			r.PortfolioPnL[i].SignedString(),
			r.BenchmarkPnL[i].SignedString(),
		})
	}
	doc.Table(pnl)

	if len(r.Composition) > 0 {
		doc.H2("Composition")
		composition := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{"Holding", "Value"},
		}
		for _, slice := range r.Composition {
			composition.Rows = append(composition.Rows, []string{slice.Label, slice.Value.String()})
		}
		doc.Table(composition)
	}

	if len(r.Tickers) > 0 {
		doc.H2("Per-Equity Performance")
		doc.Table(tickersTable(r.Tickers))
	}

	if len(r.Warnings) > 0 {
		doc.H2("Warnings")
		var lines []string
		for _, warning := range r.Warnings {
			lines = append(lines, warning.String())
		}
		doc.BulletList(lines...)
	}

	return doc.String()
}

// SummaryMarkdown renders the one-screen summary table.
func SummaryMarkdown(r *folio.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio Summary on %s", r.Span.To))
	doc.PlainText(fmt.Sprintf("Total Value: %s (%s invested, ROI %s)",
		r.Summary.PortfolioValue, r.Summary.CashInvested, r.Summary.ROIPortfolio.SignedString()))
	doc.PlainText(fmt.Sprintf("Benchmark %s: %s (ROI %s)",
		r.Benchmark, r.Summary.BenchmarkValue, r.Summary.ROIBenchmark.SignedString()))

	if len(r.Tickers) > 0 {
		doc.Table(tickersTable(r.Tickers))
	}
	return doc.String()
}

func tickersTable(tickers []folio.TickerPerformance) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Ticker", "Invested", "Final Value", "ROI"},
	}
	for _, p := range tickers {
		table.Rows = append(table.Rows, []string{
			p.Ticker,
			p.TotalInvested.String(),
			p.FinalValue.String(),
			p.ROI.SignedString(),
		})
	}
	return table
}

// DetailsMarkdown renders company profiles for the report's holdings.
func DetailsMarkdown(details []*folio.StockDetails) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Holdings")
	for _, d := range details {
		doc.H2(fmt.Sprintf("%s (%s)", d.Name, d.Symbol))
		var facts []string
		if d.Exchange != "" {
			facts = append(facts, "Exchange: "+d.Exchange)
		}
		if d.Sector != "" {
			facts = append(facts, "Sector: "+d.Sector)
		}
		facts = append(facts, "Market Cap: "+d.MarketCap)
		doc.BulletList(facts...)
		if d.Summary != "" {
			doc.PlainText(d.Summary)
		}
	}
	return doc.String()
}

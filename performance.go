package folio

import (
	"context"
	"fmt"
)

// DailyPnLPercents derives the day-over-day profit and loss percentage for a
// value series, with the matching capital injections backed out: a day when
// money was added is not a day the market made money. The first day, and any
// day following a zero value, reads as zero.
func DailyPnLPercents(values, invested []Money) []Percent {
	out := make([]Percent, len(values))
	for i := 1; i < len(values); i++ {
		pnl := values[i].Sub(values[i-1]).Sub(invested[i].Sub(invested[i-1]))
		prev := values[i-1]
		if prev.IsZero() {
			continue
		}
		out[i] = Percent(pnl.AsFloat() / prev.AsFloat() * 100)
	}
	return out
}

// ROI returns (value - invested) / invested as a percentage, and zero when
// nothing was invested.
func ROI(value, invested Money) Percent {
	if invested.IsZero() {
		return 0
	}
	return Percent(value.Sub(invested).AsFloat() / invested.AsFloat() * 100)
}

// Slice is one entry of the composition breakdown.
type Slice struct {
	Label string `json:"label"`
	Value Money  `json:"value"`
}

// Composition breaks the final snapshot down into per-holding market values
// plus remaining cash, in the reporting currency. Only entries with a
// strictly positive value appear: sold-out and negative residual positions
// are hidden, not shown as negative wedges.
func Composition(ctx context.Context, final Snapshot, ledger *Ledger, book PriceBook, span Range, rates *Normalizer) ([]Slice, error) {
	var out []Slice
	for ticker := range ledger.Tickers() {
		shares := final.Holdings[ticker]
		if !shares.IsPositive() {
			continue
		}
		close := book.Get(ticker, span).On(final.On)
		value := M(close, ledger.TickerCurrency(ticker)).Mul(shares)
		converted, err := rates.Convert(ctx, value, final.On)
		if err != nil {
			return nil, fmt.Errorf("composition for %s: %w", ticker, err)
		}
		if !converted.IsPositive() {
			continue
		}
		out = append(out, Slice{
			Label: fmt.Sprintf("%s (%s shares)", ticker, shares),
			Value: converted,
		})
	}
	if final.Cash.IsPositive() {
		out = append(out, Slice{Label: "Cash", Value: final.Cash})
	}
	return out, nil
}

// TickerPerformance is the lifetime performance of a single holding.
type TickerPerformance struct {
	Ticker        string  `json:"ticker"`
	TotalInvested Money   `json:"total_invested"`
	FinalValue    Money   `json:"final_value"`
	ROI           Percent `json:"roi"`
}

// TickerPerformances computes, per ticker, the total capital spent on buys
// and the final value of that capital: the market value of the remaining
// position at the end of the span plus the proceeds of every sale along the
// way. A position bought and later sold at a profit therefore shows the
// realized gain, not a loss of the buy capital.
func TickerPerformances(ctx context.Context, ledger *Ledger, book PriceBook, span Range, rates *Normalizer) ([]TickerPerformance, error) {
	invested := make(map[string]Money)
	proceeds := make(map[string]Money)
	shares := make(map[string]Quantity)
	for _, tx := range ledger.Transactions() {
		if !span.Contains(tx.Day()) {
			continue
		}
		amount, err := rates.Convert(ctx, tx.Value(), tx.Day())
		if err != nil {
			return nil, fmt.Errorf("performance for %s: %w", tx.Ticker, err)
		}
		switch tx.Side {
		case Buy:
			invested[tx.Ticker] = invested[tx.Ticker].Add(amount)
			shares[tx.Ticker] = shares[tx.Ticker].Add(tx.Quantity)
		case Sell:
			proceeds[tx.Ticker] = proceeds[tx.Ticker].Add(amount)
			shares[tx.Ticker] = shares[tx.Ticker].Sub(tx.Quantity)
		}
	}

	var out []TickerPerformance
	for ticker := range ledger.Tickers() {
		total := invested[ticker]
		if total.IsZero() {
			continue
		}
		close := book.Get(ticker, span).On(span.To)
		value := M(close, ledger.TickerCurrency(ticker)).Mul(shares[ticker])
		converted, err := rates.Convert(ctx, value, span.To)
		if err != nil {
			return nil, fmt.Errorf("performance for %s: %w", ticker, err)
		}
		final := converted.Add(proceeds[ticker])
		out = append(out, TickerPerformance{
			Ticker:        ticker,
			TotalInvested: total,
			FinalValue:    final,
			ROI:           ROI(final, total),
		})
	}
	return out, nil
}

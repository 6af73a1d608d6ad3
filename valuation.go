package folio

import (
	"context"
	"fmt"
	"maps"
)

// Snapshot is the valuation of the portfolio at the end of one calendar day.
type Snapshot struct {
	On       Date
	Invested Money // cumulative external capital injected so far
	Cash     Money // cash on hand from sale proceeds
	Equity   Money // market value of all held shares
	Value    Money // Equity + Cash
	Holdings map[string]Quantity
}

// Engine replays a ledger against materialized price series and produces
// one Snapshot per day of the simulation range.
//
// The engine owns its holdings/cash/invested state exclusively during one
// Run; each day depends on the previous one, so a run is a single
// sequential pass. Run is deterministic: the same ledger and book always
// yield the same snapshots.
type Engine struct {
	ledger *Ledger
	book   PriceBook
	rates  *Normalizer
}

// NewEngine builds an engine over a ledger, a complete price book and a
// currency normalizer. The book must already cover every ticker for the
// range Run will be given.
func NewEngine(ledger *Ledger, book PriceBook, rates *Normalizer) *Engine {
	return &Engine{ledger: ledger, book: book, rates: rates}
}

// Run walks the inclusive range day by day, consuming transactions and
// valuing holdings at each day's forward-filled close. Buys spend cash on
// hand first and inject fresh capital only for the shortfall; sells credit
// their proceeds to cash. Oversells are not rejected: the share count goes
// negative and a Warning flags it.
func (e *Engine) Run(ctx context.Context, r Range) ([]Snapshot, []Warning, error) {
	currency := e.rates.Currency()
	holdings := make(map[string]Quantity)
	cash := M(0, currency)
	invested := M(0, currency)

	var warnings []Warning
	snapshots := make([]Snapshot, 0, r.Len())

	for day := range r.Days() {
		for tx := range e.ledger.On(day) {
			amount, err := e.rates.Convert(ctx, tx.Value(), day)
			if err != nil {
				return nil, nil, fmt.Errorf("transaction %s: %w", tx, err)
			}
			switch tx.Side {
			case Buy:
				holdings[tx.Ticker] = holdings[tx.Ticker].Add(tx.Quantity)
				if cash.GreaterThanOrEqual(amount) {
					cash = cash.Sub(amount)
				} else {
					shortfall := amount.Sub(cash)
					invested = invested.Add(shortfall)
					cash = M(0, currency)
				}
			case Sell:
				after := holdings[tx.Ticker].Sub(tx.Quantity)
				if after.IsNegative() {
					warnings = append(warnings, Warning{
						Symbol:  tx.Ticker,
						Message: fmt.Sprintf("oversell on %s: position goes to %s shares", day, after),
					})
				}
				holdings[tx.Ticker] = after
				cash = cash.Add(amount)
			}
		}

		equity := M(0, currency)
		for ticker := range e.ledger.Tickers() {
			shares := holdings[ticker]
			if shares.IsZero() {
				continue
			}
			close := e.book.Get(ticker, r).On(day)
			value := M(close, e.ledger.TickerCurrency(ticker)).Mul(shares)
			converted, err := e.rates.Convert(ctx, value, day)
			if err != nil {
				return nil, nil, fmt.Errorf("valuing %s on %s: %w", ticker, day, err)
			}
			equity = equity.Add(converted)
		}

		snapshots = append(snapshots, Snapshot{
			On:       day,
			Invested: invested,
			Cash:     cash,
			Equity:   equity,
			Value:    equity.Add(cash),
			Holdings: maps.Clone(holdings),
		})
	}
	return snapshots, warnings, nil
}

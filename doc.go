// Package folio values an equity portfolio over time.
//
// A portfolio is a JSON ledger of buy and sell transactions grouped by
// currency and ticker. The engine replays that ledger day by day over a
// date range, pricing every position with daily closes, and produces a
// valuation series along with a benchmark counterfactual: what the same
// cash injections would be worth had they bought a benchmark index
// instead.
//
// Cash handling follows a simple rule. Sales credit a cash balance, and
// later purchases spend that cash before any new money is injected.
// Only the shortfall counts as invested capital, so the invested series
// is monotonically non-decreasing and the benchmark receives exactly
// the same injections on the same days.
//
// Multi-currency ledgers are normalized into a single reporting
// currency, either with a rate per valuation day or with rates fixed
// once near the end of the range. Prices and rates come from a
// PriceProvider and RateProvider; YahooProvider implements both against
// the public Yahoo Finance chart API.
//
// BuildReport ties the pieces together and returns a Report ready for
// JSON serving or markdown rendering (see the renderer package).
package folio

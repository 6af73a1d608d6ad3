package folio

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNoPriceData reports that a symbol has no price history in the requested
// range. It is recovered locally: the symbol's series degrades to zeros and
// the run continues.
var ErrNoPriceData = errors.New("no price data")

// PriceProvider supplies market data for one symbol. Implementations are
// injected; the valuation itself never talks to the network.
type PriceProvider interface {
	// History returns the known daily closes within the range. The result may
	// be sparse (markets close on weekends); see Materialize.
	History(ctx context.Context, symbol string, r Range) (*History[float64], error)
	// CurrentPrice returns the latest traded price.
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
}

// Warning flags a recoverable degradation (a zero-filled symbol, a fallback
// rate, an oversell) that the caller should surface rather than swallow.
type Warning struct {
	Symbol  string `json:"symbol"`
	Message string `json:"message"`
}

func (w Warning) String() string { return w.Symbol + ": " + w.Message }

// PriceSeries is a dense, per-calendar-day closing price series for one
// symbol over a simulation range. Gaps are forward-filled: a day with no
// close inherits the last known one. Days before the first known close are
// zero.
type PriceSeries struct {
	symbol     string
	span       Range
	closes     []float64 // one per day of span, index = span.Index(day)
	zeroFilled bool
}

// Materialize builds the dense series from a sparse history. A nil or empty
// history yields the all-zero placeholder series with zeroFilled set.
func Materialize(symbol string, r Range, h *History[float64]) *PriceSeries {
	s := &PriceSeries{symbol: symbol, span: r, closes: make([]float64, r.Len())}
	if h == nil || h.Len() == 0 {
		s.zeroFilled = true
		return s
	}
	for day := range r.Days() {
		if close, ok := h.ValueAsOf(day); ok {
			s.closes[r.Index(day)] = close
		}
	}
	return s
}

// ZeroSeries returns the all-zero placeholder series for a symbol with no
// usable data.
func ZeroSeries(symbol string, r Range) *PriceSeries {
	return Materialize(symbol, r, nil)
}

func (s *PriceSeries) Symbol() string { return s.symbol }
func (s *PriceSeries) Span() Range    { return s.span }

// IsZeroFilled reports whether the series is the no-data placeholder.
func (s *PriceSeries) IsZeroFilled() bool { return s.zeroFilled }

// On returns the closing price on a day, zero when the day is outside the
// series' span.
func (s *PriceSeries) On(day Date) float64 {
	i := s.span.Index(day)
	if i < 0 {
		return 0
	}
	return s.closes[i]
}

// Last returns the closing price on the final day of the span.
func (s *PriceSeries) Last() float64 {
	if len(s.closes) == 0 {
		return 0
	}
	return s.closes[len(s.closes)-1]
}

// PriceBook holds the materialized series for every symbol a run needs,
// keyed by symbol. The valuation does random-access date lookups into it.
type PriceBook map[string]*PriceSeries

// Get returns the series for a symbol, or the zero-filled placeholder when
// the symbol was never fetched.
func (b PriceBook) Get(symbol string, r Range) *PriceSeries {
	if s, ok := b[symbol]; ok {
		return s
	}
	return ZeroSeries(symbol, r)
}

// FetchPrices materializes a price series for every symbol, fetching
// concurrently with at most 'workers' in flight. It always returns a
// complete book: a symbol whose fetch fails or comes back empty degrades to
// the zero-filled placeholder and a Warning, sorted by symbol.
//
// The book must be complete before the valuation pass starts; the pass
// itself is sequential.
func FetchPrices(ctx context.Context, provider PriceProvider, symbols []string, r Range, workers int) (PriceBook, []Warning) {
	if workers < 1 {
		workers = 1
	}

	type result struct {
		symbol  string
		series  *PriceSeries
		warning *Warning
	}

	sem := make(chan struct{}, workers)
	results := make(chan result, len(symbols))
	var wg sync.WaitGroup
	for _, symbol := range symbols {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			h, err := provider.History(ctx, symbol, r)
			if err != nil || h == nil || h.Len() == 0 {
				msg := "no price data in range, valued at zero"
				if err != nil {
					msg = fmt.Sprintf("price history fetch failed (%v), valued at zero", err)
				}
				results <- result{symbol, ZeroSeries(symbol, r), &Warning{Symbol: symbol, Message: msg}}
				return
			}
			results <- result{symbol, Materialize(symbol, r, h), nil}
		}()
	}
	wg.Wait()
	close(results)

	book := make(PriceBook, len(symbols))
	var warnings []Warning
	for res := range results {
		book[res.symbol] = res.series
		if res.warning != nil {
			warnings = append(warnings, *res.warning)
		}
	}
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].Symbol < warnings[j].Symbol })
	return book, warnings
}

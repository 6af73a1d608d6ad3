package folio

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"
)

const yahooBase = "https://query2.finance.yahoo.com"

// YahooProvider fetches daily closes, live prices and FX rates from the
// Yahoo Finance v8 chart API. It implements both PriceProvider and
// RateProvider: an exchange rate is just the chart of the "FROMTO=X"
// synthetic symbol.
//
// Responses go through the daily-expiring disk cache, so a report re-run
// within the same day is served from disk.
type YahooProvider struct {
	client *http.Client
	base   string
}

// NewYahooProvider builds a provider with a daily-expiring response cache.
func NewYahooProvider(log zerolog.Logger) *YahooProvider {
	return &YahooProvider{client: cachedClient(log), base: yahooBase}
}

func (y *YahooProvider) chart(ctx context.Context, symbol string, query string) (any, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.base, url.PathEscape(symbol), query)
	var payload any
	if err := jwget(ctx, y.client, addr, &payload); err != nil {
		return nil, fmt.Errorf("chart for %s: %w", symbol, err)
	}
	return payload, nil
}

// History returns the known daily closes for the symbol within the range.
// Days the market did not trade are simply absent; days Yahoo reports with a
// null close are skipped.
func (y *YahooProvider) History(ctx context.Context, symbol string, r Range) (*History[float64], error) {
	// period2 is exclusive, so push it past the end of the last day.
	query := fmt.Sprintf("interval=1d&period1=%d&period2=%d", r.From.Unix(), r.To.Add(1).Unix())
	payload, err := y.chart(ctx, symbol, query)
	if err != nil {
		return nil, err
	}

	timestamps, err := jsonpath.Get("$.chart.result[0].timestamp", payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no timestamps", ErrNoPriceData, symbol)
	}
	closes, err := jsonpath.Get("$.chart.result[0].indicators.quote[0].close", payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no closes", ErrNoPriceData, symbol)
	}

	ts, ok1 := timestamps.([]any)
	cs, ok2 := closes.([]any)
	if !ok1 || !ok2 || len(ts) != len(cs) {
		return nil, fmt.Errorf("%w: %s chart is malformed", ErrNoPriceData, symbol)
	}

	h := &History[float64]{}
	for i := range ts {
		sec, ok := ts[i].(float64)
		if !ok {
			continue
		}
		close, ok := cs[i].(float64)
		if !ok || close == 0 {
			continue // null close on a half-session
		}
		day := DateOf(time.Unix(int64(sec), 0).UTC())
		if r.Contains(day) {
			h.Append(day, close)
		}
	}
	if h.Len() == 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrNoPriceData, symbol, r)
	}
	return h, nil
}

// CurrentPrice returns the latest traded price from the chart metadata.
func (y *YahooProvider) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	payload, err := y.chart(ctx, symbol, "interval=1d&range=1d")
	if err != nil {
		return 0, err
	}
	price, err := jsonpath.Get("$.chart.result[0].meta.regularMarketPrice", payload)
	if err != nil {
		return 0, fmt.Errorf("%w: %s has no market price", ErrNoPriceData, symbol)
	}
	v, ok := price.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: %s market price is not a number", ErrNoPriceData, symbol)
	}
	return v, nil
}

// rateWindow is how far back Rate looks for the last published FX close.
const rateWindow = 7

// Rate returns how many units of 'to' one unit of 'from' bought on the given
// day, falling back to the most recent close within the preceding week when
// the day itself has none (weekends, holidays).
func (y *YahooProvider) Rate(ctx context.Context, from, to string, on Date) (float64, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return 1, nil
	}
	h, err := y.History(ctx, from+to+"=X", NewRange(on.Add(-rateWindow), on))
	if err != nil {
		return 0, fmt.Errorf("%w: %s/%s near %s: %v", ErrRateUnavailable, from, to, on, err)
	}
	rate, ok := h.ValueAsOf(on)
	if !ok {
		return 0, fmt.Errorf("%w: %s/%s near %s", ErrRateUnavailable, from, to, on)
	}
	return rate, nil
}

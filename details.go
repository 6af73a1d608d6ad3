package folio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// StockDetails is a company profile, used by the report's holdings section.
type StockDetails struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Exchange  string `json:"exchange"`
	Sector    string `json:"sector"`
	MarketCap string `json:"market_cap"`
	Summary   string `json:"summary"`
}

// summaryLimit is where the business summary gets cut, at the first space
// past it, so words stay whole.
const summaryLimit = 400

// DetailsProvider supplies company profiles.
type DetailsProvider interface {
	Details(ctx context.Context, symbol string) (*StockDetails, error)
}

// FetchDetails fetches the profile for every symbol, in order. A symbol
// whose lookup fails degrades to a Warning and is left out, so one obscure
// ticker cannot sink the holdings section.
func FetchDetails(ctx context.Context, provider DetailsProvider, symbols []string) ([]*StockDetails, []Warning) {
	var out []*StockDetails
	var warnings []Warning
	for _, symbol := range symbols {
		d, err := provider.Details(ctx, symbol)
		if err != nil {
			warnings = append(warnings, Warning{Symbol: symbol, Message: fmt.Sprintf("profile lookup failed (%v)", err)})
			continue
		}
		out = append(out, d)
	}
	return out, warnings
}

// Details fetches the company profile for a symbol from the quoteSummary
// endpoint. Missing fields come back empty rather than failing the lookup:
// indices and FX symbols have no sector or summary.
func (y *YahooProvider) Details(ctx context.Context, symbol string) (*StockDetails, error) {
	addr := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=assetProfile%%2Cprice", y.base, url.PathEscape(symbol))
	var payload any
	if err := jwget(ctx, y.client, addr, &payload); err != nil {
		return nil, fmt.Errorf("details for %s: %w", symbol, err)
	}

	str := func(path string) string {
		v, err := jsonpath.Get(path, payload)
		if err != nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}
	num := func(path string) float64 {
		v, err := jsonpath.Get(path, payload)
		if err != nil {
			return 0
		}
		f, _ := v.(float64)
		return f
	}

	name := str("$.quoteSummary.result[0].price.longName")
	if name == "" {
		name = str("$.quoteSummary.result[0].price.shortName")
	}
	if name == "" {
		return nil, fmt.Errorf("no profile for %s", symbol)
	}

	return &StockDetails{
		Symbol:    symbol,
		Name:      name,
		Exchange:  str("$.quoteSummary.result[0].price.exchangeName"),
		Sector:    str("$.quoteSummary.result[0].assetProfile.sector"),
		MarketCap: FormatMarketCap(num("$.quoteSummary.result[0].price.marketCap.raw")),
		Summary:   TruncateAtSpace(str("$.quoteSummary.result[0].assetProfile.longBusinessSummary"), summaryLimit),
	}, nil
}

// TruncateAtSpace shortens s at the first space after limit, keeping words
// whole, and marks the cut with an ellipsis. Strings within the limit pass
// through unchanged.
func TruncateAtSpace(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	i := strings.IndexByte(s[limit:], ' ')
	if i < 0 {
		return s
	}
	return s[:limit+i] + "..."
}

// FormatMarketCap renders a market capitalization with a magnitude suffix,
// "1.25T" style. Zero renders as "n/a".
func FormatMarketCap(v float64) string {
	switch {
	case v <= 0:
		return "n/a"
	case v >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

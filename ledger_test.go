package folio

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func tx(day string, ticker string, side Side, qty, price float64, currency string) Transaction {
	when, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return Transaction{Time: when, Ticker: ticker, Side: side, Quantity: Q(qty), Price: M(price, currency)}
}

func TestLedgerStableSort(t *testing.T) {
	l := NewLedger()
	l.Append(
		tx("2024-01-03", "MSFT", Buy, 1, 300, "USD"),
		tx("2024-01-01", "AAPL", Buy, 1, 100, "USD"),
		tx("2024-01-03", "AAPL", Sell, 1, 110, "USD"),
	)

	var got []string
	for _, tx := range l.Transactions() {
		got = append(got, tx.Day().String()+" "+tx.Ticker)
	}
	want := []string{"2024-01-01 AAPL", "2024-01-03 MSFT", "2024-01-03 AAPL"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transaction %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLedgerOn(t *testing.T) {
	l := NewLedger()
	l.Append(
		tx("2024-01-01", "AAPL", Buy, 1, 100, "USD"),
		tx("2024-01-02", "AAPL", Buy, 2, 100, "USD"),
		tx("2024-01-02", "SHOP", Buy, 3, 90, "CAD"),
	)

	var n int
	for range l.On(MustParseDate("2024-01-02")) {
		n++
	}
	if n != 2 {
		t.Errorf("On(2024-01-02) yielded %d transactions, want 2", n)
	}
	n = 0
	for range l.On(MustParseDate("2024-01-05")) {
		n++
	}
	if n != 0 {
		t.Errorf("On(2024-01-05) yielded %d transactions, want 0", n)
	}
}

func TestLedgerTickersAndCurrencies(t *testing.T) {
	l := NewLedger()
	l.Append(
		tx("2024-01-01", "SHOP", Buy, 1, 90, "CAD"),
		tx("2024-01-01", "AAPL", Buy, 1, 100, "USD"),
		tx("2024-01-02", "AAPL", Sell, 1, 110, "USD"),
	)

	var tickers []string
	for ticker := range l.Tickers() {
		tickers = append(tickers, ticker)
	}
	if want := []string{"AAPL", "SHOP"}; strings.Join(tickers, ",") != strings.Join(want, ",") {
		t.Errorf("Tickers = %v, want %v", tickers, want)
	}

	var currencies []string
	for cur := range l.Currencies() {
		currencies = append(currencies, cur)
	}
	if want := []string{"CAD", "USD"}; strings.Join(currencies, ",") != strings.Join(want, ",") {
		t.Errorf("Currencies = %v, want %v", currencies, want)
	}

	if got := l.TickerCurrency("SHOP"); got != "CAD" {
		t.Errorf("TickerCurrency(SHOP) = %q, want CAD", got)
	}
}

func TestLedgerSpan(t *testing.T) {
	l := NewLedger()
	l.Append(tx("2024-01-05", "AAPL", Buy, 1, 100, "USD"))

	r := l.Span(MustParseDate("2024-02-01"))
	if r.From != MustParseDate("2024-01-05") || r.To != MustParseDate("2024-02-01") {
		t.Errorf("Span = %v", r)
	}

	empty := NewLedger()
	r = empty.Span(MustParseDate("2024-02-01"))
	if r.From != r.To {
		t.Errorf("empty ledger span should collapse, got %v", r)
	}
}

func TestDecodePortfolio(t *testing.T) {
	const def = `{
	  "usd": {
	    "AAPL": [
	      {"type": "buy", "date": "2024-01-02 14:30:00", "quantity": 10, "price": 185.5},
	      {"type": "sell", "date": "2024-02-01", "quantity": 5, "price": 190}
	    ]
	  },
	  "cad": {
	    "SHOP.TO": [
	      {"type": "buy", "date": "2024-01-02 09:31", "quantity": 3, "price": 100}
	    ]
	  }
	}`

	l, err := DecodePortfolio(strings.NewReader(def))
	if err != nil {
		t.Fatalf("DecodePortfolio: %v", err)
	}
	if l.Len() != 3 {
		t.Fatalf("Len = %d, want 3", l.Len())
	}
	if got := l.TickerCurrency("SHOP.TO"); got != "cad" {
		t.Errorf("TickerCurrency(SHOP.TO) = %q, want cad", got)
	}
	if got := l.OldestTransactionDate(); got != MustParseDate("2024-01-02") {
		t.Errorf("OldestTransactionDate = %v", got)
	}
	if got := l.NewestTransactionDate(); got != MustParseDate("2024-02-01") {
		t.Errorf("NewestTransactionDate = %v", got)
	}
}

func TestDecodePortfolioDeterministicTies(t *testing.T) {
	// Two tickers trading on the same day must decode in sorted ticker order
	// every time, regardless of map iteration order.
	const def = `{
	  "usd": {
	    "MSFT": [{"type": "buy", "date": "2024-01-02", "quantity": 1, "price": 400}],
	    "AAPL": [{"type": "buy", "date": "2024-01-02", "quantity": 1, "price": 185}]
	  }
	}`
	for range 10 {
		l, err := DecodePortfolio(strings.NewReader(def))
		if err != nil {
			t.Fatalf("DecodePortfolio: %v", err)
		}
		var got []string
		for _, tx := range l.Transactions() {
			got = append(got, tx.Ticker)
		}
		if got[0] != "AAPL" || got[1] != "MSFT" {
			t.Fatalf("tie order = %v, want [AAPL MSFT]", got)
		}
	}
}

func TestDecodePortfolioErrors(t *testing.T) {
	tests := []struct {
		name string
		def  string
	}{
		{"bad date", `{"usd": {"AAPL": [{"type": "buy", "date": "02/01/2024", "quantity": 1, "price": 1}]}}`},
		{"bad side", `{"usd": {"AAPL": [{"type": "short", "date": "2024-01-02", "quantity": 1, "price": 1}]}}`},
		{"zero quantity", `{"usd": {"AAPL": [{"type": "buy", "date": "2024-01-02", "quantity": 0, "price": 1}]}}`},
		{"fractional quantity", `{"usd": {"AAPL": [{"type": "buy", "date": "2024-01-02", "quantity": 2.5, "price": 1}]}}`},
		{"negative price", `{"usd": {"AAPL": [{"type": "buy", "date": "2024-01-02", "quantity": 1, "price": -1}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodePortfolio(strings.NewReader(tt.def)); err == nil {
				t.Errorf("expected error, got nil")
			}
		})
	}
}

func TestDecodePortfolioInvalidDateError(t *testing.T) {
	const def = `{"usd": {"AAPL": [{"type": "buy", "date": "tomorrow", "quantity": 1, "price": 1}]}}`
	_, err := DecodePortfolio(strings.NewReader(def))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrInvalidTransactionDate) {
		t.Errorf("error %v does not wrap ErrInvalidTransactionDate", err)
	}
}

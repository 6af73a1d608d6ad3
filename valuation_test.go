package folio

import (
	"context"
	"testing"
)

// buildBook materializes a fixture provider into a book without warnings
// checking, for engine tests.
func buildBook(t *testing.T, provider fixturePrices, symbols []string, r Range) PriceBook {
	t.Helper()
	book, _ := FetchPrices(context.Background(), provider, symbols, r, 2)
	return book
}

func identityNormalizer(t *testing.T, currency string) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(context.Background(), fixedRates{}, PerDateRates, currency, nil, Date{})
	if err != nil {
		t.Fatal(err)
	}
	return n
}

// Single buy of 100 shares at $10 on day 1, flat price, zero starting cash.
func TestEngineSingleBuy(t *testing.T) {
	r := NewRange(MustParseDate("2024-01-01"), MustParseDate("2024-01-03"))
	l := NewLedger()
	l.Append(tx("2024-01-01", "AAPL", Buy, 100, 10, "USD"))
	book := buildBook(t, fixturePrices{"AAPL": {"2024-01-01": 10}}, []string{"AAPL"}, r)

	snaps, warnings, err := NewEngine(l, book, identityNormalizer(t, "USD")).Run(context.Background(), r)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if len(snaps) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(snaps))
	}

	day1 := snaps[0]
	if want := M(1000, "USD"); !day1.Invested.Equal(want) {
		t.Errorf("day 1 Invested = %v, want %v", day1.Invested, want)
	}
	if want := M(1000, "USD"); !day1.Equity.Equal(want) {
		t.Errorf("day 1 Equity = %v, want %v", day1.Equity, want)
	}
	if want := M(1000, "USD"); !day1.Value.Equal(want) {
		t.Errorf("day 1 Value = %v, want %v", day1.Value, want)
	}
	if !day1.Cash.IsZero() {
		t.Errorf("day 1 Cash = %v, want 0", day1.Cash)
	}
	// flat price thereafter
	if !snaps[2].Value.Equal(M(1000, "USD")) {
		t.Errorf("day 3 Value = %v, want 1000", snaps[2].Value)
	}
}

// Buy 100 @ $10 on day 1, sell 100 @ $12 on day 2: invested stays 1000,
// day 2 value is 1200 all in cash.
func TestEngineBuyThenSell(t *testing.T) {
	r := NewRange(MustParseDate("2024-01-01"), MustParseDate("2024-01-03"))
	l := NewLedger()
	l.Append(
		tx("2024-01-01", "AAPL", Buy, 100, 10, "USD"),
		tx("2024-01-02", "AAPL", Sell, 100, 12, "USD"),
	)
	book := buildBook(t, fixturePrices{"AAPL": {"2024-01-01": 10, "2024-01-02": 12}}, []string{"AAPL"}, r)

	snaps, _, err := NewEngine(l, book, identityNormalizer(t, "USD")).Run(context.Background(), r)
	if err != nil {
		t.Fatal(err)
	}

	for i, s := range snaps {
		if want := M(1000, "USD"); !s.Invested.Equal(want) {
			t.Errorf("day %d Invested = %v, want %v", i+1, s.Invested, want)
		}
	}
	day2 := snaps[1]
	if !day2.Equity.IsZero() {
		t.Errorf("day 2 Equity = %v, want 0", day2.Equity)
	}
	if want := M(1200, "USD"); !day2.Cash.Equal(want) {
		t.Errorf("day 2 Cash = %v, want %v", day2.Cash, want)
	}
	if want := M(1200, "USD"); !day2.Value.Equal(want) {
		t.Errorf("day 2 Value = %v, want %v", day2.Value, want)
	}
}

// A buy after a sale spends the cash on hand first and only injects the
// shortfall.
func TestEngineSpendCashFirst(t *testing.T) {
	r := NewRange(MustParseDate("2024-01-01"), MustParseDate("2024-01-03"))
	l := NewLedger()
	l.Append(
		tx("2024-01-01", "AAPL", Buy, 100, 10, "USD"),  // inject 1000
		tx("2024-01-02", "AAPL", Sell, 100, 12, "USD"), // cash 1200
		tx("2024-01-03", "MSFT", Buy, 10, 150, "USD"),  // cost 1500: 1200 cash + 300 injected
	)
	book := buildBook(t, fixturePrices{
		"AAPL": {"2024-01-01": 10, "2024-01-02": 12},
		"MSFT": {"2024-01-03": 150},
	}, []string{"AAPL", "MSFT"}, r)

	snaps, _, err := NewEngine(l, book, identityNormalizer(t, "USD")).Run(context.Background(), r)
	if err != nil {
		t.Fatal(err)
	}

	day3 := snaps[2]
	if want := M(1300, "USD"); !day3.Invested.Equal(want) {
		t.Errorf("day 3 Invested = %v, want %v", day3.Invested, want)
	}
	if !day3.Cash.IsZero() {
		t.Errorf("day 3 Cash = %v, want 0", day3.Cash)
	}
	if want := M(1500, "USD"); !day3.Equity.Equal(want) {
		t.Errorf("day 3 Equity = %v, want %v", day3.Equity, want)
	}
}

// A cheap buy fully covered by cash on hand injects nothing.
func TestEngineBuyCoveredByCash(t *testing.T) {
	r := NewRange(MustParseDate("2024-01-01"), MustParseDate("2024-01-02"))
	l := NewLedger()
	l.Append(
		tx("2024-01-01", "AAPL", Buy, 10, 10, "USD"),  // inject 100
		tx("2024-01-01", "AAPL", Sell, 10, 20, "USD"), // cash 200
		tx("2024-01-02", "MSFT", Buy, 1, 50, "USD"),   // fully covered
	)
	book := buildBook(t, fixturePrices{
		"AAPL": {"2024-01-01": 20},
		"MSFT": {"2024-01-02": 50},
	}, []string{"AAPL", "MSFT"}, r)

	snaps, _, err := NewEngine(l, book, identityNormalizer(t, "USD")).Run(context.Background(), r)
	if err != nil {
		t.Fatal(err)
	}
	day2 := snaps[1]
	if want := M(100, "USD"); !day2.Invested.Equal(want) {
		t.Errorf("day 2 Invested = %v, want %v", day2.Invested, want)
	}
	if want := M(150, "USD"); !day2.Cash.Equal(want) {
		t.Errorf("day 2 Cash = %v, want %v", day2.Cash, want)
	}
}

func TestEngineInvestedMonotone(t *testing.T) {
	r := NewRange(MustParseDate("2024-01-01"), MustParseDate("2024-01-10"))
	l := NewLedger()
	l.Append(
		tx("2024-01-01", "AAPL", Buy, 10, 10, "USD"),
		tx("2024-01-03", "AAPL", Sell, 5, 15, "USD"),
		tx("2024-01-05", "MSFT", Buy, 2, 100, "USD"),
		tx("2024-01-07", "AAPL", Sell, 5, 20, "USD"),
		tx("2024-01-09", "MSFT", Buy, 1, 120, "USD"),
	)
	book := buildBook(t, fixturePrices{
		"AAPL": {"2024-01-01": 10, "2024-01-03": 15, "2024-01-07": 20},
		"MSFT": {"2024-01-05": 100, "2024-01-09": 120},
	}, []string{"AAPL", "MSFT"}, r)

	snaps, _, err := NewEngine(l, book, identityNormalizer(t, "USD")).Run(context.Background(), r)
	if err != nil {
		t.Fatal(err)
	}
	prev := M(0, "USD")
	for _, s := range snaps {
		if s.Invested.LessThan(prev) {
			t.Fatalf("Invested decreased on %s: %v < %v", s.On, s.Invested, prev)
		}
		prev = s.Invested
	}
}

func TestEngineDeterminism(t *testing.T) {
	r := NewRange(MustParseDate("2024-01-01"), MustParseDate("2024-01-05"))
	l := NewLedger()
	l.Append(
		tx("2024-01-01", "AAPL", Buy, 10, 10, "USD"),
		tx("2024-01-02", "SHOP", Buy, 5, 80, "CAD"),
		tx("2024-01-04", "AAPL", Sell, 4, 12, "USD"),
	)
	provider := fixturePrices{
		"AAPL": {"2024-01-01": 10, "2024-01-04": 12},
		"SHOP": {"2024-01-02": 80},
	}
	rates := fixedRates{"USD/CAD": 1.35}

	run := func() []Snapshot {
		book := buildBook(t, provider, []string{"AAPL", "SHOP"}, r)
		n, err := NewNormalizer(context.Background(), rates, PerDateRates, "CAD", nil, Date{})
		if err != nil {
			t.Fatal(err)
		}
		snaps, _, err := NewEngine(l, book, n).Run(context.Background(), r)
		if err != nil {
			t.Fatal(err)
		}
		return snaps
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Value.Equal(b[i].Value) || !a[i].Invested.Equal(b[i].Invested) || !a[i].Cash.Equal(b[i].Cash) {
			t.Errorf("snapshot %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

// A ticker whose series is entirely zero-filled contributes exactly zero
// equity every day.
func TestEngineZeroFilledContribution(t *testing.T) {
	r := NewRange(MustParseDate("2024-01-01"), MustParseDate("2024-01-03"))
	l := NewLedger()
	l.Append(
		tx("2024-01-01", "AAPL", Buy, 10, 10, "USD"),
		tx("2024-01-01", "GHOST", Buy, 10, 5, "USD"),
	)
	book := buildBook(t, fixturePrices{"AAPL": {"2024-01-01": 10}}, []string{"AAPL", "GHOST"}, r)

	snaps, _, err := NewEngine(l, book, identityNormalizer(t, "USD")).Run(context.Background(), r)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range snaps {
		if want := M(100, "USD"); !s.Equity.Equal(want) {
			t.Errorf("%s Equity = %v, want %v (GHOST must contribute zero)", s.On, s.Equity, want)
		}
	}
}

// Two same-day buys in different currencies must both convert at that
// day's rate under the per-date policy.
func TestEngineTwoCurrenciesPerDate(t *testing.T) {
	r := NewRange(MustParseDate("2024-01-02"), MustParseDate("2024-01-02"))
	l := NewLedger()
	l.Append(
		tx("2024-01-02", "AAPL", Buy, 1, 100, "USD"),
		tx("2024-01-02", "SHOP", Buy, 1, 50, "CAD"),
	)
	book := buildBook(t, fixturePrices{
		"AAPL": {"2024-01-02": 100},
		"SHOP": {"2024-01-02": 50},
	}, []string{"AAPL", "SHOP"}, r)
	rates := fixedRates{"USD/CAD@2024-01-02": 1.30}
	n, err := NewNormalizer(context.Background(), rates, PerDateRates, "CAD", nil, Date{})
	if err != nil {
		t.Fatal(err)
	}

	snaps, _, err := NewEngine(l, book, n).Run(context.Background(), r)
	if err != nil {
		t.Fatal(err)
	}
	// 100 USD × 1.30 + 50 CAD = 180 CAD of both invested and equity.
	if want := M(180, "CAD"); !snaps[0].Invested.Equal(want) {
		t.Errorf("Invested = %v, want %v", snaps[0].Invested, want)
	}
	if want := M(180, "CAD"); !snaps[0].Equity.Equal(want) {
		t.Errorf("Equity = %v, want %v", snaps[0].Equity, want)
	}
}

func TestEngineOversellWarns(t *testing.T) {
	r := NewRange(MustParseDate("2024-01-01"), MustParseDate("2024-01-02"))
	l := NewLedger()
	l.Append(
		tx("2024-01-01", "AAPL", Buy, 5, 10, "USD"),
		tx("2024-01-02", "AAPL", Sell, 8, 10, "USD"),
	)
	book := buildBook(t, fixturePrices{"AAPL": {"2024-01-01": 10}}, []string{"AAPL"}, r)

	snaps, warnings, err := NewEngine(l, book, identityNormalizer(t, "USD")).Run(context.Background(), r)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 || warnings[0].Symbol != "AAPL" {
		t.Fatalf("warnings = %v, want one AAPL oversell", warnings)
	}
	if got := snaps[1].Holdings["AAPL"]; !got.Equal(Q(-3)) {
		t.Errorf("holdings after oversell = %v, want -3", got)
	}
}

func TestEngineRateUnavailableFails(t *testing.T) {
	r := NewRange(MustParseDate("2024-01-01"), MustParseDate("2024-01-01"))
	l := NewLedger()
	l.Append(tx("2024-01-01", "AAPL", Buy, 1, 100, "USD"))
	book := buildBook(t, fixturePrices{"AAPL": {"2024-01-01": 100}}, []string{"AAPL"}, r)
	n, err := NewNormalizer(context.Background(), fixedRates{}, PerDateRates, "CAD", nil, Date{})
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := NewEngine(l, book, n).Run(context.Background(), r); err == nil {
		t.Fatal("expected conversion error, got nil")
	}
}

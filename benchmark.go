package folio

// BenchmarkSnapshot is the counterfactual benchmark position at the end of
// one calendar day.
type BenchmarkSnapshot struct {
	On     Date
	Shares Quantity
	Value  Money
}

// SimulateBenchmark replays the portfolio's capital-injection schedule into
// a benchmark index: whenever the cumulative invested capital grows, the
// day's delta buys benchmark shares at that day's close. The first day's
// cumulative value counts as the first injection, there being no day zero to
// diff against. A zero close (market holiday at the start of the series, or
// a degraded benchmark feed) leaves the delta uninvested.
//
// The resulting value series answers "what if every injection had bought
// the index instead", on the same injection schedule as the portfolio.
func SimulateBenchmark(snapshots []Snapshot, closes *PriceSeries, currency string) []BenchmarkSnapshot {
	out := make([]BenchmarkSnapshot, 0, len(snapshots))
	shares := Q(0)
	prev := M(0, currency)
	for _, s := range snapshots {
		delta := s.Invested.Sub(prev)
		prev = s.Invested

		close := closes.On(s.On)
		if delta.IsPositive() && close != 0 {
			shares = shares.Add(delta.DivPrice(M(close, currency)))
		}
		out = append(out, BenchmarkSnapshot{
			On:     s.On,
			Shares: shares,
			Value:  M(close, currency).Mul(shares),
		})
	}
	return out
}

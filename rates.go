package folio

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrRateUnavailable reports that no exchange rate could be resolved for a
// currency pair near the requested date.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// RateProvider supplies historical exchange rates. Rate returns how many
// units of 'to' one unit of 'from' buys on the given day (or the nearest
// known day before it).
type RateProvider interface {
	Rate(ctx context.Context, from, to string, on Date) (float64, error)
}

// RatePolicy selects how the Normalizer resolves exchange rates. A run uses
// exactly one policy; the two are never mixed.
type RatePolicy int

const (
	// PerDateRates resolves a rate near each conversion date.
	PerDateRates RatePolicy = iota
	// FixedRate samples one rate per currency pair when the normalizer is
	// built, from a trailing window ending a few days before the as-of date,
	// and applies it to every conversion in the run.
	FixedRate
)

func (p RatePolicy) String() string {
	switch p {
	case PerDateRates:
		return "per-date"
	case FixedRate:
		return "fixed"
	default:
		return "unknown"
	}
}

// ParseRatePolicy parses a string into a RatePolicy.
func ParseRatePolicy(s string) (RatePolicy, error) {
	switch s {
	case "per-date":
		return PerDateRates, nil
	case "fixed":
		return FixedRate, nil
	default:
		return 0, fmt.Errorf("unknown rate policy: %q", s)
	}
}

// fixedRateLag is how many days before the as-of date the FixedRate policy
// samples its rates, to stay clear of not-yet-published closes.
const fixedRateLag = 5

// Normalizer converts monetary amounts into a single reporting currency.
type Normalizer struct {
	reporting string
	policy    RatePolicy
	provider  RateProvider
	fixed     map[string]float64 // per source currency, FixedRate only
}

// NewNormalizer builds a normalizer targeting the reporting currency.
//
// Under FixedRate it resolves, once, the rate for every currency in
// 'currencies' as of a few days before 'asOf'; Convert then never goes back
// to the provider. Under PerDateRates construction is free and every Convert
// resolves its own rate.
func NewNormalizer(ctx context.Context, provider RateProvider, policy RatePolicy, reporting string, currencies []string, asOf Date) (*Normalizer, error) {
	n := &Normalizer{reporting: strings.ToUpper(reporting), policy: policy, provider: provider}
	if policy != FixedRate {
		return n, nil
	}
	n.fixed = make(map[string]float64)
	sampled := asOf.Add(-fixedRateLag)
	for _, cur := range currencies {
		cur = strings.ToUpper(cur)
		if cur == n.reporting {
			continue
		}
		rate, err := provider.Rate(ctx, cur, n.reporting, sampled)
		if err != nil {
			return nil, fmt.Errorf("%w: %s/%s near %s: %v", ErrRateUnavailable, cur, n.reporting, sampled, err)
		}
		n.fixed[cur] = rate
	}
	return n, nil
}

// Currency returns the reporting currency.
func (n *Normalizer) Currency() string { return n.reporting }

// Policy returns the rate resolution policy.
func (n *Normalizer) Policy() RatePolicy { return n.policy }

// Convert converts m into the reporting currency at the given date. Identity
// when m is already in the reporting currency.
func (n *Normalizer) Convert(ctx context.Context, m Money, on Date) (Money, error) {
	from := strings.ToUpper(m.Currency())
	if from == n.reporting || from == "" {
		return M(m.value, n.reporting), nil
	}
	if n.policy == FixedRate {
		rate, ok := n.fixed[from]
		if !ok {
			return Money{}, fmt.Errorf("%w: no fixed rate for %s/%s", ErrRateUnavailable, from, n.reporting)
		}
		return m.Scale(rate, n.reporting), nil
	}
	rate, err := n.provider.Rate(ctx, from, n.reporting, on)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %s/%s on %s: %v", ErrRateUnavailable, from, n.reporting, on, err)
	}
	return m.Scale(rate, n.reporting), nil
}

package folio

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransactionDate reports a malformed date string in a portfolio
// definition. It is fatal: a ledger with an unparseable entry aborts the run.
var ErrInvalidTransactionDate = errors.New("invalid transaction date")

// Side is the direction of a transaction.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// ParseSide parses a string into a Side.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown transaction side: %q", s)
	}
}

// txTimeFormats are the accepted timestamp layouts in a portfolio definition,
// tried in order.
var txTimeFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseTxTime(s string) (time.Time, error) {
	for _, layout := range txTimeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTransactionDate, s)
}

// Transaction is a single buy or sell event, immutable once recorded.
//
// Valuation works at calendar-day granularity: Day() is the date used for
// ordering and for matching daily price series. The intraday timestamp is
// kept for callers that need it but plays no role in valuation.
type Transaction struct {
	Time     time.Time
	Ticker   string
	Side     Side
	Quantity Quantity
	Price    Money // price per share, in the holding's currency
}

// Day returns the transaction's calendar day, time-of-day discarded.
func (t Transaction) Day() Date { return DateOf(t.Time) }

// Value returns quantity times price, in the holding's currency.
func (t Transaction) Value() Money { return t.Price.Mul(t.Quantity) }

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s %s %s @ %s", t.Day(), t.Side, t.Quantity, t.Ticker, t.Price)
}

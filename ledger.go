package folio

import (
	"iter"
	"sort"
)

// Ledger represents the full list of transactions across all holdings and
// currencies.
//
// In a Ledger transactions are always in chronological order by calendar day.
// Same-day transactions keep the relative order in which they were appended.
type Ledger struct {
	transactions []Transaction
	currencies   map[string]string // index currency by ticker
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{currencies: make(map[string]string)}
}

// Append appends transactions to this ledger and maintains the chronological
// order of transactions.
func (l *Ledger) Append(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
	for _, tx := range txs {
		l.currencies[tx.Ticker] = tx.Price.Currency()
	}
	l.stableSort()
}

// stableSort sorts the ledger by transaction day. The sort is stable, meaning
// transactions on the same day maintain their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Day().Before(l.transactions[j].Day())
	})
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns an iterator that yields each transaction in
// chronological order.
func (l *Ledger) Transactions() iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			if !yield(i, tx) {
				return
			}
		}
	}
}

// On returns an iterator over the transactions whose calendar day is 'day',
// in ledger order.
func (l *Ledger) On(day Date) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.transactions {
			if tx.Day().After(day) {
				// The ledger is sorted by day, so it's safe to return.
				return
			}
			if tx.Day() == day && !yield(tx) {
				return
			}
		}
	}
}

// Tickers returns an iterator over all unique tickers, sorted.
func (l *Ledger) Tickers() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, ticker := range sortedKeys(l.currencies) {
			if !yield(ticker) {
				return
			}
		}
	}
}

// Currencies returns an iterator over all unique transaction currencies,
// sorted.
func (l *Ledger) Currencies() iter.Seq[string] {
	return func(yield func(string) bool) {
		visited := make(map[string]struct{})
		for _, cur := range l.currencies {
			visited[cur] = struct{}{}
		}
		for _, cur := range sortedKeys(visited) {
			if !yield(cur) {
				return
			}
		}
	}
}

// TickerCurrency returns the currency the given ticker trades in, or "" if
// the ticker does not appear in the ledger.
func (l *Ledger) TickerCurrency(ticker string) string {
	return l.currencies[ticker]
}

// OldestTransactionDate returns the day of the earliest transaction in the
// ledger, or the zero Date if the ledger is empty.
func (l *Ledger) OldestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[0].Day()
}

// NewestTransactionDate returns the day of the latest transaction in the
// ledger, or the zero Date if the ledger is empty.
func (l *Ledger) NewestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[len(l.transactions)-1].Day()
}

// Span returns the inclusive range from the oldest transaction to 'to'.
// If the ledger is empty the range collapses onto 'to'.
func (l *Ledger) Span(to Date) Range {
	if len(l.transactions) == 0 {
		return NewRange(to, to)
	}
	return NewRange(l.OldestTransactionDate(), to)
}

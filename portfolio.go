package folio

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
)

// rawTransaction is the wire form of a transaction in a portfolio definition.
type rawTransaction struct {
	Type     string          `json:"type"`
	Date     string          `json:"date"`
	Quantity json.Number     `json:"quantity"`
	Price    json.RawMessage `json:"price"`
}

// Definition is the portfolio definition wire format:
// currency code → ticker → raw transactions.
type Definition map[string]map[string][]rawTransaction

// DecodePortfolio reads a portfolio definition and returns the normalized,
// chronologically sorted ledger. Transactions on the same calendar day keep
// the relative order they have in the definition.
func DecodePortfolio(r io.Reader) (*Ledger, error) {
	var def Definition
	if err := json.NewDecoder(r).Decode(&def); err != nil {
		return nil, fmt.Errorf("could not decode portfolio definition: %w", err)
	}
	return def.Ledger()
}

// LoadPortfolio reads a portfolio definition from a file.
func LoadPortfolio(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open portfolio definition: %w", err)
	}
	defer f.Close()
	return DecodePortfolio(f)
}

// Ledger validates the definition and flattens it into a Ledger.
//
// Go maps iterate in random order, so currencies and tickers are visited in
// sorted order: two decodes of the same definition yield the same ledger,
// same-day ties included.
func (def Definition) Ledger() (*Ledger, error) {
	ledger := NewLedger()
	for _, currency := range sortedKeys(def) {
		tickers := def[currency]
		for _, ticker := range sortedKeys(tickers) {
			for _, raw := range tickers[ticker] {
				tx, err := raw.transaction(ticker, currency)
				if err != nil {
					return nil, fmt.Errorf("%s %s: %w", currency, ticker, err)
				}
				ledger.Append(tx)
			}
		}
	}
	return ledger, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := slices.Collect(maps.Keys(m))
	slices.Sort(keys)
	return keys
}

func (raw rawTransaction) transaction(ticker, currency string) (Transaction, error) {
	side, err := ParseSide(raw.Type)
	if err != nil {
		return Transaction{}, err
	}
	when, err := parseTxTime(raw.Date)
	if err != nil {
		return Transaction{}, err
	}

	var quantity Quantity
	if err := quantity.UnmarshalJSON([]byte(raw.Quantity.String())); err != nil {
		return Transaction{}, fmt.Errorf("invalid quantity %q: %w", raw.Quantity, err)
	}
	if !quantity.IsPositive() {
		return Transaction{}, fmt.Errorf("quantity must be positive, got %s", quantity)
	}
	if !quantity.value.IsInteger() {
		return Transaction{}, fmt.Errorf("quantity must be a whole number of shares, got %s", quantity)
	}

	var price Quantity // decode the bare number, then attach the currency
	if err := price.UnmarshalJSON(raw.Price); err != nil {
		return Transaction{}, fmt.Errorf("invalid price %s: %w", raw.Price, err)
	}
	if !price.IsPositive() {
		return Transaction{}, fmt.Errorf("price must be positive, got %s", price)
	}

	return Transaction{
		Time:     when,
		Ticker:   ticker,
		Side:     side,
		Quantity: quantity,
		Price:    M(price.value, currency),
	}, nil
}

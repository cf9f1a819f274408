package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is one of the fixed set of supported currency codes.
type Currency string

const (
	// MMK is the base accounting currency; all sums are reported in it.
	MMK Currency = "MMK"
	THB Currency = "THB"
	USD Currency = "USD"
	SGD Currency = "SGD"
)

// ForeignCurrencies lists the supported non-base currencies.
var ForeignCurrencies = []Currency{THB, USD, SGD}

// Valid reports whether c is in the supported set.
func (c Currency) Valid() bool {
	switch c {
	case MMK, THB, USD, SGD:
		return true
	default:
		return false
	}
}

// TransactionType tags how a transaction affects derived summaries.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
	Saving  TransactionType = "SAVING"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, Saving:
		return true
	default:
		return false
	}
}

// Transaction is a single ledger record. Immutable once created; the only
// mutation is a hard delete.
type Transaction struct {
	ID          string          `json:"id"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Currency    Currency        `json:"currency"`
}

// Validate checks the record fields. The ID is not checked: backends assign
// it and may discard any client-proposed value.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if !t.Currency.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, t.Currency)
	}
	return nil
}

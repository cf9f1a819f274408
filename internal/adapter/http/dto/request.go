package dto

import (
	"github.com/shopspring/decimal"

	"github.com/aungmyo/shwebook/internal/domain"
)

// SignInRequest carries the bearer token that identifies a cloud profile.
type SignInRequest struct {
	Token string `json:"token"`
}

// CreateTransactionRequest represents a request to record a transaction.
type CreateTransactionRequest struct {
	Date        domain.Date     `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Currency    string          `json:"currency"`
}

// ToDomain converts to a domain transaction. The id is left empty so the
// active backend assigns it.
func (r *CreateTransactionRequest) ToDomain() domain.Transaction {
	return domain.Transaction{
		Date:        r.Date,
		Description: r.Description,
		Amount:      r.Amount,
		Type:        domain.TransactionType(r.Type),
		Category:    r.Category,
		Currency:    domain.Currency(r.Currency),
	}
}

// UpdateRatesRequest represents a request to replace the exchange rate table.
type UpdateRatesRequest struct {
	THB  decimal.Decimal `json:"THB"`
	USD  decimal.Decimal `json:"USD"`
	SGD  decimal.Decimal `json:"SGD"`
	Gold decimal.Decimal `json:"Gold"`
}

// ToDomain converts to a domain rate table.
func (r *UpdateRatesRequest) ToDomain() domain.RateTable {
	return domain.RateTable{
		THB:  r.THB,
		USD:  r.USD,
		SGD:  r.SGD,
		Gold: r.Gold,
	}
}

// SetThemeRequest represents a request to change the display theme.
type SetThemeRequest struct {
	Dark bool `json:"dark"`
}

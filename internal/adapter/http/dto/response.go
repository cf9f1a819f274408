package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aungmyo/shwebook/internal/domain"
	"github.com/aungmyo/shwebook/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// TransactionResponse represents a ledger transaction in API responses.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Date        domain.Date     `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Currency    string          `json:"currency"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount,
		Type:        string(t.Type),
		Category:    t.Category,
		Currency:    string(t.Currency),
	}
}

// TransactionsFromDomain converts a ledger slice to responses.
func TransactionsFromDomain(txs []domain.Transaction) []TransactionResponse {
	result := make([]TransactionResponse, len(txs))
	for i, t := range txs {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ProfileResponse represents a signed-in user profile.
type ProfileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionResponse describes the current session mode and, when signed in,
// the profile that owns the cloud workspace.
type SessionResponse struct {
	Mode    string           `json:"mode"`
	Profile *ProfileResponse `json:"profile,omitempty"`
}

// SessionFromDomain builds a session response.
func SessionFromDomain(mode usecase.Mode, profile *domain.UserProfile) SessionResponse {
	resp := SessionResponse{Mode: string(mode)}
	if profile != nil {
		resp.Profile = &ProfileResponse{
			ID:        profile.ID,
			Name:      profile.Name,
			CreatedAt: profile.CreatedAt,
		}
	}
	return resp
}

// SeriesBucketResponse is one bucket of a time-series summary.
type SeriesBucketResponse struct {
	Key     string          `json:"key"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Saving  decimal.Decimal `json:"saving"`
	Net     decimal.Decimal `json:"net"`
}

// SeriesFromUseCase converts series buckets to responses.
func SeriesFromUseCase(buckets []usecase.SeriesBucket) []SeriesBucketResponse {
	result := make([]SeriesBucketResponse, len(buckets))
	for i, b := range buckets {
		result[i] = SeriesBucketResponse{
			Key:     b.Key,
			Income:  b.Income,
			Expense: b.Expense,
			Saving:  b.Saving,
			Net:     b.Net,
		}
	}
	return result
}

// CategoryTotalResponse is the expense total for one category.
type CategoryTotalResponse struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// CategoriesFromUseCase converts category totals to responses.
func CategoriesFromUseCase(totals []usecase.CategoryTotal) []CategoryTotalResponse {
	result := make([]CategoryTotalResponse, len(totals))
	for i, c := range totals {
		result[i] = CategoryTotalResponse{Category: c.Category, Total: c.Total}
	}
	return result
}

// TotalsResponse is the all-time summary in the base currency.
type TotalsResponse struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Saving  decimal.Decimal `json:"saving"`
	Balance decimal.Decimal `json:"balance"`
}

// TotalsFromUseCase converts totals to a response.
func TotalsFromUseCase(t usecase.Totals) TotalsResponse {
	return TotalsResponse{
		Income:  t.Income,
		Expense: t.Expense,
		Saving:  t.Saving,
		Balance: t.Balance,
	}
}

// ThemeResponse reports the stored display theme.
type ThemeResponse struct {
	Dark bool `json:"dark"`
}

// YearsResponse lists the selectable report years.
type YearsResponse struct {
	Years []int `json:"years"`
}

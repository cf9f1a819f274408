package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aungmyo/shwebook/internal/domain"
)

// Timeframe selects the bucketing granularity of a time-series summary.
type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeMonthly Timeframe = "monthly"
	TimeframeYearly  Timeframe = "yearly"
)

// Valid reports whether tf is a known timeframe.
func (tf Timeframe) Valid() bool {
	switch tf {
	case TimeframeDaily, TimeframeMonthly, TimeframeYearly:
		return true
	default:
		return false
	}
}

// SeriesBucket is one time bucket of normalized sums. Net counts income
// minus expense; savings are retained assets and never move it.
type SeriesBucket struct {
	Key     string
	Income  decimal.Decimal
	Expense decimal.Decimal
	Saving  decimal.Decimal
	Net     decimal.Decimal
}

// CategoryTotal is the normalized expense total for one category label.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// Totals is the all-time dashboard summary in the base currency.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Saving  decimal.Decimal
	Balance decimal.Decimal
}

// Series buckets the ledger by day, month or year and accumulates
// normalized amounts per bucket. Everything is recomputed on each call;
// ledgers are small enough that correctness beats caching. Buckets with no
// transactions are omitted. The result is sorted ascending by bucket key,
// which is date-safe because keys are zero-padded.
func Series(txs []domain.Transaction, rates domain.RateTable, tf Timeframe, year int) ([]SeriesBucket, error) {
	if !tf.Valid() {
		return nil, fmt.Errorf("unknown timeframe %q", tf)
	}

	buckets := make(map[string]*SeriesBucket)
	for _, t := range txs {
		if tf != TimeframeYearly && t.Date.Year() != year {
			continue
		}

		var key string
		switch tf {
		case TimeframeDaily:
			key = t.Date.String()
		case TimeframeMonthly:
			key = t.Date.MonthKey()
		case TimeframeYearly:
			key = t.Date.YearKey()
		}

		amount, err := domain.Normalize(t.Amount, t.Currency, rates)
		if err != nil {
			return nil, err
		}

		b := buckets[key]
		if b == nil {
			b = &SeriesBucket{Key: key}
			buckets[key] = b
		}
		switch t.Type {
		case domain.Income:
			b.Income = b.Income.Add(amount)
			b.Net = b.Net.Add(amount)
		case domain.Expense:
			b.Expense = b.Expense.Add(amount)
			b.Net = b.Net.Sub(amount)
		case domain.Saving:
			b.Saving = b.Saving.Add(amount)
		}
	}

	out := make([]SeriesBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Categories accumulates normalized expense totals per category label,
// under the same timeframe/year filter as Series. Labels are compared
// case-sensitively; ordering is for determinism only, consumers may re-sort.
func Categories(txs []domain.Transaction, rates domain.RateTable, tf Timeframe, year int) ([]CategoryTotal, error) {
	if !tf.Valid() {
		return nil, fmt.Errorf("unknown timeframe %q", tf)
	}

	totals := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.Type != domain.Expense {
			continue
		}
		if tf != TimeframeYearly && t.Date.Year() != year {
			continue
		}
		amount, err := domain.Normalize(t.Amount, t.Currency, rates)
		if err != nil {
			return nil, err
		}
		totals[t.Category] = totals[t.Category].Add(amount)
	}

	out := make([]CategoryTotal, 0, len(totals))
	for category, total := range totals {
		out = append(out, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// Years returns the distinct calendar years present in the ledger plus the
// current year, descending. The current year is always included so a year
// selector has a sane default even over an empty ledger.
func Years(txs []domain.Transaction, now time.Time) []int {
	seen := map[int]bool{now.UTC().Year(): true}
	for _, t := range txs {
		seen[t.Date.Year()] = true
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// SumTotals computes the all-time normalized income, expense and saving
// sums and the balance (income minus expense).
func SumTotals(txs []domain.Transaction, rates domain.RateTable) (Totals, error) {
	var out Totals
	for _, t := range txs {
		amount, err := domain.Normalize(t.Amount, t.Currency, rates)
		if err != nil {
			return Totals{}, err
		}
		switch t.Type {
		case domain.Income:
			out.Income = out.Income.Add(amount)
		case domain.Expense:
			out.Expense = out.Expense.Add(amount)
		case domain.Saving:
			out.Saving = out.Saving.Add(amount)
		}
	}
	out.Balance = out.Income.Sub(out.Expense)
	return out, nil
}

// Series derives the time-series summary over the session's current state.
func (s *Session) Series(ctx context.Context, tf Timeframe, year int) ([]SeriesBucket, error) {
	txs, rates, err := s.ledgerAndRates(ctx)
	if err != nil {
		return nil, err
	}
	return Series(txs, rates, tf, year)
}

// Categories derives the expense breakdown over the session's current state.
func (s *Session) Categories(ctx context.Context, tf Timeframe, year int) ([]CategoryTotal, error) {
	txs, rates, err := s.ledgerAndRates(ctx)
	if err != nil {
		return nil, err
	}
	return Categories(txs, rates, tf, year)
}

// Years derives the selectable years over the session's current state.
func (s *Session) Years(ctx context.Context) ([]int, error) {
	txs, err := s.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	return Years(txs, time.Now()), nil
}

// Totals derives the dashboard summary over the session's current state.
func (s *Session) Totals(ctx context.Context) (Totals, error) {
	txs, rates, err := s.ledgerAndRates(ctx)
	if err != nil {
		return Totals{}, err
	}
	return SumTotals(txs, rates)
}

func (s *Session) ledgerAndRates(ctx context.Context) ([]domain.Transaction, domain.RateTable, error) {
	if err := s.waitReady(ctx); err != nil {
		return nil, domain.RateTable{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	txs := make([]domain.Transaction, len(s.ledger))
	copy(txs, s.ledger)
	return txs, s.rates, nil
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RateTable maps each foreign currency to its conversion factor into MMK,
// plus a Gold reference price (1 kyattha in MMK). Replaced wholesale on
// update; last write wins.
type RateTable struct {
	THB  decimal.Decimal `json:"THB"`
	USD  decimal.Decimal `json:"USD"`
	SGD  decimal.Decimal `json:"SGD"`
	Gold decimal.Decimal `json:"Gold"`
}

// Rate returns the conversion factor for a foreign currency.
func (r RateTable) Rate(c Currency) (decimal.Decimal, error) {
	switch c {
	case THB:
		return r.THB, nil
	case USD:
		return r.USD, nil
	case SGD:
		return r.SGD, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, c)
	}
}

// Validate rejects zero or negative factors; those make normalization
// meaningless.
func (r RateTable) Validate() error {
	for _, e := range []struct {
		name string
		v    decimal.Decimal
	}{
		{"THB", r.THB},
		{"USD", r.USD},
		{"SGD", r.SGD},
		{"Gold", r.Gold},
	} {
		if !e.v.IsPositive() {
			return fmt.Errorf("%w: %s=%s", ErrInvalidRate, e.name, e.v)
		}
	}
	return nil
}

// Normalize converts an (amount, currency) pair into MMK using rates.
// Base-currency amounts pass through unchanged.
func Normalize(amount decimal.Decimal, c Currency, rates RateTable) (decimal.Decimal, error) {
	if c == MMK {
		return amount, nil
	}
	rate, err := rates.Rate(c)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return amount.Mul(rate), nil
}

package domain

import "github.com/shopspring/decimal"

// SeedRates returns the built-in rate table used when no persisted table
// exists yet.
func SeedRates() RateTable {
	return RateTable{
		THB:  decimal.NewFromInt(124),
		USD:  decimal.NewFromInt(4500),
		SGD:  decimal.NewFromInt(3300),
		Gold: decimal.NewFromInt(6500000),
	}
}

// SeedCalculator returns default planning parameters.
func SeedCalculator() CalculatorSettings {
	return CalculatorSettings{
		TargetAmount:   decimal.NewFromInt(100000000),
		Years:          4,
		InterestRate:   decimal.NewFromInt(8),
		MonthlyDeposit: decimal.NewFromInt(500000),
		FVYears:        3,
		FVRate:         decimal.NewFromInt(8),
		LoanAmount:     decimal.NewFromInt(30000000),
		LoanTermYears:  5,
		LoanRate:       decimal.NewFromInt(10),
		MonthlyExpense: decimal.NewFromInt(500000),
		FundMonths:     6,
	}
}

// SeedTransactions returns the sample ledger shown to first-time users.
func SeedTransactions() []Transaction {
	mk := func(id string, date Date, desc string, amount int64, typ TransactionType, category string) Transaction {
		return Transaction{
			ID:          id,
			Date:        date,
			Description: desc,
			Amount:      decimal.NewFromInt(amount),
			Type:        typ,
			Category:    category,
			Currency:    THB,
		}
	}
	return []Transaction{
		mk("1", NewDate(2024, 9, 15), "Salary", 18000, Income, "Salary"),
		mk("2", NewDate(2024, 9, 16), "Housing Savings", 15000, Saving, "Investment"),
		mk("3", NewDate(2024, 9, 20), "Food & Dining", 3700, Expense, "Food"),
		mk("4", NewDate(2024, 10, 1), "Salary", 18000, Income, "Salary"),
		mk("5", NewDate(2024, 10, 5), "Monthly Saving", 15000, Saving, "Investment"),
		mk("6", NewDate(2024, 10, 12), "Utilities", 3700, Expense, "Housing"),
	}
}

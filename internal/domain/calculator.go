package domain

import "github.com/shopspring/decimal"

// CalculatorSettings holds the planning parameters of the financial
// calculators. The core persists the record alongside the rate table but
// never interprets it.
type CalculatorSettings struct {
	// Target planner
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Years        int             `json:"years"`
	InterestRate decimal.Decimal `json:"interestRate"`
	// Future value
	MonthlyDeposit decimal.Decimal `json:"monthlyDeposit"`
	FVYears        int             `json:"fvYears"`
	FVRate         decimal.Decimal `json:"fvRate"`
	// Loan
	LoanAmount    decimal.Decimal `json:"loanAmount"`
	LoanTermYears int             `json:"loanTermYears"`
	LoanRate      decimal.Decimal `json:"loanRate"`
	// Emergency fund
	MonthlyExpense decimal.Decimal `json:"monthlyExpense"`
	FundMonths     int             `json:"fundMonths"`
}

package domain

import (
	"github.com/shopspring/decimal"
)

// IncomeBreakdown itemizes a single projection year's income.
type IncomeBreakdown struct {
	Employment      decimal.Decimal `json:"employment"`
	SocialSecurity  decimal.Decimal `json:"social_security"`
	LumpSum         decimal.Decimal `json:"lump_sum"`
	InvestmentGains decimal.Decimal `json:"investment_gains"`
	RMD             decimal.Decimal `json:"rmd"`
	Total           decimal.Decimal `json:"total"`
}

// SpendingBreakdown itemizes a single projection year's spending.
type SpendingBreakdown struct {
	Living     decimal.Decimal `json:"living"`
	Travel     decimal.Decimal `json:"travel"`
	Healthcare decimal.Decimal `json:"healthcare"`
	LumpSum    decimal.Decimal `json:"lump_sum"`
	Total      decimal.Decimal `json:"total"`
}

// ContributionBreakdown records the year's contributions per account type.
type ContributionBreakdown struct {
	ByType TypeAmounts     `json:"by_type"`
	Total  decimal.Decimal `json:"total"`
}

// BalanceBreakdown records end-of-year balances per account type.
type BalanceBreakdown struct {
	ByType TypeAmounts     `json:"by_type"`
	Total  decimal.Decimal `json:"total"`
}

// AnnualProjection is the complete simulated picture of one calendar year.
type AnnualProjection struct {
	Year          int                   `json:"year"`
	Age           int                   `json:"age"`
	Income        IncomeBreakdown       `json:"income"`
	Spending      SpendingBreakdown     `json:"spending"`
	Contributions ContributionBreakdown `json:"contributions"`
	NetIncome     decimal.Decimal       `json:"net_income"`
	Balances      BalanceBreakdown      `json:"balances"`
}

// CalculateTotalIncome sums the income sub-fields, RMD included.
func (ap *AnnualProjection) CalculateTotalIncome() decimal.Decimal {
	return ap.Income.Employment.Add(ap.Income.SocialSecurity).
		Add(ap.Income.LumpSum).Add(ap.Income.InvestmentGains).Add(ap.Income.RMD)
}

// CalculateTotalSpending sums the spending sub-fields.
func (ap *AnnualProjection) CalculateTotalSpending() decimal.Decimal {
	return ap.Spending.Living.Add(ap.Spending.Travel).
		Add(ap.Spending.Healthcare).Add(ap.Spending.LumpSum)
}

// IsDeficit reports whether the year's net income is negative.
func (ap *AnnualProjection) IsDeficit() bool {
	return ap.NetIncome.IsNegative()
}

// ProjectionSummary aggregates key metrics across all recorded years.
type ProjectionSummary struct {
	TotalIncome        decimal.Decimal `json:"total_income"`
	TotalSpending      decimal.Decimal `json:"total_spending"`
	TotalContributions decimal.Decimal `json:"total_contributions"`
	FinalNetWorth      decimal.Decimal `json:"final_net_worth"`
	DeficitYears       int             `json:"deficit_years"`
	FirstDeficitYear   int             `json:"first_deficit_year,omitempty"`
}

// ProjectionResult is the engine's sole output artifact: one record per
// simulated calendar year, in order, plus the summary. The caller owns the
// result once returned; the engine never touches it again.
type ProjectionResult struct {
	ScenarioID   string             `json:"scenario_id,omitempty"`
	ScenarioName string             `json:"scenario_name"`
	StartYear    int                `json:"start_year"`
	EndYear      int                `json:"end_year"`
	Years        []AnnualProjection `json:"years"`
	Summary      ProjectionSummary  `json:"summary"`
}

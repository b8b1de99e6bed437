package domain

import (
	"github.com/shopspring/decimal"
)

// AssumptionBucket is an age-bounded set of financial assumptions. A scenario
// holds an ordered list of buckets whose [StartAge, EndAge] ranges tile the
// user's lifespan without gaps or overlaps; that invariant is enforced when a
// scenario is created, not when it is projected.
type AssumptionBucket struct {
	StartAge int `yaml:"start_age" json:"start_age"`
	EndAge   int `yaml:"end_age" json:"end_age"`

	AnnualIncome         decimal.Decimal `yaml:"annual_income" json:"annual_income"`
	LivingExpenses       decimal.Decimal `yaml:"living_expenses" json:"living_expenses"`
	TravelExpenses       decimal.Decimal `yaml:"travel_expenses" json:"travel_expenses"`
	HealthcareExpenses   decimal.Decimal `yaml:"healthcare_expenses" json:"healthcare_expenses"`
	RetirementAge        int             `yaml:"retirement_age" json:"retirement_age"`
	SocialSecurityAge    int             `yaml:"social_security_age" json:"social_security_age"`
	SocialSecurityIncome decimal.Decimal `yaml:"social_security_income" json:"social_security_income"`

	// Annual contribution amounts per account type; zero means no contribution.
	Contributions TypeAmounts `yaml:"contributions" json:"contributions"`

	// Rates are whole percentages: 3 means 3% per year.
	InflationRate        decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
	InvestmentReturnRate decimal.Decimal `yaml:"investment_return_rate" json:"investment_return_rate"`
}

// Contains reports whether the bucket's age range covers the given age.
func (b *AssumptionBucket) Contains(age int) bool {
	return age >= b.StartAge && age <= b.EndAge
}

// EventKind distinguishes one-time income from one-time expenses.
type EventKind string

const (
	EventKindIncome  EventKind = "income"
	EventKindExpense EventKind = "expense"
)

// LumpSumEvent is a one-time income or expense of a fixed amount applied in
// full during the single projection year where the user's age equals Age.
// Lump sums are never inflation-adjusted.
type LumpSumEvent struct {
	Age         int             `yaml:"age" json:"age"`
	Kind        EventKind       `yaml:"kind" json:"kind"`
	Amount      decimal.Decimal `yaml:"amount" json:"amount"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
}

// Scenario is a named plan: ordered assumption buckets plus one-time events.
// Scenarios are immutable inputs to the projection engine.
type Scenario struct {
	ID        string             `yaml:"id,omitempty" json:"id,omitempty"`
	Name      string             `yaml:"name" json:"name"`
	IsDefault bool               `yaml:"is_default,omitempty" json:"is_default,omitempty"`
	Buckets   []AssumptionBucket `yaml:"buckets" json:"buckets"`
	LumpSums  []LumpSumEvent     `yaml:"lump_sums,omitempty" json:"lump_sums,omitempty"`
}

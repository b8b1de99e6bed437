package config

import (
	"fmt"
	"os"
	"time"

	"github.com/nestegg/nestegg/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Plan is the on-disk representation of a user's complete planning input:
// their profile, current accounts, and one or more scenarios.
type Plan struct {
	Profile   domain.UserProfile `yaml:"profile" json:"profile"`
	Accounts  []domain.Account   `yaml:"accounts" json:"accounts"`
	Scenarios []domain.Scenario  `yaml:"scenarios" json:"scenarios"`
}

// DefaultScenario returns the scenario flagged as default, or the first one.
func (p *Plan) DefaultScenario() *domain.Scenario {
	for i := range p.Scenarios {
		if p.Scenarios[i].IsDefault {
			return &p.Scenarios[i]
		}
	}
	if len(p.Scenarios) > 0 {
		return &p.Scenarios[0]
	}
	return nil
}

// PlanParser handles parsing of plan input files
type PlanParser struct{}

// NewPlanParser creates a new plan parser
func NewPlanParser() *PlanParser {
	return &PlanParser{}
}

// LoadFromFile loads a plan from a YAML file
func (pp *PlanParser) LoadFromFile(filename string) (*Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := pp.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	return &plan, nil
}

// ValidatePlan validates the loaded plan
func (pp *PlanParser) ValidatePlan(plan *Plan) error {
	if err := domain.ValidateProfile(&plan.Profile); err != nil {
		return fmt.Errorf("profile validation failed: %w", err)
	}

	for i := range plan.Accounts {
		if err := domain.ValidateAccount(&plan.Accounts[i]); err != nil {
			return fmt.Errorf("account %d validation failed: %w", i, err)
		}
	}

	if len(plan.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}

	defaults := 0
	for i := range plan.Scenarios {
		if err := ValidateScenario(&plan.Scenarios[i]); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
		if plan.Scenarios[i].IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return fmt.Errorf("at most one scenario may be flagged as default, found %d", defaults)
	}

	return nil
}

// ValidateScenario checks a scenario's structural invariants, including that
// its assumption buckets tile an age range without gaps or overlaps. The
// projection engine relies on this being enforced at creation time.
func ValidateScenario(scenario *domain.Scenario) error {
	if scenario.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if len(scenario.Buckets) == 0 {
		return fmt.Errorf("at least one assumption bucket is required")
	}

	for i, b := range scenario.Buckets {
		if b.StartAge > b.EndAge {
			return fmt.Errorf("bucket %d: start age %d is after end age %d", i, b.StartAge, b.EndAge)
		}
		if b.StartAge < 0 {
			return fmt.Errorf("bucket %d: start age cannot be negative", i)
		}
		if err := validateBucketAssumptions(i, &b); err != nil {
			return err
		}
		if i > 0 {
			prev := scenario.Buckets[i-1]
			if b.StartAge != prev.EndAge+1 {
				return fmt.Errorf("bucket %d: age range [%d, %d] does not follow [%d, %d] contiguously",
					i, b.StartAge, b.EndAge, prev.StartAge, prev.EndAge)
			}
		}
	}

	for i, ev := range scenario.LumpSums {
		if ev.Kind != domain.EventKindIncome && ev.Kind != domain.EventKindExpense {
			return fmt.Errorf("lump sum %d: kind must be %q or %q", i, domain.EventKindIncome, domain.EventKindExpense)
		}
		if ev.Amount.IsNegative() {
			return fmt.Errorf("lump sum %d: amount cannot be negative", i)
		}
		if ev.Age < 0 {
			return fmt.Errorf("lump sum %d: age cannot be negative", i)
		}
	}

	return nil
}

func validateBucketAssumptions(i int, b *domain.AssumptionBucket) error {
	if b.AnnualIncome.IsNegative() || b.SocialSecurityIncome.IsNegative() {
		return fmt.Errorf("bucket %d: income amounts cannot be negative", i)
	}
	if b.LivingExpenses.IsNegative() || b.TravelExpenses.IsNegative() || b.HealthcareExpenses.IsNegative() {
		return fmt.Errorf("bucket %d: spending amounts cannot be negative", i)
	}
	for _, t := range domain.AccountTypes {
		if b.Contributions.Get(t).IsNegative() {
			return fmt.Errorf("bucket %d: %s contribution cannot be negative", i, t)
		}
	}
	if b.InflationRate.LessThan(decimal.NewFromInt(-10)) || b.InflationRate.GreaterThan(decimal.NewFromInt(20)) {
		return fmt.Errorf("bucket %d: inflation rate must be between -10%% and 20%%, got %s%%", i, b.InflationRate)
	}
	if b.InvestmentReturnRate.LessThan(decimal.NewFromInt(-100)) {
		return fmt.Errorf("bucket %d: investment return rate cannot be less than -100%%", i)
	}
	return nil
}

// CreateExamplePlan creates a starter plan with sensible assumptions.
func (pp *PlanParser) CreateExamplePlan() *Plan {
	birthDate, _ := time.Parse("2006-01-02", "1990-06-15")

	return &Plan{
		Profile: domain.UserProfile{
			BirthDate:     birthDate,
			MaritalStatus: domain.MaritalStatusMarried,
			Dependents:    1,
		},
		Accounts: []domain.Account{
			{ID: "acct-401k", Name: "Employer 401k", Type: domain.AccountTypeRetirement401k, Balance: decimal.NewFromInt(120000), Status: domain.AccountStatusActive},
			{ID: "acct-roth", Name: "Roth IRA", Type: domain.AccountTypeRothIRA, Balance: decimal.NewFromInt(35000), Status: domain.AccountStatusActive},
			{ID: "acct-brokerage", Name: "Taxable brokerage", Type: domain.AccountTypeBrokerage, Balance: decimal.NewFromInt(60000), Status: domain.AccountStatusActive},
			{ID: "acct-savings", Name: "High-yield savings", Type: domain.AccountTypeSavings, Balance: decimal.NewFromInt(25000), Status: domain.AccountStatusActive},
			{ID: "acct-checking", Name: "Everyday checking", Type: domain.AccountTypeChecking, Balance: decimal.NewFromInt(8000), Status: domain.AccountStatusActive},
		},
		Scenarios: []domain.Scenario{
			{
				Name:      "Retire at 65",
				IsDefault: true,
				Buckets: []domain.AssumptionBucket{
					{
						StartAge:             30,
						EndAge:               64,
						AnnualIncome:         decimal.NewFromInt(110000),
						LivingExpenses:       decimal.NewFromInt(55000),
						TravelExpenses:       decimal.NewFromInt(5000),
						HealthcareExpenses:   decimal.NewFromInt(4000),
						RetirementAge:        65,
						SocialSecurityAge:    67,
						SocialSecurityIncome: decimal.NewFromInt(28000),
						Contributions: domain.TypeAmounts{
							Retirement401k: decimal.NewFromInt(18000),
							RothIRA:        decimal.NewFromInt(6000),
						},
						InflationRate:        decimal.NewFromInt(3),
						InvestmentReturnRate: decimal.NewFromInt(7),
					},
					{
						StartAge:             65,
						EndAge:               100,
						LivingExpenses:       decimal.NewFromInt(48000),
						TravelExpenses:       decimal.NewFromInt(10000),
						HealthcareExpenses:   decimal.NewFromInt(9000),
						RetirementAge:        65,
						SocialSecurityAge:    67,
						SocialSecurityIncome: decimal.NewFromInt(28000),
						InflationRate:        decimal.NewFromInt(3),
						InvestmentReturnRate: decimal.NewFromInt(5),
					},
				},
				LumpSums: []domain.LumpSumEvent{
					{Age: 50, Kind: domain.EventKindExpense, Amount: decimal.NewFromInt(40000), Description: "College tuition, year one"},
					{Age: 62, Kind: domain.EventKindIncome, Amount: decimal.NewFromInt(75000), Description: "Downsizing the house"},
				},
			},
		},
	}
}

// WriteExamplePlan writes the starter plan to a YAML file.
func (pp *PlanParser) WriteExamplePlan(filename string) error {
	data, err := yaml.Marshal(pp.CreateExamplePlan())
	if err != nil {
		return fmt.Errorf("failed to marshal example plan: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

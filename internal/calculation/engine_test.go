package calculation

import (
	"context"
	"testing"
	"time"

	"github.com/nestegg/nestegg/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// asOf is the fixed reference date used across engine tests.
var asOf = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func fixedEngine() *ProjectionEngine {
	pe := NewProjectionEngine()
	pe.Now = func() time.Time { return asOf }
	return pe
}

// profileAged returns a profile whose holder is exactly the given age at asOf.
func profileAged(age int) *domain.UserProfile {
	return &domain.UserProfile{
		BirthDate:     asOf.AddDate(-age, 0, 0),
		MaritalStatus: domain.MaritalStatusSingle,
	}
}

func workingBucket() domain.AssumptionBucket {
	return domain.AssumptionBucket{
		StartAge:             0,
		EndAge:               999,
		AnnualIncome:         decimal.NewFromInt(100000),
		LivingExpenses:       decimal.NewFromInt(60000),
		RetirementAge:        65,
		SocialSecurityAge:    67,
		SocialSecurityIncome: decimal.NewFromInt(20000),
		Contributions: domain.TypeAmounts{
			Retirement401k: decimal.NewFromInt(20000),
		},
		InflationRate:        decimal.NewFromInt(3),
		InvestmentReturnRate: decimal.NewFromInt(7),
	}
}

func TestProjectPreconditions(t *testing.T) {
	pe := fixedEngine()
	profile := profileAged(35)
	scenario := &domain.Scenario{Name: "base", Buckets: []domain.AssumptionBucket{workingBucket()}}

	tests := []struct {
		name      string
		scenario  *domain.Scenario
		startYear int
		endYear   int
		wantErr   string
	}{
		{
			name:      "no buckets",
			scenario:  &domain.Scenario{Name: "empty"},
			startYear: 2025,
			endYear:   2026,
			wantErr:   "no assumption buckets",
		},
		{
			name:      "inverted year range",
			scenario:  scenario,
			startYear: 2030,
			endYear:   2025,
			wantErr:   "after end year",
		},
		{
			name:      "excessive span",
			scenario:  scenario,
			startYear: 2025,
			endYear:   2126,
			wantErr:   "exceeding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := pe.Project(context.Background(), tt.scenario, profile, nil, tt.startYear, tt.endYear)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProjectFirstWorkingYear(t *testing.T) {
	pe := fixedEngine()
	profile := profileAged(35)
	scenario := &domain.Scenario{
		Name: "accumulation",
		Buckets: []domain.AssumptionBucket{func() domain.AssumptionBucket {
			b := workingBucket()
			b.StartAge = 35
			return b
		}()},
	}
	accounts := []domain.Account{
		{ID: "a1", Name: "Everyday", Type: domain.AccountTypeChecking, Balance: decimal.NewFromInt(10000), Status: domain.AccountStatusActive},
		{ID: "a2", Name: "Employer 401k", Type: domain.AccountTypeRetirement401k, Balance: decimal.NewFromInt(100000), Status: domain.AccountStatusActive},
	}

	result, err := pe.Project(context.Background(), scenario, profile, accounts, 2025, 2025)
	require.NoError(t, err)
	require.Len(t, result.Years, 1)

	yr := result.Years[0]
	assert.Equal(t, 2025, yr.Year)
	assert.Equal(t, 35, yr.Age)

	// Year zero of the window: inflation factor is 1.
	assert.True(t, yr.Income.Employment.Equal(decimal.NewFromInt(100000)))
	assert.True(t, yr.Income.SocialSecurity.IsZero())
	assert.True(t, yr.Income.RMD.IsZero())
	assert.True(t, yr.Contributions.ByType.Retirement401k.Equal(decimal.NewFromInt(20000)))

	// Gains on beginning balances: (10000 + 100000) * 7%.
	assert.True(t, yr.Income.InvestmentGains.Equal(decimal.NewFromInt(7700)))

	// 401k: 100000 + 20000 contribution + 7000 growth.
	assert.True(t, yr.Balances.ByType.Retirement401k.Equal(decimal.NewFromInt(127000)))

	// Checking: 10000 + 700 growth + surplus (107700 - 60000 - 20000).
	assert.True(t, yr.NetIncome.Equal(decimal.NewFromInt(27700)))
	assert.True(t, yr.Balances.ByType.Checking.Equal(decimal.NewFromInt(38400)))

	assert.True(t, result.Summary.FinalNetWorth.Equal(decimal.NewFromInt(165400)))
	assert.Equal(t, 0, result.Summary.DeficitYears)
	assert.Equal(t, 0, result.Summary.FirstDeficitYear)
}

func TestProjectDeficitDrainsCashExactly(t *testing.T) {
	pe := fixedEngine()
	profile := profileAged(67)
	scenario := &domain.Scenario{
		Name: "retired",
		Buckets: []domain.AssumptionBucket{{
			StartAge:             60,
			EndAge:               999,
			RetirementAge:        65,
			SocialSecurityAge:    67,
			SocialSecurityIncome: decimal.NewFromInt(20000),
			LivingExpenses:       decimal.NewFromInt(50000),
		}},
	}
	accounts := []domain.Account{
		{ID: "a1", Name: "Everyday", Type: domain.AccountTypeChecking, Balance: decimal.NewFromInt(10000), Status: domain.AccountStatusActive},
		{ID: "a2", Name: "Rainy day", Type: domain.AccountTypeSavings, Balance: decimal.NewFromInt(20000), Status: domain.AccountStatusActive},
	}

	result, err := pe.Project(context.Background(), scenario, profile, accounts, 2025, 2025)
	require.NoError(t, err)
	require.Len(t, result.Years, 1)

	yr := result.Years[0]
	assert.True(t, yr.Income.Employment.IsZero(), "past retirement age, no employment income")
	assert.True(t, yr.Income.SocialSecurity.Equal(decimal.NewFromInt(20000)))

	// 50000 spending - 20000 SS: the 30000 shortfall exactly drains
	// checking (10000) then savings (20000).
	assert.True(t, yr.NetIncome.Equal(decimal.NewFromInt(-30000)))
	assert.True(t, yr.Balances.ByType.Checking.IsZero())
	assert.True(t, yr.Balances.ByType.Savings.IsZero())

	assert.Equal(t, 1, result.Summary.DeficitYears)
	assert.Equal(t, 2025, result.Summary.FirstDeficitYear)
}

func TestProjectShortfallGoesNegativeByExactAmount(t *testing.T) {
	pe := fixedEngine()
	profile := profileAged(70)
	scenario := &domain.Scenario{
		Name: "drawdown",
		Buckets: []domain.AssumptionBucket{{
			StartAge:       0,
			EndAge:         999,
			RetirementAge:  65,
			LivingExpenses: decimal.NewFromInt(6000),
		}},
	}
	accounts := []domain.Account{
		{ID: "a1", Name: "Everyday", Type: domain.AccountTypeChecking, Balance: decimal.NewFromInt(10000), Status: domain.AccountStatusActive},
		{ID: "a2", Name: "Rainy day", Type: domain.AccountTypeSavings, Balance: decimal.NewFromInt(5000), Status: domain.AccountStatusActive},
	}

	result, err := pe.Project(context.Background(), scenario, profile, accounts, 2025, 2028)
	require.NoError(t, err)
	require.Len(t, result.Years, 4)

	// Cash is non-increasing every year with zero income and return.
	prev := decimal.NewFromInt(15000)
	for _, yr := range result.Years {
		cash := yr.Balances.ByType.Checking.Add(yr.Balances.ByType.Savings)
		assert.True(t, cash.LessThanOrEqual(prev), "year %d: cash %s > previous %s", yr.Year, cash, prev)
		prev = cash
	}

	// Checking drains first, then savings, then checking goes negative by
	// exactly the uncovered shortfall: 15000 - 4*6000 = -9000.
	assert.True(t, result.Years[0].Balances.ByType.Checking.Equal(decimal.NewFromInt(4000)))
	assert.True(t, result.Years[1].Balances.ByType.Checking.IsZero())
	assert.True(t, result.Years[1].Balances.ByType.Savings.Equal(decimal.NewFromInt(3000)))
	assert.True(t, result.Years[2].Balances.ByType.Savings.IsZero())
	assert.True(t, result.Years[2].Balances.ByType.Checking.Equal(decimal.NewFromInt(-3000)))
	assert.True(t, result.Years[3].Balances.ByType.Checking.Equal(decimal.NewFromInt(-9000)))
	assert.Equal(t, 4, result.Summary.DeficitYears)
	assert.Equal(t, 2025, result.Summary.FirstDeficitYear)
}

func TestProjectLumpSumsAreNotInflated(t *testing.T) {
	pe := fixedEngine()
	profile := profileAged(35)
	bucket := workingBucket()
	bucket.InflationRate = decimal.NewFromInt(10)
	scenario := &domain.Scenario{
		Name:    "windfall",
		Buckets: []domain.AssumptionBucket{bucket},
		LumpSums: []domain.LumpSumEvent{
			{Age: 36, Kind: domain.EventKindIncome, Amount: decimal.NewFromInt(50000), Description: "inheritance"},
			{Age: 36, Kind: domain.EventKindExpense, Amount: decimal.NewFromInt(20000), Description: "roof"},
		},
	}

	result, err := pe.Project(context.Background(), scenario, profile, nil, 2025, 2026)
	require.NoError(t, err)
	require.Len(t, result.Years, 2)

	// Age 35 year: no events fire.
	assert.True(t, result.Years[0].Income.LumpSum.IsZero())
	assert.True(t, result.Years[0].Spending.LumpSum.IsZero())

	// Age 36 year: events land at face value even with 10% inflation active.
	assert.True(t, result.Years[1].Income.LumpSum.Equal(decimal.NewFromInt(50000)))
	assert.True(t, result.Years[1].Spending.LumpSum.Equal(decimal.NewFromInt(20000)))
}

func TestProjectRMDAtSeventyThree(t *testing.T) {
	pe := fixedEngine()
	profile := profileAged(73)
	scenario := &domain.Scenario{
		Name: "rmd only",
		Buckets: []domain.AssumptionBucket{{
			StartAge:      0,
			EndAge:        999,
			RetirementAge: 65,
		}},
	}
	balance := decimal.NewFromInt(100000)
	accounts := []domain.Account{
		{ID: "a1", Name: "Old 401k", Type: domain.AccountTypeRetirement401k, Balance: balance, Status: domain.AccountStatusActive},
	}

	result, err := pe.Project(context.Background(), scenario, profile, accounts, 2025, 2025)
	require.NoError(t, err)
	require.Len(t, result.Years, 1)

	yr := result.Years[0]
	wantRMD := balance.Div(decimal.NewFromFloat(26.5))
	assert.True(t, yr.Income.RMD.Sub(wantRMD).Abs().LessThan(decimal.NewFromFloat(0.01)),
		"expected RMD %s, got %s", wantRMD.StringFixed(2), yr.Income.RMD.StringFixed(2))
	assert.True(t, yr.Balances.ByType.Retirement401k.Equal(balance.Sub(yr.Income.RMD)))

	// The forced distribution is reported as income and, with no spending,
	// lands in checking as surplus.
	assert.True(t, yr.Income.Total.Equal(yr.Income.RMD))
	assert.True(t, yr.Balances.ByType.Checking.Equal(yr.Income.RMD))
}

func TestProjectBucketGapSkipsYears(t *testing.T) {
	pe := fixedEngine()
	profile := profileAged(35)
	early := workingBucket()
	early.StartAge, early.EndAge = 35, 40
	late := workingBucket()
	late.StartAge, late.EndAge = 46, 50
	scenario := &domain.Scenario{Name: "gapped", Buckets: []domain.AssumptionBucket{early, late}}

	result, err := pe.Project(context.Background(), scenario, profile, nil, 2025, 2040)
	require.NoError(t, err)

	// Ages 41-45 fall in the gap: those five years vanish from the output.
	assert.Len(t, result.Years, 11)
	for _, yr := range result.Years {
		assert.True(t, yr.Age <= 40 || yr.Age >= 46, "age %d should have been skipped", yr.Age)
	}
}

func TestProjectAgeAnchoredToReferenceDate(t *testing.T) {
	pe := fixedEngine()
	profile := profileAged(40)
	scenario := &domain.Scenario{Name: "base", Buckets: []domain.AssumptionBucket{workingBucket()}}

	// Projecting from a past start year still uses "now" as the age anchor:
	// age 40 in 2025 means age 35 in 2020.
	result, err := pe.Project(context.Background(), scenario, profile, nil, 2020, 2022)
	require.NoError(t, err)
	require.Len(t, result.Years, 3)
	assert.Equal(t, 35, result.Years[0].Age)
	assert.Equal(t, 37, result.Years[2].Age)
}

func TestProjectBreakdownIdentities(t *testing.T) {
	pe := fixedEngine()
	profile := profileAged(60)
	bucket := workingBucket()
	bucket.Contributions.Brokerage = decimal.NewFromInt(5000)
	scenario := &domain.Scenario{
		Name:    "identities",
		Buckets: []domain.AssumptionBucket{bucket},
		LumpSums: []domain.LumpSumEvent{
			{Age: 70, Kind: domain.EventKindIncome, Amount: decimal.NewFromInt(10000)},
			{Age: 75, Kind: domain.EventKindExpense, Amount: decimal.NewFromInt(40000)},
		},
	}
	accounts := []domain.Account{
		{ID: "a1", Name: "401k", Type: domain.AccountTypeRetirement401k, Balance: decimal.NewFromInt(400000), Status: domain.AccountStatusActive},
		{ID: "a2", Name: "Taxable", Type: domain.AccountTypeBrokerage, Balance: decimal.NewFromInt(150000), Status: domain.AccountStatusActive},
		{ID: "a3", Name: "Everyday", Type: domain.AccountTypeChecking, Balance: decimal.NewFromInt(25000), Status: domain.AccountStatusActive},
	}

	result, err := pe.Project(context.Background(), scenario, profile, accounts, 2025, 2050)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Years), 26)
	assert.Len(t, result.Years, 26, "full bucket coverage records every year")

	var income, spending, contributions decimal.Decimal
	for _, yr := range result.Years {
		assert.True(t, yr.Income.Total.Equal(yr.CalculateTotalIncome()),
			"year %d: income total %s != sum of parts %s", yr.Year, yr.Income.Total, yr.CalculateTotalIncome())
		assert.True(t, yr.Spending.Total.Equal(yr.CalculateTotalSpending()),
			"year %d: spending total mismatch", yr.Year)
		assert.True(t, yr.Contributions.Total.Equal(yr.Contributions.ByType.Total()),
			"year %d: contribution total mismatch", yr.Year)
		assert.True(t, yr.Balances.Total.Equal(yr.Balances.ByType.Total()),
			"year %d: balance total mismatch", yr.Year)
		income = income.Add(yr.Income.Total)
		spending = spending.Add(yr.Spending.Total)
		contributions = contributions.Add(yr.Contributions.Total)
	}

	assert.True(t, result.Summary.TotalIncome.Equal(income))
	assert.True(t, result.Summary.TotalSpending.Equal(spending))
	assert.True(t, result.Summary.TotalContributions.Equal(contributions))
	assert.True(t, result.Summary.FinalNetWorth.Equal(result.Years[len(result.Years)-1].Balances.Total))
}

func TestProjectIsIdempotent(t *testing.T) {
	pe := fixedEngine()
	profile := profileAged(45)
	scenario := &domain.Scenario{
		Name:    "repeat",
		Buckets: []domain.AssumptionBucket{workingBucket()},
		LumpSums: []domain.LumpSumEvent{
			{Age: 50, Kind: domain.EventKindExpense, Amount: decimal.NewFromInt(30000)},
		},
	}
	accounts := []domain.Account{
		{ID: "a1", Name: "401k", Type: domain.AccountTypeRetirement401k, Balance: decimal.NewFromInt(250000), Status: domain.AccountStatusActive},
		{ID: "a2", Name: "Everyday", Type: domain.AccountTypeChecking, Balance: decimal.NewFromInt(12000), Status: domain.AccountStatusActive},
	}

	first, err := pe.Project(context.Background(), scenario, profile, accounts, 2025, 2055)
	require.NoError(t, err)
	second, err := pe.Project(context.Background(), scenario, profile, accounts, 2025, 2055)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProjectIgnoresClosedAccounts(t *testing.T) {
	pe := fixedEngine()
	profile := profileAged(35)
	scenario := &domain.Scenario{Name: "base", Buckets: []domain.AssumptionBucket{workingBucket()}}
	accounts := []domain.Account{
		{ID: "a1", Name: "Everyday", Type: domain.AccountTypeChecking, Balance: decimal.NewFromInt(5000), Status: domain.AccountStatusActive},
		{ID: "a2", Name: "Old savings", Type: domain.AccountTypeSavings, Balance: decimal.NewFromInt(99999), Status: domain.AccountStatusClosed},
	}

	result, err := pe.Project(context.Background(), scenario, profile, accounts, 2025, 2025)
	require.NoError(t, err)
	assert.True(t, result.Years[0].Balances.ByType.Savings.IsZero())
}

func TestProjectInflationCompoundsFromWindowStart(t *testing.T) {
	pe := fixedEngine()
	profile := profileAged(50)
	bucket := workingBucket()
	bucket.InflationRate = decimal.NewFromInt(3)
	bucket.InvestmentReturnRate = decimal.Zero
	scenario := &domain.Scenario{Name: "inflation", Buckets: []domain.AssumptionBucket{bucket}}

	result, err := pe.Project(context.Background(), scenario, profile, nil, 2025, 2027)
	require.NoError(t, err)
	require.Len(t, result.Years, 3)

	base := decimal.NewFromInt(100000)
	factor := decimal.NewFromFloat(1.03)
	assert.True(t, result.Years[0].Income.Employment.Equal(base))
	assert.True(t, result.Years[1].Income.Employment.Equal(base.Mul(factor)))
	assert.True(t, result.Years[2].Income.Employment.Equal(base.Mul(factor).Mul(factor)))
}

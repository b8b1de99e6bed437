package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/nestegg/nestegg/internal/domain"
	"github.com/nestegg/nestegg/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// MaxProjectionSpan caps the number of years between start and end, bounding
// worst-case work for pathological inputs.
const MaxProjectionSpan = 100

// ProjectionEngine simulates account balances forward year by year. It is a
// pure computation: it performs no I/O, never mutates its arguments, and is
// safe to invoke concurrently.
type ProjectionEngine struct {
	// Now supplies the reference date for age calculations. Age is anchored
	// to the real current age at the moment of calculation, not to the
	// projection's start year; tests override Now for determinism.
	Now    func() time.Time
	Logger Logger
}

// NewProjectionEngine creates a projection engine with the wall clock and a
// no-op logger.
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{
		Now:    time.Now,
		Logger: NopLogger{},
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op
// logger is used.
func (pe *ProjectionEngine) SetLogger(l Logger) {
	if l == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = l
}

// Project simulates the scenario from startYear through endYear inclusive and
// returns one AnnualProjection per covered year plus a summary. Structural
// precondition violations return an error before any computation; a year whose
// age falls outside every assumption bucket is omitted from the output.
func (pe *ProjectionEngine) Project(ctx context.Context, scenario *domain.Scenario, profile *domain.UserProfile, accounts []domain.Account, startYear, endYear int) (*domain.ProjectionResult, error) {
	if scenario == nil || len(scenario.Buckets) == 0 {
		return nil, fmt.Errorf("scenario has no assumption buckets")
	}
	if startYear > endYear {
		return nil, fmt.Errorf("start year %d is after end year %d", startYear, endYear)
	}
	if endYear-startYear > MaxProjectionSpan {
		return nil, fmt.Errorf("projection spans %d years, exceeding the %d-year limit", endYear-startYear, MaxProjectionSpan)
	}

	now := pe.Now()
	referenceAge := profile.Age(now)
	referenceYear := now.Year()

	balances := domain.AggregateBalances(accounts)

	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)

	years := make([]domain.AnnualProjection, 0, endYear-startYear+1)
	for year := startYear; year <= endYear; year++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		age := dateutil.AgeInYear(referenceAge, referenceYear, year)

		bucket, ok := ResolveBucket(scenario.Buckets, age)
		if !ok {
			pe.Logger.Warnf("no assumption bucket covers age %d; skipping year %d", age, year)
			continue
		}

		// Inflation compounds from the start of the projection window, not
		// from the bucket's own start age.
		inflation := one.Add(bucket.InflationRate.Div(hundred)).Pow(decimal.NewFromInt(int64(year - startYear)))

		employment := decimal.Zero
		if age < bucket.RetirementAge {
			employment = bucket.AnnualIncome.Mul(inflation)
		}
		socialSecurity := decimal.Zero
		if age >= bucket.SocialSecurityAge {
			socialSecurity = bucket.SocialSecurityIncome.Mul(inflation)
		}
		lumpIncome, lumpExpense := lumpSumsAt(scenario.LumpSums, age)

		living := bucket.LivingExpenses.Mul(inflation)
		travel := bucket.TravelExpenses.Mul(inflation)
		healthcare := bucket.HealthcareExpenses.Mul(inflation)

		var contributions domain.TypeAmounts
		for _, t := range domain.AccountTypes {
			contributions.Set(t, bucket.Contributions.Get(t).Mul(inflation))
		}
		totalContributions := contributions.Total()

		// Growth applies uniformly to all six types at the bucket rate; cash
		// accounts inherit the scenario-wide rate as-is.
		returnRate := bucket.InvestmentReturnRate.Div(hundred)
		gains := decimal.Zero
		for _, t := range domain.AccountTypes {
			begin := balances.Get(t)
			gain := begin.Mul(returnRate)
			gains = gains.Add(gain)
			balances.Set(t, begin.Add(contributions.Get(t)).Add(gain))
		}

		rmd := decimal.Zero
		if age >= RMDStartAge {
			rmd = CalculateRMD(balances.Get(domain.AccountTypeRetirement401k), age)
			if rmd.IsPositive() {
				balances.Set(domain.AccountTypeRetirement401k, balances.Get(domain.AccountTypeRetirement401k).Sub(rmd))
			}
		}

		totalIncome := employment.Add(socialSecurity).Add(lumpIncome).Add(gains).Add(rmd)
		totalSpending := living.Add(travel).Add(healthcare).Add(lumpExpense)
		netIncome := totalIncome.Sub(totalSpending).Sub(totalContributions)

		if netIncome.IsNegative() {
			settleDeficit(&balances, netIncome.Neg())
		} else {
			balances.Add(domain.AccountTypeChecking, netIncome)
		}

		years = append(years, domain.AnnualProjection{
			Year: year,
			Age:  age,
			Income: domain.IncomeBreakdown{
				Employment:      employment,
				SocialSecurity:  socialSecurity,
				LumpSum:         lumpIncome,
				InvestmentGains: gains,
				RMD:             rmd,
				Total:           totalIncome,
			},
			Spending: domain.SpendingBreakdown{
				Living:     living,
				Travel:     travel,
				Healthcare: healthcare,
				LumpSum:    lumpExpense,
				Total:      totalSpending,
			},
			Contributions: domain.ContributionBreakdown{
				ByType: contributions,
				Total:  totalContributions,
			},
			NetIncome: netIncome,
			Balances: domain.BalanceBreakdown{
				ByType: balances,
				Total:  balances.Total(),
			},
		})
	}

	return &domain.ProjectionResult{
		ScenarioID:   scenario.ID,
		ScenarioName: scenario.Name,
		StartYear:    startYear,
		EndYear:      endYear,
		Years:        years,
		Summary:      Summarize(years),
	}, nil
}

// lumpSumsAt sums the one-time events that fire at the given age. Lump sums
// are fixed amounts; inflation never applies to them.
func lumpSumsAt(events []domain.LumpSumEvent, age int) (income, expense decimal.Decimal) {
	for _, ev := range events {
		if ev.Age != age {
			continue
		}
		switch ev.Kind {
		case domain.EventKindIncome:
			income = income.Add(ev.Amount)
		case domain.EventKindExpense:
			expense = expense.Add(ev.Amount)
		}
	}
	return income, expense
}

// settleDeficit withdraws a shortfall first from checking, then from savings.
// Once both are exhausted the remainder drives checking negative; a real
// shortfall is recorded rather than raised.
func settleDeficit(balances *domain.TypeAmounts, shortfall decimal.Decimal) {
	checking := balances.Get(domain.AccountTypeChecking)
	fromChecking := decimal.Min(decimal.Max(checking, decimal.Zero), shortfall)
	checking = checking.Sub(fromChecking)
	remaining := shortfall.Sub(fromChecking)

	savings := balances.Get(domain.AccountTypeSavings)
	fromSavings := decimal.Min(decimal.Max(savings, decimal.Zero), remaining)
	savings = savings.Sub(fromSavings)
	remaining = remaining.Sub(fromSavings)

	balances.Set(domain.AccountTypeSavings, savings)
	balances.Set(domain.AccountTypeChecking, checking.Sub(remaining))
}

// Summarize aggregates per-year results into the projection summary.
func Summarize(years []domain.AnnualProjection) domain.ProjectionSummary {
	var summary domain.ProjectionSummary
	for _, yr := range years {
		summary.TotalIncome = summary.TotalIncome.Add(yr.Income.Total)
		summary.TotalSpending = summary.TotalSpending.Add(yr.Spending.Total)
		summary.TotalContributions = summary.TotalContributions.Add(yr.Contributions.Total)
		if yr.IsDeficit() {
			summary.DeficitYears++
			if summary.FirstDeficitYear == 0 {
				summary.FirstDeficitYear = yr.Year
			}
		}
	}
	if len(years) > 0 {
		summary.FinalNetWorth = years[len(years)-1].Balances.Total
	}
	return summary
}

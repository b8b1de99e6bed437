package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/nestegg/nestegg/internal/domain"
)

// CSVExporter writes one row per projection year, with income and spending
// itemized and end-of-year balances broken out per account type.
type CSVExporter struct{}

func (c CSVExporter) Name() string { return "csv" }

func (c CSVExporter) Format(result *domain.ProjectionResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Year", "Age",
		"Employment", "SocialSecurity", "LumpSumIncome", "InvestmentGains", "RMD", "TotalIncome",
		"Living", "Travel", "Healthcare", "LumpSumExpense", "TotalSpending",
		"TotalContributions", "NetIncome",
		"Balance401k", "BalanceTraditionalIRA", "BalanceRothIRA",
		"BalanceBrokerage", "BalanceSavings", "BalanceChecking", "NetWorth",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, y := range result.Years {
		row := []string{
			strconv.Itoa(y.Year),
			strconv.Itoa(y.Age),
			y.Income.Employment.StringFixed(2),
			y.Income.SocialSecurity.StringFixed(2),
			y.Income.LumpSum.StringFixed(2),
			y.Income.InvestmentGains.StringFixed(2),
			y.Income.RMD.StringFixed(2),
			y.Income.Total.StringFixed(2),
			y.Spending.Living.StringFixed(2),
			y.Spending.Travel.StringFixed(2),
			y.Spending.Healthcare.StringFixed(2),
			y.Spending.LumpSum.StringFixed(2),
			y.Spending.Total.StringFixed(2),
			y.Contributions.Total.StringFixed(2),
			y.NetIncome.StringFixed(2),
			y.Balances.ByType.Retirement401k.StringFixed(2),
			y.Balances.ByType.TraditionalIRA.StringFixed(2),
			y.Balances.ByType.RothIRA.StringFixed(2),
			y.Balances.ByType.Brokerage.StringFixed(2),
			y.Balances.ByType.Savings.StringFixed(2),
			y.Balances.ByType.Checking.StringFixed(2),
			y.Balances.Total.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

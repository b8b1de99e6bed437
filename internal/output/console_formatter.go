package output

import (
	"bytes"
	"fmt"

	"github.com/nestegg/nestegg/internal/domain"
)

// ConsoleFormatter renders a projection as a year-by-year text table with a
// summary block at the end.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "NET WORTH PROJECTION")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Scenario: %s\n", result.ScenarioName)
	fmt.Fprintf(&buf, "Years: %d - %d\n", result.StartYear, result.EndYear)
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%-6s %-4s %14s %14s %14s %14s %16s\n",
		"Year", "Age", "Income", "Spending", "Contrib", "Net", "Net Worth")
	for _, y := range result.Years {
		marker := " "
		if y.IsDeficit() {
			marker = "!"
		}
		fmt.Fprintf(&buf, "%-6d %-4d %14s %14s %14s %13s%s %16s\n",
			y.Year, y.Age,
			FormatCurrency(y.Income.Total),
			FormatCurrency(y.Spending.Total),
			FormatCurrency(y.Contributions.Total),
			FormatCurrency(y.NetIncome), marker,
			FormatCurrency(y.Balances.Total),
		)
	}

	s := result.Summary
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "SUMMARY")
	fmt.Fprintln(&buf, "--------------------------------")
	fmt.Fprintf(&buf, "Total Income:        %s\n", FormatCurrency(s.TotalIncome))
	fmt.Fprintf(&buf, "Total Spending:      %s\n", FormatCurrency(s.TotalSpending))
	fmt.Fprintf(&buf, "Total Contributions: %s\n", FormatCurrency(s.TotalContributions))
	fmt.Fprintf(&buf, "Final Net Worth:     %s\n", FormatCurrency(s.FinalNetWorth))
	fmt.Fprintf(&buf, "Deficit Years:       %d\n", s.DeficitYears)
	if s.DeficitYears > 0 {
		fmt.Fprintf(&buf, "First Deficit Year:  %d\n", s.FirstDeficitYear)
	}
	return buf.Bytes(), nil
}

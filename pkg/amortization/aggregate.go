package amortization

import (
	"github.com/iwvelando/fifty-year-mortgage/pkg/constants"
)

// YearSummary totals one year of a schedule.
type YearSummary struct {
	Year       int     `json:"year"`
	Principal  float64 `json:"principal"`
	Interest   float64 `json:"interest"`
	EndBalance float64 `json:"endBalance"`
}

// CumulativePoint is the running total of a schedule at a year end.
type CumulativePoint struct {
	Month               int     `json:"month"`
	Year                int     `json:"year"`
	CumulativePrincipal float64 `json:"cumulativePrincipal"`
	CumulativeInterest  float64 `json:"cumulativeInterest"`
	Balance             float64 `json:"balance"`
}

// YearlySummaries groups a schedule into 12-month years. A trailing partial
// year is summarized as its own year.
func YearlySummaries(rows []Row) []YearSummary {
	if len(rows) == 0 {
		return nil
	}

	summaries := make([]YearSummary, 0, len(rows)/constants.MonthsPerYear+1)
	for start := 0; start < len(rows); start += constants.MonthsPerYear {
		end := start + constants.MonthsPerYear
		if end > len(rows) {
			end = len(rows)
		}

		summary := YearSummary{Year: start/constants.MonthsPerYear + 1}
		for _, row := range rows[start:end] {
			summary.Principal += row.Principal
			summary.Interest += row.Interest
		}
		summary.EndBalance = rows[end-1].Balance
		summaries = append(summaries, summary)
	}
	return summaries
}

// CumulativeByYear reports cumulative principal and interest at every year end.
func CumulativeByYear(rows []Row) []CumulativePoint {
	var points []CumulativePoint
	var principal, interest float64
	for _, row := range rows {
		principal += row.Principal
		interest += row.Interest
		if row.Month%constants.MonthsPerYear == 0 {
			points = append(points, CumulativePoint{
				Month:               row.Month,
				Year:                row.Month / constants.MonthsPerYear,
				CumulativePrincipal: principal,
				CumulativeInterest:  interest,
				Balance:             row.Balance,
			})
		}
	}
	return points
}

// Sample keeps every n-th month of a schedule, e.g. every 6 months for charts.
func Sample(rows []Row, every int) []Row {
	if every <= 1 {
		return rows
	}
	sampled := make([]Row, 0, len(rows)/every)
	for _, row := range rows {
		if row.Month%every == 0 {
			sampled = append(sampled, row)
		}
	}
	return sampled
}

package output

import (
	"fmt"
	"io"

	"github.com/iwvelando/fifty-year-mortgage/pkg/amortization"
	"github.com/iwvelando/fifty-year-mortgage/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettySummary outputs the payment summary for one term.
func PrettySummary(w io.Writer, in amortization.Inputs, result amortization.Result) {
	p := message.NewPrinter(language.English)

	_, _ = fmt.Fprintf(w, "--- %d-year fixed mortgage ---\n", result.TermYears)
	_, _ = p.Fprintf(w, "Home price          | $%.2f\n", in.HomePrice)
	_, _ = p.Fprintf(w, "Down payment        | $%.2f (%s)\n", in.DownPayment, format.Percent(in.DownPaymentPercent()))
	_, _ = p.Fprintf(w, "Loan amount         | $%.2f\n", result.Principal)
	_, _ = fmt.Fprintf(w, "Interest rate       | %.3f%%\n", in.AnnualRatePercent)
	_, _ = fmt.Fprintf(w, "Monthly P&I         | %s\n", format.Currency(result.MonthlyPayment))
	if result.PITIMonthly != result.MonthlyPayment {
		_, _ = fmt.Fprintf(w, "  Property tax      | %s\n", format.Currency(result.TaxMonthly))
		_, _ = fmt.Fprintf(w, "  Insurance         | %s\n", format.Currency(result.InsuranceMonthly))
		_, _ = fmt.Fprintf(w, "  HOA               | %s\n", format.Currency(result.HOAMonthly))
		_, _ = fmt.Fprintf(w, "  PMI               | %s\n", format.Currency(result.PMIMonthly))
		_, _ = fmt.Fprintf(w, "Monthly total       | %s\n", format.Currency(result.PITIMonthly))
	}
	_, _ = fmt.Fprintf(w, "Total of payments   | %s\n", format.WholeCurrency(result.TotalPayment))
	_, _ = fmt.Fprintf(w, "Total interest      | %s (%s of payments)\n",
		format.WholeCurrency(result.TotalInterest), format.Percent(result.InterestShare()))
	if result.ClosingCosts > 0 {
		_, _ = fmt.Fprintf(w, "Closing costs       | %s\n", format.WholeCurrency(result.ClosingCosts))
		_, _ = fmt.Fprintf(w, "Total with closing  | %s\n", format.WholeCurrency(result.TotalCostWithClosing))
	}
}

// PrettyComparison outputs one line per term followed by the difference
// between two of them when diff is set.
func PrettyComparison(w io.Writer, results []amortization.TermResult, diff *amortization.Difference) {
	_, _ = fmt.Fprintf(w, "Term | Monthly P&I   | Monthly total | Total interest | Total paid\n")
	_, _ = fmt.Fprintf(w, "____ | _____________ | _____________ | ______________ | __________\n")
	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%2dyr | %-13s | %-13s | %-14s | %s\n",
			r.TermYears,
			format.Currency(r.Result.MonthlyPayment),
			format.Currency(r.Result.PITIMonthly),
			format.WholeCurrency(r.Result.TotalInterest),
			format.WholeCurrency(r.Result.TotalPayment),
		)
	}

	if diff == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "\n%d-year vs %d-year: saves %s per month, costs %s more in interest\n",
		diff.AlternateTermYears, diff.BaseTermYears,
		format.Currency(diff.MonthlySavings), format.WholeCurrency(diff.ExtraInterest))
}

// PrettyEquity outputs equity milestones for two terms side by side.
func PrettyEquity(w io.Writer, milestones []amortization.Milestone, baseTerm, alternateTerm int) {
	_, _ = fmt.Fprintf(w, "Year | %dyr equity    | %dyr equity    | Advantage\n", baseTerm, alternateTerm)
	_, _ = fmt.Fprintf(w, "____ | ______________ | ______________ | _________\n")
	for _, m := range milestones {
		_, _ = fmt.Fprintf(w, "%4d | %-14s | %-14s | %s\n",
			m.Year,
			format.WholeCurrency(m.Base.Equity),
			format.WholeCurrency(m.Alternate.Equity),
			format.WholeCurrency(m.Advantage),
		)
	}
}

// PrettySchedule outputs the monthly schedule.
func PrettySchedule(w io.Writer, rows []amortization.Row) {
	_, _ = fmt.Fprintf(w, "Month | Payment     | Principal   | Interest    | Balance\n")
	_, _ = fmt.Fprintf(w, "_____ | ___________ | ___________ | ___________ | _______\n")
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%5d | %-11s | %-11s | %-11s | %s\n",
			row.Month,
			format.Currency(row.Payment),
			format.Currency(row.Principal),
			format.Currency(row.Interest),
			format.Currency(row.Balance),
		)
	}
}

// PrettyYearly outputs one line per year of a schedule.
func PrettyYearly(w io.Writer, summaries []amortization.YearSummary) {
	_, _ = fmt.Fprintf(w, "Year | Principal   | Interest    | End balance\n")
	_, _ = fmt.Fprintf(w, "____ | ___________ | ___________ | ___________\n")
	for _, s := range summaries {
		_, _ = fmt.Fprintf(w, "%4d | %-11s | %-11s | %s\n",
			s.Year,
			format.WholeCurrency(s.Principal),
			format.WholeCurrency(s.Interest),
			format.WholeCurrency(s.EndBalance),
		)
	}
}

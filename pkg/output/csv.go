// Package output renders calculation results as CSV and human-readable tables.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/fifty-year-mortgage/pkg/amortization"
	"github.com/shopspring/decimal"
)

// ScheduleCSVHeader is the first line of every exported schedule.
const ScheduleCSVHeader = "Month,Payment,Principal,Interest,Balance"

// CSVContentType is the media type served for schedule exports.
const CSVContentType = "text/csv; charset=utf-8"

// WriteScheduleCSV writes the schedule with one line per period. Lines are
// separated by "\n" and currency fields carry two decimals.
func WriteScheduleCSV(w io.Writer, rows []amortization.Row) error {
	if _, err := io.WriteString(w, ScheduleCSVHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, row := range rows {
		line := strings.Join([]string{
			strconv.Itoa(row.Month),
			fixed(row.Payment),
			fixed(row.Principal),
			fixed(row.Interest),
			fixed(row.Balance),
		}, ",")
		if _, err := io.WriteString(w, "\n"+line); err != nil {
			return fmt.Errorf("writing CSV row for month %d: %w", row.Month, err)
		}
	}
	return nil
}

// ScheduleCSV returns the schedule as CSV text.
func ScheduleCSV(rows []amortization.Row) string {
	var b strings.Builder
	_ = WriteScheduleCSV(&b, rows)
	return b.String()
}

// ComparisonCSVHeader is the first line of a term comparison export.
const ComparisonCSVHeader = "Term,MonthlyPayment,MonthlyTotal,TotalInterest,TotalPayment"

// WriteComparisonCSV writes one line per compared term.
func WriteComparisonCSV(w io.Writer, results []amortization.TermResult) error {
	if _, err := io.WriteString(w, ComparisonCSVHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range results {
		line := strings.Join([]string{
			strconv.Itoa(r.TermYears),
			fixed(r.Result.MonthlyPayment),
			fixed(r.Result.PITIMonthly),
			fixed(r.Result.TotalInterest),
			fixed(r.Result.TotalPayment),
		}, ",")
		if _, err := io.WriteString(w, "\n"+line); err != nil {
			return fmt.Errorf("writing CSV row for %d-year term: %w", r.TermYears, err)
		}
	}
	return nil
}

// EquityCSVHeader is the first line of an equity milestone export.
const EquityCSVHeader = "Year,BaseBalance,BaseEquity,AlternateBalance,AlternateEquity,Advantage"

// WriteEquityCSV writes one line per milestone year.
func WriteEquityCSV(w io.Writer, milestones []amortization.Milestone) error {
	if _, err := io.WriteString(w, EquityCSVHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, m := range milestones {
		line := strings.Join([]string{
			strconv.Itoa(m.Year),
			fixed(m.Base.Balance),
			fixed(m.Base.Equity),
			fixed(m.Alternate.Balance),
			fixed(m.Alternate.Equity),
			fixed(m.Advantage),
		}, ",")
		if _, err := io.WriteString(w, "\n"+line); err != nil {
			return fmt.Errorf("writing CSV row for year %d: %w", m.Year, err)
		}
	}
	return nil
}

// CSVFilename names an exported schedule, e.g. "amortization_50yr_400000.csv".
func CSVFilename(termYears int, homePrice float64) string {
	return fmt.Sprintf("amortization_%dyr_%s.csv", termYears, strconv.FormatFloat(homePrice, 'f', -1, 64))
}

// fixed rounds half away from zero on the shortest decimal form of v, so 1.005
// renders as 1.01 and negative values that round to zero render as 0.00.
func fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

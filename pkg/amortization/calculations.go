// Package amortization computes fixed-rate mortgage payments, amortization
// schedules and the summaries derived from them.
//
// Every function in this package is a pure computation over its arguments. A
// caller is expected to recompute from scratch whenever any input changes.
package amortization

import (
	"math"

	"github.com/iwvelando/fifty-year-mortgage/pkg/constants"
	"github.com/iwvelando/fifty-year-mortgage/pkg/mathutil"
)

// Row holds the values for a given payment period. Month is 1-indexed.
type Row struct {
	Month     int     `json:"month"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// MonthlyRate converts an annual percentage rate (e.g. 6.5) into a periodic monthly rate.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// MonthlyPayment calculates the fixed monthly payment for a loan using the
// standard annuity formula. A zero rate amortizes in a straight line.
// Non-positive principal or payment counts yield 0.
func MonthlyPayment(principal, monthlyRate float64, numberOfPayments int) float64 {
	if principal <= 0 || numberOfPayments < 1 {
		return 0
	}
	if monthlyRate == 0 {
		return principal / float64(numberOfPayments)
	}

	power := math.Pow(1+monthlyRate, float64(numberOfPayments))
	return principal * monthlyRate * power / (power - 1)
}

// InterestPortion calculates the interest owed for one period on a balance.
func InterestPortion(balance, monthlyRate float64) float64 {
	return balance * monthlyRate
}

// GenerateSchedule produces exactly numberOfPayments rows. Each row depends on
// the balance left by the previous one; the balance is clamped at zero.
func GenerateSchedule(principal, monthlyRate float64, numberOfPayments int, payment float64) []Row {
	if numberOfPayments < 1 {
		return nil
	}

	schedule := make([]Row, 0, numberOfPayments)
	balance := principal
	for month := 1; month <= numberOfPayments; month++ {
		interest := InterestPortion(balance, monthlyRate)
		principalPortion := payment - interest
		balance = math.Max(0, balance-principalPortion)

		schedule = append(schedule, Row{
			Month:     month,
			Payment:   payment,
			Principal: principalPortion,
			Interest:  interest,
			Balance:   balance,
		})
	}

	return schedule
}

// OutstandingBalance returns the balance left after periodsElapsed payments
// without generating the schedule:
//
//	balance = P(1+r)^k - payment((1+r)^k - 1)/r,  k = min(periodsElapsed, n)
//
// Results that are not finite or fall below one cent are reported as 0, which
// matches where the iterative schedule ends up.
func OutstandingBalance(principal, monthlyRate, payment float64, numberOfPayments, periodsElapsed int) float64 {
	k := periodsElapsed
	if k > numberOfPayments {
		k = numberOfPayments
	}
	if k <= 0 {
		return principal
	}

	var balance float64
	if monthlyRate == 0 {
		balance = principal - payment*float64(k)
	} else {
		power := math.Pow(1+monthlyRate, float64(k))
		balance = principal*power - payment*((power-1)/monthlyRate)
	}

	if !mathutil.IsFinite(balance) || balance < constants.CurrencyTolerance {
		return 0
	}
	return balance
}

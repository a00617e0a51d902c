package amortization

import (
	"errors"
	"math"

	"github.com/iwvelando/fifty-year-mortgage/pkg/constants"
)

// Input validation failures. A calculation that fails validation has no
// result; callers show an empty state instead of numbers.
var (
	ErrInvalidPrice           = errors.New("home price must be greater than zero")
	ErrInvalidRate            = errors.New("interest rate must be greater than zero")
	ErrInvalidTerm            = errors.New("loan term is out of range")
	ErrInvalidDownPayment     = errors.New("down payment must not be negative")
	ErrInvalidCost            = errors.New("cost add-ons must not be negative")
	ErrDegenerateAmortization = errors.New("down payment covers the full home price")
	ErrNonFinite              = errors.New("calculation produced a non-finite amount")
)

// Inputs is the full set of calculator inputs for one calculation.
type Inputs struct {
	HomePrice              float64 `json:"homePrice" mapstructure:"homePrice"`
	DownPayment            float64 `json:"downPayment" mapstructure:"downPayment"`
	AnnualRatePercent      float64 `json:"interestRate" mapstructure:"interestRate"`
	TermYears              int     `json:"termYears" mapstructure:"termYears"`
	PropertyTaxRatePercent float64 `json:"propertyTaxRate" mapstructure:"propertyTaxRate"`
	HomeInsuranceAnnual    float64 `json:"homeInsuranceAnnual" mapstructure:"homeInsuranceAnnual"`
	HOAMonthly             float64 `json:"hoaMonthly" mapstructure:"hoaMonthly"`
	PMIRatePercent         float64 `json:"pmiRate" mapstructure:"pmiRate"`
	ClosingCosts           float64 `json:"closingCosts" mapstructure:"closingCosts"`
}

// Principal is the amount borrowed.
func (in Inputs) Principal() float64 {
	return in.HomePrice - in.DownPayment
}

// LoanToValue is the borrowed fraction of the home price.
func (in Inputs) LoanToValue() float64 {
	if in.HomePrice <= 0 {
		return 0
	}
	return in.Principal() / in.HomePrice
}

// MonthlyRate is the periodic rate derived from the annual percentage.
func (in Inputs) MonthlyRate() float64 {
	return MonthlyRate(in.AnnualRatePercent)
}

// NumberOfPayments is the term expressed in months.
func (in Inputs) NumberOfPayments() int {
	return in.TermYears * constants.MonthsPerYear
}

// WithTerm returns a copy of the inputs with a different term.
func (in Inputs) WithTerm(termYears int) Inputs {
	in.TermYears = termYears
	return in
}

// DownPaymentPercent is the down payment as a percentage of the home price.
func (in Inputs) DownPaymentPercent() float64 {
	if in.HomePrice <= 0 {
		return 0
	}
	return in.DownPayment / in.HomePrice * constants.PercentageMultiplier
}

func validate(in Inputs, allowZeroRate bool) error {
	if math.IsNaN(in.HomePrice) || math.IsInf(in.HomePrice, 0) || in.HomePrice <= 0 {
		return ErrInvalidPrice
	}

	rate := in.AnnualRatePercent
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 || (rate == 0 && !allowZeroRate) {
		return ErrInvalidRate
	}

	if in.TermYears < 1 || in.TermYears > constants.MaxTermYears {
		return ErrInvalidTerm
	}

	if math.IsNaN(in.DownPayment) || in.DownPayment < 0 {
		return ErrInvalidDownPayment
	}

	for _, cost := range []float64{in.PropertyTaxRatePercent, in.HomeInsuranceAnnual, in.HOAMonthly, in.PMIRatePercent, in.ClosingCosts} {
		if math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0 {
			return ErrInvalidCost
		}
	}

	if in.Principal() <= 0 {
		return ErrDegenerateAmortization
	}
	return nil
}

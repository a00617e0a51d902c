package amortization

import (
	"fmt"

	"github.com/iwvelando/fifty-year-mortgage/pkg/constants"
	"github.com/iwvelando/fifty-year-mortgage/pkg/mathutil"
	"go.uber.org/zap"
)

// Result summarizes a full calculation for one term.
type Result struct {
	TermYears            int     `json:"termYears"`
	Principal            float64 `json:"principal"`
	LoanToValue          float64 `json:"loanToValue"`
	MonthlyPayment       float64 `json:"monthlyPayment"` // principal and interest only
	TotalPayment         float64 `json:"totalPayment"`
	TotalInterest        float64 `json:"totalInterest"`
	TaxMonthly           float64 `json:"taxMonthly"`
	InsuranceMonthly     float64 `json:"insuranceMonthly"`
	HOAMonthly           float64 `json:"hoaMonthly"`
	PMIMonthly           float64 `json:"pmiMonthly"`
	PITIMonthly          float64 `json:"pitiMonthly"`
	ClosingCosts         float64 `json:"closingCosts"`
	TotalCostWithClosing float64 `json:"totalCostWithClosing"`
}

// PrincipalShare is the percentage of all payments that repays principal.
func (r Result) PrincipalShare() float64 {
	return mathutil.CalculatePercentage(r.Principal, r.TotalPayment)
}

// InterestShare is the percentage of all payments that goes to interest.
func (r Result) InterestShare() float64 {
	return mathutil.CalculatePercentage(r.TotalInterest, r.TotalPayment)
}

// Calculation is a summary together with its full schedule.
type Calculation struct {
	Result   Result `json:"result"`
	Schedule []Row  `json:"schedule"`
}

// TermResult pairs a requested term with its summary.
type TermResult struct {
	TermYears int    `json:"termYears"`
	Result    Result `json:"result"`
}

// Difference compares a shorter-term result against a longer-term one.
type Difference struct {
	MonthlySavings     float64 `json:"monthlySavings"`
	ExtraInterest      float64 `json:"extraInterest"`
	ExtraTotalPayment  float64 `json:"extraTotalPayment"`
	BaseTermYears      int     `json:"baseTermYears"`
	AlternateTermYears int     `json:"alternateTermYears"`
}

// Options tune input acceptance.
type Options struct {
	// AllowZeroRate accepts an interest rate of exactly 0% and amortizes it in
	// a straight line. When false a 0% rate is treated as not entered.
	AllowZeroRate bool
}

// Calculator validates inputs and produces summaries, schedules, comparisons
// and equity projections.
type Calculator struct {
	logger *zap.Logger
	opts   Options
}

// NewCalculator creates a new calculator instance.
func NewCalculator(logger *zap.Logger, opts Options) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger, opts: opts}
}

// Options returns the options the calculator was built with.
func (c *Calculator) Options() Options {
	return c.opts
}

// Validate reports why inputs cannot produce a result, or nil.
func (c *Calculator) Validate(in Inputs) error {
	return validate(in, c.opts.AllowZeroRate)
}

// Summarize computes the payment summary for the inputs. Invalid inputs yield
// a nil result and one of the package's validation errors.
func (c *Calculator) Summarize(in Inputs) (*Result, error) {
	if err := c.Validate(in); err != nil {
		c.logger.Debug("rejecting calculator inputs",
			zap.String("op", "amortization.Summarize"),
			zap.Float64("homePrice", in.HomePrice),
			zap.Float64("interestRate", in.AnnualRatePercent),
			zap.Int("termYears", in.TermYears),
			zap.Error(err),
		)
		return nil, err
	}

	principal := in.Principal()
	n := in.NumberOfPayments()
	payment := MonthlyPayment(principal, in.MonthlyRate(), n)
	if !mathutil.IsFinite(payment) || payment <= 0 {
		c.logger.Warn("monthly payment is not finite",
			zap.String("op", "amortization.Summarize"),
			zap.Float64("payment", payment),
		)
		return nil, ErrNonFinite
	}

	result := &Result{
		TermYears:        in.TermYears,
		Principal:        principal,
		LoanToValue:      in.LoanToValue(),
		MonthlyPayment:   payment,
		TotalPayment:     payment * float64(n),
		TaxMonthly:       mathutil.ApplyPercentage(in.HomePrice, in.PropertyTaxRatePercent) / constants.MonthsPerYear,
		InsuranceMonthly: in.HomeInsuranceAnnual / constants.MonthsPerYear,
		HOAMonthly:       in.HOAMonthly,
		PMIMonthly:       PMIMonthly(in),
		ClosingCosts:     in.ClosingCosts,
	}
	result.TotalInterest = result.TotalPayment - principal
	result.PITIMonthly = result.MonthlyPayment + result.TaxMonthly + result.InsuranceMonthly + result.HOAMonthly + result.PMIMonthly
	result.TotalCostWithClosing = result.TotalPayment + result.ClosingCosts

	if !result.finite() {
		c.logger.Warn("payment totals are not finite",
			zap.String("op", "amortization.Summarize"),
			zap.Float64("payment", payment),
			zap.Float64("totalPayment", result.TotalPayment),
			zap.Float64("pitiMonthly", result.PITIMonthly),
		)
		return nil, ErrNonFinite
	}

	return result, nil
}

// finite reports whether every monetary figure of the result is a real number.
func (r *Result) finite() bool {
	for _, v := range []float64{
		r.Principal, r.LoanToValue, r.MonthlyPayment, r.TotalPayment, r.TotalInterest,
		r.TaxMonthly, r.InsuranceMonthly, r.HOAMonthly, r.PMIMonthly, r.PITIMonthly,
		r.ClosingCosts, r.TotalCostWithClosing,
	} {
		if !mathutil.IsFinite(v) {
			return false
		}
	}
	return true
}

// Calculate computes the summary and the full schedule for the inputs.
func (c *Calculator) Calculate(in Inputs) (*Calculation, error) {
	result, err := c.Summarize(in)
	if err != nil {
		return nil, err
	}

	schedule := GenerateSchedule(result.Principal, in.MonthlyRate(), in.NumberOfPayments(), result.MonthlyPayment)
	c.logger.Debug(fmt.Sprintf("generated %d-month schedule", len(schedule)),
		zap.String("op", "amortization.Calculate"),
	)
	return &Calculation{Result: *result, Schedule: schedule}, nil
}

// CompareTerms summarizes the inputs once per requested term, holding every
// other input fixed. Terms that cannot be computed are left out, so invalid
// base inputs produce an empty slice.
func (c *Calculator) CompareTerms(in Inputs, terms []int) []TermResult {
	results := make([]TermResult, 0, len(terms))
	for _, term := range terms {
		result, err := c.Summarize(in.WithTerm(term))
		if err != nil {
			continue
		}
		results = append(results, TermResult{TermYears: term, Result: *result})
	}
	return results
}

// FindTerm returns the result for the given term, if present.
func FindTerm(results []TermResult, termYears int) (Result, bool) {
	for _, r := range results {
		if r.TermYears == termYears {
			return r.Result, true
		}
	}
	return Result{}, false
}

// Compare reports how an alternate (usually longer) term differs from a base term.
// MonthlySavings is positive when the alternate has the lower payment.
func Compare(base, alternate Result) Difference {
	return Difference{
		MonthlySavings:     base.MonthlyPayment - alternate.MonthlyPayment,
		ExtraInterest:      alternate.TotalInterest - base.TotalInterest,
		ExtraTotalPayment:  alternate.TotalPayment - base.TotalPayment,
		BaseTermYears:      base.TermYears,
		AlternateTermYears: alternate.TermYears,
	}
}

// PMIMonthly returns the monthly private mortgage insurance, which only applies
// when more than 80% of the home price is borrowed.
func PMIMonthly(in Inputs) float64 {
	if in.PMIRatePercent <= 0 || in.LoanToValue() <= constants.PMILoanToValueThreshold {
		return 0
	}
	return mathutil.ApplyPercentage(in.Principal(), in.PMIRatePercent) / constants.MonthsPerYear
}

var defaultCalculator = NewCalculator(nil, Options{})

// Summarize computes a summary with the default options.
func Summarize(in Inputs) (*Result, error) {
	return defaultCalculator.Summarize(in)
}

// Calculate computes a summary and schedule with the default options.
func Calculate(in Inputs) (*Calculation, error) {
	return defaultCalculator.Calculate(in)
}

// CompareTerms compares terms with the default options.
func CompareTerms(in Inputs, terms []int) []TermResult {
	return defaultCalculator.CompareTerms(in, terms)
}

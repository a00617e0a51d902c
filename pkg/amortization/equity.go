package amortization

import (
	"github.com/iwvelando/fifty-year-mortgage/pkg/constants"
)

// Equity is the position of a loan after a number of years.
type Equity struct {
	Year          int     `json:"year"`
	Balance       float64 `json:"balance"`
	Equity        float64 `json:"equity"`
	PrincipalPaid float64 `json:"principalPaid"`
	InterestPaid  float64 `json:"interestPaid"`
}

// Milestone compares equity between two terms at one year.
type Milestone struct {
	Year      int     `json:"year"`
	Base      Equity  `json:"base"`
	Alternate Equity  `json:"alternate"`
	Advantage float64 `json:"advantage"` // base equity minus alternate equity
}

// EquityAtYear projects equity after the given number of years using the
// closed-form balance. Years past the term report the paid-off position.
func (c *Calculator) EquityAtYear(in Inputs, year int) (Equity, error) {
	result, err := c.Summarize(in)
	if err != nil {
		return Equity{}, err
	}
	return equityAt(in, *result, year), nil
}

// EquityMilestones projects equity for a base and an alternate term at each of
// the given years.
func (c *Calculator) EquityMilestones(in Inputs, baseTerm, alternateTerm int, years []int) ([]Milestone, error) {
	base, err := c.Summarize(in.WithTerm(baseTerm))
	if err != nil {
		return nil, err
	}
	alternate, err := c.Summarize(in.WithTerm(alternateTerm))
	if err != nil {
		return nil, err
	}

	milestones := make([]Milestone, 0, len(years))
	for _, year := range years {
		b := equityAt(in.WithTerm(baseTerm), *base, year)
		a := equityAt(in.WithTerm(alternateTerm), *alternate, year)
		milestones = append(milestones, Milestone{
			Year:      year,
			Base:      b,
			Alternate: a,
			Advantage: b.Equity - a.Equity,
		})
	}
	return milestones, nil
}

func equityAt(in Inputs, result Result, year int) Equity {
	n := in.NumberOfPayments()
	k := year * constants.MonthsPerYear
	if k > n {
		k = n
	}
	if k < 0 {
		k = 0
	}

	balance := OutstandingBalance(result.Principal, in.MonthlyRate(), result.MonthlyPayment, n, k)
	principalPaid := result.Principal - balance
	return Equity{
		Year:          year,
		Balance:       balance,
		Equity:        in.HomePrice - balance,
		PrincipalPaid: principalPaid,
		InterestPaid:  result.MonthlyPayment*float64(k) - principalPaid,
	}
}

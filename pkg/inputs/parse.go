// Package inputs turns free-text calculator fields and shared URL query
// parameters into amortization inputs.
package inputs

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/fifty-year-mortgage/pkg/amortization"
	"github.com/iwvelando/fifty-year-mortgage/pkg/mathutil"
)

// Fields holds the raw text of each calculator field as a user typed it.
type Fields struct {
	HomePrice       string `json:"homePrice"`
	DownPayment     string `json:"downPayment"`
	InterestRate    string `json:"interestRate"`
	PropertyTaxRate string `json:"propertyTaxRate"`
	HomeInsurance   string `json:"homeInsurance"`
	HOA             string `json:"hoa"`
	PMIRate         string `json:"pmiRate"`
	ClosingCosts    string `json:"closingCosts"`
}

// Inputs converts the fields into calculator inputs for the given term. Empty
// or unparseable fields become 0; rejecting the calculation as a whole is left
// to the calculator.
func (f Fields) Inputs(termYears int) amortization.Inputs {
	return amortization.Inputs{
		HomePrice:              ParseNumber(f.HomePrice),
		DownPayment:            ParseNumber(f.DownPayment),
		AnnualRatePercent:      ParseNumber(f.InterestRate),
		TermYears:              termYears,
		PropertyTaxRatePercent: ParseNumber(f.PropertyTaxRate),
		HomeInsuranceAnnual:    ParseNumber(f.HomeInsurance),
		HOAMonthly:             ParseNumber(f.HOA),
		PMIRatePercent:         ParseNumber(f.PMIRate),
		ClosingCosts:           ParseNumber(f.ClosingCosts),
	}
}

// ParseNumber reads the longest decimal number at the start of s, after any
// leading whitespace, and ignores the rest. "1500abc" is 1500, "1,000" is 1
// and ".5" is 0.5. Anything that yields no number, or a value that is not
// finite, is 0.
func ParseNumber(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	prefix := numericPrefix(s)
	if prefix == "" {
		return 0
	}

	value, err := strconv.ParseFloat(prefix, 64)
	if err != nil || !mathutil.IsFinite(value) || value == 0 {
		return 0
	}
	return value
}

// ParseInt reads a whole number the same way as ParseNumber, truncating any
// fraction.
func ParseInt(s string) int {
	value := ParseNumber(s)
	if value >= float64(maxInt) || value <= float64(-maxInt) {
		return 0
	}
	return int(value)
}

const maxInt = int(^uint(0) >> 1)

// numericPrefix returns the part of s matching
// [+-]? (digits [. digits?] | . digits) ([eE] [+-]? digits)?
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	intDigits := countDigits(s[i:])
	i += intDigits

	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		fracDigits = countDigits(s[i+1:])
		if intDigits > 0 || fracDigits > 0 {
			i += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return ""
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if expDigits := countDigits(s[j:]); expDigits > 0 {
			i = j + expDigits
		}
	}
	return s[:i]
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

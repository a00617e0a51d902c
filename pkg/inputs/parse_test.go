package inputs

import (
	"testing"

	"github.com/iwvelando/fifty-year-mortgage/pkg/amortization"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"300000", 300000},
		{"  6.5", 6.5},
		{"\t\n1200", 1200},
		{"1500abc", 1500},
		{"1,000", 1},
		{".5", 0.5},
		{"5.", 5},
		{"-12.25", -12.25},
		{"+3", 3},
		{"1e3", 1000},
		{"2.5E-1", 0.25},
		{"1e", 1},
		{"1e+", 1},
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{".", 0},
		{"-", 0},
		{"$300000", 0},
		{"-0", 0},
		{"1e999", 0},
		{"NaN", 0},
		{"Infinity", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseNumber(tt.input); got != tt.expected {
				t.Errorf("ParseNumber(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"50", 50},
		{"30.9", 30},
		{"15yr", 15},
		{"", 0},
		{"1e30", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseInt(tt.input); got != tt.expected {
				t.Errorf("ParseInt(%q) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFieldsInputs(t *testing.T) {
	fields := Fields{
		HomePrice:       "400000",
		DownPayment:     "80000",
		InterestRate:    "6.5%",
		PropertyTaxRate: "",
		HomeInsurance:   "1,500",
		HOA:             "abc",
		PMIRate:         ".5",
		ClosingCosts:    " 9000 ",
	}

	expected := amortization.Inputs{
		HomePrice:              400000,
		DownPayment:            80000,
		AnnualRatePercent:      6.5,
		TermYears:              50,
		PropertyTaxRatePercent: 0,
		HomeInsuranceAnnual:    1,
		HOAMonthly:             0,
		PMIRatePercent:         0.5,
		ClosingCosts:           9000,
	}

	if got := fields.Inputs(50); got != expected {
		t.Errorf("Fields.Inputs() = %+v, expected %+v", got, expected)
	}
}

func TestEmptyFieldsHaveNoResult(t *testing.T) {
	in := Fields{}.Inputs(30)
	if result, err := amortization.Summarize(in); result != nil || err == nil {
		t.Errorf("Summarize() of empty fields = %+v, %v; expected no result", result, err)
	}
}

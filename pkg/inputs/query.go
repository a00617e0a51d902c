package inputs

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/iwvelando/fifty-year-mortgage/pkg/amortization"
)

// Query parameter names used in share links.
const (
	ParamPrice     = "price"
	ParamDown      = "down"
	ParamRate      = "rate"
	ParamTerm      = "term"
	ParamTax       = "tax"
	ParamInsurance = "ins"
	ParamHOA       = "hoa"
	ParamPMI       = "pmi"
	ParamClosing   = "close"
)

// ErrInvalidBaseURL is returned when a share link cannot be built on the base URL.
var ErrInvalidBaseURL = errors.New("share base URL must be an absolute http(s) URL")

// Encode writes inputs as share link parameters. Price, down payment, rate and
// term are always written; optional cost add-ons are written only when set.
func Encode(in amortization.Inputs) url.Values {
	values := url.Values{}
	values.Set(ParamPrice, formatNumber(in.HomePrice))
	values.Set(ParamDown, formatNumber(in.DownPayment))
	values.Set(ParamRate, formatNumber(in.AnnualRatePercent))
	values.Set(ParamTerm, strconv.Itoa(in.TermYears))

	optional := []struct {
		key   string
		value float64
	}{
		{ParamTax, in.PropertyTaxRatePercent},
		{ParamInsurance, in.HomeInsuranceAnnual},
		{ParamHOA, in.HOAMonthly},
		{ParamPMI, in.PMIRatePercent},
		{ParamClosing, in.ClosingCosts},
	}
	for _, o := range optional {
		if o.value != 0 {
			values.Set(o.key, formatNumber(o.value))
		}
	}
	return values
}

// Decode reads share link parameters. Missing parameters keep the value from
// defaults; present but unparseable parameters are 0.
func Decode(values url.Values, defaults amortization.Inputs) amortization.Inputs {
	in := defaults

	fields := []struct {
		key    string
		target *float64
	}{
		{ParamPrice, &in.HomePrice},
		{ParamDown, &in.DownPayment},
		{ParamRate, &in.AnnualRatePercent},
		{ParamTax, &in.PropertyTaxRatePercent},
		{ParamInsurance, &in.HomeInsuranceAnnual},
		{ParamHOA, &in.HOAMonthly},
		{ParamPMI, &in.PMIRatePercent},
		{ParamClosing, &in.ClosingCosts},
	}
	for _, f := range fields {
		if _, ok := values[f.key]; ok {
			*f.target = ParseNumber(values.Get(f.key))
		}
	}

	if _, ok := values[ParamTerm]; ok {
		in.TermYears = ParseInt(values.Get(ParamTerm))
	}
	return in
}

// ShareURL builds a share link for the inputs on top of base. Existing query
// parameters on base are replaced.
func ShareURL(base string, in amortization.Inputs) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing share base URL %q: %w", base, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, base)
	}

	u.RawQuery = Encode(in).Encode()
	return u.String(), nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

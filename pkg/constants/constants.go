// Package constants provides shared constants for the fifty-year-mortgage application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// PMILoanToValueThreshold is the loan-to-value ratio above which PMI applies
	PMILoanToValueThreshold = 0.80

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// MaxTermYears bounds the loan term accepted by the calculator
	MaxTermYears = 50
)

// DefaultTerms are the loan terms (years) compared side by side.
var DefaultTerms = []int{15, 20, 30, 40, 50}

// DefaultMilestoneYears are the years at which equity is projected.
var DefaultMilestoneYears = []int{5, 10, 15, 20, 25, 30, 40, 50}

// Calculator input defaults
const (
	DefaultHomePrice           = 300000.0
	DefaultDownPayment         = 60000.0
	DefaultInterestRate        = 6.5
	DefaultTermYears           = 50
	DefaultPropertyTaxRate     = 1.2
	DefaultHomeInsuranceAnnual = 1200.0
	DefaultPMIRate             = 0.5
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultCacheTTLSeconds is how long rendered charts and responses stay cached
	DefaultCacheTTLSeconds = 300

	// DefaultShareBaseURL is the page that share links point at
	DefaultShareBaseURL = "https://50yearmortgagecalculator.net/"

	// NoticeDismissedKey is the preference key for the dismissed policy notice
	NoticeDismissedKey = "importantNotice_dismissed"
)

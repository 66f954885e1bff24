// Package constants provides shared constants for the finance-calculators application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// MaxTermMonths caps any loan or investment term handed to the engine (100 years)
	MaxTermMonths = 1200
)

// Car purchase comparison constants
const (
	// HorizonYears is the length of the car purchase comparison
	HorizonYears = 7

	// HorizonMonths is HorizonYears expressed in months
	HorizonMonths = HorizonYears * MonthsPerYear

	// ShortLoanMonths is the loan term used by the pay-down-fast and delayed-investing strategies
	ShortLoanMonths = 60

	// LongLoanMonths is the loan term used by the finance-and-invest strategy
	LongLoanMonths = 84

	// MinDownPaymentPercent is the minimum down payment lenders expect on a car loan
	MinDownPaymentPercent = 15.0

	// DefaultInflationPercent is the annual inflation used for purchasing power
	DefaultInflationPercent = 6.0
)

// EMI analyzer constants
const (
	// DefaultGSTPercent is the goods and services tax charged on bank interest
	DefaultGSTPercent = 18.0

	// BreakEvenLowerBound is the lowest annual return rate searched for a break-even
	BreakEvenLowerBound = 0.0

	// BreakEvenUpperBound is the highest annual return rate searched for a break-even
	BreakEvenUpperBound = 60.0

	// BreakEvenIterations is enough bisection steps for 2-decimal convergence over the bounds
	BreakEvenIterations = 35
)

// Loan calculator constants
const (
	// TenureComparisonStepYears is the tenure offset used for loan comparisons
	TenureComparisonStepYears = 5

	// MaxTenureYears is the longest tenure offered by the loan calculator
	MaxTenureYears = 30

	// ChartPoints is the most yearly balances plotted on the loan balance chart
	ChartPoints = 12
)

// Tool names
const (
	ToolLoan = "loan"
	ToolEMI  = "emi"
	ToolCar  = "car"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultEnvFile is the optional dotenv file loaded before the configuration
	DefaultEnvFile = ".env"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodyBytes is the default maximum request body size (64 KB)
	DefaultMaxBodyBytes int64 = 64 * 1024

	// DefaultCacheEntries bounds the in-memory result cache
	DefaultCacheEntries = 1024

	// DefaultCacheTTLSeconds is how long cached results live in Redis
	DefaultCacheTTLSeconds = 3600

	// DefaultServiceName identifies traces and metrics
	DefaultServiceName = "finance-calculators"
)

// Package constants provides shared constants for the deal-calculator application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 penny)
	CurrencyTolerance = 0.01
)

// DateLayout is the format for calendar dates in requests and responses.
const DateLayout = "2006-01-02"

// Running-cost and tax assumptions. Rates are fractions.
const (
	// DefaultInsuranceCost is the flat annual landlord insurance cost
	DefaultInsuranceCost = 300.0

	// DefaultUtilityCostPerRoom is the annual utility bill per lettable room
	DefaultUtilityCostPerRoom = 1147.0

	// DefaultMaintenanceRate is the share of annual rent set aside for maintenance
	DefaultMaintenanceRate = 0.04

	// DefaultIncomeTaxRate is the flat tax applied to buy-to-let profit
	DefaultIncomeTaxRate = 0.19

	// DefaultCorporationTaxRate is the flat tax applied to flip profit
	DefaultCorporationTaxRate = 0.19

	// DefaultSellingFeeRate is the share of the resale price paid in selling fees
	DefaultSellingFeeRate = 0.04
)

// Stamp duty table names
const (
	// StampDutyTableStandard is the canonical 125,000 / 5% band table
	StampDutyTableStandard = "standard"

	// StampDutyTableLegacy is the 250,000 / 3% quick-estimate table, rounded to whole pounds
	StampDutyTableLegacy = "legacy"
)

// Form defaults applied when a percentage-based deal field is left blank. These
// are percentages or whole-pound amounts, as a user would type them.
const (
	DefaultMortgageLTVPercent  = 75.0
	DefaultMortgageRatePercent = 6.29
	DefaultBrokerFeePercent    = 1.0
	DefaultBuyersFeePercent    = 4.0
	DefaultLegalFees           = 2000.0
	DefaultSurveyCost          = 800.0
	DefaultMortgageTermYears   = 25
)

// Accepted mortgage term range in whole years.
const (
	MinMortgageTermYears = 1
	MaxMortgageTermYears = 40
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
	// DefaultConfigFile is the default deal file name
	DefaultConfigFile = "deals.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)

// Property store constants
const (
	StoreBackendMemory = "memory"
	StoreBackendSQLite = "sqlite"
	StoreBackendRedis  = "redis"

	// DefaultSQLitePath is the default database file for the sqlite backend
	DefaultSQLitePath = "data/properties.db"

	// DefaultRedisAddr is the default address for the redis backend
	DefaultRedisAddr = "localhost:6379"

	// DefaultRedisPrefix namespaces all keys written by the redis backend
	DefaultRedisPrefix = "dealcalc"
)

// EnvPrefix prefixes every environment variable read through viper.
const EnvPrefix = "DEALCALC"

package models

import "github.com/shopspring/decimal"

// Classification tags the result of a conversion run with the stage that
// decided it. Callers map classifications to exit codes.
type Classification string

const (
	ClassificationOK               Classification = "ok"
	ClassificationConfigError      Classification = "config_error"
	ClassificationParseError       Classification = "parse_error"
	ClassificationUnmappedMerchant Classification = "unmapped_merchant"
	ClassificationRowValidation    Classification = "row_validation"
	ClassificationIOError          Classification = "io_error"
)

// Outcome is the sole result of a conversion run. It is built once by the
// pipeline and not modified afterwards.
type Outcome struct {
	Succeeded         bool
	Classification    Classification
	TransactionCount  int
	TotalAmount       decimal.Decimal
	OrganizationCount int
	Warnings          []string
	Errors            []string
}

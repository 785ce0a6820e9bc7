// Package models defines the data types shared across the conversion pipeline.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column names of the transaction export, in the exact order the header must
// present them.
const (
	ColumnDate              = "Date"
	ColumnMerchant          = "Merchant"
	ColumnCategory          = "Category"
	ColumnAccount           = "Account"
	ColumnOriginalStatement = "Original Statement"
	ColumnNotes             = "Notes"
	ColumnAmount            = "Amount"
	ColumnTags              = "Tags"
	ColumnOwner             = "Owner"
)

// ExpectedColumns is the ordered header the row parser validates against.
var ExpectedColumns = []string{
	ColumnDate,
	ColumnMerchant,
	ColumnCategory,
	ColumnAccount,
	ColumnOriginalStatement,
	ColumnNotes,
	ColumnAmount,
	ColumnTags,
	ColumnOwner,
}

// RawRow is one data record of the export, untyped and trimmed, tagged with
// its 1-based physical line number (the header is line 1, so the first data
// row is line 2). RawRow values are never mutated after the parser builds them.
type RawRow struct {
	Date              string
	Merchant          string
	Category          string
	Account           string
	OriginalStatement string
	Notes             string
	Amount            string
	Tags              string
	Owner             string
	LineNumber        int
}

// ValidatedTransaction is one row with its required fields parsed into proper
// types. Amount is never zero and follows the expense sign convention:
// outflows are negative.
type ValidatedTransaction struct {
	Date       time.Time
	Payee      string
	Category   string
	Account    string
	Notes      string
	Amount     decimal.Decimal
	LineNumber int
}

// OrganizationMapping links a raw payee name to the official organization it
// should be reported as. Matching on Payee is case-insensitive and
// whitespace-trimmed; TaxID is optional.
type OrganizationMapping struct {
	Payee        string `yaml:"payee"`
	Organization string `yaml:"organization"`
	TaxID        string `yaml:"tax_id,omitempty"`
}

// ResolvedTransaction is a ValidatedTransaction joined with its organization
// mapping, ready for duplicate detection and output generation.
type ResolvedTransaction struct {
	Date         time.Time
	Organization string
	TaxID        string
	Account      string
	Amount       decimal.Decimal
	LineNumber   int
}

// DuplicateGroup reports two or more resolved transactions sharing the same
// calendar day, organization, and amount. LineNumbers is sorted ascending.
type DuplicateGroup struct {
	Date         time.Time
	Organization string
	Amount       decimal.Decimal
	LineNumbers  []int
}

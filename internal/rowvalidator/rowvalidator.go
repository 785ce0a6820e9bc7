// Package rowvalidator turns raw export rows into validated transactions.
// It parses the required date, payee and amount fields and reports every
// problem it finds on a row in one pass.
package rowvalidator

import (
	"fmt"
	"strings"
	"time"

	"monarch-txf/internal/converr"
	"monarch-txf/internal/models"

	"github.com/shopspring/decimal"
)

// Accepted date layouts. DateLayoutUS admits 1-2 digit month and day.
const (
	DateLayoutUS  = "1/2/2006"
	DateLayoutISO = "2006-01-02"
)

// Validate converts one RawRow into a ValidatedTransaction, or returns the
// complete list of field errors for that row. It never returns both.
func Validate(row models.RawRow) (models.ValidatedTransaction, []error) {
	if errs := missingFieldErrors(row); len(errs) > 0 {
		return models.ValidatedTransaction{}, errs
	}

	date, err := parseDate(row.Date)
	if err != nil {
		return models.ValidatedTransaction{}, []error{
			&converr.RowError{LineNumber: row.LineNumber, Field: "date", Msg: fmt.Sprintf("'%s' is invalid", row.Date)},
		}
	}

	amount, err := parseAmount(row.Amount)
	if err != nil {
		return models.ValidatedTransaction{}, []error{
			&converr.RowError{LineNumber: row.LineNumber, Field: "amount", Msg: err.Error()},
		}
	}

	return models.ValidatedTransaction{
		Date:       date,
		Payee:      row.Merchant,
		Category:   row.Category,
		Account:    row.Account,
		Notes:      row.Notes,
		Amount:     amount,
		LineNumber: row.LineNumber,
	}, nil
}

// missingFieldErrors reports one error per missing required field. When any
// required field is blank the row is rejected before date or amount parsing.
func missingFieldErrors(row models.RawRow) []error {
	var errs []error

	if row.Date == "" {
		errs = append(errs, &converr.RowError{LineNumber: row.LineNumber, Field: "date", Msg: "is required"})
	}
	if row.Merchant == "" {
		errs = append(errs, &converr.RowError{LineNumber: row.LineNumber, Field: "merchant", Msg: "is required"})
	}
	if row.Amount == "" {
		errs = append(errs, &converr.RowError{LineNumber: row.LineNumber, Field: "amount", Msg: "is required"})
	}

	return errs
}

// parseDate accepts M/D/YYYY or YYYY-MM-DD. time.Parse rejects out-of-range
// components outright, so a date like 02/30/2026 fails here instead of
// rolling over into March.
func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{DateLayoutUS, DateLayoutISO} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %s", value)
}

// parseAmount strips a leading currency symbol and thousands separators, then
// parses the remainder as a decimal. Positive values are negated into the
// expense sign convention; a zero amount is rejected outright.
func parseAmount(value string) (decimal.Decimal, error) {
	cleaned := value
	negative := strings.HasPrefix(cleaned, "-")
	if negative {
		cleaned = cleaned[1:]
	}
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if negative {
		cleaned = "-" + cleaned
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("'%s' is not a number", value)
	}

	if amount.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("cannot be zero")
	}

	if amount.IsPositive() {
		amount = amount.Neg()
	}

	return amount, nil
}

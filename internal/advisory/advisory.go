// Package advisory implements the checks that warn but never block a
// conversion: tax-year mismatches, contributions large enough to need a
// receipt, and likely duplicate transactions.
package advisory

import (
	"fmt"
	"sort"
	"strings"

	"monarch-txf/internal/models"

	"github.com/shopspring/decimal"
)

// CheckTaxYear warns when a transaction's calendar year differs from the
// configured tax year. A taxYear of zero disables the check.
func CheckTaxYear(tx models.ValidatedTransaction, taxYear int) (string, bool) {
	if taxYear == 0 || tx.Date.Year() == taxYear {
		return "", false
	}
	return fmt.Sprintf("line %d: date %s is outside tax year %d",
		tx.LineNumber, tx.Date.Format("01/02/2006"), taxYear), true
}

// CheckReceiptThreshold warns when the absolute amount meets or exceeds the
// receipt threshold. The comparison is inclusive.
func CheckReceiptThreshold(tx models.ValidatedTransaction, threshold decimal.Decimal) (string, bool) {
	if tx.Amount.Abs().LessThan(threshold) {
		return "", false
	}
	return fmt.Sprintf("line %d: contribution of $%s requires a written receipt",
		tx.LineNumber, tx.Amount.Abs().StringFixed(2)), true
}

// FindDuplicates groups resolved transactions by (calendar day, organization,
// amount) and reports every group with two or more members. Groups are
// returned in first-appearance order with line numbers sorted ascending.
func FindDuplicates(transactions []models.ResolvedTransaction) []models.DuplicateGroup {
	type bucket struct {
		first models.ResolvedTransaction
		lines []int
	}

	buckets := make(map[string]*bucket)
	var order []string

	for _, tx := range transactions {
		key := strings.Join([]string{
			tx.Date.Format("2006-01-02"),
			tx.Organization,
			tx.Amount.String(),
		}, "|")

		b, ok := buckets[key]
		if !ok {
			b = &bucket{first: tx}
			buckets[key] = b
			order = append(order, key)
		}
		b.lines = append(b.lines, tx.LineNumber)
	}

	var groups []models.DuplicateGroup
	for _, key := range order {
		b := buckets[key]
		if len(b.lines) < 2 {
			continue
		}
		sort.Ints(b.lines)
		groups = append(groups, models.DuplicateGroup{
			Date:         b.first.Date,
			Organization: b.first.Organization,
			Amount:       b.first.Amount,
			LineNumbers:  b.lines,
		})
	}
	return groups
}

// FormatDuplicateWarning renders one duplicate group as a warning line.
func FormatDuplicateWarning(g models.DuplicateGroup) string {
	lines := make([]string, len(g.LineNumbers))
	for i, n := range g.LineNumbers {
		lines[i] = fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("possible duplicates on %s for %s ($%s): lines %s",
		g.Date.Format("01/02/2006"), g.Organization,
		g.Amount.Abs().StringFixed(2), strings.Join(lines, ", "))
}

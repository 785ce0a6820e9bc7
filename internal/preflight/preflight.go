// Package preflight verifies that every distinct payee in the input resolves
// to a configured organization before any row-level work runs. A failed gate
// reports every unmapped name, not just the first.
package preflight

import (
	"sort"
	"strings"

	"monarch-txf/internal/converr"
	"monarch-txf/internal/models"
	"monarch-txf/internal/resolver"
)

// DistinctPayees collects the distinct payee names appearing in the rows,
// de-duplicated by case-folded key. Each distinct name keeps the casing of
// its first occurrence in file order; the result is sorted
// case-insensitively, independent of file order.
func DistinctPayees(rows []models.RawRow) []string {
	seen := make(map[string]string, len(rows))
	var names []string

	for _, row := range rows {
		key := resolver.FoldKey(row.Merchant)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; !ok {
			seen[key] = row.Merchant
			names = append(names, row.Merchant)
		}
	}

	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// Check resolves every distinct payee against the index and returns one
// UnmappedPayeeError per unresolved name, in the same sorted order as
// DistinctPayees. An empty result means the gate passed.
func Check(payees []string, ix *resolver.Index) []error {
	var errs []error
	for _, name := range payees {
		if _, ok := ix.Resolve(name); !ok {
			errs = append(errs, &converr.UnmappedPayeeError{Payee: name})
		}
	}
	return errs
}

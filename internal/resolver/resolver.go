// Package resolver matches raw payee names against the configured
// organization mappings. Matching is case-insensitive, whitespace-trimmed and
// exact: "RED CROSS INC" does not match a mapping for "RED CROSS".
package resolver

import (
	"strings"

	"monarch-txf/internal/models"
)

// FoldKey normalizes a payee name for matching.
func FoldKey(payee string) string {
	return strings.ToLower(strings.TrimSpace(payee))
}

// Lookup performs a linear scan over the mappings and returns the first one
// whose payee matches. Earlier configuration entries shadow later duplicates.
func Lookup(payee string, mappings []models.OrganizationMapping) (models.OrganizationMapping, bool) {
	key := FoldKey(payee)
	for _, m := range mappings {
		if FoldKey(m.Payee) == key {
			return m, true
		}
	}
	return models.OrganizationMapping{}, false
}

// Index is a pre-built payee lookup table for O(1) resolution.
type Index struct {
	byKey map[string]models.OrganizationMapping
}

// NewIndex builds an Index from the mapping list. Duplicate case-folded keys
// keep the first occurrence, matching Lookup's linear-scan semantics.
func NewIndex(mappings []models.OrganizationMapping) *Index {
	byKey := make(map[string]models.OrganizationMapping, len(mappings))
	for _, m := range mappings {
		key := FoldKey(m.Payee)
		if _, exists := byKey[key]; !exists {
			byKey[key] = m
		}
	}
	return &Index{byKey: byKey}
}

// Resolve returns the mapping for a payee name, if one is configured.
func (ix *Index) Resolve(payee string) (models.OrganizationMapping, bool) {
	m, ok := ix.byKey[FoldKey(payee)]
	return m, ok
}

// Len returns the number of distinct case-folded keys in the index.
func (ix *Index) Len() int {
	return len(ix.byKey)
}

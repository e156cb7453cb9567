package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ProductSortFields contains allowed sort fields for investment products
var ProductSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"name":            true,
	"investment_type": true,
	"tenure_months":   true,
	"annual_yield":    true,
	"risk_level":      true,
	"min_investment":  true,
}

// InvestmentSortFields contains allowed sort fields for investments
var InvestmentSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"amount":          true,
	"expected_return": true,
	"invested_at":     true,
	"maturity_date":   true,
	"status":          true,
}

package utils

import "strings"

// Canonical listing tiers. Every legacy synonym resolves to exactly one of these.
const (
	TierFree     = "free"
	TierStandard = "standard"
	TierAdvanced = "advanced"
)

// NormalizeTier maps a raw tier value to the canonical vocabulary.
// The mapping precedence is fixed: high/premium/featured/advanced resolve to
// advanced, low/basic/standard resolve to standard, and anything else
// (including the empty string) falls through to free. Total and idempotent.
func NormalizeTier(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high", "premium", "featured", "advanced":
		return TierAdvanced
	case "low", "basic", "standard":
		return TierStandard
	default:
		return TierFree
	}
}

// ResolveTier derives the canonical tier from the two historical field names
// that may coexist on one record. The modern `tier` field wins when present;
// the legacy `package` field is consulted otherwise. Stored values are never
// trusted verbatim - both go through NormalizeTier.
func ResolveTier(tierField, packageField string) string {
	if strings.TrimSpace(tierField) != "" {
		return NormalizeTier(tierField)
	}
	return NormalizeTier(packageField)
}

// TierRank returns the sort priority of a canonical tier. Lower sorts first.
func TierRank(tier string) int {
	switch NormalizeTier(tier) {
	case TierAdvanced:
		return 0
	case TierStandard:
		return 1
	default:
		return 2
	}
}

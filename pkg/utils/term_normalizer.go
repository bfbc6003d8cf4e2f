package utils

import (
	"regexp"
	"strings"
)

// lettersDigitsRe matches compact treatment names like "bpc157" that are
// conventionally written hyphenated ("bpc-157").
var lettersDigitsRe = regexp.MustCompile(`^([a-z]+)([0-9]+)$`)

// NormalizeSearchTerm expands a user-entered search term into the variants a
// candidate lookup should try. The lowercased trimmed input is always first.
// Hyphenated terms gain a no-hyphen variant ("bpc-157" -> "bpc157") and
// compact letters+digits terms gain a hyphenated one ("bpc157" -> "bpc-157"),
// so lookups never depend on which spelling the listing happened to use.
func NormalizeSearchTerm(term string) []string {
	base := strings.ToLower(strings.TrimSpace(term))
	if base == "" {
		return nil
	}

	variants := []string{base}
	if strings.Contains(base, "-") {
		variants = append(variants, strings.ReplaceAll(base, "-", ""))
	} else if m := lettersDigitsRe.FindStringSubmatch(base); m != nil {
		variants = append(variants, m[1]+"-"+m[2])
	}
	return variants
}

// DeriveSearchableTerms builds the precomputed token index for a listing.
// The result is a superset of the tokens derivable from the name, services,
// city and state, including hyphen/no-hyphen treatment-name variants, so a
// keyword lookup never has to guess a specific normalization.
func DeriveSearchableTerms(name, city, state string, services, extra []string) []string {
	seen := make(map[string]bool)
	var terms []string

	add := func(value string) {
		for _, v := range NormalizeSearchTerm(value) {
			if v != "" && !seen[v] {
				seen[v] = true
				terms = append(terms, v)
			}
		}
	}

	add(name)
	for _, f := range strings.Fields(name) {
		add(f)
	}
	for _, s := range services {
		add(s)
		for _, f := range strings.Fields(s) {
			add(f)
		}
	}
	add(city)
	add(state)
	for _, e := range extra {
		add(e)
	}

	return terms
}

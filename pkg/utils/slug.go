package utils

import (
	"regexp"
	"strings"
)

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the URL-safe slug for a listing from its name, city and
// state. Runs of non-alphanumeric characters collapse to single hyphens.
func Slugify(name, city, state string) string {
	joined := strings.ToLower(strings.Join([]string{name, city, state}, " "))
	slug := nonSlugRe.ReplaceAllString(joined, "-")
	return strings.Trim(slug, "-")
}

package util

import (
	"regexp"
	"strings"
)

var nonSlugRunRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slug builds a URL-safe identifier from an offer's name, provider and external ID.
// The result is lowercase, uses single hyphens as separators and never starts or ends with one.
func Slug(name, provider, externalID string) string {
	raw := strings.ToLower(name + "-" + provider + "-" + externalID)
	return strings.Trim(nonSlugRunRegex.ReplaceAllString(raw, "-"), "-")
}

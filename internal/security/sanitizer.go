package security

import (
	"html"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	MaxPostLength   = 1000
	MaxAuthorLength = 80
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeString trims whitespace, removes null bytes and caps the length at
// max runes.
func SanitizeString(input string, max int) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if utf8.RuneCountInString(input) > max {
		input = string([]rune(input)[:max])
	}

	return input
}

// SanitizeHTML removes all HTML tags
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// SanitizeText strips markup and returns plain text, trimmed and capped at
// max runes. Entities escaped by the policy are decoded again; escaping is the
// renderer's job.
func SanitizeText(input string, max int) string {
	return SanitizeString(html.UnescapeString(SanitizeHTML(input)), max)
}

// ValidateMediaURL accepts empty strings and absolute http(s) URLs.
func ValidateMediaURL(raw string) bool {
	if raw == "" {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

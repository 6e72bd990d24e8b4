package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ListSeparator joins multi-valued fixture cells.
const ListSeparator = "|"

// DisplayNameFromID turns an account id such as "user-1" or "local_guide.lina"
// into a human readable name ("User 1", "Local Guide Lina").
func DisplayNameFromID(id string) string {
	fields := strings.FieldsFunc(strings.TrimSpace(id), func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' '
	})
	if len(fields) == 0 {
		return ""
	}
	// Casers carry state and must not be shared across goroutines.
	return cases.Title(language.English).String(strings.Join(fields, " "))
}

// NormalizeID lowercases and trims an identifier taken from a URL or a fixture cell.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// SplitList splits a "|" separated cell into trimmed, non-empty items.
func SplitList(cell string) []string {
	var out []string
	for _, part := range strings.Split(cell, ListSeparator) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

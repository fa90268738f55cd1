package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeEmail lowercases an address and strips all whitespace so
// variants of the same address compare equal.
func NormalizeEmail(email string) string {
	email = strings.ToLower(email)
	email = whitespaceRegex.ReplaceAllString(email, "")
	return email
}

package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// Swedish organization number, with or without the century prefix
	OrgNumberPattern = `^(\d{6}|\d{8})-?\d{4}$`
)

// CompiledPatterns caches compiled regex patterns.
var CompiledPatterns = struct {
	Email     *regexp.Regexp
	OrgNumber *regexp.Regexp
}{
	Email:     regexp.MustCompile(EmailPattern),
	OrgNumber: regexp.MustCompile(OrgNumberPattern),
}

// IsEmail reports whether value looks like an email address.
func IsEmail(value string) bool {
	return CompiledPatterns.Email.MatchString(strings.TrimSpace(value))
}

// IsOrgNumber reports whether value looks like an organization number.
func IsOrgNumber(value string) bool {
	return CompiledPatterns.OrgNumber.MatchString(strings.TrimSpace(value))
}

// Package wallet owns the canonical wallet address form: "0x" followed by
// 40 hexadecimal digits, lower-cased. Every write path normalizes through
// this package before touching storage so stored values are always
// canonical and uniqueness never depends on case-insensitive comparison.
package wallet

import (
	"regexp"
	"strings"

	dErrors "lexid/pkg/domain-errors"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

// Normalize lower-cases the address and validates the canonical form.
// Idempotent: Normalize(Normalize(w)) == Normalize(w).
//
// Errors: CodeValidation when the input does not match 0x + 40 hex digits.
func Normalize(address string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(address))
	if !addressPattern.MatchString(normalized) {
		return "", dErrors.New(dErrors.CodeValidation, "wallet address must be 0x followed by 40 hex characters")
	}
	return normalized, nil
}

// IsCanonical reports whether the address is already in canonical form.
func IsCanonical(address string) bool {
	return addressPattern.MatchString(address)
}

// Package service contains domain logic and collaborator interfaces that do
// not belong to any single entity.
package service

import (
	"strings"
)

// Default canonicalization parameters for Bangladeshi numbers.
const (
	DefaultCountryCode    = "880"
	DefaultMinLocalDigits = 8
	DefaultMaxLocalDigits = 11
)

// PhoneNormalizer canonicalizes raw phone strings into the single comparable
// key format used to deduplicate customers. It is pure and deterministic:
// any instability here silently fragments a customer across duplicates.
type PhoneNormalizer struct {
	countryCode    string
	minLocalDigits int
	maxLocalDigits int
}

// NewPhoneNormalizer builds a normalizer for the given country code and
// accepted local-number length range. Zero values fall back to the defaults.
func NewPhoneNormalizer(countryCode string, minLocalDigits, maxLocalDigits int) *PhoneNormalizer {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	if minLocalDigits <= 0 {
		minLocalDigits = DefaultMinLocalDigits
	}
	if maxLocalDigits <= 0 {
		maxLocalDigits = DefaultMaxLocalDigits
	}

	return &PhoneNormalizer{
		countryCode:    countryCode,
		minLocalDigits: minLocalDigits,
		maxLocalDigits: maxLocalDigits,
	}
}

// Normalize returns the canonical key "+<code><local>" for a raw phone
// string, or ("", false) when the input is empty, not a number, or the local
// part falls outside the accepted digit range. Invalid input is a skip
// signal, not an error.
func (n *PhoneNormalizer) Normalize(raw string) (string, bool) {
	digits := digitsOnly(raw)
	if digits == "" {
		return "", false
	}

	// Rewrite the leading trunk "0" with the country code, or prepend the
	// code when the number carries neither.
	switch {
	case strings.HasPrefix(digits, n.countryCode):
		// Already prefixed.
	case strings.HasPrefix(digits, "0"):
		digits = n.countryCode + digits[1:]
	default:
		digits = n.countryCode + digits
	}

	local := digits[len(n.countryCode):]
	if len(local) < n.minLocalDigits || len(local) > n.maxLocalDigits {
		return "", false
	}

	return "+" + digits, true
}

// digitsOnly strips everything but ASCII digits.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

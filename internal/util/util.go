// Package util holds small helpers shared across pipelines.
package util

import (
	"strconv"
	"strings"
)

// ParseAmount coerces a money cell to a float. Thousands separators are
// stripped first ("1,250.50" -> 1250.50). The boolean is false for empty or
// unparseable input; callers log and skip instead of aborting the file.
func ParseAmount(raw string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}

	return value, true
}

// ParseQuantity coerces a quantity cell to a float, treating unparseable
// values as missing.
func ParseQuantity(raw string) (float64, bool) {
	return ParseAmount(raw)
}

// DigitRun returns the first run of exactly n consecutive digits in s, or
// "" when no such run exists. Runs longer than n do not match: an 11-digit
// phone token must not be mistaken for an 8-digit date token.
func DigitRun(s string, n int) string {
	runStart := -1
	for i := 0; i <= len(s); i++ {
		isDigit := i < len(s) && s[i] >= '0' && s[i] <= '9'
		if isDigit {
			if runStart < 0 {
				runStart = i
			}

			continue
		}
		if runStart >= 0 && i-runStart == n {
			return s[runStart:i]
		}
		runStart = -1
	}

	return ""
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhoneNormalizer_EquivalentSpellings(t *testing.T) {
	normalizer := NewPhoneNormalizer("880", 8, 11)

	// Every spelling of the same number must land on one canonical key.
	spellings := []string{
		"01712345678",
		"01712-345678",
		"0171 234 5678",
		"8801712345678",
		"+8801712345678",
		"+880 1712 345678",
		"1712345678",
	}
	for _, raw := range spellings {
		got, ok := normalizer.Normalize(raw)
		assert.True(t, ok, "spelling %q", raw)
		assert.Equal(t, "+8801712345678", got, "spelling %q", raw)
	}
}

func TestPhoneNormalizer_RejectsOutOfRange(t *testing.T) {
	normalizer := NewPhoneNormalizer("880", 8, 11)

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "not a number", raw: "call me maybe"},
		{name: "too short", raw: "0123456"},
		{name: "too long", raw: "0123456789012"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalizer.Normalize(tt.raw)
			assert.False(t, ok)
			assert.Empty(t, got, "invalid input must never yield a malformed key")
		})
	}
}

func TestPhoneNormalizer_Defaults(t *testing.T) {
	normalizer := NewPhoneNormalizer("", 0, 0)
	got, ok := normalizer.Normalize("01712345678")
	assert.True(t, ok)
	assert.Equal(t, "+8801712345678", got)
}

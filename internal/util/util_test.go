package util

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
		ok   bool
	}{
		{name: "plain", raw: "450", want: 450, ok: true},
		{name: "decimal", raw: "99.50", want: 99.50, ok: true},
		{name: "thousands separator", raw: "1,250.50", want: 1250.50, ok: true},
		{name: "leading spaces", raw: "  300 ", want: 300, ok: true},
		{name: "empty", raw: "", ok: false},
		{name: "not a number", raw: "free", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("ParseAmount(%q) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDigitRun(t *testing.T) {
	tests := []struct {
		name string
		s    string
		n    int
		want string
	}{
		{name: "date token", s: "call_20250114_01712345678.mp3", n: 8, want: "20250114"},
		{name: "phone token", s: "call_20250114_01712345678.mp3", n: 11, want: "01712345678"},
		{name: "longer run does not match", s: "123456789", n: 8, want: ""},
		{name: "no digits", s: "recording.mp3", n: 8, want: ""},
		{name: "run at end of string", s: "rec-01712345678", n: 11, want: "01712345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DigitRun(tt.s, tt.n); got != tt.want {
				t.Fatalf("DigitRun(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
			}
		})
	}
}

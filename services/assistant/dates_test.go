package assistant

import (
	"testing"
	"time"
)

var clock = time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)

func TestParseDateToken(t *testing.T) {
	cases := []struct {
		text string
		want string
		ok   bool
	}{
		{"book room 2 today", "2025-11-20", true},
		{"is room 1 free tomorrow", "2025-11-21", true},
		{"book room 2 on 2025-12-01 please", "2025-12-01", true},
		{"2025/12/01", "2025-12-01", true},
		{"2025.12.1", "2025-12-01", true},
		{"2025-11-3", "2025-11-03", true},
		// Range checks only; no calendar validation.
		{"2025-02-31", "2025-02-31", true},
		{"2025-13-01", "", false},
		{"2025-00-10", "", false},
		{"2025-01-32", "", false},
		{"1899-01-01", "", false},
		{"next friday", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ParseDateToken(c.text, clock)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseDateToken(%q) = (%q, %v), want (%q, %v)", c.text, got, ok, c.want, c.ok)
		}
	}
}

func TestParseDayCountClamps(t *testing.T) {
	cases := []struct {
		text string
		want int
		ok   bool
	}{
		{"for 2 days", 2, true},
		{"1 day", 1, true},
		{"stay 10 days", 5, true},
		{"0 days", 1, true},
		{"5days", 5, true},
		{"no duration here", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseDayCount(c.text)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseDayCount(%q) = (%d, %v), want (%d, %v)", c.text, got, ok, c.want, c.ok)
		}
	}
}

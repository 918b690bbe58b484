package assistant

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var explicitDate = regexp.MustCompile(`(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})`)
var dayCount = regexp.MustCompile(`(\d+)\s*day`)

// ParseDateToken extracts a date from free text. "today" and "tomorrow"
// resolve against the given clock; explicit dates must look like
// YYYY-M-D with a plausible month (1-12) and day (1-31). There is no
// calendar validation beyond the range checks, so "2025-02-31" passes.
// The result is normalized to zero-padded YYYY-MM-DD.
func ParseDateToken(text string, now time.Time) (string, bool) {
	q := strings.ToLower(text)
	if strings.Contains(q, "today") {
		return now.Format("2006-01-02"), true
	}
	if strings.Contains(q, "tomorrow") {
		return now.AddDate(0, 0, 1).Format("2006-01-02"), true
	}
	m := explicitDate.FindStringSubmatch(q)
	if m == nil {
		return "", false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	if y <= 1900 || mo < 1 || mo > 12 || d < 1 || d > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, mo, d), true
}

// ParseDayCount finds a "N day(s)" phrase and clamps the count into [1,5];
// "10 days" silently becomes 5. Returns false when no day phrase is present.
func ParseDayCount(text string) (int, bool) {
	m := dayCount.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return clampDays(n), true
}

func clampDays(n int) int {
	if n < 1 {
		return 1
	}
	if n > 5 {
		return 5
	}
	return n
}

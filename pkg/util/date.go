package util

import (
	"strconv"
	"time"
)

// NextBusinessDay returns the first Mon-Fri day strictly after t.
func NextBusinessDay(t time.Time) time.Time {
	t = t.AddDate(0, 0, 1)
	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// BusinessDays returns n consecutive business-day timestamps strictly after
// start, weekends skipped.
func BusinessDays(start time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	t := start
	for i := 0; i < n; i++ {
		t = NextBusinessDay(t)
		out = append(out, t)
	}
	return out
}

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

package util

import (
	"strconv"
	"testing"
	"time"
)

func TestNextBusinessDaySkipsWeekend(t *testing.T) {
	friday := time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)
	got := NextBusinessDay(friday)
	if got.Weekday() != time.Monday {
		t.Fatalf("expected Monday, got %v", got.Weekday())
	}
	if !got.After(friday) {
		t.Fatalf("expected day strictly after input")
	}
}

func TestNextBusinessDayMidweek(t *testing.T) {
	tuesday := time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)
	got := NextBusinessDay(tuesday)
	if got.Weekday() != time.Wednesday {
		t.Fatalf("expected Wednesday, got %v", got.Weekday())
	}
}

func TestBusinessDays(t *testing.T) {
	start := time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC) // Thursday
	days := BusinessDays(start, 5)
	if len(days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(days))
	}
	prev := start
	for _, d := range days {
		if !d.After(prev) {
			t.Fatalf("days not strictly ascending")
		}
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			t.Fatalf("weekend day %v", d)
		}
		prev = d
	}
	// Thu -> Fri, Mon, Tue, Wed, Thu
	if days[1].Weekday() != time.Monday {
		t.Fatalf("expected weekend skipped, got %v", days[1].Weekday())
	}
}

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeInvalid(t *testing.T) {
	if _, ok := ParseTime("not a time"); ok {
		t.Fatalf("expected failure")
	}
	if _, ok := ParseTime(""); ok {
		t.Fatalf("expected failure for empty input")
	}
}

package facts

import (
	"reflect"
	"testing"
	"time"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("time zone %s not available: %v", name, err)
	}
	return loc
}

func TestTodayUsesTimeZone(t *testing.T) {
	instant := time.Date(2024, time.July, 5, 2, 0, 0, 0, time.UTC)

	if got := Today(instant, time.UTC); got != (DateKey{7, 5}) {
		t.Fatalf("UTC: got %v", got)
	}

	la := mustLoad(t, "America/Los_Angeles")
	if got := Today(instant, la); got != (DateKey{7, 4}) {
		t.Fatalf("Los Angeles: got %v", got)
	}

	// nil keeps the instant's own location.
	if got := Today(instant.In(la), nil); got != (DateKey{7, 4}) {
		t.Fatalf("nil location: got %v", got)
	}
}

func TestWeekOfAcrossYearBoundary(t *testing.T) {
	// Wednesday, January 1st 2025.
	instant := time.Date(2025, time.January, 1, 9, 30, 0, 0, time.UTC)

	want := []DateKey{{12, 29}, {12, 30}, {12, 31}, {1, 1}, {1, 2}, {1, 3}, {1, 4}}
	if got := WeekOf(instant, time.UTC); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestWeekOfStartsOnSundayReference(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	// Sunday March 10th 2024 is the spring-forward day in New York.
	instant := time.Date(2024, time.March, 10, 23, 59, 0, 0, ny)

	want := []DateKey{{3, 10}, {3, 11}, {3, 12}, {3, 13}, {3, 14}, {3, 15}, {3, 16}}
	if got := WeekOf(instant, ny); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestWeekOfIncludesLeapDay(t *testing.T) {
	instant := time.Date(2024, time.February, 28, 12, 0, 0, 0, time.UTC)

	want := []DateKey{{2, 25}, {2, 26}, {2, 27}, {2, 28}, {2, 29}, {3, 1}, {3, 2}}
	if got := WeekOf(instant, time.UTC); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestWeekOfProperties(t *testing.T) {
	start := time.Date(2023, time.January, 1, 18, 0, 0, 0, time.UTC)
	for i := 0; i < 800; i++ {
		now := start.AddDate(0, 0, i)
		keys := WeekOf(now, time.UTC)

		if len(keys) != DaysPerWeek {
			t.Fatalf("%s: expected %d keys, got %d", now, DaysPerWeek, len(keys))
		}

		seen := make(map[DateKey]bool)
		containsToday := false
		for _, k := range keys {
			if seen[k] {
				t.Fatalf("%s: duplicate key %v in %v", now, k, keys)
			}
			seen[k] = true
			if k == Today(now, time.UTC) {
				containsToday = true
			}
		}
		if !containsToday {
			t.Fatalf("%s: week %v does not contain today", now, keys)
		}

		sunday := now.AddDate(0, 0, -int(now.Weekday()))
		if keys[0] != KeyOf(sunday) {
			t.Fatalf("%s: week starts on %v, want %v", now, keys[0], KeyOf(sunday))
		}
	}
}

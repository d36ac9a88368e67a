package facts

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DaysPerWeek is the number of keys returned by WeekOf.
const DaysPerWeek = 7

// leapYear is used to size months; Feb 29 is a valid key.
const leapYear = 2000

// NewDateKey builds a validated key.
func NewDateKey(month, day int) (DateKey, error) {
	k := DateKey{Month: month, Day: day}
	if err := k.Validate(); err != nil {
		return DateKey{}, err
	}
	return k, nil
}

// KeyOf returns the key for the calendar day of t in its own location.
func KeyOf(t time.Time) DateKey {
	return DateKey{Month: int(t.Month()), Day: t.Day()}
}

// Validate checks that the day exists in the month.
func (k DateKey) Validate() error {
	if k.Month < 1 || k.Month > 12 {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidKey, k.Month)
	}
	if k.Day < 1 || k.Day > daysIn(time.Month(k.Month)) {
		return fmt.Errorf("%w: day %d out of range for month %d", ErrInvalidKey, k.Day, k.Month)
	}
	return nil
}

// ParseDateKey accepts "M/D" or "MM-DD".
func ParseDateKey(s string) (DateKey, error) {
	sep := "/"
	if strings.Contains(s, "-") {
		sep = "-"
	}
	parts := strings.Split(strings.TrimSpace(s), sep)
	if len(parts) != 2 {
		return DateKey{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return DateKey{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return DateKey{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return NewDateKey(month, day)
}

func daysIn(m time.Month) int {
	return time.Date(leapYear, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

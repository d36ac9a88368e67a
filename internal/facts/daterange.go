package facts

import "time"

// Today returns the key of the calendar day of now in loc.
// A nil loc means the location already carried by now.
func Today(now time.Time, loc *time.Location) DateKey {
	return KeyOf(inZone(now, loc))
}

// WeekOf returns the seven keys of the Sunday-first calendar week containing
// now in loc, in chronological order.
func WeekOf(now time.Time, loc *time.Location) []DateKey {
	t := inZone(now, loc)

	// Noon keeps AddDate clear of DST transitions.
	sunday := time.Date(t.Year(), t.Month(), t.Day()-int(t.Weekday()), 12, 0, 0, 0, t.Location())

	keys := make([]DateKey, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		keys = append(keys, KeyOf(sunday.AddDate(0, 0, i)))
	}
	return keys
}

func inZone(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}
